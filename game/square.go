package game

import "regexp"

// Square is a board coordinate laid out like chess.Square: a1 = 0, b1 = 1, ..., h8 = 63.
type Square int8

const NoSquare Square = -1

// NewSquare builds a square from zero-based file and rank indexes.
func NewSquare(file, rank int) Square {
	if file < 0 || file >= ColNum || rank < 0 || rank >= RowNum {
		return NoSquare
	}
	return Square(rank*ColNum + file)
}

func (sq Square) File() int { return int(sq) % ColNum }
func (sq Square) Rank() int { return int(sq) / ColNum }

// Valid reports whether sq is on the board.
func (sq Square) Valid() bool { return sq >= 0 && int(sq) < RowNum*ColNum }

func (sq Square) String() string {
	if !sq.Valid() {
		return "-"
	}
	return string([]byte{byte('a' + sq.File()), byte('1' + sq.Rank())})
}

func (sq Square) MarshalText() ([]byte, error) { return []byte(sq.String()), nil }

// ParseSquare parses an algebraic square name such as "e4". The file letter may
// be upper case.
func ParseSquare(s string) (Square, bool) {
	if len(s) != 2 {
		return NoSquare, false
	}
	f, r := lower(s[0]), s[1]
	if f < 'a' || f > 'h' || r < '1' || r > '8' {
		return NoSquare, false
	}
	return NewSquare(int(f-'a'), int(r-'1')), true
}

// TokenClass classifies an alphanumeric run of text.
type TokenClass int

const (
	// NotSquare is ordinary text.
	NotSquare TokenClass = iota
	// ValidSquare is "e4" or a compact piece letter plus square ("Nf3").
	ValidSquare
	// MalformedSquare looks like a square ("g9", "i4", "e10") but is off the board.
	MalformedSquare
)

func (c TokenClass) String() string {
	switch c {
	case ValidSquare:
		return "valid"
	case MalformedSquare:
		return "malformed"
	}
	return "text"
}

// Token is a square-shaped run found in text.
type Token struct {
	Text   string
	Square Square // NoSquare unless Class == ValidSquare
	Class  TokenClass
	Offset int
}

var (
	sanPrefix    = regexp.MustCompile(`^[KQRBNP]?[a-h]?[1-8]?x?$`)
	squareShaped = regexp.MustCompile(`^[KQRBNP]?x?[A-Za-z][0-9]+$`)
	pieceNumber  = regexp.MustCompile(`^[KQRBNP][0-9]+$`)
)

// ClassifyToken classifies one alphanumeric run. A run ending in a square
// after a SAN-style prefix ("Nf3", "exd5", "Nbd2") is a valid square token.
func ClassifyToken(run string) (Square, TokenClass) {
	if sq, ok := ParseSquare(run); ok {
		return sq, ValidSquare
	}
	if n := len(run); n > 2 {
		if sq, ok := ParseSquare(run[n-2:]); ok && sanPrefix.MatchString(run[:n-2]) {
			return sq, ValidSquare
		}
	}
	// A piece letter with no file ("R1", "Q4") is shorthand, not a square.
	if squareShaped.MatchString(run) && !pieceNumber.MatchString(run) {
		return NoSquare, MalformedSquare
	}
	return NoSquare, NotSquare
}

// ScanTokens returns every square-shaped run in text, valid or malformed, in
// order of appearance.
func ScanTokens(text string) []Token {
	var out []Token
	for i := 0; i < len(text); {
		if !isAlnum(text[i]) {
			i++
			continue
		}
		j := i
		for j < len(text) && isAlnum(text[j]) {
			j++
		}
		run := text[i:j]
		if sq, class := ClassifyToken(run); class != NotSquare {
			out = append(out, Token{Text: run, Square: sq, Class: class, Offset: i})
		}
		i = j
	}
	return out
}

func lower(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}

func isAlnum(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}
