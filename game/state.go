package game

import (
	"strings"

	"github.com/notnil/chess"
)

// Kind is the kind of a chess piece. The zero value means "no kind claimed".
type Kind uint8

const (
	NoKind Kind = iota
	King
	Queen
	Rook
	Bishop
	Knight
	Pawn
)

const (
	RowNum = 8
	ColNum = 8
)

// Kinds lists every piece kind in canonical K, Q, R, B, N, P order.
var Kinds = []Kind{King, Queen, Rook, Bishop, Knight, Pawn}

var kindNames = [...]string{"", "king", "queen", "rook", "bishop", "knight", "pawn"}

var kindLetters = [...]byte{0, 'K', 'Q', 'R', 'B', 'N', 'P'}

// String returns the lowercase English name of the kind, or "" for NoKind.
func (k Kind) String() string {
	if int(k) >= len(kindNames) {
		return ""
	}
	return kindNames[k]
}

// MarshalText renders the kind by name in JSON.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Letter returns the uppercase compact-notation letter of the kind.
func (k Kind) Letter() byte {
	if int(k) >= len(kindLetters) {
		return 0
	}
	return kindLetters[k]
}

// KindFromName maps a piece word (any case) to its Kind.
func KindFromName(name string) Kind {
	for i := 1; i < len(kindNames); i++ {
		if strings.EqualFold(name, kindNames[i]) {
			return Kind(i)
		}
	}
	return NoKind
}

// KindFromLetter maps an uppercase compact-notation letter to its Kind.
// Lowercase letters are not piece letters.
func KindFromLetter(c byte) Kind {
	for i := 1; i < len(kindLetters); i++ {
		if kindLetters[i] == c {
			return Kind(i)
		}
	}
	return NoKind
}

// Color is the side a piece belongs to.
type Color uint8

const (
	NoColor Color = iota
	White
	Black
)

func (c Color) String() string {
	switch c {
	case White:
		return "white"
	case Black:
		return "black"
	}
	return ""
}

func (c Color) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// Occupant is what sits on a square. The zero value is an empty square.
type Occupant struct {
	Kind  Kind  `json:"kind,omitempty"`
	Color Color `json:"color,omitempty"`
}

// Empty reports whether no piece occupies the square.
func (o Occupant) Empty() bool { return o.Kind == NoKind }

func fromChessPiece(p chess.Piece) Occupant {
	var o Occupant
	switch p.Type() {
	case chess.King:
		o.Kind = King
	case chess.Queen:
		o.Kind = Queen
	case chess.Rook:
		o.Kind = Rook
	case chess.Bishop:
		o.Kind = Bishop
	case chess.Knight:
		o.Kind = Knight
	case chess.Pawn:
		o.Kind = Pawn
	default:
		return Occupant{}
	}
	switch p.Color() {
	case chess.White:
		o.Color = White
	case chess.Black:
		o.Color = Black
	}
	return o
}
