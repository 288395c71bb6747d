package game

import (
	"strings"

	"github.com/notnil/chess"
	"github.com/pkg/errors"
)

// ErrMalformedPosition is returned when a position string cannot be decoded.
// Every query against such a position is indeterminate.
var ErrMalformedPosition = errors.New("malformed position")

// Board is an immutable square to occupant snapshot decoded from a FEN string.
// It is safe for concurrent use.
type Board struct {
	fen     string
	squares [RowNum * ColNum]Occupant
	counts  [len(kindNames)]int
	turn    Color
	pos     *chess.Position
}

// Decode builds a Board from a FEN string. A bare piece-placement field is
// accepted and completed with white to move and no castling rights.
func Decode(fen string) (*Board, error) {
	fen = strings.TrimSpace(fen)
	if fen == "" {
		return nil, errors.Wrap(ErrMalformedPosition, "empty position string")
	}
	switch fields := strings.Fields(fen); len(fields) {
	case 1:
		fen += " w - - 0 1"
	case 4:
		fen += " 0 1"
	}

	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, errors.Wrapf(ErrMalformedPosition, "decode %q: %v", fen, err)
	}
	pos := chess.NewGame(opt).Position()

	b := &Board{fen: fen, pos: pos, turn: White}
	if pos.Turn() == chess.Black {
		b.turn = Black
	}
	for sq, p := range pos.Board().SquareMap() {
		o := fromChessPiece(p)
		if o.Empty() {
			continue
		}
		b.squares[sq] = o
		b.counts[o.Kind]++
	}
	return b, nil
}

// MustDecode is like Decode but panics on a malformed position. Intended for
// tests and package-level fixtures.
func MustDecode(fen string) *Board {
	b, err := Decode(fen)
	if err != nil {
		panic(err)
	}
	return b
}

// PieceAt returns the occupant of sq. Off-board squares are empty.
func (b *Board) PieceAt(sq Square) Occupant {
	if !sq.Valid() {
		return Occupant{}
	}
	return b.squares[sq]
}

// Occupied reports whether any piece sits on sq.
func (b *Board) Occupied(sq Square) bool { return !b.PieceAt(sq).Empty() }

// ExistsAnywhere reports whether a piece of kind k exists for either color.
func (b *Board) ExistsAnywhere(k Kind) bool {
	if k == NoKind || int(k) >= len(b.counts) {
		return false
	}
	return b.counts[k] > 0
}

// Squares returns the squares holding kind k of color c, ordered by file then rank.
func (b *Board) Squares(k Kind, c Color) []Square {
	var out []Square
	for f := 0; f < ColNum; f++ {
		for r := 0; r < RowNum; r++ {
			sq := NewSquare(f, r)
			if o := b.squares[sq]; o.Kind == k && o.Color == c {
				out = append(out, sq)
			}
		}
	}
	return out
}

// FEN returns the normalised position string the board was decoded from.
func (b *Board) FEN() string { return b.fen }

// Turn returns the side to move.
func (b *Board) Turn() Color { return b.turn }

// Position exposes the underlying rules-engine position.
func (b *Board) Position() *chess.Position { return b.pos }
