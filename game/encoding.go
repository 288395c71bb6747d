package game

import "strings"

// Describe renders the piece placement of b for a prompt, one line per color:
//
//	White: King g1, Queen d1, Rook a1, Rook f1, Pawns a2 b2 c2
//	Black: King e8, ...
func Describe(b *Board) string {
	var sb strings.Builder
	for i, c := range []Color{White, Black} {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(strings.ToUpper(c.String()[:1]) + c.String()[1:])
		sb.WriteString(": ")

		var segments []string
		for _, k := range Kinds {
			squares := b.Squares(k, c)
			if len(squares) == 0 {
				continue
			}
			name := strings.ToUpper(k.String()[:1]) + k.String()[1:]
			if k == Pawn {
				names := make([]string, len(squares))
				for j, sq := range squares {
					names[j] = sq.String()
				}
				segments = append(segments, "Pawns "+strings.Join(names, " "))
				continue
			}
			for _, sq := range squares {
				segments = append(segments, name+" "+sq.String())
			}
		}
		sb.WriteString(strings.Join(segments, ", "))
	}
	return sb.String()
}

// OccupiedSquares lists every occupied square in a1..h8 order.
func OccupiedSquares(b *Board) []Square {
	var out []Square
	for sq := Square(0); sq.Valid(); sq++ {
		if b.Occupied(sq) {
			out = append(out, sq)
		}
	}
	return out
}
