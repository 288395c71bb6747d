package refs

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/coachcheck/game"
)

func ref(kind game.Kind, square string) Reference {
	sq, ok := game.ParseSquare(square)
	if !ok {
		panic("bad square " + square)
	}
	return Reference{Kind: kind, Square: sq}
}

func refsOf(ms []Match) []Reference {
	out := make([]Reference, len(ms))
	for i, m := range ms {
		out[i] = m.Ref
	}
	return out
}

func TestNaturalLanguage(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Reference
	}{
		{"bare piece word", "bishop e5", []Reference{ref(game.Bishop, "e5")}},
		{"article and on", "the knight on c3", []Reference{ref(game.Knight, "c3")}},
		{"color possessive", "white's rook f1", []Reference{ref(game.Rook, "f1")}},
		{"curly apostrophe", "black’s queen d8", []Reference{ref(game.Queen, "d8")}},
		{"case insensitive", "The Bishop On E5", []Reference{ref(game.Bishop, "e5")}},
		{"several", "pawn d4 supports the knight on e5", []Reference{ref(game.Pawn, "d4"), ref(game.Knight, "e5")}},
		{"two digit rank", "pawn e10", nil},
		{"off board file", "rook i4", nil},
		{"glued letter", "pawn e4x", nil},
		{"plural is not a piece word", "pawns e4", nil},
		{"no square", "the bishop is strong", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := refsOf(NaturalLanguage(tt.text))
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompactNotation(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Reference
	}{
		{"knight", "Nf3", []Reference{ref(game.Knight, "f3")}},
		{"in sentence", "After Be5 and Qd1, white is fine.", []Reference{ref(game.Bishop, "e5"), ref(game.Queen, "d1")}},
		{"every letter", "Ka1 Qb2 Rc3 Bd4 Ne5 Pf6", []Reference{
			ref(game.King, "a1"), ref(game.Queen, "b2"), ref(game.Rook, "c3"),
			ref(game.Bishop, "d4"), ref(game.Knight, "e5"), ref(game.Pawn, "f6"),
		}},
		{"lowercase letter", "nf3", nil},
		{"inside word", "ANd5 Nf3rd", nil},
		{"check suffix", "Nf3+", []Reference{ref(game.Knight, "f3")}},
		{"uppercase square", "NF3", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := refsOf(CompactNotation(tt.text))
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBareSquares(t *testing.T) {
	got := refsOf(BareSquares("control e4, d5 and 1.c4 but not e10 or Nf3"))
	assert.Equal(t, []Reference{
		{Square: ref(game.NoKind, "e4").Square},
		{Square: ref(game.NoKind, "d5").Square},
		{Square: ref(game.NoKind, "c4").Square},
	}, got)
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Reference
	}{
		{
			name: "refs line",
			text: "REFS: pawn e4\nCOACHING: Good central control.",
			want: []Reference{ref(game.Pawn, "e4")},
		},
		{
			name: "merged in text order",
			text: "Nf3 develops, then the bishop on c4 eyes f7.",
			want: []Reference{ref(game.Knight, "f3"), ref(game.Bishop, "c4"), ref(game.NoKind, "f7")},
		},
		{
			name: "duplicates collapse",
			text: "bishop e5, Bishop on e5, Be5",
			want: []Reference{ref(game.Bishop, "e5")},
		},
		{
			name: "bare square distinct from kinded claim",
			text: "pawn e4 then e4 again",
			want: []Reference{ref(game.Pawn, "e4"), ref(game.NoKind, "e4")},
		},
		{
			name: "nothing",
			text: "Keep developing and castle early.",
			want: []Reference{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Extract(tt.text))
		})
	}
}

func TestJoin(t *testing.T) {
	assert.Equal(t, "bishop e5, d4", Join([]Reference{ref(game.Bishop, "e5"), ref(game.NoKind, "d4")}))
	assert.Equal(t, "", Join(nil))
}
