package refs

import (
	"regexp"
	"strings"

	"github.com/coachcheck/game"
)

var (
	naturalRe = regexp.MustCompile(`(?i)(?:(?:white|black)['\x{2019}]?s?\s+)?(?:(?:the|a)\s+)?` +
		`(king|queen|rook|bishop|knight|pawn)(?:\s+on)?\s+([a-h][1-8])`)
	compactRe = regexp.MustCompile(`([KQRBNP])([a-h][1-8])`)
	bareRe    = regexp.MustCompile(`\b([a-h][1-8])\b`)
)

// NaturalLanguage matches an optional color possessive and article, a piece
// word, an optional "on" and a square: "bishop e5", "the knight on c3",
// "white's rook f1". Matching is case-insensitive. A square immediately
// followed by a letter or digit ("e10", "e4x") is not a square.
func NaturalLanguage(text string) []Match {
	var out []Match
	for _, loc := range naturalRe.FindAllStringSubmatchIndex(text, -1) {
		if loc[1] < len(text) && isAlnum(text[loc[1]]) {
			continue
		}
		sq, ok := game.ParseSquare(text[loc[4]:loc[5]])
		if !ok {
			continue
		}
		out = append(out, Match{
			Ref:   Reference{Kind: game.KindFromName(text[loc[2]:loc[3]]), Square: sq},
			Start: loc[0],
			End:   loc[1],
		})
	}
	return out
}

// CompactNotation matches an uppercase piece letter immediately followed by a
// square ("Nf3", "Be5") that is not glued to surrounding letters, so "ANd5" or
// "Nf3rd" do not match.
func CompactNotation(text string) []Match {
	var out []Match
	for _, loc := range compactRe.FindAllStringSubmatchIndex(text, -1) {
		if loc[0] > 0 && isLetter(text[loc[0]-1]) {
			continue
		}
		if loc[1] < len(text) && isAlnum(text[loc[1]]) {
			continue
		}
		sq, _ := game.ParseSquare(text[loc[4]:loc[5]])
		out = append(out, Match{
			Ref:   Reference{Kind: game.KindFromLetter(text[loc[2]]), Square: sq},
			Start: loc[0],
			End:   loc[1],
		})
	}
	return out
}

// BareSquares matches lowercase square tokens standing on their own. The
// resulting references carry no kind.
func BareSquares(text string) []Match {
	var out []Match
	for _, loc := range bareRe.FindAllStringSubmatchIndex(text, -1) {
		sq, _ := game.ParseSquare(strings.ToLower(text[loc[2]:loc[3]]))
		out = append(out, Match{Ref: Reference{Square: sq}, Start: loc[0], End: loc[1]})
	}
	return out
}

func isLetter(c byte) bool { return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') }

func isAlnum(c byte) bool { return isLetter(c) || ('0' <= c && c <= '9') }
