// Package refs extracts piece and square claims from free text.
//
// Three independent matchers scan the text: the natural-language form
// ("the knight on c3", "white's rook f1"), the compact form ("Nf3", "Be5") and
// bare squares ("e4"). Their matches are merged by position and de-duplicated
// on (kind, square).
package refs

import (
	"sort"
	"strings"

	"github.com/coachcheck/game"
)

// Reference is a claim that a piece, or any piece when Kind is game.NoKind,
// stands on Square.
type Reference struct {
	Kind   game.Kind   `json:"kind,omitempty"`
	Square game.Square `json:"square"`
}

func (r Reference) String() string {
	if r.Kind == game.NoKind {
		return r.Square.String()
	}
	return r.Kind.String() + " " + r.Square.String()
}

// Match is a reference together with the byte span of text it came from.
type Match struct {
	Ref        Reference
	Start, End int
}

// Matcher finds references in text.
type Matcher func(text string) []Match

// Extract returns the ordered, de-duplicated references found in text by the
// natural-language, compact-notation and bare-square matchers.
func Extract(text string) []Reference {
	return Merge(BareSquares(text), NaturalLanguage(text), CompactNotation(text))
}

// Merge combines matcher output. Bare-square matches that fall inside the span
// of a kinded match are dropped, the rest are ordered by offset and
// de-duplicated on (kind, square), keeping the first.
func Merge(groups ...[]Match) []Reference {
	var kinded, bare, all []Match
	for _, g := range groups {
		for _, m := range g {
			if m.Ref.Kind == game.NoKind {
				bare = append(bare, m)
			} else {
				kinded = append(kinded, m)
			}
		}
	}
	all = append(all, kinded...)
	for _, m := range bare {
		if !covered(m, kinded) {
			all = append(all, m)
		}
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].Start < all[j].Start })

	seen := make(map[Reference]struct{}, len(all))
	out := make([]Reference, 0, len(all))
	for _, m := range all {
		if _, ok := seen[m.Ref]; ok {
			continue
		}
		seen[m.Ref] = struct{}{}
		out = append(out, m.Ref)
	}
	return out
}

// Join renders references as a comma separated refs line.
func Join(rs []Reference) string {
	parts := make([]string, len(rs))
	for i, r := range rs {
		parts[i] = r.String()
	}
	return strings.Join(parts, ", ")
}

func covered(m Match, spans []Match) bool {
	for _, s := range spans {
		if m.Start >= s.Start && m.End <= s.End {
			return true
		}
	}
	return false
}
