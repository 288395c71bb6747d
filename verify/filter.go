package verify

import (
	"strings"

	"github.com/coachcheck/game"
)

// Fallback replaces a refs line whose every checkable fragment was rejected.
const Fallback = "current position"

// Clean drops the fragments of a comma separated refs line that the board does
// not support and returns the rest joined with ", ", plus how many were
// dropped.
//
// A fragment is kept when every square token in it names an occupied square.
// A fragment with a malformed or off-board square token ("g9", "i4", "e10")
// is rejected. Fragments with no square-shaped token at all ("central files")
// cannot be checked and are kept as written. If something was rejected and
// nothing survived, the result is Fallback.
func Clean(rawRefs string, b *game.Board) (cleaned string, rejected int) {
	var kept []string
	for _, frag := range strings.Split(rawRefs, ",") {
		frag = strings.TrimSpace(frag)
		if frag == "" {
			continue
		}
		if fragmentHolds(frag, b) {
			kept = append(kept, frag)
		} else {
			rejected++
		}
	}
	if len(kept) == 0 && rejected > 0 {
		return Fallback, rejected
	}
	return strings.Join(kept, ", "), rejected
}

func fragmentHolds(frag string, b *game.Board) bool {
	for _, tok := range game.ScanTokens(frag) {
		switch tok.Class {
		case game.MalformedSquare:
			return false
		case game.ValidSquare:
			if !b.Occupied(tok.Square) {
				return false
			}
		}
	}
	return true
}
