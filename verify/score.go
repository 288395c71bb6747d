// Package verify checks piece and square claims against the board they
// describe. It grades each claim by how fabricated it is and cleans refs
// lines of squares the board does not support.
package verify

import (
	"github.com/pkg/errors"

	"github.com/coachcheck/game"
	"github.com/coachcheck/refs"
)

// Severity grades a claim. Higher is worse.
type Severity int

const (
	// Accurate claims name what is on the board, or name no piece at all.
	Accurate Severity = iota
	// WrongPiece claims an occupied square but the wrong kind.
	WrongPiece
	// WrongSquare claims a kind that exists, but not on that square.
	WrongSquare
	// Phantom claims a kind that is nowhere on the board.
	Phantom
)

func (s Severity) String() string {
	switch s {
	case Accurate:
		return "accurate"
	case WrongPiece:
		return "wrong_piece"
	case WrongSquare:
		return "wrong_square"
	case Phantom:
		return "phantom"
	}
	return "unknown"
}

// Outcome is the finer classification behind a Severity.
type Outcome int

const (
	Match      Outcome = iota // claimed kind stands on the square, or any piece for a bare square
	Mislabeled                // square occupied by another kind
	Misplaced                 // square empty, kind elsewhere
	Absent                    // square empty, kind nowhere
	Unoccupied                // bare square claim on an empty square
)

func (o Outcome) String() string {
	switch o {
	case Match:
		return "match"
	case Mislabeled:
		return "mislabeled"
	case Misplaced:
		return "misplaced"
	case Absent:
		return "absent"
	case Unoccupied:
		return "unoccupied"
	}
	return "unknown"
}

func (o Outcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// Finding is the verdict on a single claim.
type Finding struct {
	Ref      refs.Reference `json:"ref"`
	Occupant game.Occupant  `json:"occupant"`
	Outcome  Outcome        `json:"outcome"`
	Severity Severity       `json:"severity"`
}

// Verdict aggregates the findings for one response. Severity is the worst
// finding, Accurate when there are none.
type Verdict struct {
	Severity Severity  `json:"severity"`
	Details  []Finding `json:"details,omitempty"`

	// Indeterminate is set when the position could not be decoded and no
	// claim was checked.
	Indeterminate bool `json:"indeterminate,omitempty"`
}

// Hallucinated reports whether any claim was graded above Accurate.
func (v Verdict) Hallucinated() bool { return v.Severity > Accurate }

// Classify grades one claim against b.
//
// A bare square claim only asserts that something stands there. On an empty
// square it is recorded as Unoccupied but graded Accurate: with no kind there
// is nothing to call misplaced or phantom.
func Classify(r refs.Reference, b *game.Board) Finding {
	occ := b.PieceAt(r.Square)
	f := Finding{Ref: r, Occupant: occ}
	switch {
	case r.Kind == game.NoKind && occ.Empty():
		f.Outcome = Unoccupied
	case r.Kind == game.NoKind, occ.Kind == r.Kind:
		f.Outcome = Match
	case !occ.Empty():
		f.Outcome, f.Severity = Mislabeled, WrongPiece
	case b.ExistsAnywhere(r.Kind):
		f.Outcome, f.Severity = Misplaced, WrongSquare
	default:
		f.Outcome, f.Severity = Absent, Phantom
	}
	return f
}

// Score extracts every claim from text and grades it against b.
func Score(text string, b *game.Board) Verdict {
	return ScoreRefs(refs.Extract(text), b)
}

// ScoreRefs grades already extracted claims.
func ScoreRefs(rs []refs.Reference, b *game.Board) Verdict {
	var v Verdict
	for _, r := range rs {
		f := Classify(r, b)
		if f.Severity > v.Severity {
			v.Severity = f.Severity
		}
		v.Details = append(v.Details, f)
	}
	return v
}

// ScoreFEN decodes fen and scores text against it. A position that cannot be
// decoded yields an Indeterminate verdict of severity Accurate together with
// the decode error; the response is not penalised for bad input data.
func ScoreFEN(text, fen string) (Verdict, error) {
	b, err := game.Decode(fen)
	if err != nil {
		return Verdict{Indeterminate: true}, errors.WithMessage(err, "scoring skipped")
	}
	return Score(text, b), nil
}

// Strictness selects how ValidateRefs judges a claim.
type Strictness int

const (
	// SquareOnly accepts any occupant. Used for refs lines.
	SquareOnly Strictness = iota
	// KindAndSquare requires the occupant to be the claimed kind. Bare square
	// claims still accept any occupant.
	KindAndSquare
)

func (s Strictness) String() string {
	if s == KindAndSquare {
		return "kind_and_square"
	}
	return "square_only"
}

// ValidateRefs counts the claims in rs that hold on b under strictness.
func ValidateRefs(rs []refs.Reference, b *game.Board, strictness Strictness) (valid, invalid int) {
	for _, r := range rs {
		occ := b.PieceAt(r.Square)
		ok := !occ.Empty()
		if ok && strictness == KindAndSquare && r.Kind != game.NoKind {
			ok = occ.Kind == r.Kind
		}
		if ok {
			valid++
		} else {
			invalid++
		}
	}
	return valid, invalid
}

// ValidateText extracts the claims in text and validates them.
func ValidateText(text string, b *game.Board, strictness Strictness) (valid, invalid int) {
	return ValidateRefs(refs.Extract(text), b, strictness)
}
