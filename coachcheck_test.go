package coachcheck

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coachcheck/format"
	"github.com/coachcheck/verify"
)

const (
	afterE4      = "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1"
	bishopEnding = "4k3/8/8/8/8/8/8/2B1K3 w - - 0 1"
)

func quietLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestEvaluate(t *testing.T) {
	v := NewValidator(WithLogger(quietLogger()))

	e := v.Evaluate("REFS: pawn e4, bishop e5, g9, central files\nCOACHING: The knight on e4 supports d5.", afterE4, format.RefsCoaching)
	assert.True(t, e.Compliant)
	assert.True(t, e.Parseable())
	assert.True(t, e.RefsExtractable())
	assert.True(t, e.Verifiable)
	assert.Equal(t, "pawn e4, bishop e5, g9, central files", e.Refs)
	assert.Equal(t, verify.WrongSquare, e.Verdict.Severity)

	assert.Len(t, e.Claims, 2)
	assert.Equal(t, 1, e.RefsValid)
	assert.Equal(t, 1, e.RefsInvalid)

	// knight e4 fails the kind check, d5 is empty.
	assert.Equal(t, 0, e.CoachingValid)
	assert.Equal(t, 2, e.CoachingInvalid)

	assert.Equal(t, "pawn e4, central files", e.CleanedRefs)
	assert.Equal(t, 2, e.Rejected)
	assert.Equal(t, format.Fields{Refs: "pawn e4, central files", Coaching: "The knight on e4 supports d5."}, e.Delivered())
}

func TestEvaluateCoachingStrictness(t *testing.T) {
	v := NewValidator(WithLogger(quietLogger()), WithCoachingStrictness(verify.SquareOnly))
	e := v.Evaluate("REFS: e4\nCOACHING: The knight on e4 is strong.", afterE4, format.RefsCoaching)
	assert.Equal(t, 1, e.CoachingValid)
	assert.Equal(t, 0, e.CoachingInvalid)
	assert.Equal(t, verify.WrongPiece, e.Verdict.Severity)
}

func TestEvaluateIgnoresReasoning(t *testing.T) {
	v := NewValidator(WithLogger(quietLogger()))
	raw := "<think>Maybe the queen on d5?</think>\nREFS: bishop c1\nCOACHING: Activate the bishop."
	e := v.Evaluate(raw, bishopEnding, format.RefsCoaching)
	assert.True(t, e.Compliant)
	assert.Equal(t, verify.Accurate, e.Verdict.Severity)
	assert.Equal(t, "bishop c1", e.CleanedRefs)
}

func TestEvaluateNonCompliant(t *testing.T) {
	v := NewValidator(WithLogger(quietLogger()))
	e := v.Evaluate("The queen on d5 dominates.", bishopEnding, format.RefsCoaching)
	assert.False(t, e.Compliant)
	assert.False(t, e.Parseable())
	assert.Equal(t, verify.Phantom, e.Verdict.Severity)
	assert.Zero(t, e.Rejected)
	assert.Empty(t, e.CleanedRefs)
}

func TestEvaluateUnverifiable(t *testing.T) {
	v := NewValidator(WithLogger(quietLogger()))
	e := v.Evaluate("REFS: queen d5, g9\nCOACHING: x", "garbage", format.RefsCoaching)
	assert.True(t, e.Compliant)
	assert.False(t, e.Verifiable)
	assert.True(t, e.Verdict.Indeterminate)
	assert.Equal(t, verify.Accurate, e.Verdict.Severity)
	assert.Equal(t, "queen d5, g9", e.CleanedRefs)
	assert.Zero(t, e.Rejected)
}

func TestEvaluateEveryCanonicalExample(t *testing.T) {
	v := NewValidator(WithLogger(quietLogger()))
	for _, s := range format.All() {
		e := v.Evaluate(s.Example, afterE4, s.ID)
		require.True(t, e.Compliant, s.ID)
		assert.NotEmpty(t, e.CleanedRefs, s.ID)
	}
}

func TestCheck(t *testing.T) {
	v := NewValidator(WithLogger(quietLogger()))
	assert.Equal(t, verify.Phantom, v.Check("queen d5", bishopEnding).Severity)
	verdict := v.Check("queen d5", "")
	assert.True(t, verdict.Indeterminate)
	assert.Equal(t, verify.Accurate, verdict.Severity)
}
