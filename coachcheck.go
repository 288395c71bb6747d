// Package coachcheck validates chess-coaching output produced by a language
// model. It reads the response in the requested schema, checks every piece and
// square claim against the position it describes and cleans the refs line
// before the response is delivered.
package coachcheck

import (
	"log/slog"

	"github.com/coachcheck/format"
	"github.com/coachcheck/game"
	"github.com/coachcheck/refs"
	"github.com/coachcheck/verify"
)

// Validator is the top level structure and the entry point of the API.
// It composes the format parser, the reference extractor and the board checks.
// A Validator holds no per-call state and is safe for concurrent use.
type Validator struct {
	strictness verify.Strictness
	logger     *slog.Logger
}

// Option configures a Validator.
type Option func(*Validator)

// WithLogger sets the logger used to report degraded evaluations.
func WithLogger(l *slog.Logger) Option {
	return func(v *Validator) { v.logger = l }
}

// WithCoachingStrictness sets how claims in the coaching text are validated.
// The default is verify.KindAndSquare.
func WithCoachingStrictness(s verify.Strictness) Option {
	return func(v *Validator) { v.strictness = s }
}

// NewValidator returns a Validator configured by opts.
func NewValidator(opts ...Option) *Validator {
	v := &Validator{
		strictness: verify.KindAndSquare,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Evaluation is everything the Validator learned about one response.
type Evaluation struct {
	Format    format.ID `json:"format"`
	Compliant bool      `json:"compliant"`
	Refs      string    `json:"refs"`
	Coaching  string    `json:"coaching"`

	// Claims are the references named in the refs field.
	Claims  []refs.Reference `json:"claims,omitempty"`
	Verdict verify.Verdict   `json:"verdict"`

	RefsValid       int `json:"refs_valid"`
	RefsInvalid     int `json:"refs_invalid"`
	CoachingValid   int `json:"coaching_valid"`
	CoachingInvalid int `json:"coaching_invalid"`

	CleanedRefs string `json:"cleaned_refs"`
	Rejected    int    `json:"rejected"`

	// Verifiable is false when the position could not be decoded. Nothing was
	// checked and the refs are passed through uncleaned.
	Verifiable bool `json:"verifiable"`
}

// Parseable reports whether either field could be read from the response.
func (e Evaluation) Parseable() bool {
	return e.Compliant && (e.Refs != "" || e.Coaching != "")
}

// RefsExtractable reports whether the response carried a non-empty refs field.
func (e Evaluation) RefsExtractable() bool { return e.Refs != "" }

// Delivered returns the response as it would be shown to the user: the
// cleaned refs and the coaching text.
func (e Evaluation) Delivered() format.Fields {
	return format.Fields{Refs: e.CleanedRefs, Coaching: e.Coaching}
}

// Evaluate parses raw against schema id and checks it against the position
// encoded by fen. The reasoning block is never scored.
func (v *Validator) Evaluate(raw, fen string, id format.ID) Evaluation {
	p := format.Parse(raw, id)
	e := Evaluation{
		Format:      id,
		Compliant:   p.OK,
		Refs:        p.Refs,
		Coaching:    p.Coaching,
		Claims:      refs.Extract(p.Refs),
		CleanedRefs: p.Refs,
	}

	b, err := game.Decode(fen)
	if err != nil {
		v.logger.Warn("position not verifiable", "format", id, "error", err)
		e.Verdict = verify.Verdict{Indeterminate: true}
		return e
	}
	e.Verifiable = true
	e.Verdict = verify.Score(format.StripReasoning(raw), b)

	if p.OK {
		e.RefsValid, e.RefsInvalid = verify.ValidateRefs(e.Claims, b, verify.SquareOnly)
		e.CoachingValid, e.CoachingInvalid = verify.ValidateText(p.Coaching, b, v.strictness)
		e.CleanedRefs, e.Rejected = verify.Clean(p.Refs, b)
	}
	if e.Verdict.Hallucinated() {
		v.logger.Debug("hallucination", "format", id, "severity", e.Verdict.Severity, "fen", b.FEN())
	}
	return e
}

// Check scores free text against fen without parsing any schema.
func (v *Validator) Check(text, fen string) verify.Verdict {
	verdict, err := verify.ScoreFEN(text, fen)
	if err != nil {
		v.logger.Warn("position not verifiable", "error", err)
	}
	return verdict
}
