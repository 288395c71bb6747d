package coachcheck

import (
	"context"
	"io"

	"github.com/coachcheck/format"
	"github.com/coachcheck/game"
	"github.com/coachcheck/inference"
	"github.com/coachcheck/sampling"
)

// Config for the Arena.
// It holds the sweep dimensions and the model under test.
type Config struct {
	Name        string      `json:"name"`
	Model       string      `json:"model"`
	Formats     []format.ID `json:"formats"`
	Thinking    []bool      `json:"thinking"`
	Runs        int         `json:"runs"`
	Concurrency int         `json:"concurrency"`

	// Sampling overrides the preset for a reasoning mode when set.
	Sampling map[bool]sampling.Config `json:"-"`
}

// IsValid reports whether the sweep can run.
func (c Config) IsValid() bool {
	if c.Runs < 1 || c.Concurrency < 1 || len(c.Formats) == 0 || len(c.Thinking) == 0 {
		return false
	}
	for _, id := range c.Formats {
		if _, err := format.Lookup(id); err != nil {
			return false
		}
	}
	for _, s := range c.Sampling {
		if !s.IsValid() {
			return false
		}
	}
	return true
}

func (c Config) samplingFor(thinking bool) sampling.Config {
	if s, ok := c.Sampling[thinking]; ok {
		return s
	}
	return sampling.For(thinking)
}

// Generator is anything that can produce a completion for a chat request.
type Generator interface {
	Generate(ctx context.Context, req inference.Request) (inference.Response, error)
	io.Closer
}

// Recorder receives every finished trial.
type Recorder interface {
	Record(t Trial) error
}

// Trial is one prompt, one response and its evaluation.
type Trial struct {
	ExperimentID string
	ID           string
	Timestamp    string
	Model        string
	Position     game.Position
	Format       format.ID
	Sampling     sampling.Config
	Prompt       Prompt
	Response     inference.Response
	LatencyMS    float64
	Err          error
	Evaluation   Evaluation
}
