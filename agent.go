package coachcheck

import (
	"context"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/coachcheck/inference"
)

// ErrNoGenerators is returned when an Agent is built without a generator.
var ErrNoGenerators = errors.New("agent has no generators")

// An Agent is the model under test. Requests are spread over a pool of
// generators, each of which serves one request at a time.
type Agent struct {
	Model string

	// Statistics
	Trials       int
	Compliant    int
	Hallucinated int
	Failures     int
	sync.Mutex

	generator  chan Generator
	generators []Generator
}

// NewAgent pools gens behind a single Agent.
func NewAgent(model string, gens ...Generator) (*Agent, error) {
	if len(gens) == 0 {
		return nil, errors.WithStack(ErrNoGenerators)
	}
	a := &Agent{
		Model:      model,
		generator:  make(chan Generator, len(gens)),
		generators: gens,
	}
	for _, g := range gens {
		a.generator <- g
	}
	return a, nil
}

// Generate borrows a free generator for one request. It blocks until one is
// free or ctx is done.
func (a *Agent) Generate(ctx context.Context, req inference.Request) (inference.Response, error) {
	var g Generator
	select {
	case g = <-a.generator:
	case <-ctx.Done():
		return inference.Response{}, errors.WithStack(ctx.Err())
	}
	defer func() { a.generator <- g }()
	return g.Generate(ctx, req)
}

// Close closes every pooled generator.
func (a *Agent) Close() error {
	var errs error
	for _, g := range a.generators {
		if err := g.Close(); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	if errs != nil {
		return errs
	}
	return nil
}

func (a *Agent) record(e Evaluation, err error) {
	a.Lock()
	a.Trials++
	switch {
	case err != nil:
		a.Failures++
	case e.Compliant:
		a.Compliant++
	}
	if e.Verdict.Hallucinated() {
		a.Hallucinated++
	}
	a.Unlock()
}

func (a *Agent) resetStats() {
	a.Lock()
	a.Trials = 0
	a.Compliant = 0
	a.Hallucinated = 0
	a.Failures = 0
	a.Unlock()
}
