package coachcheck

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/coachcheck/format"
	"github.com/coachcheck/game"
	"github.com/coachcheck/inference"
)

// Arena runs a benchmark sweep: every format, position, reasoning mode and
// run is one trial against the Agent.
type Arena struct {
	agent     *Agent
	validator *Validator
	recorder  Recorder
	conf      Config
	logger    *slog.Logger
	now       func() time.Time

	// state
	experimentID string
	total        int
	trialNumber  atomic.Int64
}

// MakeArena makes an arena for agent. Every finished trial is handed to rec.
func MakeArena(agent *Agent, v *Validator, rec Recorder, conf Config, logger *slog.Logger) (*Arena, error) {
	if !conf.IsValid() {
		return nil, errors.Errorf("invalid arena config %+v", conf)
	}
	if logger == nil {
		logger = slog.Default()
	}
	if conf.Name == "" {
		conf.Name = "exp"
	}
	if conf.Model == "" {
		conf.Model = agent.Model
	}
	a := &Arena{
		agent:     agent,
		validator: v,
		recorder:  rec,
		conf:      conf,
		logger:    logger,
		now:       time.Now,
	}
	a.experimentID = conf.Name + "_" + a.now().UTC().Format("20060102_150405")
	return a, nil
}

// Run plays every trial of the sweep over positions. Generation failures are
// recorded as failed trials; a recorder error or a cancelled ctx stops the
// sweep.
func (a *Arena) Run(ctx context.Context, positions []game.Position) error {
	specs := make([]*format.Spec, len(a.conf.Formats))
	for i, id := range a.conf.Formats {
		s, err := format.Lookup(id)
		if err != nil {
			return err
		}
		specs[i] = s
	}
	a.total = len(a.conf.Formats) * len(positions) * len(a.conf.Thinking) * a.conf.Runs
	a.trialNumber.Store(0)
	a.agent.resetStats()
	a.logger.Info("starting sweep",
		"experiment", a.experimentID, "trials", a.total,
		"formats", len(a.conf.Formats), "positions", len(positions))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.conf.Concurrency)

loop:
	for _, spec := range specs {
		for _, pos := range positions {
			for _, thinking := range a.conf.Thinking {
				for run := 0; run < a.conf.Runs; run++ {
					if gctx.Err() != nil {
						break loop
					}
					spec, pos, thinking := spec, pos, thinking
					g.Go(func() error {
						t := a.Play(gctx, pos, spec, thinking)
						if err := a.recorder.Record(t); err != nil {
							return errors.WithMessage(err, "record trial")
						}
						return nil
					})
				}
			}
		}
	}
	if err := g.Wait(); err != nil {
		return err
	}
	a.logger.Info("sweep done", "experiment", a.experimentID, "trials", a.trialNumber.Load(),
		"compliant", a.agent.Compliant, "hallucinated", a.agent.Hallucinated, "failures", a.agent.Failures)
	return ctx.Err()
}

// Play runs a single trial: prompt, generate and evaluate.
func (a *Arena) Play(ctx context.Context, pos game.Position, spec *format.Spec, thinking bool) Trial {
	conf := a.conf.samplingFor(thinking)
	prompt := BuildPrompt(pos, spec, conf)
	n := a.trialNumber.Add(1)

	t := Trial{
		ExperimentID: a.experimentID,
		ID:           uuid.NewString()[:12],
		Model:        a.conf.Model,
		Position:     pos,
		Format:       spec.ID,
		Sampling:     conf,
		Prompt:       prompt,
	}
	a.logger.Debug("trial", "n", n, "of", a.total, "format", spec.ID, "position", pos.ID, "mode", conf.Mode())

	start := a.now()
	resp, err := a.agent.Generate(ctx, inference.Request{Messages: prompt.Messages(), Sampling: conf})
	t.LatencyMS = float64(a.now().Sub(start).Microseconds()) / 1000
	if err != nil {
		a.logger.Warn("generation failed", "format", spec.ID, "position", pos.ID, "error", err)
		t.Err = err
		resp = inference.Response{}
	}
	t.Response = resp
	t.Timestamp = a.now().UTC().Format(time.RFC3339)
	t.Evaluation = a.validator.Evaluate(resp.Text, pos.FEN(), spec.ID)
	a.agent.record(t.Evaluation, err)
	return t
}

// ExperimentID identifies this sweep in trial records.
func (a *Arena) ExperimentID() string { return a.experimentID }

// Total is the number of trials of the last Run.
func (a *Arena) Total() int { return a.total }

// Name of the experiment
func (a *Arena) Name() string { return a.conf.Name }
