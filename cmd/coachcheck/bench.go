package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/coachcheck"
	"github.com/coachcheck/config"
	"github.com/coachcheck/game"
	"github.com/coachcheck/inference"
	"github.com/coachcheck/logging"
	"github.com/coachcheck/report"
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Run a format benchmark sweep against a model server",
	Long: "Prompts the model for every configured format, position, reasoning mode and run, evaluates " +
		"each response and writes one CSV row per trial followed by a per-format summary table.",
	RunE: runBench,
}

var (
	benchConfigFile string
	benchPositions  string
	benchOutput     string
	benchRuns       int
)

func init() {
	benchCmd.Flags().StringVarP(&benchConfigFile, "config", "c", "", "YAML or TOML bench configuration (default: built-in)")
	benchCmd.Flags().StringVarP(&benchPositions, "positions", "p", "", "Positions file, overrides the config")
	benchCmd.Flags().StringVarP(&benchOutput, "output", "o", "", "CSV output path, overrides the config")
	benchCmd.Flags().IntVar(&benchRuns, "runs", 0, "Runs per trial, overrides the config")
	rootCmd.AddCommand(benchCmd)
}

func loadBenchConfig() (config.Config, error) {
	c := config.Default()
	if benchConfigFile != "" {
		var err error
		if c, err = config.Load(benchConfigFile); err != nil {
			return c, err
		}
	}
	c.ApplyEnv(os.Getenv)
	if benchPositions != "" {
		c.Positions = benchPositions
	}
	if benchOutput != "" {
		c.Output = benchOutput
	}
	if benchRuns > 0 {
		c.Runs = benchRuns
	}
	return c, c.Validate()
}

// collector keeps every trial for the summary while forwarding it.
type collector struct {
	sync.Mutex
	next   coachcheck.Recorder
	trials []coachcheck.Trial
}

func (c *collector) Record(t coachcheck.Trial) error {
	c.Lock()
	c.trials = append(c.trials, t)
	c.Unlock()
	return c.next.Record(t)
}

func runBench(cmd *cobra.Command, args []string) error {
	conf, err := loadBenchConfig()
	if err != nil {
		return errors.WithMessage(err, "invalid configuration")
	}
	level, err := logging.ParseLevel(conf.Log.Level)
	if err != nil {
		return err
	}
	logger := logging.New(cmd.ErrOrStderr(), level, conf.Log.JSON)

	positions, err := game.LoadPositions(conf.Positions)
	if err != nil {
		return err
	}

	gens := make([]coachcheck.Generator, conf.Workers)
	for i := range gens {
		gens[i] = inference.NewClient(conf.Endpoint, conf.APIKey, conf.Model, conf.Timeout(), logger)
	}
	agent, err := coachcheck.NewAgent(conf.Model, gens...)
	if err != nil {
		return err
	}
	defer agent.Close()

	if err := os.MkdirAll(filepath.Dir(conf.Output), 0o755); err != nil {
		return errors.Wrap(err, "create output directory")
	}
	f, err := os.Create(conf.Output)
	if err != nil {
		return errors.Wrap(err, "create output")
	}
	defer f.Close()

	rec := &collector{next: report.NewCSVRecorder(f)}
	validator := coachcheck.NewValidator(coachcheck.WithLogger(logger))
	arena, err := coachcheck.MakeArena(agent, validator, rec, conf.Arena(), logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	runErr := arena.Run(ctx, positions)
	if errors.Is(runErr, context.Canceled) {
		logger.Warn("sweep interrupted", "recorded", len(rec.trials), "of", arena.Total())
	} else if runErr != nil {
		return runErr
	}

	logger.Info("results written", "path", conf.Output, "trials", len(rec.trials))
	return report.WriteTable(cmd.OutOrStdout(), report.Summarize(rec.trials))
}
