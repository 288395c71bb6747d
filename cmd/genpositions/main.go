// Command genpositions plays random legal games and writes sampled positions
// as a JSON or YAML test-positions file for the coachcheck benchmark.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/coachcheck/game"
)

var (
	numPositions int
	maxPlies     int
	seed         int64
	outputPath   string
)

var rootCmd = &cobra.Command{
	Use:          "genpositions",
	Short:        "Generate benchmark test positions by random legal play",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().IntVarP(&numPositions, "num", "n", 20, "number of positions to generate")
	rootCmd.Flags().IntVar(&maxPlies, "max-plies", 60, "longest random game prefix, in plies")
	rootCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (default: current time)")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "test_positions.json", "output path, .json or .yaml")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if numPositions < 1 || maxPlies < 1 {
		return errors.New("--num and --max-plies must be positive")
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	ps := game.Generate(numPositions, maxPlies, seed)

	data, err := encode(ps, outputPath)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return errors.Wrap(err, "write positions")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d positions to %s (seed %d)\n", len(ps), outputPath, seed)
	return nil
}

func encode(ps []game.Position, path string) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := yaml.Marshal(ps)
		return data, errors.Wrap(err, "encode yaml")
	default:
		data, err := json.MarshalIndent(ps, "", "  ")
		return data, errors.Wrap(err, "encode json")
	}
}
