package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/coachcheck"
	"github.com/coachcheck/format"
	"github.com/coachcheck/logging"
	"github.com/coachcheck/verify"
)

const autoFormat = "auto"

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate one model response against a position",
	Long: "Reads a response from --response or stdin, parses it in the requested schema (or detects the " +
		"schema with --format auto), scores its claims against --fen and prints the cleaned refs.",
	RunE: runValidate,
}

var (
	validateFEN          string
	validateFormat       string
	validateResponseFile string
	validateStrict       bool
	validateJSON         bool
	validateLogLevel     string
)

func init() {
	validateCmd.Flags().StringVar(&validateFEN, "fen", "", "Position the response describes (required)")
	validateCmd.Flags().StringVarP(&validateFormat, "format", "f", string(format.RefsCoaching), "Schema id, or \"auto\" to detect it")
	validateCmd.Flags().StringVarP(&validateResponseFile, "response", "r", "", "File holding the raw response (default: stdin)")
	validateCmd.Flags().BoolVar(&validateStrict, "strict", true, "Require the claimed kind for squares in the coaching text")
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "Print the full evaluation as JSON")
	validateCmd.Flags().StringVar(&validateLogLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	if validateFEN == "" {
		return errors.New("--fen is required")
	}
	level, err := logging.ParseLevel(validateLogLevel)
	if err != nil {
		return err
	}
	raw, err := readResponse(cmd.InOrStdin(), validateResponseFile)
	if err != nil {
		return err
	}

	id := format.ID(validateFormat)
	if validateFormat == autoFormat {
		p, ok := format.Detect(raw)
		if !ok {
			return errors.New("response matches no known format")
		}
		id = p.Format
	} else if _, err := format.Lookup(id); err != nil {
		return err
	}

	strictness := verify.SquareOnly
	if validateStrict {
		strictness = verify.KindAndSquare
	}
	v := coachcheck.NewValidator(
		coachcheck.WithLogger(logging.New(cmd.ErrOrStderr(), level, false)),
		coachcheck.WithCoachingStrictness(strictness),
	)
	e := v.Evaluate(raw, validateFEN, id)

	out := cmd.OutOrStdout()
	if validateJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return errors.WithStack(enc.Encode(e))
	}
	printEvaluation(out, e)
	return nil
}

func readResponse(stdin io.Reader, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", errors.Wrap(err, "read response")
	}
	return string(data), nil
}

func printEvaluation(w io.Writer, e coachcheck.Evaluation) {
	fmt.Fprintf(w, "format:     %s (compliant: %t)\n", e.Format, e.Compliant)
	if !e.Verifiable {
		fmt.Fprintln(w, "position:   not verifiable, claims were not checked")
	}
	fmt.Fprintf(w, "severity:   %d (%s)\n", e.Verdict.Severity, e.Verdict.Severity)
	for _, f := range e.Verdict.Details {
		occ := "empty"
		if !f.Occupant.Empty() {
			occ = f.Occupant.Color.String() + " " + f.Occupant.Kind.String()
		}
		fmt.Fprintf(w, "  %-14s %-11s on board: %s\n", f.Ref, f.Outcome, occ)
	}
	fmt.Fprintf(w, "refs:       %s\n", e.Refs)
	fmt.Fprintf(w, "cleaned:    %s (rejected %d)\n", e.CleanedRefs, e.Rejected)
	fmt.Fprintf(w, "coaching:   %s\n", e.Coaching)
	fmt.Fprintf(w, "coaching squares: %d valid, %d invalid\n", e.CoachingValid, e.CoachingInvalid)
}
