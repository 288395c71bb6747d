// Command coachcheck validates chess-coaching model output and runs format
// benchmarks against an OpenAI-compatible model server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "coachcheck",
	Short: "Validate chess-coaching model output against the board",
	Long: "coachcheck parses model responses in one of twelve output schemas, checks every piece and " +
		"square claim against the position and reports a hallucination severity from 0 to 3.",
	SilenceUsage: true,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
