package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coachcheck/format"
)

var formatsCmd = &cobra.Command{
	Use:   "formats [id]",
	Short: "List the output schemas, or show one schema's instruction and example",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runFormats,
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}

func runFormats(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if len(args) == 1 {
		s, err := format.Lookup(format.ID(args[0]))
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s (%s)\n\nInstruction:\n%s\n\nExample:\n%s\n", s.ID, s.Name, s.Instruction, s.Example)
		return nil
	}
	for _, s := range format.All() {
		fmt.Fprintf(out, "%-18s %s\n", s.ID, s.Name)
	}
	return nil
}
