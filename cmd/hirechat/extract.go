package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/hirechat/internal/observability"
	"github.com/jonathan/hirechat/internal/parsing"
	"github.com/jonathan/hirechat/internal/replies"
)

var extractCmd = &cobra.Command{
	Use:   "extract <instruction>",
	Short: "Preview the job posting extracted from free text",
	Long: `Run the job posting extractor locally and print the draft it produces.
Nothing is sent to the API and no login is needed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	draft, err := parsing.ParseJobPosting(strings.Join(args, " "))
	if err != nil {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), replies.MustGet(replies.Manager, "extraction-failed"))
		return err
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintDraft(draft)
	return nil
}
