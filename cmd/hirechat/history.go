package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/hirechat/internal/history"
)

var (
	historyLimit int
	historyPanel string
	historyClear bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show or clear your recorded chat history",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", history.DefaultLimit, "Number of most recent messages to show")
	historyCmd.Flags().StringVar(&historyPanel, "panel", "", "Only show the applicant or manager panel")
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "Delete your recorded history")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if historyPanel != "" && historyPanel != "applicant" && historyPanel != "manager" {
		return fmt.Errorf("invalid --panel %q: must be applicant or manager", historyPanel)
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	sess, _, err := a.authenticated(cmd.Context())
	if err != nil {
		return err
	}

	store, err := a.openHistory()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if historyClear {
		removed, err := store.Clear(cmd.Context(), sess.User.Email)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d message(s).\n", removed)
		return nil
	}

	msgs, err := store.Recent(cmd.Context(), sess.User.Email, historyPanel, historyLimit)
	if err != nil {
		return err
	}
	if len(msgs) == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No chat history yet.")
		return nil
	}
	a.printer.PrintTranscript(msgs)
	return nil
}
