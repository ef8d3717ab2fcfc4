package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/hirechat/internal/types"
)

var emailKind string

var analyzeCmd = &cobra.Command{
	Use:     "analyze <application-id>",
	Aliases: []string{"analyse"},
	Short:   "Score an application against its job",
	Args:    cobra.ExactArgs(1),
	RunE:    runAnalyze,
}

var emailCmd = &cobra.Command{
	Use:   "email <application-id>",
	Short: "Draft an interview invitation or rejection email",
	Args:  cobra.ExactArgs(1),
	RunE:  runEmail,
}

func init() {
	emailCmd.Flags().StringVarP(&emailKind, "kind", "k", string(types.EmailInterview), "interview or rejection")
	rootCmd.AddCommand(analyzeCmd, emailCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	_, client, err := a.authenticated(cmd.Context(), types.RoleHiringManager)
	if err != nil {
		return err
	}

	analysis, err := client.AnalyzeApplication(cmd.Context(), id)
	if err != nil {
		return err
	}
	a.printer.PrintAnalysis(analysis)
	return nil
}

func runEmail(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	kind := types.EmailKind(emailKind)
	if kind != types.EmailInterview && kind != types.EmailRejection {
		return fmt.Errorf("invalid --kind %q: must be interview or rejection", emailKind)
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	_, client, err := a.authenticated(cmd.Context(), types.RoleHiringManager)
	if err != nil {
		return err
	}

	email, err := client.GenerateEmail(cmd.Context(), id, kind)
	if err != nil {
		return err
	}
	a.printer.PrintEmail(email)
	return nil
}
