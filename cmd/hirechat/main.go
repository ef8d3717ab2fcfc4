// Package main provides the hirechat command-line client for the Hirechat hiring platform.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath      string
	flagAPIBase     string
	flagSessionFile string
	flagTimeout     string
	verbose         bool

	// logLevel is raised to debug by --verbose or the config file.
	logLevel = new(slog.LevelVar)
)

var rootCmd = &cobra.Command{
	Use:   "hirechat",
	Short: "Hirechat command-line client",
	Long: `hirechat talks to the Hirechat API: applicants browse jobs and apply with a CV,
hiring managers post and close jobs, review applications and draft candidate emails.
Both roles can chat with a rule-based assistant.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupLogging,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to JSON config file")
	rootCmd.PersistentFlags().StringVar(&flagAPIBase, "api-base", "", "Hirechat API base URL (overrides config and HIRECHAT_API_BASE)")
	rootCmd.PersistentFlags().StringVar(&flagSessionFile, "session-file", "", "Where the login session is stored")
	rootCmd.PersistentFlags().StringVar(&flagTimeout, "timeout", "", "Per-request timeout, e.g. 30s")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// setupLogging installs a text slog handler on stderr.
func setupLogging(cmd *cobra.Command, _ []string) error {
	logLevel.Set(slog.LevelWarn)
	if verbose {
		logLevel.Set(slog.LevelDebug)
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(handler))
	return nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
