package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/hirechat/internal/assistant"
	"github.com/jonathan/hirechat/internal/parsing"
	"github.com/jonathan/hirechat/internal/replies"
	"github.com/jonathan/hirechat/internal/schemas"
	"github.com/jonathan/hirechat/internal/types"
	schemafiles "github.com/jonathan/hirechat/schemas"
)

var (
	jobTitle       string
	jobDescription string
	jobLocation    string
	jobSalaryMin   int
	jobSalaryMax   int
	jobFile        string

	postDryRun bool
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "List, create and close job postings",
}

var jobsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List jobs visible to you",
	Args:  cobra.NoArgs,
	RunE:  runJobsList,
}

var jobsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a job from flags or a JSON file",
	Long: `Create a job posting. Fields come either from flags or from a JSON file that
matches the job posting draft schema (--file). Hiring managers only.`,
	Args: cobra.NoArgs,
	RunE: runJobsCreate,
}

var jobsPostCmd = &cobra.Command{
	Use:   "post <instruction>",
	Short: "Create a job from a free-text instruction",
	Long: `Extract a job posting from free text and create it, e.g.

  hirechat jobs post "Create Senior React Developer in London £65-85k with description Build UI features"

Use --dry-run to only show the extracted draft. Hiring managers only.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runJobsPost,
}

var jobsCloseCmd = &cobra.Command{
	Use:   "close <job-id>",
	Short: "Stop a job from accepting applications",
	Args:  cobra.ExactArgs(1),
	RunE:  runJobsClose,
}

func init() {
	jobsCreateCmd.Flags().StringVar(&jobTitle, "title", "", "Job title")
	jobsCreateCmd.Flags().StringVar(&jobDescription, "description", "", "Job description (defaults to \"Looking for a <title>.\")")
	jobsCreateCmd.Flags().StringVar(&jobLocation, "location", "", "London, Remote, Hybrid, Manchester or Edinburgh")
	jobsCreateCmd.Flags().IntVar(&jobSalaryMin, "salary-min", types.DefaultSalaryMin, "Minimum salary in pounds")
	jobsCreateCmd.Flags().IntVar(&jobSalaryMax, "salary-max", types.DefaultSalaryMax, "Maximum salary in pounds")
	jobsCreateCmd.Flags().StringVarP(&jobFile, "file", "f", "", "Path to a JSON job posting draft")
	jobsCreateCmd.MarkFlagsMutuallyExclusive("file", "title")

	jobsPostCmd.Flags().BoolVar(&postDryRun, "dry-run", false, "Show the extracted draft without creating it")

	jobsCmd.AddCommand(jobsListCmd, jobsCreateCmd, jobsPostCmd, jobsCloseCmd)
	rootCmd.AddCommand(jobsCmd)
}

func runJobsList(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	_, client, err := a.authenticated(cmd.Context())
	if err != nil {
		return err
	}

	jobs, err := client.ListJobs(cmd.Context())
	if err != nil {
		return err
	}
	a.printer.PrintJobs(jobs)
	return nil
}

// draftFromFlags builds the draft for jobs create.
func draftFromFlags() (types.JobPostingDraft, error) {
	if jobFile != "" {
		if err := schemas.ValidateFile(schemafiles.JobPostingDraft, jobFile); err != nil {
			return types.JobPostingDraft{}, fmt.Errorf("invalid job posting file: %w", err)
		}
		data, err := os.ReadFile(jobFile)
		if err != nil {
			return types.JobPostingDraft{}, fmt.Errorf("failed to read job posting file: %w", err)
		}
		var draft types.JobPostingDraft
		if err := json.Unmarshal(data, &draft); err != nil {
			return types.JobPostingDraft{}, fmt.Errorf("failed to parse job posting file: %w", err)
		}
		return draft, nil
	}

	title := strings.TrimSpace(jobTitle)
	if title == "" {
		return types.JobPostingDraft{}, errors.New("either --title or --file is required")
	}
	description := strings.TrimSpace(jobDescription)
	if description == "" {
		description = fmt.Sprintf("Looking for a %s.", title)
	}

	draft := types.JobPostingDraft{
		Title:       title,
		Description: description,
		Location:    jobLocation,
		SalaryMin:   jobSalaryMin,
		SalaryMax:   jobSalaryMax,
	}
	if err := draft.Validate(); err != nil {
		return types.JobPostingDraft{}, fmt.Errorf("invalid job posting: %w", err)
	}
	return draft, nil
}

func runJobsCreate(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	draft, err := draftFromFlags()
	if err != nil {
		return err
	}
	if draft.SalaryInverted() {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Warning: minimum salary is above the maximum")
	}

	_, client, err := a.authenticated(cmd.Context(), types.RoleHiringManager)
	if err != nil {
		return err
	}

	job, err := client.CreateJob(cmd.Context(), draft)
	if err != nil {
		return err
	}
	a.printer.PrintJobs([]types.Job{*job})
	return nil
}

func runJobsPost(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	draft, err := parsing.ParseJobPosting(strings.Join(args, " "))
	if err != nil {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), replies.MustGet(replies.Manager, "extraction-failed"))
		return err
	}
	a.printer.PrintDraft(draft)
	if postDryRun {
		return nil
	}

	_, client, err := a.authenticated(cmd.Context(), types.RoleHiringManager)
	if err != nil {
		return err
	}

	outcome, err := assistant.NewBackend(client).Execute(cmd.Context(), assistant.Action{
		Kind:  assistant.ActionCreateJob,
		Draft: &draft,
	})
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), outcome)
	return nil
}

func runJobsClose(cmd *cobra.Command, args []string) error {
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

	outcome, err := assistant.NewBackend(client).Execute(cmd.Context(), assistant.Action{
		Kind:  assistant.ActionCloseJob,
		JobID: id,
	})
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), outcome)
	return nil
}

// parseID accepts "12" or "#12".
func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(strings.TrimSpace(arg), "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}
