package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/hirechat/internal/api"
	"github.com/jonathan/hirechat/internal/ingestion"
	"github.com/jonathan/hirechat/internal/types"
)

var (
	applyJobID           int64
	applyCVPath          string
	applyCoverLetter     string
	applyCoverLetterFile string

	cvOutDir string
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply to a job with a CV and optional cover letter",
	Long: `Submit an application for an open job. The CV must be a PDF, DOC or DOCX file.
The cover letter can be passed inline or read from a text file. Applicants only.`,
	Args: cobra.NoArgs,
	RunE: runApply,
}

var applicationsCmd = &cobra.Command{
	Use:     "applications",
	Aliases: []string{"apps"},
	Short:   "List applications",
	Long:    "List your own applications, or as a hiring manager every application to your jobs.",
	Args:    cobra.NoArgs,
	RunE:    runApplications,
}

var cvCmd = &cobra.Command{
	Use:   "cv",
	Short: "Work with applicant CVs",
}

var cvDownloadCmd = &cobra.Command{
	Use:   "download <application-id>",
	Short: "Download the CV attached to an application",
	Args:  cobra.ExactArgs(1),
	RunE:  runCVDownload,
}

var cvInspectCmd = &cobra.Command{
	Use:   "inspect <path>",
	Short: "Show page count and a text preview of a PDF CV",
	Long:  "Read a local PDF CV the way it will be uploaded and print its page count and the start of its text.",
	Args:  cobra.ExactArgs(1),
	RunE:  runCVInspect,
}

func init() {
	applyCmd.Flags().Int64Var(&applyJobID, "job", 0, "Job id to apply for")
	applyCmd.Flags().StringVar(&applyCVPath, "cv", "", "Path to your CV (.pdf, .doc, .docx)")
	applyCmd.Flags().StringVar(&applyCoverLetter, "cover-letter", "", "Cover letter text")
	applyCmd.Flags().StringVar(&applyCoverLetterFile, "cover-letter-file", "", "Path to a plain-text cover letter")
	applyCmd.MarkFlagsMutuallyExclusive("cover-letter", "cover-letter-file")

	cvDownloadCmd.Flags().StringVarP(&cvOutDir, "out", "o", ".", "Directory to write the CV to")
	cvCmd.AddCommand(cvDownloadCmd, cvInspectCmd)

	rootCmd.AddCommand(applyCmd, applicationsCmd, cvCmd)
}

func runApply(cmd *cobra.Command, _ []string) error {
	if applyJobID <= 0 || applyCVPath == "" {
		return api.ErrMissingJobOrCV
	}
	if err := ingestion.CheckCV(applyCVPath); err != nil {
		return err
	}
	if strings.EqualFold(filepath.Ext(applyCVPath), ".pdf") {
		// The server accepts unreadable PDFs; only warn.
		if info, err := ingestion.InspectPDF(applyCVPath); err != nil {
			slog.Warn("CV could not be read as a PDF", slog.String("path", applyCVPath), slog.Any("error", err))
		} else {
			slog.Debug("CV inspected", slog.Int("pages", info.Pages))
		}
	}

	var coverLetter string
	var err error
	switch {
	case applyCoverLetterFile != "":
		coverLetter, err = ingestion.ReadCoverLetter(applyCoverLetterFile)
	case applyCoverLetter != "":
		coverLetter, err = ingestion.CoverLetter(applyCoverLetter)
	}
	if err != nil {
		return fmt.Errorf("invalid cover letter: %w", err)
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	_, client, err := a.authenticated(cmd.Context(), types.RoleApplicant)
	if err != nil {
		return err
	}

	app, err := client.SubmitApplication(cmd.Context(), types.ApplicationRequest{
		JobID:       applyJobID,
		CoverLetter: coverLetter,
		CVPath:      applyCVPath,
	})
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✅ Application #%d submitted for job #%d.\n", app.ID, app.JobID)
	return nil
}

func runApplications(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	_, client, err := a.authenticated(cmd.Context())
	if err != nil {
		return err
	}

	apps, err := client.ListApplications(cmd.Context())
	if err != nil {
		return err
	}
	// Job titles are cosmetic; the list still prints without them.
	jobs, err := client.ListJobs(cmd.Context())
	if err != nil {
		slog.Debug("failed to load job titles", slog.Any("error", err))
	}
	a.printer.PrintApplications(apps, jobs)
	return nil
}

func runCVDownload(cmd *cobra.Command, args []string) error {
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

	cv, err := client.DownloadCV(cmd.Context(), id)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cvOutDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(cvOutDir, cv.Filename)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("refusing to overwrite %s", path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to check output path: %w", err)
	}
	if err := os.WriteFile(path, cv.Data, 0o644); err != nil {
		return fmt.Errorf("failed to write CV: %w", err)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%d bytes)\n", path, len(cv.Data))
	return nil
}

func runCVInspect(cmd *cobra.Command, args []string) error {
	if err := ingestion.CheckCV(args[0]); err != nil {
		return err
	}
	info, err := ingestion.InspectPDF(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Pages: %d\n", info.Pages)
	if info.Text == "" {
		_, _ = fmt.Fprintln(out, "No extractable text. Scanned CVs may not be searchable by recruiters.")
		return nil
	}
	_, _ = fmt.Fprintf(out, "\n%s\n", info.Text)
	return nil
}
