// Package observability provides formatted terminal output for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/hirechat/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, shorten(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// printNotice prints a single-line box.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printNotice(text string) {
	fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, shorten(text, boxWidth-4))
	fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
}

// shorten truncates s to n runes, marking the cut with "...".
func shorten(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}

func salaryRange(minValue, maxValue int) string {
	return fmt.Sprintf("£%d–£%d", minValue, maxValue)
}

// PrintUser outputs the logged-in user's profile.
func (p *Printer) PrintUser(user *types.User) {
	if user == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:   %s\n", user.FullName))
	sb.WriteString(fmt.Sprintf("Email:  %s\n", user.Email))
	sb.WriteString(fmt.Sprintf("Role:   %s\n", user.Role))
	if !user.IsActive {
		sb.WriteString("Status: inactive\n")
	}

	p.printBox("CURRENT USER", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintJobs outputs every job with its location, salary range and status.
func (p *Printer) PrintJobs(jobs []types.Job) {
	if len(jobs) == 0 {
		p.printNotice("No jobs found")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d job(s):\n\n", len(jobs)))
	for i, job := range jobs {
		status := job.Status
		if status == "" {
			status = types.JobStatusOpen
		}
		location := job.Location
		if location == "" {
			location = "-"
		}
		sb.WriteString(fmt.Sprintf("#%d  %s\n", job.ID, job.Title))
		sb.WriteString(fmt.Sprintf("    %s · %s · %s", location, salaryRange(job.SalaryMin, job.SalaryMax), status))
		if i < len(jobs)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("JOBS", sb.String())
}

// PrintApplications outputs applications with the title of the job they target.
func (p *Printer) PrintApplications(apps []types.Application, jobs []types.Job) {
	if len(apps) == 0 {
		p.printNotice("No applications found")
		return
	}

	titles := make(map[int64]string, len(jobs))
	for _, job := range jobs {
		titles[job.ID] = job.Title
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d application(s):\n\n", len(apps)))
	for i, app := range apps {
		title, ok := titles[app.JobID]
		if !ok {
			title = fmt.Sprintf("job #%d", app.JobID)
		}
		sb.WriteString(fmt.Sprintf("#%d  %s\n", app.ID, title))
		sb.WriteString(fmt.Sprintf("    Status: %s", app.Status))
		if !app.CreatedAt.IsZero() {
			sb.WriteString(fmt.Sprintf(" · %s", app.CreatedAt.Format("2006-01-02")))
		}
		if app.CVFilename != "" {
			sb.WriteString(fmt.Sprintf("\n    CV: %s", app.CVFilename))
		}
		if i < len(apps)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("APPLICATIONS", sb.String())
}

// PrintDraft outputs an extracted job posting, warning about an inverted salary range.
func (p *Printer) PrintDraft(draft types.JobPostingDraft) {
	if !draft.Valid() {
		p.printNotice("⚠ No job posting could be extracted")
		return
	}

	location := draft.Location
	if location == "" {
		location = "(none)"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Title:       %s\n", draft.Title))
	sb.WriteString(fmt.Sprintf("Location:    %s\n", location))
	sb.WriteString(fmt.Sprintf("Salary:      %s\n", salaryRange(draft.SalaryMin, draft.SalaryMax)))
	sb.WriteString(fmt.Sprintf("Description: %s\n", draft.Description))
	if draft.SalaryInverted() {
		sb.WriteString("\n⚠ Minimum salary is above the maximum\n")
	}

	p.printBox("JOB POSTING DRAFT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintAnalysis outputs the score, summary and top strengths and weaknesses.
func (p *Printer) PrintAnalysis(analysis *types.Analysis) {
	if analysis == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Application: #%d\n", analysis.ApplicationID))
	sb.WriteString(fmt.Sprintf("Score:       %.0f/100\n", analysis.Score))
	if analysis.Summary != "" {
		sb.WriteString(fmt.Sprintf("\n%s\n", analysis.Summary))
	}
	writeList(&sb, "Strengths", "✓", analysis.Strengths)
	writeList(&sb, "Weaknesses", "⚠", analysis.Weaknesses)

	p.printBox("APPLICATION ANALYSIS", strings.TrimSuffix(sb.String(), "\n"))
}

func writeList(sb *strings.Builder, heading, marker string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(fmt.Sprintf("\n%s:\n", heading))
	count := min(len(items), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  %s %s\n", marker, items[i]))
	}
	if len(items) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-maxItemsToShow))
	}
}

// PrintEmail outputs a generated email. The body is printed unboxed so it can be copied.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintEmail(email *types.EmailDraft) {
	if email == nil {
		return
	}
	p.printBox("EMAIL DRAFT", "Subject: "+email.Subject)
	fmt.Fprintf(p.out, "\n%s\n", email.Body)
}

// PrintTranscript outputs a chat history, one line per message.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintTranscript(messages []types.ChatMessage) {
	for _, msg := range messages {
		speaker := "You"
		if msg.Role == types.ChatRoleAssistant {
			speaker = "Assistant"
		}
		fmt.Fprintf(p.out, "[%s] %s: %s\n", msg.Timestamp.Format("15:04"), speaker, msg.Content)
	}
}
