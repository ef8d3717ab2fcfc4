package observability

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/hirechat/internal/types"
)

func TestPrintJobs(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintJobs([]types.Job{
		{ID: 1, Title: "Backend Engineer", Location: "London", SalaryMin: 50000, SalaryMax: 70000, Status: types.JobStatusOpen},
		{ID: 2, Title: "Designer", SalaryMin: 40000, SalaryMax: 60000, Status: types.JobStatusClosed},
		{ID: 3, Title: "Analyst", Location: "Remote", SalaryMin: 1, SalaryMax: 2},
	})
	output := buf.String()

	assert.Contains(t, output, "JOBS")
	assert.Contains(t, output, "3 job(s)")
	assert.Contains(t, output, "#1  Backend Engineer")
	assert.Contains(t, output, "London · £50000–£70000 · open")
	assert.Contains(t, output, "- · £40000–£60000 · closed")
	assert.Contains(t, output, "Remote · £1–£2 · open")
}

func TestPrintJobs_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintJobs(nil)
	assert.Contains(t, buf.String(), "No jobs found")
}

func TestPrintApplications(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintApplications([]types.Application{
		{ID: 10, JobID: 1, Status: "submitted", CreatedAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), CVFilename: "cv.pdf"},
		{ID: 11, JobID: 9, Status: "reviewed"},
	}, []types.Job{{ID: 1, Title: "Backend Engineer"}})
	output := buf.String()

	assert.Contains(t, output, "APPLICATIONS")
	assert.Contains(t, output, "#10  Backend Engineer")
	assert.Contains(t, output, "Status: submitted · 2024-03-01")
	assert.Contains(t, output, "CV: cv.pdf")
	assert.Contains(t, output, "#11  job #9")
}

func TestPrintDraft(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintDraft(types.JobPostingDraft{
		Title:       "Senior React Developer",
		Description: "Build UI features",
		Location:    "London",
		SalaryMin:   65000,
		SalaryMax:   85000,
	})
	output := buf.String()

	assert.Contains(t, output, "JOB POSTING DRAFT")
	assert.Contains(t, output, "Senior React Developer")
	assert.Contains(t, output, "£65000–£85000")
	assert.NotContains(t, output, "above the maximum")
}

func TestPrintDraft_InvertedAndInvalid(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintDraft(types.JobPostingDraft{Title: "Analyst", Description: "x", SalaryMin: 90000, SalaryMax: 50000})
	assert.Contains(t, buf.String(), "⚠ Minimum salary is above the maximum")
	assert.Contains(t, buf.String(), "(none)")

	buf.Reset()
	p.PrintDraft(types.JobPostingDraft{})
	assert.Contains(t, buf.String(), "No job posting could be extracted")
}

func TestPrintAnalysis(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintAnalysis(&types.Analysis{
		ApplicationID: 4,
		Score:         82,
		Summary:       "Strong match",
		Strengths:     []string{"Go", "SQL", "APIs", "Testing", "Mentoring", "Docker"},
		Weaknesses:    []string{"No React"},
	})
	output := buf.String()

	assert.Contains(t, output, "APPLICATION ANALYSIS")
	assert.Contains(t, output, "Score:       82/100")
	assert.Contains(t, output, "✓ Go")
	assert.Contains(t, output, "... and 1 more")
	assert.Contains(t, output, "⚠ No React")
	assert.NotContains(t, output, "Docker")
}

func TestPrintAnalysis_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintAnalysis(nil)
	assert.Empty(t, buf.String())
}

func TestPrintEmail(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintEmail(&types.EmailDraft{Subject: "Interview invitation", Body: "Dear Ada,\nThanks."})
	output := buf.String()

	assert.Contains(t, output, "Subject: Interview invitation")
	assert.True(t, strings.HasSuffix(output, "\nDear Ada,\nThanks.\n"))
}

func TestPrintTranscript(t *testing.T) {
	var buf bytes.Buffer
	ts := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

	NewPrinter(&buf).PrintTranscript([]types.ChatMessage{
		{Role: types.ChatRoleUser, Content: "list jobs", Timestamp: ts},
		{Role: types.ChatRoleAssistant, Content: "Open jobs (0)", Timestamp: ts},
	})

	assert.Equal(t, "[09:30] You: list jobs\n[09:30] Assistant: Open jobs (0)\n", buf.String())
}

func TestPrintUser(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintUser(&types.User{FullName: "Ada Lovelace", Email: "ada@example.com", Role: types.RoleApplicant, IsActive: true})
	output := buf.String()

	assert.Contains(t, output, "CURRENT USER")
	assert.Contains(t, output, "Ada Lovelace")
	assert.NotContains(t, output, "inactive")
}

func TestPrintBox_TruncatesLongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TEST", strings.Repeat("£", 100))
	for _, line := range strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n") {
		assert.Equal(t, boxWidth, len([]rune(line)), "line %q", line)
	}
}
