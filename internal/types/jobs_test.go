package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobPostingDraft_Valid(t *testing.T) {
	assert.False(t, JobPostingDraft{}.Valid())
	assert.True(t, JobPostingDraft{Title: "Backend Engineer"}.Valid())
}

func TestJobPostingDraft_SalaryInverted(t *testing.T) {
	assert.False(t, JobPostingDraft{SalaryMin: 40000, SalaryMax: 70000}.SalaryInverted())
	assert.False(t, JobPostingDraft{SalaryMin: 50000, SalaryMax: 50000}.SalaryInverted())
	assert.True(t, JobPostingDraft{SalaryMin: 90000, SalaryMax: 50000}.SalaryInverted())
}

func TestJobPostingDraft_Validate(t *testing.T) {
	tests := []struct {
		name    string
		draft   JobPostingDraft
		wantErr bool
	}{
		{"complete draft", JobPostingDraft{Title: "Dev", Location: "London", SalaryMin: 1, SalaryMax: 2}, false},
		{"no location", JobPostingDraft{Title: "Dev"}, false},
		{"missing title", JobPostingDraft{Location: "Remote"}, true},
		{"location outside vocabulary", JobPostingDraft{Title: "Dev", Location: "Paris"}, true},
		{"negative salary", JobPostingDraft{Title: "Dev", SalaryMin: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.draft.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestJobPostingDraft_JSONFieldNames(t *testing.T) {
	d := JobPostingDraft{Title: "Dev", Description: "x", Location: "Remote", SalaryMin: 1, SalaryMax: 2}
	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"Dev","description":"x","location":"Remote","salary_min":1,"salary_max":2}`, string(data))
}

func TestJob_IsOpen(t *testing.T) {
	assert.True(t, Job{Status: JobStatusOpen}.IsOpen())
	assert.True(t, Job{}.IsOpen())
	assert.False(t, Job{Status: JobStatusClosed}.IsOpen())
}

func TestApplicationRequest_Validate(t *testing.T) {
	ok := ApplicationRequest{JobID: 3, CoverLetter: "Hello", CVPath: "cv.pdf"}
	assert.NoError(t, ok.Validate())

	noCV := ApplicationRequest{JobID: 3, CoverLetter: "Hello"}
	assert.Error(t, noCV.Validate())

	noJob := ApplicationRequest{CoverLetter: "Hello", CVPath: "cv.pdf"}
	assert.Error(t, noJob.Validate())

	noCoverLetter := ApplicationRequest{JobID: 3, CVPath: "cv.pdf"}
	assert.NoError(t, noCoverLetter.Validate())
}
