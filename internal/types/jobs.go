package types

import (
	"github.com/go-playground/validator/v10"
)

// JobStatus is the lifecycle state of a job posting on the server.
type JobStatus string

const (
	JobStatusOpen   JobStatus = "open"
	JobStatusClosed JobStatus = "closed"
)

// Default salary range used when no salary phrase is recognised.
const (
	DefaultSalaryMin = 40000
	DefaultSalaryMax = 70000
)

// Job is a persisted job posting as returned by GET /jobs.
type Job struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	SalaryMin   int       `json:"salary_min"`
	SalaryMax   int       `json:"salary_max"`
	Status      JobStatus `json:"status"`
}

// IsOpen reports whether applicants can still apply.
// An empty status is treated as open; older API versions omit it.
func (j Job) IsOpen() bool {
	return j.Status == "" || j.Status == JobStatusOpen
}

// JobPostingDraft is an unsaved job posting built from free text, pending submission
// to POST /jobs. An empty Title marks a failed extraction.
type JobPostingDraft struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Location    string `json:"location" validate:"omitempty,oneof=London Remote Hybrid Manchester Edinburgh"`
	SalaryMin   int    `json:"salary_min" validate:"gte=0"`
	SalaryMax   int    `json:"salary_max" validate:"gte=0"`
}

// Valid reports whether the draft may be submitted. The title is the sole failure signal.
func (d JobPostingDraft) Valid() bool {
	return d.Title != ""
}

// SalaryInverted reports a minimum above the maximum. Extraction never reorders the pair.
func (d JobPostingDraft) SalaryInverted() bool {
	return d.SalaryMin > d.SalaryMax
}

// Validate validates the JobPostingDraft using the validator.
func (d *JobPostingDraft) Validate() error {
	validate := validator.New()
	return validate.Struct(d)
}
