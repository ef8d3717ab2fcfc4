package types

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Application is a submitted application as returned by GET /applications.
type Application struct {
	ID          int64     `json:"id"`
	JobID       int64     `json:"job_id"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	CoverLetter string    `json:"cover_letter"`
	CVFilename  string    `json:"cv_filename"`
}

// ApplicationRequest holds the fields of the multipart POST /applications form.
// CVPath is the local file uploaded as the "cv" part. The cover letter may be empty.
type ApplicationRequest struct {
	JobID       int64  `validate:"required,gt=0"`
	CoverLetter string
	CVPath      string `validate:"required"`
}

// Validate validates the ApplicationRequest using the validator.
func (r *ApplicationRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// EmailKind selects the template of a generated candidate email.
type EmailKind string

const (
	EmailInterview EmailKind = "interview"
	EmailRejection EmailKind = "rejection"
)

// Analysis is the AI review of an application returned by the analysis endpoint.
type Analysis struct {
	ApplicationID int64    `json:"application_id"`
	Score         float64  `json:"score"`
	Summary       string   `json:"summary"`
	Strengths     []string `json:"strengths"`
	Weaknesses    []string `json:"weaknesses"`
}

// EmailDraft is a generated email split into subject and body.
type EmailDraft struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}
