package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jonathan/hirechat/internal/types"
)

// ErrMissingJobOrCV is returned before any request when the job or CV is missing.
var ErrMissingJobOrCV = errors.New("please choose a job and upload your CV")

// SubmitApplication uploads a CV and cover letter for a job.
func (c *Client) SubmitApplication(ctx context.Context, req types.ApplicationRequest) (*types.Application, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingJobOrCV, err)
	}

	cv, err := os.Open(req.CVPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CV: %w", err)
	}
	defer func() { _ = cv.Close() }()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.WriteField("job_id", strconv.FormatInt(req.JobID, 10)); err != nil {
		return nil, fmt.Errorf("failed to write form: %w", err)
	}
	if err := writer.WriteField("cover_letter", req.CoverLetter); err != nil {
		return nil, fmt.Errorf("failed to write form: %w", err)
	}
	part, err := writer.CreateFormFile("cv", filepath.Base(req.CVPath))
	if err != nil {
		return nil, fmt.Errorf("failed to write form: %w", err)
	}
	if _, err := io.Copy(part, cv); err != nil {
		return nil, fmt.Errorf("failed to read CV: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to write form: %w", err)
	}

	httpReq, err := c.newRequest(ctx, http.MethodPost, "/applications", &body, writer.FormDataContentType())
	if err != nil {
		return nil, err
	}

	var app types.Application
	if err := c.do(httpReq, "Failed to submit application", &app); err != nil {
		return nil, err
	}
	return &app, nil
}

// ListApplications returns the applicant's own applications, or all applications to
// the manager's jobs.
func (c *Client) ListApplications(ctx context.Context) ([]types.Application, error) {
	var apps []types.Application
	if err := c.doJSON(ctx, http.MethodGet, "/applications", nil, "Failed to fetch applications", &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

// CVFile is a downloaded CV.
type CVFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// DownloadCV fetches the CV attached to an application.
func (c *Client) DownloadCV(ctx context.Context, applicationID int64) (*CVFile, error) {
	req, err := c.newRequest(ctx, http.MethodGet, fmt.Sprintf("/applications/%d/cv", applicationID), nil, "")
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "*/*")

	resp, body, err := c.send(req, "Failed to download CV")
	if err != nil {
		return nil, err
	}

	filename := fmt.Sprintf("application-%d-cv", applicationID)
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil && params["filename"] != "" {
		filename = filepath.Base(params["filename"])
	}

	return &CVFile{
		Filename:    filename,
		ContentType: resp.Header.Get("Content-Type"),
		Data:        body,
	}, nil
}
