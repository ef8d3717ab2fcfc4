package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jonathan/hirechat/internal/schemas"
	"github.com/jonathan/hirechat/internal/types"
)

// ListJobs returns the jobs visible to the current user.
func (c *Client) ListJobs(ctx context.Context) ([]types.Job, error) {
	var jobs []types.Job
	if err := c.doJSON(ctx, http.MethodGet, "/jobs", nil, "Failed to fetch jobs", &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// CreateJob submits a draft. The draft is checked against the job posting schema first.
func (c *Client) CreateJob(ctx context.Context, draft types.JobPostingDraft) (*types.Job, error) {
	if err := schemas.ValidateDraft(draft); err != nil {
		return nil, err
	}

	var job types.Job
	if err := c.doJSON(ctx, http.MethodPost, "/jobs", draft, "Failed to create job", &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// CloseJob stops a job from accepting applications.
func (c *Client) CloseJob(ctx context.Context, id int64) (*types.Job, error) {
	var job types.Job
	path := fmt.Sprintf("/jobs/%d/close", id)
	if err := c.doJSON(ctx, http.MethodPatch, path, nil, "Failed to close job", &job); err != nil {
		return nil, err
	}
	return &job, nil
}
