package assistant

import (
	"context"
	"fmt"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/hirechat/internal/replies"
	"github.com/jonathan/hirechat/internal/types"
)

// API is the subset of the remote client the chat panels need.
type API interface {
	ListJobs(ctx context.Context) ([]types.Job, error)
	ListApplications(ctx context.Context) ([]types.Application, error)
	CreateJob(ctx context.Context, draft types.JobPostingDraft) (*types.Job, error)
	CloseJob(ctx context.Context, id int64) (*types.Job, error)
	AnalyzeApplication(ctx context.Context, id int64) (*types.Analysis, error)
	GenerateEmail(ctx context.Context, id int64, kind types.EmailKind) (*types.EmailDraft, error)
}

// Backend implements Loader and Executor over the remote API.
type Backend struct {
	api API
}

// NewBackend wraps an API client.
func NewBackend(api API) *Backend {
	return &Backend{api: api}
}

// Load fetches jobs and applications concurrently.
func (b *Backend) Load(ctx context.Context) (Snapshot, error) {
	var snapshot Snapshot
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		jobs, err := b.api.ListJobs(gctx)
		if err != nil {
			return fmt.Errorf("failed to list jobs: %w", err)
		}
		snapshot.Jobs = jobs
		return nil
	})

	g.Go(func() error {
		apps, err := b.api.ListApplications(gctx)
		if err != nil {
			return fmt.Errorf("failed to list applications: %w", err)
		}
		snapshot.Applications = apps
		return nil
	})

	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}
	return snapshot, nil
}

// Execute performs the action and renders the result as chat text.
func (b *Backend) Execute(ctx context.Context, action Action) (string, error) {
	switch action.Kind {
	case ActionCreateJob:
		if action.Draft == nil {
			return "", fmt.Errorf("create job action has no draft")
		}
		job, err := b.api.CreateJob(ctx, *action.Draft)
		if err != nil {
			return "", err
		}
		return replies.Render(replies.Manager, "job-created", map[string]string{
			"ID":        strconv.FormatInt(job.ID, 10),
			"Title":     job.Title,
			"Location":  locationOrDash(job.Location),
			"SalaryMin": strconv.Itoa(job.SalaryMin),
			"SalaryMax": strconv.Itoa(job.SalaryMax),
		}), nil

	case ActionCloseJob:
		job, err := b.api.CloseJob(ctx, action.JobID)
		if err != nil {
			return "", err
		}
		return replies.Render(replies.Manager, "job-closed", map[string]string{
			"ID":    strconv.FormatInt(job.ID, 10),
			"Title": job.Title,
		}), nil

	case ActionAnalyze:
		analysis, err := b.api.AnalyzeApplication(ctx, action.ApplicationID)
		if err != nil {
			return "", err
		}
		return replies.Render(replies.Manager, "analysis", map[string]string{
			"ID":      strconv.FormatInt(action.ApplicationID, 10),
			"Score":   strconv.FormatFloat(analysis.Score, 'f', -1, 64),
			"Summary": analysis.Summary,
		}), nil

	case ActionEmail:
		draft, err := b.api.GenerateEmail(ctx, action.ApplicationID, action.EmailKind)
		if err != nil {
			return "", err
		}
		return replies.Render(replies.Manager, "email", map[string]string{
			"Subject": draft.Subject,
			"Body":    draft.Body,
		}), nil

	default:
		return "", fmt.Errorf("unknown action %q", action.Kind)
	}
}
