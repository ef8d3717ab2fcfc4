package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/jonathan/hirechat/internal/types"
)

// AnalyzeApplication asks the server to score an application against its job.
func (c *Client) AnalyzeApplication(ctx context.Context, id int64) (*types.Analysis, error) {
	var analysis types.Analysis
	path := fmt.Sprintf("/applications/%d/analyze", id)
	if err := c.doJSON(ctx, http.MethodPost, path, nil, "Failed to analyze application", &analysis); err != nil {
		return nil, err
	}
	if analysis.ApplicationID == 0 {
		analysis.ApplicationID = id
	}
	return &analysis, nil
}

type emailRequest struct {
	Kind types.EmailKind `json:"kind"`
}

type emailResponse struct {
	Text string `json:"text"`
}

// GenerateEmail drafts an interview invitation or rejection for an application.
func (c *Client) GenerateEmail(ctx context.Context, id int64, kind types.EmailKind) (*types.EmailDraft, error) {
	if kind != types.EmailInterview && kind != types.EmailRejection {
		return nil, fmt.Errorf("unknown email kind %q", kind)
	}

	var resp emailResponse
	path := fmt.Sprintf("/applications/%d/email", id)
	if err := c.doJSON(ctx, http.MethodPost, path, emailRequest{Kind: kind}, "Failed to generate email", &resp); err != nil {
		return nil, err
	}

	draft := ParseEmail(resp.Text)
	return &draft, nil
}

// ParseEmail splits generated text whose first line is "Subject: ..." from the body.
// Text without a subject line becomes the body.
func ParseEmail(text string) types.EmailDraft {
	text = strings.TrimSpace(text)
	first, rest, _ := strings.Cut(text, "\n")

	label, subject, ok := strings.Cut(strings.TrimSpace(first), ":")
	if !ok || !strings.EqualFold(strings.TrimSpace(label), "subject") {
		return types.EmailDraft{Body: text}
	}
	return types.EmailDraft{
		Subject: strings.TrimSpace(subject),
		Body:    strings.TrimSpace(rest),
	}
}
