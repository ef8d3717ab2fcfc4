package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/jonathan/hirechat/internal/replies"
	"github.com/jonathan/hirechat/internal/types"
)

// ErrEmptyMessage is returned by Send for blank input.
var ErrEmptyMessage = errors.New("message is empty")

// Executor performs the remote call behind an Action and describes the outcome.
type Executor interface {
	Execute(ctx context.Context, action Action) (string, error)
}

// Loader fetches a fresh snapshot of jobs and applications.
type Loader interface {
	Load(ctx context.Context) (Snapshot, error)
}

// Session ties a responder to a transcript and an optional backend.
type Session struct {
	responder  Responder
	executor   Executor
	loader     Loader
	transcript *Transcript

	mu       sync.RWMutex
	snapshot Snapshot
}

// Option configures a Session.
type Option func(*Session)

// WithExecutor runs reply actions through e.
func WithExecutor(e Executor) Option {
	return func(s *Session) { s.executor = e }
}

// WithLoader refreshes the snapshot through l.
func WithLoader(l Loader) Option {
	return func(s *Session) { s.loader = l }
}

// NewSession creates a chat session for the given panel.
func NewSession(responder Responder, opts ...Option) *Session {
	s := &Session{
		responder:  responder,
		transcript: NewTranscript(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Transcript returns the session history.
func (s *Session) Transcript() *Transcript {
	return s.transcript
}

// Snapshot returns the cached jobs and applications.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// SetSnapshot replaces the cached snapshot. The last write wins.
func (s *Session) SetSnapshot(snapshot Snapshot) {
	s.mu.Lock()
	s.snapshot = snapshot
	s.mu.Unlock()
}

// Refresh reloads the snapshot. It is a no-op without a loader.
func (s *Session) Refresh(ctx context.Context) error {
	if s.loader == nil {
		return nil
	}
	snapshot, err := s.loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load jobs and applications: %w", err)
	}
	s.SetSnapshot(snapshot)
	return nil
}

// Send records the user message, answers it and records the answer.
// When the reply carries an action and an executor is configured, the action runs
// and its outcome replaces the reply text. Action failures become the reply text
// rather than an error.
func (s *Session) Send(ctx context.Context, text string) (Reply, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Reply{}, ErrEmptyMessage
	}

	s.transcript.Append(types.ChatRoleUser, text)
	reply := s.responder.Respond(text, s.Snapshot())

	if reply.Action != nil && s.executor != nil {
		reply.Text = s.Exec(ctx, *reply.Action)
	}

	s.transcript.Append(types.ChatRoleAssistant, reply.Text)
	return reply, nil
}

// Exec runs an action and returns the text to show for it.
func (s *Session) Exec(ctx context.Context, action Action) string {
	outcome, err := s.executor.Execute(ctx, action)
	if err != nil {
		return replies.Render(replies.Manager, "action-failed", map[string]string{"Error": err.Error()})
	}

	if action.Kind == ActionCreateJob || action.Kind == ActionCloseJob {
		// A stale snapshot only affects later answers; the action itself succeeded.
		_ = s.Refresh(ctx)
	}
	return outcome
}
