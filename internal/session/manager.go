package session

import (
	"context"
	"fmt"
	"time"

	"github.com/jonathan/hirechat/internal/api"
	"github.com/jonathan/hirechat/internal/types"
)

// AuthAPI is the part of the API client the session lifecycle uses.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*types.TokenResponse, error)
	Register(ctx context.Context, req types.RegisterRequest) (*types.User, error)
	CurrentUser(ctx context.Context, token string) (*types.User, error)
}

// Manager runs the login, restore and logout lifecycle over a Store.
type Manager struct {
	store *Store
	api   AuthAPI
	now   func() time.Time
}

// NewManager creates a lifecycle manager.
func NewManager(store *Store, authAPI AuthAPI) *Manager {
	return &Manager{store: store, api: authAPI, now: time.Now}
}

// Store returns the underlying store.
func (m *Manager) Store() *Store {
	return m.store
}

// Login exchanges credentials for a token, loads the profile and saves both.
func (m *Manager) Login(ctx context.Context, email, password string) (*Session, error) {
	token, err := m.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	user, err := m.api.CurrentUser(ctx, token.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	sess := &Session{Token: token.AccessToken, User: user}
	if err := m.store.Save(sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Register creates an account without logging in.
func (m *Manager) Register(ctx context.Context, req types.RegisterRequest) (*types.User, error) {
	return m.api.Register(ctx, req)
}

// Restore loads the saved session and refreshes the profile from the server.
// A token the server rejects, or one past its exp claim, clears the session.
func (m *Manager) Restore(ctx context.Context) (*Session, error) {
	sess, err := m.store.Load()
	if err != nil {
		return nil, err
	}
	if !sess.Authenticated() {
		return nil, ErrNotLoggedIn
	}
	if sess.Expired(m.now()) {
		_ = m.store.Clear()
		return nil, ErrSessionExpired
	}

	user, err := m.api.CurrentUser(ctx, sess.Token)
	if err != nil {
		if api.IsUnauthorized(err) {
			_ = m.store.Clear()
			return nil, ErrSessionExpired
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	sess.User = user
	if err := m.store.Save(sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Logout forgets the saved session.
func (m *Manager) Logout() error {
	return m.store.Clear()
}
