package server

import (
	"sync"
	"time"

	"github.com/jonathan/hirechat/internal/api"
	"github.com/jonathan/hirechat/internal/assistant"
)

// Chat panels served by the gateway.
const (
	PanelApplicant = "applicant"
	PanelManager   = "manager"
)

// chatIdleTimeout is how long an untouched conversation is kept.
const chatIdleTimeout = 2 * time.Hour

type chatEntry struct {
	session  *assistant.Session
	lastUsed time.Time
}

// chatStore holds one assistant session per bearer token and panel.
type chatStore struct {
	client *api.Client

	mu      sync.Mutex
	entries map[string]*chatEntry
}

func newChatStore(client *api.Client) *chatStore {
	return &chatStore{
		client:  client,
		entries: make(map[string]*chatEntry),
	}
}

func newResponder(panel string) (assistant.Responder, error) {
	switch panel {
	case PanelApplicant:
		return assistant.NewApplicant(), nil
	case PanelManager:
		return assistant.NewManager(), nil
	default:
		return nil, &ErrUnknownPanel{Panel: panel}
	}
}

// get returns the session for token on panel, creating it on first use.
func (c *chatStore) get(panel, token string, now time.Time) (*assistant.Session, error) {
	responder, err := newResponder(panel)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	key := panel + ":" + token
	entry, ok := c.entries[key]
	if !ok {
		backend := assistant.NewBackend(c.client.WithToken(token))
		entry = &chatEntry{
			session: assistant.NewSession(responder, assistant.WithExecutor(backend), assistant.WithLoader(backend)),
		}
		c.entries[key] = entry
	}
	entry.lastUsed = now
	return entry.session, nil
}

// lookup returns an existing session without creating one.
func (c *chatStore) lookup(panel, token string) (*assistant.Session, bool, error) {
	if _, err := newResponder(panel); err != nil {
		return nil, false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[panel+":"+token]
	if !ok {
		return nil, false, nil
	}
	return entry.session, true, nil
}

// reset drops the conversation for token on panel.
func (c *chatStore) reset(panel, token string) error {
	if _, err := newResponder(panel); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, panel+":"+token)
	return nil
}

// sweep drops conversations idle for longer than chatIdleTimeout and reports how many.
func (c *chatStore) sweep(now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	cutoff := now.Add(-chatIdleTimeout)
	removed := 0
	for key, entry := range c.entries {
		if entry.lastUsed.Before(cutoff) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

func (c *chatStore) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
