package assistant

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/hirechat/internal/types"
)

// Transcript is the append-only message history of one chat panel.
// It is safe for concurrent use.
type Transcript struct {
	mu       sync.RWMutex
	messages []types.ChatMessage
	now      func() time.Time
}

// NewTranscript returns an empty transcript.
func NewTranscript() *Transcript {
	return &Transcript{now: time.Now}
}

// Append records a message and returns it with its assigned id and timestamp.
func (t *Transcript) Append(role types.ChatRole, content string) types.ChatMessage {
	msg := types.ChatMessage{
		ID:        uuid.New(),
		Role:      role,
		Content:   content,
		Timestamp: t.now(),
	}

	t.mu.Lock()
	t.messages = append(t.messages, msg)
	t.mu.Unlock()

	return msg
}

// Messages returns a copy of the history in insertion order.
func (t *Transcript) Messages() []types.ChatMessage {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]types.ChatMessage, len(t.messages))
	copy(out, t.messages)
	return out
}

// Len returns the number of recorded messages.
func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.messages)
}
