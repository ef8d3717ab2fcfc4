// Package history keeps a local SQLite record of chat conversations so that
// earlier answers can be reviewed after the chat ends.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/jonathan/hirechat/internal/types"
)

// DefaultLimit is the number of messages Recent returns when limit is not positive.
const DefaultLimit = 50

// Store is a chat history database. Messages are keyed by owner (the account
// email) and panel so several accounts can share one machine.
type Store struct {
	db *sql.DB
}

// Open opens or creates the history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite: single writer

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize history: %w", err)
	}
	return &Store{db: db}, nil
}

func initSchema(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS messages (
		seq        INTEGER PRIMARY KEY AUTOINCREMENT,
		id         TEXT NOT NULL,
		owner      TEXT NOT NULL,
		panel      TEXT NOT NULL,
		role       TEXT NOT NULL,
		content    TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`); err != nil {
		return err
	}
	_, err := db.Exec(`CREATE INDEX IF NOT EXISTS messages_owner_seq ON messages (owner, seq)`)
	return err
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Append records messages in order.
func (s *Store) Append(ctx context.Context, owner, panel string, msgs ...types.ChatMessage) error {
	if len(msgs) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin history write: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO messages (id, owner, panel, role, content, created_at) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare history write: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, msg := range msgs {
		if _, err := stmt.ExecContext(ctx,
			msg.ID.String(), owner, panel, string(msg.Role), msg.Content,
			msg.Timestamp.UTC().Format(time.RFC3339Nano),
		); err != nil {
			return fmt.Errorf("failed to write history: %w", err)
		}
	}
	return tx.Commit()
}

// Recent returns the owner's last limit messages, oldest first.
// An empty panel matches every panel.
func (s *Store) Recent(ctx context.Context, owner, panel string, limit int) ([]types.ChatMessage, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, role, content, created_at FROM (
			SELECT seq, id, role, content, created_at FROM messages
			WHERE owner = ? AND (? = '' OR panel = ?)
			ORDER BY seq DESC LIMIT ?
		) ORDER BY seq ASC`,
		owner, panel, panel, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var msgs []types.ChatMessage
	for rows.Next() {
		var id, role, content, created string
		if err := rows.Scan(&id, &role, &content, &created); err != nil {
			return nil, fmt.Errorf("failed to scan history: %w", err)
		}
		msg := types.ChatMessage{Role: types.ChatRole(role), Content: content}
		if parsed, err := uuid.Parse(id); err == nil {
			msg.ID = parsed
		}
		if ts, err := time.Parse(time.RFC3339Nano, created); err == nil {
			msg.Timestamp = ts
		}
		msgs = append(msgs, msg)
	}
	return msgs, rows.Err()
}

// Clear deletes the owner's history and reports how many messages were removed.
func (s *Store) Clear(ctx context.Context, owner string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM messages WHERE owner = ?`, owner)
	if err != nil {
		return 0, fmt.Errorf("failed to clear history: %w", err)
	}
	return res.RowsAffected()
}
