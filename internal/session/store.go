package session

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mkoukoua/momochat/internal/db"
)

// Store manages persistence of chat sessions and their message logs.
type Store struct {
	db *db.DB
}

// NewStore creates a new session store.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Load reads a persisted session by id. It returns nil (no error) when the
// session does not exist or its message log is empty, so callers fall back
// to creating a fresh session.
func (s *Store) Load(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, nil
	}

	var sess Session
	var quickActions int
	err := s.db.QueryRowContext(ctx,
		`SELECT id, quick_actions, created_at FROM sessions WHERE id = ?`, id,
	).Scan(&sess.ID, &quickActions, &sess.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}
	sess.QuickActions = quickActions != 0

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, text, sender, created_at FROM messages WHERE session_id = ? ORDER BY rowid`, id,
	)
	if err != nil {
		return nil, fmt.Errorf("loading messages: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.Text, &m.Sender, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		sess.Messages = append(sess.Messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading messages: %w", err)
	}

	if len(sess.Messages) == 0 {
		return nil, nil
	}
	return &sess, nil
}

// Save persists the session and its full message log. Messages are immutable
// and the log is append-only, so inserting the rows not yet present is
// equivalent to overwriting the stored copy.
func (s *Store) Save(ctx context.Context, sess *Session) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning save: %w", err)
	}
	defer tx.Rollback()

	quickActions := 0
	if sess.QuickActions {
		quickActions = 1
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO sessions (id, quick_actions, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET quick_actions = excluded.quick_actions, updated_at = datetime('now')`,
		sess.ID, quickActions, sess.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("saving session: %w", err)
	}

	for _, m := range sess.Messages {
		_, err = tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO messages (id, session_id, sender, text, created_at) VALUES (?, ?, ?, ?, ?)`,
			m.ID, sess.ID, m.Sender, m.Text, m.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("saving message: %w", err)
		}
	}

	return tx.Commit()
}

// CountSessions returns the number of persisted sessions.
func (s *Store) CountSessions(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions`).Scan(&count)
	return count, err
}
