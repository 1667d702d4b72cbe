package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/navikon/atlasbot/internal/models"
)

// ErrSessionNotFound is returned when no conversation history is stored for
// the session id.
var ErrSessionNotFound = errors.New("session not found")

// GetSession loads the stored conversation history for a session id.
func (r *Repository) GetSession(ctx context.Context, sessionID string) ([]models.Message, error) {
	var data []byte
	err := r.db.QueryRow(ctx, "SELECT data FROM telegram_sessions WHERE id = $1", sessionID).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var history []models.Message
	if err = json.Unmarshal(data, &history); err != nil {
		return nil, fmt.Errorf("failed to decode session history: %w", err)
	}

	return history, nil
}

// SaveSession upserts the whole history for a session id, last writer wins.
func (r *Repository) SaveSession(ctx context.Context, sessionID string, history []models.Message) error {
	data, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("failed to encode session history: %w", err)
	}

	query := `
		INSERT INTO telegram_sessions (id, data, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`

	if _, err = r.db.Exec(ctx, query, sessionID, data); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

// DeleteSession removes the stored history for a session id. Deleting a
// session that does not exist is not an error.
func (r *Repository) DeleteSession(ctx context.Context, sessionID string) error {
	if _, err := r.db.Exec(ctx, "DELETE FROM telegram_sessions WHERE id = $1", sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}

// DeleteSessionsOlderThan removes sessions not updated since the cutoff and
// returns how many were dropped.
func (r *Repository) DeleteSessionsOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, "DELETE FROM telegram_sessions WHERE updated_at < $1", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old sessions: %w", err)
	}

	return tag.RowsAffected(), nil
}
