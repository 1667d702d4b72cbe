// Package session keeps per-user conversation history with bounded length.
// Storage failures degrade to an empty or unsaved session and are never
// raised to the message pipeline.
package session

import (
	"context"
	"errors"
	"log/slog"

	"github.com/navikon/atlasbot/internal/models"
	"github.com/navikon/atlasbot/internal/repository"
)

// Store reads and writes conversation history through the session repository.
type Store struct {
	log        *slog.Logger
	repo       repository.SessionManager
	maxHistory int
}

// NewStore creates a session store. maxHistoryMessages bounds the number of
// user/assistant turn pairs kept as fallback context.
func NewStore(log *slog.Logger, repo repository.SessionManager, maxHistoryMessages int) *Store {
	return &Store{log: log, repo: repo, maxHistory: maxHistoryMessages}
}

// Get returns the stored history for a session, or an empty history when
// none exists or the read fails. Fail-open: a broken session table must not
// break the conversation.
func (s *Store) Get(ctx context.Context, sessionID string) []models.Message {
	history, err := s.repo.GetSession(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, repository.ErrSessionNotFound) {
			s.log.ErrorContext(ctx, "Failed to load session, using empty history",
				"session_id", sessionID, "error", err)
		}
		return nil
	}

	return history
}

// Save upserts the whole history for a session, last writer wins. A failed
// write is logged and swallowed.
func (s *Store) Save(ctx context.Context, sessionID string, history []models.Message) {
	if err := s.repo.SaveSession(ctx, sessionID, history); err != nil {
		s.log.ErrorContext(ctx, "Failed to save session", "session_id", sessionID, "error", err)
	}
}

// Clear resets the session to empty, independent of truncation.
func (s *Store) Clear(ctx context.Context, sessionID string) error {
	if err := s.repo.DeleteSession(ctx, sessionID); err != nil {
		return err
	}

	return nil
}

// Truncate drops the oldest entries so that at most 2*maxHistoryMessages
// remain. This caps the context sent to the fallback collaborator.
func (s *Store) Truncate(history []models.Message) []models.Message {
	limit := s.maxHistory * 2
	if len(history) <= limit {
		return history
	}

	return history[len(history)-limit:]
}
