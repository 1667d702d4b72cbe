package repository_test

import (
	"testing"
	"time"

	"github.com/navikon/atlasbot/internal/models"
	"github.com/navikon/atlasbot/internal/repository"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const selectSession = `SELECT data FROM telegram_sessions WHERE id = \$1`

const upsertSession = `(?s)INSERT INTO telegram_sessions (.+) ON CONFLICT \(id\) DO UPDATE SET (.+)`

const deleteSession = `DELETE FROM telegram_sessions WHERE id = \$1`

const deleteOldSessions = `DELETE FROM telegram_sessions WHERE updated_at < \$1`

func TestGetSession(t *testing.T) {
	t.Parallel()
	ctx := t.Context()
	sessionID := "12345"

	t.Run("error - query failed", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock)

		mock.ExpectQuery(selectSession).WithArgs(sessionID).WillReturnError(assert.AnError)

		_, err = repo.GetSession(ctx, sessionID)

		require.Error(t, err)
		require.ErrorIs(t, err, assert.AnError)
		require.ErrorContains(t, err, "failed to get session")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error - session not found", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock)

		mock.ExpectQuery(selectSession).
			WithArgs(sessionID).
			WillReturnRows(pgxmock.NewRows([]string{"data"}))

		_, err = repo.GetSession(ctx, sessionID)

		require.Error(t, err)
		require.ErrorIs(t, err, repository.ErrSessionNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error - corrupted history payload", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock)

		mock.ExpectQuery(selectSession).
			WithArgs(sessionID).
			WillReturnRows(pgxmock.NewRows([]string{"data"}).AddRow([]byte("not-json")))

		_, err = repo.GetSession(ctx, sessionID)

		require.Error(t, err)
		require.ErrorContains(t, err, "failed to decode session history")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success - get session", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock)

		payload := []byte(`[{"role":"user","content":"Кто директор?"},{"role":"assistant","content":"Сергей Беляев"}]`)
		mock.ExpectQuery(selectSession).
			WithArgs(sessionID).
			WillReturnRows(pgxmock.NewRows([]string{"data"}).AddRow(payload))

		history, err := repo.GetSession(ctx, sessionID)

		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.Equal(t, models.RoleUser, history[0].Role)
		assert.Equal(t, "Кто директор?", history[0].Content)
		assert.Equal(t, models.RoleAssistant, history[1].Role)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSaveSession(t *testing.T) {
	t.Parallel()
	ctx := t.Context()
	sessionID := "12345"
	history := []models.Message{{Role: models.RoleUser, Content: "привет"}}
	payload := []byte(`[{"role":"user","content":"привет"}]`)

	t.Run("error - exec failed", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock)

		mock.ExpectExec(upsertSession).WithArgs(sessionID, payload).WillReturnError(assert.AnError)

		err = repo.SaveSession(ctx, sessionID, history)

		require.Error(t, err)
		require.ErrorIs(t, err, assert.AnError)
		require.ErrorContains(t, err, "failed to save session")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success - save session", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock)

		mock.ExpectExec(upsertSession).
			WithArgs(sessionID, payload).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		err = repo.SaveSession(ctx, sessionID, history)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDeleteSession(t *testing.T) {
	t.Parallel()
	ctx := t.Context()
	sessionID := "12345"

	t.Run("error - exec failed", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock)

		mock.ExpectExec(deleteSession).WithArgs(sessionID).WillReturnError(assert.AnError)

		err = repo.DeleteSession(ctx, sessionID)

		require.Error(t, err)
		require.ErrorIs(t, err, assert.AnError)
		require.ErrorContains(t, err, "failed to delete session")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success - delete missing session is a no-op", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock)

		mock.ExpectExec(deleteSession).WithArgs(sessionID).WillReturnResult(pgxmock.NewResult("DELETE", 0))

		err = repo.DeleteSession(ctx, sessionID)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDeleteSessionsOlderThan(t *testing.T) {
	t.Parallel()
	ctx := t.Context()
	cutoff := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)

	t.Run("error - exec failed", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock)

		mock.ExpectExec(deleteOldSessions).WithArgs(cutoff).WillReturnError(assert.AnError)

		_, err = repo.DeleteSessionsOlderThan(ctx, cutoff)

		require.Error(t, err)
		require.ErrorIs(t, err, assert.AnError)
		require.ErrorContains(t, err, "failed to delete old sessions")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success - reports swept count", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock)

		mock.ExpectExec(deleteOldSessions).WithArgs(cutoff).WillReturnResult(pgxmock.NewResult("DELETE", 3))

		swept, err := repo.DeleteSessionsOlderThan(ctx, cutoff)

		require.NoError(t, err)
		assert.Equal(t, int64(3), swept)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
