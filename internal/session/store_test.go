package session_test

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/navikon/atlasbot/internal/models"
	"github.com/navikon/atlasbot/internal/repository"
	"github.com/navikon/atlasbot/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSessionRepo is an in-memory SessionManager with injectable failures.
type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[string][]models.Message
	getErr   error
	saveErr  error
	delErr   error
	sweepErr error
	sweeps   int
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string][]models.Message)}
}

func (f *fakeSessionRepo) GetSession(_ context.Context, sessionID string) ([]models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	history, ok := f.sessions[sessionID]
	if !ok {
		return nil, repository.ErrSessionNotFound
	}
	return history, nil
}

func (f *fakeSessionRepo) SaveSession(_ context.Context, sessionID string, history []models.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.sessions[sessionID] = history
	return nil
}

func (f *fakeSessionRepo) DeleteSession(_ context.Context, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.delErr != nil {
		return f.delErr
	}
	delete(f.sessions, sessionID)
	return nil
}

func (f *fakeSessionRepo) DeleteSessionsOlderThan(_ context.Context, _ time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sweeps++
	if f.sweepErr != nil {
		return 0, f.sweepErr
	}
	removed := int64(len(f.sessions))
	f.sessions = make(map[string][]models.Message)
	return removed, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestStoreGet(t *testing.T) {
	t.Parallel()
	ctx := t.Context()

	t.Run("stored history is returned", func(t *testing.T) {
		t.Parallel()
		repo := newFakeSessionRepo()
		repo.sessions["42"] = []models.Message{{Role: models.RoleUser, Content: "привет"}}
		store := session.NewStore(testLogger(), repo, 10)

		history := store.Get(ctx, "42")

		require.Len(t, history, 1)
		assert.Equal(t, "привет", history[0].Content)
	})

	t.Run("unknown session yields empty history", func(t *testing.T) {
		t.Parallel()
		store := session.NewStore(testLogger(), newFakeSessionRepo(), 10)

		assert.Empty(t, store.Get(ctx, "missing"))
	})

	t.Run("read failure degrades to empty history", func(t *testing.T) {
		t.Parallel()
		repo := newFakeSessionRepo()
		repo.getErr = assert.AnError
		store := session.NewStore(testLogger(), repo, 10)

		assert.Empty(t, store.Get(ctx, "42"))
	})
}

func TestStoreSave(t *testing.T) {
	t.Parallel()
	ctx := t.Context()

	t.Run("history is persisted", func(t *testing.T) {
		t.Parallel()
		repo := newFakeSessionRepo()
		store := session.NewStore(testLogger(), repo, 10)

		store.Save(ctx, "42", []models.Message{{Role: models.RoleAssistant, Content: "ответ"}})

		require.Len(t, repo.sessions["42"], 1)
		assert.Equal(t, models.RoleAssistant, repo.sessions["42"][0].Role)
	})

	t.Run("write failure is swallowed", func(t *testing.T) {
		t.Parallel()
		repo := newFakeSessionRepo()
		repo.saveErr = assert.AnError
		store := session.NewStore(testLogger(), repo, 10)

		// must not panic or raise; the turn is simply lost
		store.Save(ctx, "42", []models.Message{{Role: models.RoleUser, Content: "привет"}})

		assert.Empty(t, repo.sessions)
	})
}

func TestStoreClear(t *testing.T) {
	t.Parallel()
	ctx := t.Context()

	t.Run("session is removed", func(t *testing.T) {
		t.Parallel()
		repo := newFakeSessionRepo()
		repo.sessions["42"] = []models.Message{{Role: models.RoleUser, Content: "привет"}}
		store := session.NewStore(testLogger(), repo, 10)

		require.NoError(t, store.Clear(ctx, "42"))
		assert.Empty(t, repo.sessions)
	})

	t.Run("failure is reported, unlike reads and writes", func(t *testing.T) {
		t.Parallel()
		repo := newFakeSessionRepo()
		repo.delErr = assert.AnError
		store := session.NewStore(testLogger(), repo, 10)

		require.ErrorIs(t, store.Clear(ctx, "42"), assert.AnError)
	})
}

func TestStoreTruncate(t *testing.T) {
	t.Parallel()

	t.Run("short history is untouched", func(t *testing.T) {
		t.Parallel()
		store := session.NewStore(testLogger(), newFakeSessionRepo(), 10)
		history := []models.Message{{Role: models.RoleUser, Content: "привет"}}

		assert.Equal(t, history, store.Truncate(history))
	})

	t.Run("long history keeps the most recent entries", func(t *testing.T) {
		t.Parallel()
		store := session.NewStore(testLogger(), newFakeSessionRepo(), 10)

		history := make([]models.Message, 0, 25)
		for i := range 25 {
			history = append(history, models.Message{Role: models.RoleUser, Content: fmt.Sprintf("msg-%d", i)})
		}

		truncated := store.Truncate(history)

		require.Len(t, truncated, 20)
		assert.Equal(t, "msg-5", truncated[0].Content)
		assert.Equal(t, "msg-24", truncated[19].Content)
	})

	t.Run("boundary length is kept whole", func(t *testing.T) {
		t.Parallel()
		store := session.NewStore(testLogger(), newFakeSessionRepo(), 10)

		history := make([]models.Message, 20)
		assert.Len(t, store.Truncate(history), 20)
	})
}
