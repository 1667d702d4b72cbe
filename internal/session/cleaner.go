package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/navikon/atlasbot/internal/repository"
)

// Cleaner deletes sessions whose updated_at is older than maxAge. The sweep
// runs once at startup and then on a fixed interval; it reports a count and
// never an error to the caller.
type Cleaner struct {
	log      *slog.Logger
	repo     repository.SessionManager
	maxAge   time.Duration
	interval time.Duration
}

// NewCleaner creates a background session sweeper.
func NewCleaner(log *slog.Logger, repo repository.SessionManager, maxAge, interval time.Duration) *Cleaner {
	return &Cleaner{log: log, repo: repo, maxAge: maxAge, interval: interval}
}

// Run sweeps immediately and then on every tick until the context is
// canceled. Intended to be launched as a goroutine.
func (c *Cleaner) Run(ctx context.Context) {
	c.sweep(ctx)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.sweep(ctx)
		}
	}
}

func (c *Cleaner) sweep(ctx context.Context) {
	cutoff := time.Now().Add(-c.maxAge)

	removed, err := c.repo.DeleteSessionsOlderThan(ctx, cutoff)
	if err != nil {
		c.log.ErrorContext(ctx, "Failed to clean up old sessions", "error", err)
		return
	}

	if removed > 0 {
		c.log.InfoContext(ctx, "Old sessions cleaned up", "count", removed)
	}
}
