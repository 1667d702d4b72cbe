// Package ratelimit implements a per-key sliding-window request limiter.
// Only requests within the trailing window count toward the limit; entries
// are pruned lazily on each check and stale keys are swept periodically.
package ratelimit

import (
	"context"
	"math"
	"sync"
	"time"
)

// Config holds the limiter settings.
type Config struct {
	Enabled     bool
	MaxRequests int
	Window      time.Duration
}

type window struct {
	mu     sync.Mutex
	stamps []time.Time
}

// Limiter tracks accepted request timestamps per key. Each key has its own
// lock, so checks for different keys do not block each other.
type Limiter struct {
	cfg     Config
	mu      sync.RWMutex
	windows map[string]*window
	now     func() time.Time
}

// New creates a limiter. A disabled limiter accepts everything.
func New(cfg Config) *Limiter {
	return &Limiter{
		cfg:     cfg,
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

// Allow records a request for the key if it is within the limit. On
// rejection it returns how long the caller must wait before the oldest
// counted request leaves the window, rounded up to whole seconds.
func (l *Limiter) Allow(key string) (bool, time.Duration) {
	if !l.cfg.Enabled {
		return true, 0
	}

	win := l.windowFor(key)
	win.mu.Lock()
	defer win.mu.Unlock()

	now := l.now()
	valid := win.stamps[:0]
	for _, ts := range win.stamps {
		if now.Sub(ts) < l.cfg.Window {
			valid = append(valid, ts)
		}
	}
	win.stamps = valid

	if len(win.stamps) >= l.cfg.MaxRequests {
		retry := win.stamps[0].Add(l.cfg.Window).Sub(now)
		seconds := math.Ceil(retry.Seconds())
		if seconds < 1 {
			seconds = 1
		}
		return false, time.Duration(seconds) * time.Second
	}

	win.stamps = append(win.stamps, now)
	return true, 0
}

// Cleanup drops keys whose every timestamp has left the window, bounding
// memory for one-off senders. Returns the number of evicted keys.
func (l *Limiter) Cleanup() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	evicted := 0
	for key, win := range l.windows {
		win.mu.Lock()
		stale := true
		for _, ts := range win.stamps {
			if now.Sub(ts) < l.cfg.Window {
				stale = false
				break
			}
		}
		win.mu.Unlock()

		if stale {
			delete(l.windows, key)
			evicted++
		}
	}

	return evicted
}

// Run sweeps stale keys on the given interval until the context is canceled.
// Intended to be launched as a goroutine.
func (l *Limiter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Cleanup()
		}
	}
}

func (l *Limiter) windowFor(key string) *window {
	l.mu.RLock()
	win, ok := l.windows[key]
	l.mu.RUnlock()
	if ok {
		return win
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if win, ok = l.windows[key]; ok {
		return win
	}
	win = &window{}
	l.windows[key] = win
	return win
}
