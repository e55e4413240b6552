// Package guard tracks per-actor attempt counters and blocks actors that
// exceed a failure threshold within a rolling window. It gates sensitive
// service entry points (login lockout, search flood limiting) and always
// answers with a boolean, never an error.
package guard

import (
	"time"

	"github.com/puzpuzpuz/xsync/v3"
)

// Config carries the guard policy.
type Config struct {
	// MaxAttempts is the failure count at which an actor locks.
	MaxAttempts int
	// WindowSeconds is how long a lock (and its counter) lasts.
	WindowSeconds int
}

const (
	defaultMaxAttempts   = 5
	defaultWindowSeconds = 900
)

// counter is the per-key state. Stored by value so every transition goes
// through an atomic Compute and check-then-act cannot race.
type counter struct {
	count     int
	windowEnd time.Time
}

// Guard is a process-wide attempt tracker, constructed at startup and
// injected into the service layer.
type Guard struct {
	counters    *xsync.MapOf[string, counter]
	maxAttempts int
	window      time.Duration
	now         func() time.Time
}

// New creates a Guard; zero config fields fall back to 5 attempts / 15 min.
func New(cfg Config) *Guard {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.WindowSeconds <= 0 {
		cfg.WindowSeconds = defaultWindowSeconds
	}
	return &Guard{
		counters:    xsync.NewMapOf[string, counter](),
		maxAttempts: cfg.MaxAttempts,
		window:      time.Duration(cfg.WindowSeconds) * time.Second,
		now:         time.Now,
	}
}

// Key builds the canonical actor key for an action ("login:bob@example.com").
func Key(action, actor string) string { return action + ":" + actor }

// RecordAttempt registers the outcome of a guarded action. A failure
// increments the counter and refreshes the window; a success resets the
// counter to zero.
func (g *Guard) RecordAttempt(key string, success bool) {
	if success {
		g.counters.Delete(key)
		return
	}
	now := g.now()
	g.counters.Compute(key, func(old counter, loaded bool) (counter, bool) {
		if !loaded || now.After(old.windowEnd) {
			return counter{count: 1, windowEnd: now.Add(g.window)}, false
		}
		c := old.count + 1
		// Counters never grow past the threshold; repeated failures while
		// locked keep refreshing the window instead.
		if c > g.maxAttempts {
			c = g.maxAttempts
		}
		return counter{count: c, windowEnd: now.Add(g.window)}, false
	})
}

// IsLocked reports whether the actor has reached the failure threshold
// inside the current window.
func (g *Guard) IsLocked(key string) bool {
	c, ok := g.counters.Load(key)
	if !ok {
		return false
	}
	if g.now().After(c.windowEnd) {
		g.counters.Delete(key)
		return false
	}
	return c.count >= g.maxAttempts
}

// Allow performs an atomic increment-and-check for plain rate limiting:
// it counts the attempt and reports whether it is still inside the budget.
func (g *Guard) Allow(key string) bool {
	now := g.now()
	c, _ := g.counters.Compute(key, func(old counter, loaded bool) (counter, bool) {
		if !loaded || now.After(old.windowEnd) {
			return counter{count: 1, windowEnd: now.Add(g.window)}, false
		}
		next := old.count + 1
		if next > g.maxAttempts+1 {
			next = g.maxAttempts + 1
		}
		// The window is not refreshed here: a flood stops being throttled
		// once the original window lapses.
		return counter{count: next, windowEnd: old.windowEnd}, false
	})
	return c.count <= g.maxAttempts
}
