// Package ratelimit implements a fixed-window attempt limiter whose state
// lives behind a Store.
package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// Defaults for the PIN limiter.
const (
	DefaultWindow      = 15 * time.Minute
	DefaultMaxAttempts = 5
)

// AttemptRecord is the state of one key's current window.
type AttemptRecord struct {
	Count        int
	FirstAttempt time.Time
}

// Expired reports whether the window that began at FirstAttempt has passed.
func (r AttemptRecord) Expired(now time.Time, window time.Duration) bool {
	return now.Sub(r.FirstAttempt) > window
}

// Store persists attempt records. Increment must be atomic: it starts a new
// window when none exists or the old one expired, then adds one.
type Store interface {
	Get(ctx context.Context, key string) (AttemptRecord, bool, error)
	Increment(ctx context.Context, key string, now time.Time, window time.Duration) (AttemptRecord, error)
	Delete(ctx context.Context, key string) error
}

// Limiter allows at most max failures per key within a fixed window. Expired
// windows are cleaned up lazily when the key is next touched.
type Limiter struct {
	store  Store
	window time.Duration
	max    int
	now    func() time.Time
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) { l.now = now }
}

// New creates a limiter. Non-positive window or max use the defaults.
func New(store Store, window time.Duration, max int, opts ...Option) *Limiter {
	if window <= 0 {
		window = DefaultWindow
	}
	if max <= 0 {
		max = DefaultMaxAttempts
	}
	l := &Limiter{store: store, window: window, max: max, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Window returns the configured window length.
func (l *Limiter) Window() time.Duration { return l.window }

// Allow reports whether key may make another attempt.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	rec, ok, err := l.store.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("rate limit lookup: %w", err)
	}
	if !ok {
		return true, nil
	}
	if rec.Expired(l.now(), l.window) {
		if err := l.store.Delete(ctx, key); err != nil {
			return false, fmt.Errorf("rate limit reset: %w", err)
		}
		return true, nil
	}
	return rec.Count < l.max, nil
}

// RecordFailure counts a failed attempt and returns how many remain in the
// current window.
func (l *Limiter) RecordFailure(ctx context.Context, key string) (int, error) {
	rec, err := l.store.Increment(ctx, key, l.now(), l.window)
	if err != nil {
		return 0, fmt.Errorf("rate limit record: %w", err)
	}
	remaining := l.max - rec.Count
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// Reset clears key after a successful attempt.
func (l *Limiter) Reset(ctx context.Context, key string) error {
	if err := l.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("rate limit reset: %w", err)
	}
	return nil
}
