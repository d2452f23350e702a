package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func TestLimiter_BlocksAfterMax(t *testing.T) {
	ctx := context.Background()
	c := &clock{now: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)}
	l := New(NewMemoryStore(), 15*time.Minute, 5, WithClock(c.Now))

	for i := 4; i >= 0; i-- {
		ok, err := l.Allow(ctx, "pin-global")
		require.NoError(t, err)
		require.True(t, ok)

		remaining, err := l.RecordFailure(ctx, "pin-global")
		require.NoError(t, err)
		assert.Equal(t, i, remaining)
		c.now = c.now.Add(time.Minute)
	}

	ok, err := l.Allow(ctx, "pin-global")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = l.Allow(ctx, "other")
	require.NoError(t, err)
	assert.True(t, ok, "keys are independent")
}

func TestLimiter_WindowExpiresLazily(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	c := &clock{now: start}
	store := NewMemoryStore()
	l := New(store, 15*time.Minute, 2, WithClock(c.Now))

	_, _ = l.RecordFailure(ctx, "k")
	_, _ = l.RecordFailure(ctx, "k")

	c.now = start.Add(15 * time.Minute)
	ok, err := l.Allow(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok, "window is still open at exactly its length")

	_, present, _ := store.Get(ctx, "k")
	assert.True(t, present)

	c.now = start.Add(15*time.Minute + time.Second)
	ok, err = l.Allow(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)

	_, present, _ = store.Get(ctx, "k")
	assert.False(t, present, "expired record is removed when touched")
}

func TestLimiter_RecordFailureRestartsExpiredWindow(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	c := &clock{now: start}
	l := New(NewMemoryStore(), time.Minute, 3, WithClock(c.Now))

	_, _ = l.RecordFailure(ctx, "k")
	_, _ = l.RecordFailure(ctx, "k")

	c.now = start.Add(2 * time.Minute)
	remaining, err := l.RecordFailure(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, 2, remaining)
}

func TestLimiter_Reset(t *testing.T) {
	ctx := context.Background()
	l := New(NewMemoryStore(), 0, 1)
	assert.Equal(t, DefaultWindow, l.Window())

	_, _ = l.RecordFailure(ctx, "k")
	ok, _ := l.Allow(ctx, "k")
	assert.False(t, ok)

	require.NoError(t, l.Reset(ctx, "k"))
	ok, _ = l.Allow(ctx, "k")
	assert.True(t, ok)
}

type failingStore struct{ err error }

func (f failingStore) Get(context.Context, string) (AttemptRecord, bool, error) {
	return AttemptRecord{}, false, f.err
}

func (f failingStore) Increment(context.Context, string, time.Time, time.Duration) (AttemptRecord, error) {
	return AttemptRecord{}, f.err
}

func (f failingStore) Delete(context.Context, string) error { return f.err }

func TestLimiter_StoreErrors(t *testing.T) {
	boom := errors.New("connection refused")
	l := New(failingStore{err: boom}, time.Minute, 5)

	ok, err := l.Allow(context.Background(), "k")
	assert.False(t, ok)
	assert.ErrorIs(t, err, boom)

	_, err = l.RecordFailure(context.Background(), "k")
	assert.ErrorIs(t, err, boom)

	assert.ErrorIs(t, l.Reset(context.Background(), "k"), boom)
}
