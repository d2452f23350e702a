//go:build integration

package ratelimit_test

import (
	"context"
	"testing"
	"time"

	"foc-inventory-api/internal/ratelimit"
	"foc-inventory-api/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresStore_Lockout(t *testing.T) {
	testutil.RequireIntegration(t)

	db := testutil.NewTestDB(t)
	testutil.ResetSchema(t, db)

	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	limiter := ratelimit.New(ratelimit.NewPostgresStore(db), 15*time.Minute, 3, ratelimit.WithClock(clock))
	ctx := context.Background()

	for want := 2; want >= 0; want-- {
		remaining, err := limiter.RecordFailure(ctx, "pin-global")
		require.NoError(t, err)
		assert.Equal(t, want, remaining)
	}

	ok, err := limiter.Allow(ctx, "pin-global")
	require.NoError(t, err)
	assert.False(t, ok, "locked after three failures")

	now = now.Add(15*time.Minute + time.Second)
	ok, err = limiter.Allow(ctx, "pin-global")
	require.NoError(t, err)
	assert.True(t, ok, "window expired")

	remaining, err := limiter.RecordFailure(ctx, "pin-global")
	require.NoError(t, err)
	assert.Equal(t, 2, remaining, "expired window restarts the count")
}

func TestPostgresStore_UpsertRestartsStaleWindow(t *testing.T) {
	testutil.RequireIntegration(t)

	db := testutil.NewTestDB(t)
	testutil.ResetSchema(t, db)

	store := ratelimit.NewPostgresStore(db)
	ctx := context.Background()
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	rec, err := store.Increment(ctx, "k", start, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, rec.Count)

	rec, err = store.Increment(ctx, "k", start.Add(30*time.Second), time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 2, rec.Count)
	assert.True(t, rec.FirstAttempt.Equal(start))

	later := start.Add(2 * time.Minute)
	rec, err = store.Increment(ctx, "k", later, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, rec.Count)
	assert.True(t, rec.FirstAttempt.Equal(later))

	require.NoError(t, store.Delete(ctx, "k"))
	_, found, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)
}
