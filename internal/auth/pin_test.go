package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"foc-inventory-api/internal/ratelimit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testClock struct{ now time.Time }

func (c *testClock) Now() time.Time { return c.now }

type outcomes []string

func (o *outcomes) ObservePin(outcome string) { *o = append(*o, outcome) }

func newTestGate(t *testing.T, clock *testClock, pins, hashes []string) (*Gate, *outcomes) {
	t.Helper()
	limiter := ratelimit.New(ratelimit.NewMemoryStore(), 15*time.Minute, 5, ratelimit.WithClock(clock.Now))
	sessions := NewSessionManager(testSecret, 0, WithSessionClock(clock.Now))
	seen := &outcomes{}
	return NewGate(limiter, sessions, pins, hashes, seen), seen
}

func TestVerifyPin_Success(t *testing.T) {
	clock := &testClock{now: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)}
	gate, seen := newTestGate(t, clock, []string{"1234"}, nil)

	sess, err := gate.VerifyPin(context.Background(), "1234")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token)
	assert.Equal(t, clock.now.Add(24*time.Hour), sess.ExpiresAt)
	assert.Equal(t, outcomes{PinOK}, *seen)
}

func TestVerifyPin_WrongPinCountsDown(t *testing.T) {
	clock := &testClock{now: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)}
	gate, _ := newTestGate(t, clock, []string{"1234"}, nil)

	_, err := gate.VerifyPin(context.Background(), "0000")
	var invalid *InvalidPinError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, 4, invalid.Remaining)
	assert.Equal(t, "Invalid PIN. 4 attempt(s) remaining.", gate.Message(err))

	_, err = gate.VerifyPin(context.Background(), "")
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, 3, invalid.Remaining)
}

func TestVerifyPin_LockoutAndWindowExpiry(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	clock := &testClock{now: start}
	gate, seen := newTestGate(t, clock, []string{"1234"}, nil)

	var err error
	for i := 0; i < 5; i++ {
		_, err = gate.VerifyPin(ctx, "9999")
		require.Error(t, err)
		clock.now = clock.now.Add(time.Minute)
	}
	assert.Equal(t, "Too many failed attempts. Please try again in 15 minutes.", gate.Message(err))

	_, err = gate.VerifyPin(ctx, "1234")
	assert.ErrorIs(t, err, ErrRateLimited, "correct PIN is refused while locked")
	assert.Equal(t, "Too many failed attempts. Please try again in 15 minutes.", gate.Message(err))

	clock.now = start.Add(15*time.Minute + time.Second)
	sess, err := gate.VerifyPin(ctx, "1234")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token)

	assert.Equal(t, PinLocked, (*seen)[5])
	assert.Equal(t, PinOK, (*seen)[6])
}

func TestVerifyPin_SuccessResetsCounter(t *testing.T) {
	ctx := context.Background()
	clock := &testClock{now: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)}
	gate, _ := newTestGate(t, clock, []string{"1234"}, nil)

	for i := 0; i < 4; i++ {
		_, _ = gate.VerifyPin(ctx, "9999")
	}
	_, err := gate.VerifyPin(ctx, "1234")
	require.NoError(t, err)

	_, err = gate.VerifyPin(ctx, "9999")
	var invalid *InvalidPinError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, 4, invalid.Remaining)
}

func TestVerifyPin_BcryptHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("2468"), bcrypt.MinCost)
	require.NoError(t, err)

	clock := &testClock{now: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)}
	gate, _ := newTestGate(t, clock, nil, []string{" " + string(hash) + " "})

	_, err = gate.VerifyPin(context.Background(), "2468")
	assert.NoError(t, err)

	_, err = gate.VerifyPin(context.Background(), "2469")
	assert.Error(t, err)
}

func TestVerifyPin_Misconfigured(t *testing.T) {
	clock := &testClock{now: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)}
	gate, _ := newTestGate(t, clock, []string{""}, nil)

	_, err := gate.VerifyPin(context.Background(), "1234")
	assert.ErrorIs(t, err, ErrNoPins)
	assert.ErrorIs(t, err, ErrMisconfigured)

	limiter := ratelimit.New(ratelimit.NewMemoryStore(), 0, 0)
	noKey := NewGate(limiter, NewSessionManager("", 0), []string{"1234"}, nil, nil)
	_, err = noKey.VerifyPin(context.Background(), "1234")
	assert.ErrorIs(t, err, ErrNoSigningKey)
	assert.Equal(t, "Server misconfigured: signing key missing.", noKey.Message(err))
}

type brokenStore struct{}

func (brokenStore) Get(context.Context, string) (ratelimit.AttemptRecord, bool, error) {
	return ratelimit.AttemptRecord{}, false, errors.New("db down")
}

func (brokenStore) Increment(context.Context, string, time.Time, time.Duration) (ratelimit.AttemptRecord, error) {
	return ratelimit.AttemptRecord{}, errors.New("db down")
}

func (brokenStore) Delete(context.Context, string) error { return errors.New("db down") }

func TestVerifyPin_LimiterFailureFailsClosed(t *testing.T) {
	gate := NewGate(ratelimit.New(brokenStore{}, 0, 0), NewSessionManager(testSecret, 0), []string{"1234"}, nil, nil)

	_, err := gate.VerifyPin(context.Background(), "1234")
	assert.ErrorIs(t, err, ErrLimiterUnavailable)
	assert.Equal(t, "Unable to verify PIN right now. Please try again.", gate.Message(err))
}

func TestVerifyPin_ExactMatchOnly(t *testing.T) {
	clock := &testClock{now: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)}
	gate, _ := newTestGate(t, clock, []string{"1234 "}, nil)

	_, err := gate.VerifyPin(context.Background(), "1234")
	var invalid *InvalidPinError
	require.ErrorAs(t, err, &invalid, "configured whitespace is part of the PIN")

	_, err = gate.VerifyPin(context.Background(), "1234 ")
	require.NoError(t, err)
}
