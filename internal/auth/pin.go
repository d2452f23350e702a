package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"

	"foc-inventory-api/internal/ratelimit"

	"golang.org/x/crypto/bcrypt"
)

// LimiterKey is the single bucket every PIN attempt counts against.
const LimiterKey = "pin-global"

// PIN verification outcomes reported to a PinObserver.
const (
	PinOK      = "ok"
	PinInvalid = "invalid"
	PinLocked  = "locked"
	PinError   = "error"
)

var (
	// ErrNoPins means neither plain PINs nor hashes are configured.
	ErrNoPins = fmt.Errorf("%w: no PINs configured", ErrMisconfigured)
	// ErrRateLimited means the attempt window is exhausted.
	ErrRateLimited = errors.New("too many failed attempts")
	// ErrLimiterUnavailable means the limiter store failed; attempts are refused.
	ErrLimiterUnavailable = errors.New("rate limiter unavailable")
)

// InvalidPinError reports a wrong PIN and the attempts left in the window.
type InvalidPinError struct {
	Remaining int
}

func (e *InvalidPinError) Error() string {
	return fmt.Sprintf("invalid pin, %d attempt(s) remaining", e.Remaining)
}

// PinObserver receives verification outcomes, typically for metrics.
type PinObserver interface {
	ObservePin(outcome string)
}

// Gate exchanges a shared PIN for a session.
type Gate struct {
	limiter  *ratelimit.Limiter
	sessions *SessionManager
	pins     []string
	hashes   [][]byte
	observer PinObserver
}

// NewGate creates a gate. pins are matched exactly; hashes are bcrypt hashes.
func NewGate(limiter *ratelimit.Limiter, sessions *SessionManager, pins, hashes []string, observer PinObserver) *Gate {
	g := &Gate{limiter: limiter, sessions: sessions, observer: observer}
	for _, p := range pins {
		if p != "" {
			g.pins = append(g.pins, p)
		}
	}
	for _, h := range hashes {
		if h = strings.TrimSpace(h); h != "" {
			g.hashes = append(g.hashes, []byte(h))
		}
	}
	return g
}

// VerifyPin checks the limiter, then the PIN. A match clears the limiter and
// mints a session; a mismatch records a failure.
func (g *Gate) VerifyPin(ctx context.Context, pin string) (Session, error) {
	allowed, err := g.limiter.Allow(ctx, LimiterKey)
	if err != nil {
		log.Printf("auth: %v", err)
		g.observe(PinError)
		return Session{}, fmt.Errorf("%w: %v", ErrLimiterUnavailable, err)
	}
	if !allowed {
		g.observe(PinLocked)
		return Session{}, ErrRateLimited
	}

	if len(g.pins) == 0 && len(g.hashes) == 0 {
		g.observe(PinError)
		return Session{}, ErrNoPins
	}

	if !g.matches(pin) {
		remaining, err := g.limiter.RecordFailure(ctx, LimiterKey)
		if err != nil {
			log.Printf("auth: %v", err)
			g.observe(PinError)
			return Session{}, fmt.Errorf("%w: %v", ErrLimiterUnavailable, err)
		}
		g.observe(PinInvalid)
		return Session{}, &InvalidPinError{Remaining: remaining}
	}

	if err := g.limiter.Reset(ctx, LimiterKey); err != nil {
		log.Printf("auth: %v", err)
	}
	sess, err := g.sessions.Issue()
	if err != nil {
		g.observe(PinError)
		return Session{}, err
	}
	g.observe(PinOK)
	return sess, nil
}

func (g *Gate) matches(pin string) bool {
	if pin == "" {
		return false
	}
	for _, p := range g.pins {
		if subtle.ConstantTimeCompare([]byte(p), []byte(pin)) == 1 {
			return true
		}
	}
	for _, h := range g.hashes {
		if bcrypt.CompareHashAndPassword(h, []byte(pin)) == nil {
			return true
		}
	}
	return false
}

func (g *Gate) observe(outcome string) {
	if g.observer != nil {
		g.observer.ObservePin(outcome)
	}
}

// Message turns a VerifyPin or session error into the text shown to users.
func (g *Gate) Message(err error) string {
	lockout := fmt.Sprintf("Too many failed attempts. Please try again in %d minutes.",
		int(math.Ceil(g.limiter.Window().Minutes())))

	var invalid *InvalidPinError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrRateLimited):
		return lockout
	case errors.As(err, &invalid):
		if invalid.Remaining == 0 {
			return lockout
		}
		return fmt.Sprintf("Invalid PIN. %d attempt(s) remaining.", invalid.Remaining)
	case errors.Is(err, ErrNoSigningKey):
		return "Server misconfigured: signing key missing."
	case errors.Is(err, ErrNoPins):
		return "Server misconfigured: no PINs configured."
	case errors.Is(err, ErrUnauthorized):
		return UnauthorizedMessage
	default:
		return "Unable to verify PIN right now. Please try again."
	}
}
