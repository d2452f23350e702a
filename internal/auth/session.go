package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// RoleAuthorized is the only role a PIN session carries.
	RoleAuthorized = "authorized"
	// CookieName is the session cookie set after a successful PIN check.
	CookieName = "foc_auth_token"
	// DefaultSessionTTL is how long a session stays valid.
	DefaultSessionTTL = 24 * time.Hour
)

var (
	// ErrMisconfigured is returned when the server cannot mint or check
	// sessions because required settings are missing.
	ErrMisconfigured = errors.New("server misconfigured")
	// ErrNoSigningKey means no session secret is configured.
	ErrNoSigningKey = fmt.Errorf("%w: signing key missing", ErrMisconfigured)
	// ErrUnauthorized means the request carries no valid session.
	ErrUnauthorized = errors.New("unauthorized")
)

// Claims is the session token payload.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Session is a freshly minted token and its expiry.
type Session struct {
	Token     string
	ExpiresAt time.Time
}

// SessionManager signs and verifies HS256 session tokens.
type SessionManager struct {
	secret []byte
	expiry time.Duration
	secure bool
	now    func() time.Time
}

// SessionOption configures a SessionManager.
type SessionOption func(*SessionManager)

// WithSecureCookie marks session cookies Secure.
func WithSecureCookie(secure bool) SessionOption {
	return func(m *SessionManager) { m.secure = secure }
}

// WithSessionClock overrides time.Now.
func WithSessionClock(now func() time.Time) SessionOption {
	return func(m *SessionManager) { m.now = now }
}

// NewSessionManager creates a session manager. A non-positive expiry uses
// DefaultSessionTTL.
func NewSessionManager(secret string, expiry time.Duration, opts ...SessionOption) *SessionManager {
	if expiry <= 0 {
		expiry = DefaultSessionTTL
	}
	m := &SessionManager{secret: []byte(secret), expiry: expiry, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ValidateConfig checks the manager can mint tokens.
func (m *SessionManager) ValidateConfig() error {
	if len(m.secret) == 0 {
		return ErrNoSigningKey
	}
	return nil
}

// Issue mints a session token.
func (m *SessionManager) Issue() (Session, error) {
	if err := m.ValidateConfig(); err != nil {
		return Session{}, err
	}
	now := m.now()
	expires := now.Add(m.expiry)
	claims := &Claims{
		Role: RoleAuthorized,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return Session{}, fmt.Errorf("sign session: %w", err)
	}
	return Session{Token: token, ExpiresAt: expires}, nil
}

// Verify parses a token and checks signature, expiry and role.
func (m *SessionManager) Verify(tokenString string) (*Claims, error) {
	if len(m.secret) == 0 {
		return nil, ErrNoSigningKey
	}
	if err := validateTokenFormat(tokenString); err != nil {
		return nil, err
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Role != RoleAuthorized {
		return nil, fmt.Errorf("unexpected role %q", claims.Role)
	}
	return claims, nil
}

// Expiry returns the session lifetime.
func (m *SessionManager) Expiry() time.Duration { return m.expiry }
