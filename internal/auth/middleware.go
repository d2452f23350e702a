package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"
)

// UnauthorizedMessage is shown for any request without a valid session.
const UnauthorizedMessage = "Unauthorized: please log in first."

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// ClaimsKey is the context key for session claims
	ClaimsKey contextKey = "claims"
	// AuthorizedKey is the context key for the authorization flag
	AuthorizedKey contextKey = "authorized"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// WithAuthorized marks ctx as carrying a verified session.
func WithAuthorized(ctx context.Context, claims *Claims) context.Context {
	ctx = context.WithValue(ctx, ClaimsKey, claims)
	return context.WithValue(ctx, AuthorizedKey, true)
}

// AuthorizedFromContext reports whether ctx carries a verified session.
func AuthorizedFromContext(ctx context.Context) bool {
	ok, _ := ctx.Value(AuthorizedKey).(bool)
	return ok
}

// ClaimsFromContext extracts the session claims from the request context
func ClaimsFromContext(ctx context.Context) *Claims {
	if claims, ok := ctx.Value(ClaimsKey).(*Claims); ok {
		return claims
	}
	return nil
}

// sendErrorResponse sends a standardized error response
func sendErrorResponse(w http.ResponseWriter, message, code string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	response := ErrorResponse{
		Error: message,
		Code:  code,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// sendTokenExpirationWarning adds a warning header when the session expires soon
func sendTokenExpirationWarning(w http.ResponseWriter, now, expiresAt time.Time) {
	timeUntilExpiry := expiresAt.Sub(now)
	if timeUntilExpiry <= time.Hour && timeUntilExpiry > 0 {
		w.Header().Set("X-Token-Expires-At", expiresAt.Format(time.RFC3339))
		w.Header().Set("X-Token-Expires-In", timeUntilExpiry.String())
	}
}

// validateTokenFormat performs basic token format validation
func validateTokenFormat(tokenString string) error {
	if len(tokenString) == 0 {
		return errors.New("token cannot be empty")
	}
	if len(tokenString) > 8192 { // 8KB limit
		return errors.New("token size exceeds maximum allowed")
	}
	// Basic JWT format validation (3 parts separated by dots)
	parts := strings.Split(tokenString, ".")
	if len(parts) != 3 {
		return errors.New("invalid JWT token format")
	}
	return nil
}

// SessionFromRequest verifies the session cookie. Any failure yields nil.
func (m *SessionManager) SessionFromRequest(r *http.Request) *Claims {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil
	}
	claims, err := m.Verify(cookie.Value)
	if err != nil {
		return nil
	}
	return claims
}

// IsAuthenticated reports whether r carries a valid session cookie.
func (m *SessionManager) IsAuthenticated(r *http.Request) bool {
	return m.SessionFromRequest(r) != nil
}

// SetCookie writes the session cookie.
func (m *SessionManager) SetCookie(w http.ResponseWriter, sess Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    sess.Token,
		Path:     "/",
		MaxAge:   int(m.expiry.Seconds()),
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie expires the session cookie.
func (m *SessionManager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// SessionMiddleware loads the session cookie into the request context. It
// never rejects; handlers decide what an anonymous request may do.
func SessionMiddleware(m *SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if claims := m.SessionFromRequest(r); claims != nil {
				if claims.ExpiresAt != nil {
					sendTokenExpirationWarning(w, m.now(), claims.ExpiresAt.Time)
				}
				r = r.WithContext(WithAuthorized(r.Context(), claims))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireSession rejects requests without a verified session.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !AuthorizedFromContext(r.Context()) {
			sendErrorResponse(w, UnauthorizedMessage, "UNAUTHORIZED", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
