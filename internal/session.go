package internal

import (
	"encoding/json"
	"errors"
	"net/http"

	"foc-inventory-api/internal/auth"
	"foc-inventory-api/internal/models"
)

// verifyPin exchanges the shared PIN for a session cookie. Failures are
// reported in the result body; rate limiting also sets 429.
func (s *Server) verifyPin(w http.ResponseWriter, r *http.Request) {
	var req models.PinRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4<<10)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.Result{Error: "Invalid request body."})
		return
	}

	sess, err := s.Gate.VerifyPin(r.Context(), req.Pin)
	if err != nil {
		writeJSON(w, pinStatus(err), models.Result{Error: s.Gate.Message(err)})
		return
	}

	s.Sessions.SetCookie(w, sess)
	writeJSON(w, http.StatusOK, models.Result{Success: true})
}

func pinStatus(err error) int {
	var invalid *auth.InvalidPinError
	switch {
	case errors.Is(err, auth.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.As(err, &invalid):
		if invalid.Remaining == 0 {
			return http.StatusTooManyRequests
		}
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrMisconfigured):
		return http.StatusInternalServerError
	default:
		return http.StatusServiceUnavailable
	}
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	s.Sessions.ClearCookie(w)
	writeJSON(w, http.StatusOK, models.Result{Success: true})
}

func (s *Server) sessionStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.SessionStatus{Authenticated: auth.AuthorizedFromContext(r.Context())})
}
