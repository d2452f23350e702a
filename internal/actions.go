package internal

import (
	"encoding/json"
	"net/http"

	"foc-inventory-api/internal/auth"
	"foc-inventory-api/internal/models"
)

const maxActionBody = 64 << 10

func (s *Server) requestUnit(w http.ResponseWriter, r *http.Request) {
	var payload models.RequestPayload
	if !decodeAction(w, r, &payload) {
		return
	}
	writeResult(w, s.Actions.RequestUnit(r.Context(), payload))
}

func (s *Server) returnUnit(w http.ResponseWriter, r *http.Request) {
	var payload models.ReturnPayload
	if !decodeAction(w, r, &payload) {
		return
	}
	writeResult(w, s.Actions.ReturnUnit(r.Context(), payload))
}

// decodeAction rejects anonymous callers before reading the body.
func decodeAction(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if !auth.AuthorizedFromContext(r.Context()) {
		writeJSON(w, http.StatusUnauthorized, models.Result{Error: auth.UnauthorizedMessage, Code: models.CodeUnauthorized})
		return false
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxActionBody)).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, models.Result{Error: "Invalid request body."})
		return false
	}
	return true
}

func writeResult(w http.ResponseWriter, res models.Result) {
	status := http.StatusOK
	switch res.Code {
	case models.CodeUnauthorized:
		status = http.StatusUnauthorized
	case models.CodeValidationFailed:
		status = http.StatusUnprocessableEntity
	case models.CodeStoreUnavailable:
		status = http.StatusBadGateway
	}
	writeJSON(w, status, res)
}
