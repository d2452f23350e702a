package models

// PinRequest is the body of POST /auth/pin.
type PinRequest struct {
	Pin string `json:"pin"`
}

// SessionStatus reports whether the caller holds a valid session cookie.
type SessionStatus struct {
	Authenticated bool `json:"authenticated"`
}
