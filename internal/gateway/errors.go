package gateway

import (
	"errors"
	"fmt"
)

// Generic messages surfaced when the server gives none.
const (
	MsgNetwork            = "Network error. Please try again later."
	MsgGeneric            = "Something went wrong"
	MsgInvalidCredentials = "Invalid credentials."
)

var (
	// ErrTransport wraps failures that happened before a response arrived.
	ErrTransport = errors.New("gateway: transport failure")
	// ErrSessionExpired marks 401/403 answers to token-bearing calls.
	ErrSessionExpired = errors.New("gateway: session rejected by server")
	// ErrAmbiguousFilter rejects filter values the path encoding cannot
	// tell apart from an absent dimension.
	ErrAmbiguousFilter = errors.New("gateway: filter value collides with the no-constraint sentinel")
	// ErrInvalidDate rejects malformed YYYY-MM-DD inputs before any call.
	ErrInvalidDate = errors.New("gateway: invalid date")
)

// APIError is a non-2xx answer from the backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("gateway: backend returned %d", e.Status)
	}
	return fmt.Sprintf("gateway: backend returned %d: %s", e.Status, e.Message)
}

// MessageFrom picks the text to show a user for a read error: the server's
// message when there is one, the network notice for transport failures,
// otherwise fallback.
func MessageFrom(err error, fallback string) string {
	var apiErr *APIError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &apiErr) && apiErr.Message != "":
		return apiErr.Message
	case errors.Is(err, ErrTransport):
		return MsgNetwork
	default:
		return fallback
	}
}

// Result is the uniform outcome of a mutation. Mutations never return
// errors; every failure is folded into Success=false and a Message.
type Result struct {
	Success bool
	Message string
	// Status is the HTTP status, or 0 when no response arrived.
	Status int
	// Token is set by successful logins.
	Token string
	// Expired reports that the server rejected the session token.
	Expired bool
}

func failure(message string) Result {
	return Result{Success: false, Message: message}
}
