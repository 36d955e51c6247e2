package chat

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput: neither text nor a pending image was supplied.
	ErrEmptyInput = errors.New("chat: empty input")
	// ErrBusy: a submit arrived while another one is in flight.
	ErrBusy = errors.New("chat: a request is already in flight")
	// ErrNotAuthenticated: the operation needs an active login session.
	ErrNotAuthenticated = errors.New("chat: not authenticated")
	// ErrSessionActive: login attempted on a session that is already live.
	ErrSessionActive = errors.New("chat: session already active")
	// ErrSessionClosed: the session was torn down while a request was in
	// flight; the result was discarded.
	ErrSessionClosed = errors.New("chat: session closed")
	// ErrUnsupportedImage: the uploaded image is not JPEG or PNG.
	ErrUnsupportedImage = errors.New("chat: unsupported image type")
)

// GatewayErrorKind classifies failures from the AI backend.
type GatewayErrorKind int

const (
	GatewayOther GatewayErrorKind = iota
	GatewayContextTooLarge
	GatewayRateLimited
	GatewayUnauthorized
	GatewayUnavailable
)

func (k GatewayErrorKind) String() string {
	switch k {
	case GatewayContextTooLarge:
		return "context_too_large"
	case GatewayRateLimited:
		return "rate_limited"
	case GatewayUnauthorized:
		return "unauthorized"
	case GatewayUnavailable:
		return "unavailable"
	default:
		return "other"
	}
}

// GatewayError is returned by Gateway implementations so callers can pick a
// retry policy per kind.
type GatewayError struct {
	Kind    GatewayErrorKind
	Message string
	Err     error
}

func (e *GatewayError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("gateway %s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("gateway %s", e.Kind)
}

func (e *GatewayError) Unwrap() error { return e.Err }

// GatewayKind extracts the kind from err, or (0, false) if err is not a
// gateway failure.
func GatewayKind(err error) (GatewayErrorKind, bool) {
	var ge *GatewayError
	if errors.As(err, &ge) {
		return ge.Kind, true
	}
	return GatewayOther, false
}
