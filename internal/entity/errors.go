package entity

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrConnectivity means Swish could not be reached (dial, TLS handshake, reset, timeout).
	ErrConnectivity = errors.New("swish unreachable")
	// ErrProtocol means Swish answered with something this client does not understand.
	ErrProtocol = errors.New("unexpected swish response")
	// ErrApplication means Swish rejected the payment request with an error code.
	ErrApplication = errors.New("rejected by swish")
)

// APIError is a well-formed error reported by Swish.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("swish error %s (http %d): %s", e.Code, e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	return ErrApplication
}
