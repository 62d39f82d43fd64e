package remote

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized is returned when the remote API rejects the bearer token.
	ErrUnauthorized = errors.New("remote: unauthorized")

	// ErrForbidden is returned when the caller lacks permission for the operation.
	ErrForbidden = errors.New("remote: forbidden")

	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("remote: not found")

	// ErrTimeout is returned when the remote call exceeded its deadline.
	ErrTimeout = errors.New("remote: timeout")

	// ErrUnavailable is returned for connection-level failures.
	ErrUnavailable = errors.New("remote: unavailable")
)

// APIError carries the status code and detail message of a non-2xx response.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("remote: %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("remote: unexpected status %d", e.StatusCode)
}
