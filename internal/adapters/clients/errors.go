// Package clients provides the instrumented HTTP client used to reach
// downstream services such as the remote key-value store.
package clients

import (
	"errors"
	"fmt"
)

// Infrastructure errors. Callers translate them into domain errors.
var (
	// ErrCircuitOpen is returned without a network call while the breaker is open.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrMaxRetriesExceeded wraps the last failure once every attempt is spent.
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")

	// ErrBodyNotRewindable is returned when a request with a body must be
	// retried but has no GetBody to recreate it.
	ErrBodyNotRewindable = errors.New("request body cannot be rewound for retry")
)

// StatusError is the failure recorded for a retryable response status.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server error: %d", e.StatusCode)
}
