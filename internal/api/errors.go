package api

import (
	"errors"
	"fmt"
)

// ErrInvalidResponse indicates the service returned a body that violates the
// documented shape (e.g. an incomplete answer without a next question).
var ErrInvalidResponse = errors.New("invalid service response")

// TransportError is returned for any non-success HTTP status or network
// failure. Callers must not assume the operation is retryable.
type TransportError struct {
	Op     string // operation name, e.g. "start session"
	Status int    // HTTP status code, 0 for network failures
	Body   string // response body text, truncated
	Err    error  // underlying error, if any
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	if e.Body != "" {
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, e.Body)
	}
	return fmt.Sprintf("%s: status %d", e.Op, e.Status)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ExportError is returned when the remote PDF render step fails.
type ExportError struct {
	Status int
	Body   string
}

func (e *ExportError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("export pdf: status %d: %s", e.Status, e.Body)
	}
	return fmt.Sprintf("export pdf: status %d", e.Status)
}
