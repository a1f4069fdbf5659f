package client

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrGatewayUnavailable marks a 502 from the backend, meaning the
	// upstream is down rather than the request being at fault.
	ErrGatewayUnavailable = errors.New("gateway unavailable")
)

// APIError is a non-2xx response from the backend. The response body text
// is preserved verbatim so callers can surface it.
type APIError struct {
	Title  string
	Body   string
	Status int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", e.Title, e.Status, e.Body)
}

// Is reports ErrGatewayUnavailable for 502 responses so callers can
// distinguish upstream unavailability with errors.Is.
func (e *APIError) Is(target error) bool {
	return target == ErrGatewayUnavailable && e.Status == 502
}

// TransportError is a network-level failure where no response was received
// at all. Distinct from APIError: there is no status to report.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsHTTPError reports whether err carries an HTTP status, and returns it.
func IsHTTPError(err error) (int, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status, true
	}
	return 0, false
}
