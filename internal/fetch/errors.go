package fetch

import "fmt"

// NetworkError wraps a transport-level failure: DNS, connect, TLS, timeout,
// or a truncated body read. No HTTP status was obtained.
type NetworkError struct {
	URL string
	Err error
}

// Error returns the error message.
func (e *NetworkError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

// Unwrap returns the underlying transport error.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// StatusError reports a non-2xx HTTP response.
type StatusError struct {
	URL        string
	StatusCode int
}

// Error returns the error message.
func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: http status %d", e.URL, e.StatusCode)
}
