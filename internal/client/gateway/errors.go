package gateway

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated means a request requiring auth was attempted with
	// no access token in the store. It is a local failure: nothing was sent.
	ErrUnauthenticated = errors.New("no access token available")

	// ErrUnavailable means the transport could not complete the request at
	// all (connection refused, DNS failure, timeout).
	ErrUnavailable = errors.New("server unavailable")

	// ErrValidation means a local precondition failed before anything was
	// sent to the server.
	ErrValidation = errors.New("validation failed")
)

// RequestError reports a request the server received and rejected: a non-2xx
// status or a malformed response body. Message carries the server-provided
// message when one was present.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("request failed (%d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("request failed (%d)", e.Status)
}
