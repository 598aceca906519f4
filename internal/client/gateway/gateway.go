// Package gateway is the single chokepoint for the console's API traffic.
// It injects the access token on authenticated calls, normalizes responses
// into one envelope, and maps failures onto a small error taxonomy. It never
// decides login state and never mutates the session — that stays with the
// auth operations.
package gateway

import (
	"context"
	"net/url"
)

// Request describes one outbound API call.
type Request struct {
	// Path is the endpoint path, e.g. "/api/v1/auth/login".
	Path string

	// Method is the HTTP method; defaults to GET when empty.
	Method string

	// Body, when non-nil, is JSON-encoded into the request body.
	Body any

	// Query is appended to the URL.
	Query url.Values

	// Auth marks the call as requiring the access token. The token is read
	// from the token source at call time, never cached; if none is present
	// the call fails fast with ErrUnauthenticated.
	Auth bool
}

// Response is the uniform envelope every successful exchange is normalized
// into. Callers never see the transport-level shape.
type Response struct {
	// Success is the server's success indicator; true when the payload
	// carries none.
	Success bool

	// Body is the payload object.
	Body map[string]any

	// Message is the optional server-provided human-readable message.
	Message string
}

// Gateway issues API requests. Implementations must be safe for concurrent
// use.
type Gateway interface {
	Do(ctx context.Context, req Request) (*Response, error)
}

// TokenSource supplies the current access token. The session store satisfies
// this; the indirection keeps the gateway reusable and free of session
// write access.
type TokenSource interface {
	AccessToken(ctx context.Context) string
}
