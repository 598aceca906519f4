// Package session owns the client-side session state of the admin console:
// the access token and the current administrator profile. It is the single
// source of truth for "who is logged in".
//
// The durable backend is a sqlite database shared by every console process
// on the machine; one process writing the store is observable from all
// others. Components never read the storage medium directly — they go
// through a Store, or receive updates from the Notifier.
package session

import (
	"context"

	"github.com/akarpovs/bannerdesk/internal/client/models"
)

// Store is the credential store contract.
//
// Reads are safe to call from any code path, including before any network
// activity has happened; absence is reported as the zero value ("" / nil),
// never as an error. Writes are atomic with respect to readers: a reader
// observes either the state before a multi-field write or the state after
// it, never a torn middle. Storage failures are non-fatal; implementations
// keep serving the in-memory session for the lifetime of the process and
// log the condition instead of propagating it.
//
// Every mutation returns the revision it produced. Callers announcing the
// change hand that revision to the Notifier, which uses it to tell the
// change apart from writes racing in from other processes.
type Store interface {
	// AccessToken returns the stored token, or "" when the session is
	// anonymous.
	AccessToken(ctx context.Context) string

	// SetAccessToken durably stores the token without touching the profile.
	SetAccessToken(ctx context.Context, token string) int64

	// ClearAccessToken removes the token without touching the profile.
	ClearAccessToken(ctx context.Context) int64

	// User returns the stored profile, or nil when none is known. A nil
	// profile with a present token is a valid state (profile not yet
	// fetched).
	User(ctx context.Context) *models.Profile

	// SetUser durably replaces the whole profile.
	SetUser(ctx context.Context, p *models.Profile) int64

	// ClearUser removes the profile without touching the token.
	ClearUser(ctx context.Context) int64

	// SetSession writes token and profile in one atomic step. Used by login
	// so readers never observe a token without its profile half-written.
	SetSession(ctx context.Context, token string, p *models.Profile) int64

	// Clear removes token and profile in one atomic step. Used by logout.
	Clear(ctx context.Context) int64

	// Revision returns a counter that increases on every mutation of the
	// shared storage, regardless of which process performed it. The
	// Notifier's watcher polls it to detect cross-process changes, and the
	// auth operations use it to detect identity writes that landed while a
	// request was in flight.
	Revision(ctx context.Context) int64
}
