// Package services contains the identity-mutating use cases of the admin
// console client: login, logout and profile update. Each operation composes
// the session store, the notifier and the request gateway into one atomic,
// observable transition; views only ever call these, never the parts.
package services

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"

	"github.com/akarpovs/bannerdesk/internal/client/gateway"
	"github.com/akarpovs/bannerdesk/internal/client/models"
	"github.com/akarpovs/bannerdesk/internal/client/session"
	"github.com/akarpovs/bannerdesk/internal/logging"
)

const (
	loginPath   = "/api/v1/auth/login"
	logoutPath  = "/api/v1/auth/logout"
	profilePath = "/api/v1/profile"
)

// Fallback messages shown when the server supplies none.
const (
	msgLoginFailed       = "login failed, please try again"
	msgUpdateFailed      = "profile update failed, please try again"
	msgServerUnreachable = "server is unreachable, please try again later"
	msgNotLoggedIn       = "you are not logged in"
	msgMissingCreds      = "email and password are required"
	msgLoginInProgress   = "a login attempt is already in progress"
	msgUpdateInProgress  = "a profile update is already in progress"
	msgEmptyUpdate       = "nothing to update"
	msgMalformedLogin    = "unexpected login response from server"
	msgSuperseded        = "the session changed while the request was in flight"
)

// Credentials are the login inputs.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Result is the uniform outcome of Login and UpdateProfile. Callers render
// Message; they never need their own error handling.
type Result struct {
	Success bool
	Message string
}

// AuthService defines the identity operations available to views.
//
// Contract:
//   - Login: authenticate; on success the session is written and announced.
//   - Logout: always ends the local session, even when the server call
//     fails; never reports an error.
//   - UpdateProfile: partial profile change; merged into the stored profile
//     only after the server confirms.
//   - CurrentUser / AccessToken: read-only accessors over the store.
type AuthService interface {
	Login(ctx context.Context, creds Credentials) Result
	Logout(ctx context.Context)
	UpdateProfile(ctx context.Context, update models.ProfileUpdate) Result
	CurrentUser(ctx context.Context) *models.Profile
	AccessToken(ctx context.Context) string
}

type authService struct {
	gw       gateway.Gateway
	store    session.Store
	notifier *session.Notifier
	log      logging.Logger

	loginInFlight  atomic.Bool
	updateInFlight atomic.Bool
}

// NewAuthService constructs an AuthService over the given gateway, store and
// notifier.
func NewAuthService(gw gateway.Gateway, store session.Store, notifier *session.Notifier, log logging.Logger) AuthService {
	return &authService{gw: gw, store: store, notifier: notifier, log: log}
}

// Login authenticates against the backend. The store is only touched on a
// confirmed success: token and profile are written in one atomic step,
// followed by exactly one notification. A failed login leaves whatever
// session existed before fully intact.
//
// Double submits are rejected at this boundary, not in the UI: a second
// Login while one is in flight returns immediately with Success=false.
//
// The store revision is captured before the request goes out; if an identity
// write from elsewhere lands while the request is in flight, the completion
// is stale and is not applied (last writer wins).
func (a *authService) Login(ctx context.Context, creds Credentials) Result {
	if creds.Email == "" || creds.Password == "" {
		return Result{Success: false, Message: msgMissingCreds}
	}
	if !a.loginInFlight.CompareAndSwap(false, true) {
		return Result{Success: false, Message: msgLoginInProgress}
	}
	defer a.loginInFlight.Store(false)

	startRev := a.store.Revision(ctx)

	resp, err := a.gw.Do(ctx, gateway.Request{
		Path:   loginPath,
		Method: http.MethodPost,
		Body:   creds,
	})
	if err != nil {
		a.log.Warn(ctx, "login request failed", "error", err)
		return Result{Success: false, Message: messageFor(err, msgLoginFailed)}
	}
	if !resp.Success {
		return Result{Success: false, Message: fallback(resp.Message, msgLoginFailed)}
	}

	token := models.ExtractAccessToken(resp.Body)
	if token == "" {
		a.log.Error(ctx, "login response carried no recognizable token")
		return Result{Success: false, Message: msgMalformedLogin}
	}
	profile := models.ExtractProfile(resp.Body)

	if a.store.Revision(ctx) != startRev {
		a.log.Info(ctx, "login completion superseded by a newer session change, not applied")
		return Result{Success: false, Message: msgSuperseded}
	}

	rev := a.store.SetSession(ctx, token, profile)
	a.notifier.Notify(ctx, rev, profile)
	a.log.Info(ctx, "logged in", "user", profile.DisplayName())

	return Result{Success: true, Message: resp.Message}
}

// Logout tells the server, then unconditionally ends the local session.
// The cleanup runs in a defer so that even a panic inside the network call
// cannot leave the client half logged out; any server-side failure is logged
// and swallowed. Calling Logout twice in a row is safe.
func (a *authService) Logout(ctx context.Context) {
	defer func() {
		if p := recover(); p != nil {
			a.log.Error(ctx, "logout call panicked, local session cleared anyway", "panic", p)
		}
		rev := a.store.Clear(ctx)
		a.notifier.Notify(ctx, rev, nil)
		a.log.Info(ctx, "logged out")
	}()

	_, err := a.gw.Do(ctx, gateway.Request{
		Path:   logoutPath,
		Method: http.MethodPost,
		Auth:   true,
	})
	if err != nil && !errors.Is(err, gateway.ErrUnauthenticated) {
		a.log.Warn(ctx, "server logout failed, clearing local session regardless", "error", err)
	}
}

// UpdateProfile sends a partial update and, once the server confirms, merges
// it into the stored profile (absent fields retained). There is no
// optimistic write: a failure leaves the store untouched.
//
// Stale completions are dropped: the store revision is captured before the
// request goes out, and if a different identity write (a login from another
// process, a logout) lands while the request is in flight, the success is
// not applied locally — the newer identity wins and is not contaminated
// with this update's fields.
func (a *authService) UpdateProfile(ctx context.Context, update models.ProfileUpdate) Result {
	if update.IsEmpty() {
		return Result{Success: false, Message: msgEmptyUpdate}
	}
	if !a.updateInFlight.CompareAndSwap(false, true) {
		return Result{Success: false, Message: msgUpdateInProgress}
	}
	defer a.updateInFlight.Store(false)

	startRev := a.store.Revision(ctx)

	resp, err := a.gw.Do(ctx, gateway.Request{
		Path:   profilePath,
		Method: http.MethodPatch,
		Body:   update,
		Auth:   true,
	})
	if err != nil {
		a.log.Warn(ctx, "profile update request failed", "error", err)
		return Result{Success: false, Message: messageFor(err, msgUpdateFailed)}
	}
	if !resp.Success {
		return Result{Success: false, Message: fallback(resp.Message, msgUpdateFailed)}
	}

	if a.store.Revision(ctx) != startRev {
		a.log.Info(ctx, "profile update superseded by a newer session change, not applied")
		return Result{Success: false, Message: msgSuperseded}
	}

	current := a.store.User(ctx)
	var base models.Profile
	if current != nil {
		base = *current
	}
	merged := base.Apply(update)

	rev := a.store.SetUser(ctx, &merged)
	a.notifier.Notify(ctx, rev, &merged)

	return Result{Success: true, Message: resp.Message}
}

func (a *authService) CurrentUser(ctx context.Context) *models.Profile {
	return a.store.User(ctx)
}

func (a *authService) AccessToken(ctx context.Context) string {
	return a.store.AccessToken(ctx)
}

// messageFor converts a gateway error into the message shown to the user.
func messageFor(err error, generic string) string {
	switch {
	case errors.Is(err, gateway.ErrUnauthenticated):
		return msgNotLoggedIn
	case errors.Is(err, gateway.ErrUnavailable):
		return msgServerUnreachable
	}
	var reqErr *gateway.RequestError
	if errors.As(err, &reqErr) && reqErr.Message != "" {
		return reqErr.Message
	}
	return generic
}

func fallback(msg, generic string) string {
	if msg != "" {
		return msg
	}
	return generic
}
