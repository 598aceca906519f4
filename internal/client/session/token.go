package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpiresAt peeks at the exp claim of a JWT access token without
// verifying its signature. The client has no signing key and no business
// validating tokens; this exists solely so UI surfaces can warn about an
// expired session before the server rejects a call.
//
// The second return value is false when the token is not a parsable JWT or
// carries no expiry, in which case the token is treated as non-expiring.
func TokenExpiresAt(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// TokenExpired reports whether the token carries an expiry in the past.
func TokenExpired(token string, now time.Time) bool {
	exp, ok := TokenExpiresAt(token)
	return ok && exp.Before(now)
}
