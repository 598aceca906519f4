// Package common contains shared constants and small helpers used across
// bannerdesk components.
package common

// AuthorizationHeader is the HTTP header carrying the access token on
// authenticated requests.
const AuthorizationHeader = "Authorization"

// BearerPrefix prefixes the access token inside the Authorization header.
const BearerPrefix = "Bearer "
