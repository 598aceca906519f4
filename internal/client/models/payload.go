package models

// Login responses have drifted across backend versions: the access token has
// been delivered under several different keys, and the profile either nested
// under "admin"/"user" or inlined next to the token. The extraction rules
// below are evaluated strictly in order; the first match wins. Keep the lists
// append-only so older backends keep working.

// tokenRules is the priority-ordered list of locations where a login
// response may carry the access token.
var tokenRules = []func(body map[string]any) string{
	func(b map[string]any) string { // current shape: {"tokens":{"accessToken":...}}
		tokens, ok := b["tokens"].(map[string]any)
		if !ok {
			return ""
		}
		s, _ := tokens["accessToken"].(string)
		return s
	},
	func(b map[string]any) string { s, _ := b["accessToken"].(string); return s },
	func(b map[string]any) string { s, _ := b["access_token"].(string); return s },
	func(b map[string]any) string { s, _ := b["token"].(string); return s },
}

// tokenKeys are the top-level keys that belong to token delivery and must be
// excluded when the profile is assembled from the same payload.
var tokenKeys = map[string]struct{}{
	"tokens":       {},
	"accessToken":  {},
	"access_token": {},
	"token":        {},
}

// ExtractAccessToken pulls the access token out of a login response body.
// Returns "" when no rule matches.
func ExtractAccessToken(body map[string]any) string {
	for _, rule := range tokenRules {
		if token := rule(body); token != "" {
			return token
		}
	}
	return ""
}

// ExtractProfile builds a Profile from a response body. It prefers a nested
// "admin" or "user" object; otherwise it reads profile fields from the top
// level, skipping token keys. Returns nil when the payload carries no
// profile data at all.
func ExtractProfile(body map[string]any) *Profile {
	if body == nil {
		return nil
	}

	fields := body
	if nested, ok := body["admin"].(map[string]any); ok {
		fields = nested
	} else if nested, ok := body["user"].(map[string]any); ok {
		fields = nested
	}

	p := Profile{
		Name:        stringField(fields, "name"),
		FirstName:   stringField(fields, "first_name", "firstName"),
		LastName:    stringField(fields, "last_name", "lastName"),
		Email:       stringField(fields, "email"),
		Phone:       stringField(fields, "phone", "phone_number"),
		CountryCode: stringField(fields, "country_code", "countryCode"),
		Image:       stringField(fields, "image", "profile_image"),
	}
	if p == (Profile{}) {
		return nil
	}
	return &p
}

// stringField returns the first non-empty string value among the given keys,
// skipping keys reserved for token delivery.
func stringField(fields map[string]any, keys ...string) string {
	for _, key := range keys {
		if _, reserved := tokenKeys[key]; reserved {
			continue
		}
		if s, ok := fields[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
