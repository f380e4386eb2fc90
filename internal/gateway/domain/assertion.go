package domain

import "strings"

// ProviderIDFields lists, in priority order, the assertion keys that may
// hold the provider-scoped identifier. Google's v2 userinfo endpoint
// returns "id"; the OpenID Connect userinfo endpoint returns "sub".
var ProviderIDFields = []string{"id", "sub"}

// Assertion is the identity payload returned by the provider after a
// successful authorization.
type Assertion map[string]any

// ProviderID returns the first present, non-empty value from
// ProviderIDFields.
func (a Assertion) ProviderID() (string, bool) {
	for _, field := range ProviderIDFields {
		if v := a.String(field); v != "" {
			return v, true
		}
	}
	return "", false
}

// String returns the trimmed string value at key, or "".
func (a Assertion) String(key string) string {
	v, ok := a[key].(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(v)
}

// Bool returns the boolean at key. Missing or non-bool values are false.
func (a Assertion) Bool(key string) bool {
	switch v := a[key].(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(v, "true")
	default:
		return false
	}
}

// Email returns the asserted email address.
func (a Assertion) Email() string { return a.String("email") }

// Name returns the asserted display name.
func (a Assertion) Name() string { return a.String("name") }

// Picture returns the asserted avatar URL.
func (a Assertion) Picture() string { return a.String("picture") }

// EmailVerified accepts both the v2 ("verified_email") and OpenID Connect
// ("email_verified") spellings.
func (a Assertion) EmailVerified() bool {
	return a.Bool("verified_email") || a.Bool("email_verified")
}
