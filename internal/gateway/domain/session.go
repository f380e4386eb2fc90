package domain

import "time"

// Session is the per-browser state for one request. It references a
// Credential by local id and carries the short-lived access credential.
type Session struct {
	LocalID     string
	AccessToken string
	ExpiresAt   time.Time

	changed bool
}

// NewSession builds a Session for a signed-in local id.
func NewSession(localID, accessToken string, expiresAt time.Time) *Session {
	return &Session{LocalID: localID, AccessToken: accessToken, ExpiresAt: expiresAt}
}

// Anonymous reports whether no one is signed in.
func (s *Session) Anonymous() bool {
	return s == nil || s.LocalID == ""
}

// SetAccessToken replaces the access credential and marks the session as
// needing to be written back to the browser.
func (s *Session) SetAccessToken(token string) {
	if s.AccessToken == token {
		return
	}
	s.AccessToken = token
	s.changed = true
}

// Changed reports whether the session was mutated since it was loaded.
func (s *Session) Changed() bool {
	return s != nil && s.changed
}
