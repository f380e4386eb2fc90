package google

// Scopes requested at login. Workspace access is read-only.
const (
	ScopeDriveReadonly    = "https://www.googleapis.com/auth/drive.readonly"
	ScopeGmailReadonly    = "https://www.googleapis.com/auth/gmail.readonly"
	ScopeCalendarReadonly = "https://www.googleapis.com/auth/calendar.readonly"
)

// DefaultScopes returns the fixed scope list sent with every authorization request.
func DefaultScopes() []string {
	return []string{
		"openid",
		"email",
		"profile",
		ScopeDriveReadonly,
		ScopeGmailReadonly,
		ScopeCalendarReadonly,
	}
}
