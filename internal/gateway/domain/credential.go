package domain

import "time"

// Credential is the persisted record for one signed-in person.
type Credential struct {
	ID            string // local id (ULID), assigned on creation
	ProviderID    string // provider-scoped unique id, immutable
	Email         string
	DisplayName   string
	AvatarURL     string
	EmailVerified bool
	RefreshToken  *string // nil until the provider issues one
	LastLoginAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// HasRefreshToken reports whether a usable refresh credential is stored.
func (c Credential) HasRefreshToken() bool {
	return c.RefreshToken != nil && *c.RefreshToken != ""
}

// RefreshTokenValue returns the stored refresh credential or "".
func (c Credential) RefreshTokenValue() string {
	if c.RefreshToken == nil {
		return ""
	}
	return *c.RefreshToken
}
