package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/ratholink/internal/gateway/domain"
	"github.com/aussiebroadwan/ratholink/internal/gateway/store"
	"github.com/aussiebroadwan/ratholink/internal/gateway/store/drivers/sqlite/gen"
)

type credentialsRepo struct {
	q *gen.Queries
}

func (r *credentialsRepo) GetCredentialByID(ctx context.Context, id string) (domain.Credential, error) {
	row, err := r.q.GetCredentialByID(ctx, id)
	if err != nil {
		return domain.Credential{}, mapNotFound(err)
	}
	return mapCredential(row), nil
}

func (r *credentialsRepo) GetCredentialByProviderID(
	ctx context.Context,
	providerID string,
) (domain.Credential, error) {
	row, err := r.q.GetCredentialByProviderID(ctx, providerID)
	if err != nil {
		return domain.Credential{}, mapNotFound(err)
	}
	return mapCredential(row), nil
}

func (r *credentialsRepo) CreateCredential(ctx context.Context, c domain.Credential) error {
	now := time.Now().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = c.CreatedAt
	}

	err := r.q.CreateCredential(ctx, gen.CreateCredentialParams{
		ID:            c.ID,
		ProviderID:    c.ProviderID,
		Email:         mapStringNull(c.Email),
		DisplayName:   c.DisplayName,
		AvatarUrl:     c.AvatarURL,
		EmailVerified: c.EmailVerified,
		RefreshToken:  mapOptionalString(c.RefreshToken),
		LastLoginAt:   mapOptionalTime(c.LastLoginAt),
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	})
	return mapConstraint(err)
}

func (r *credentialsRepo) RecordLogin(
	ctx context.Context,
	id string,
	refreshToken string,
	at time.Time,
) error {
	var (
		n   int64
		err error
	)

	lastLogin := sql.NullTime{Time: at, Valid: true}
	if refreshToken == "" {
		n, err = r.q.TouchCredentialLogin(ctx, gen.TouchCredentialLoginParams{
			LastLoginAt: lastLogin,
			UpdatedAt:   at,
			ID:          id,
		})
	} else {
		n, err = r.q.UpdateCredentialRefreshToken(ctx, gen.UpdateCredentialRefreshTokenParams{
			RefreshToken: mapStringNull(refreshToken),
			LastLoginAt:  lastLogin,
			UpdatedAt:    at,
			ID:           id,
		})
	}
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *credentialsRepo) CountCredentials(ctx context.Context) (int64, error) {
	return r.q.CountCredentials(ctx)
}
