package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/ratholink/internal/gateway/domain"
	"github.com/aussiebroadwan/ratholink/internal/gateway/store"
	"github.com/aussiebroadwan/ratholink/pkg/idx"
	"github.com/aussiebroadwan/ratholink/pkg/slogx"
)

// IdentityService maps provider identities onto local credential records.
type IdentityService struct {
	Store store.Store
	Now   func() time.Time // Optional: defaults to time.Now
}

func (s *IdentityService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Resolve finds or creates the record for the assertion's provider id and
// performs exactly one write, inside one transaction:
//   - no record: insert with the asserted profile and refreshToken (if any)
//   - record exists: stamp the login and store refreshToken when non-empty
//
// Profile fields of an existing record are never refreshed.
func (s *IdentityService) Resolve(
	ctx context.Context,
	assertion domain.Assertion,
	refreshToken string,
) (domain.Credential, error) {
	providerID, ok := assertion.ProviderID()
	if !ok {
		slogx.FromContext(ctx).Warn("identity assertion missing provider id")
		return domain.Credential{}, ErrInvalidAssertion
	}

	var cred domain.Credential
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		cred, err = s.resolve(ctx, tx.Credentials(), providerID, assertion, refreshToken)
		return err
	})
	if err != nil {
		return domain.Credential{}, err
	}
	return cred, nil
}

func (s *IdentityService) resolve(
	ctx context.Context,
	creds store.Credentials,
	providerID string,
	assertion domain.Assertion,
	refreshToken string,
) (domain.Credential, error) {
	log := slogx.FromContext(ctx)

	existing, err := creds.GetCredentialByProviderID(ctx, providerID)
	switch {
	case err == nil:
		return s.recordLogin(ctx, creds, existing, refreshToken)
	case !errors.Is(err, store.ErrNotFound):
		log.Error("failed to look up credential", slog.Any("error", err))
		return domain.Credential{}, err
	}

	now := s.now()
	cred := domain.Credential{
		ID:            idx.NewAt(now).String(),
		ProviderID:    providerID,
		Email:         assertion.Email(),
		DisplayName:   assertion.Name(),
		AvatarURL:     assertion.Picture(),
		EmailVerified: assertion.EmailVerified(),
		LastLoginAt:   &now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if refreshToken != "" {
		cred.RefreshToken = &refreshToken
	}

	err = creds.CreateCredential(ctx, cred)
	if err == nil {
		log.Info("credential created", slog.String("local_id", cred.ID))
		return cred, nil
	}
	if !errors.Is(err, store.ErrAlreadyExists) {
		log.Error("failed to create credential", slog.Any("error", err))
		return domain.Credential{}, err
	}

	// Either a concurrent first login for the same provider id committed
	// between the lookup and the insert, or the email belongs to someone else.
	existing, err = creds.GetCredentialByProviderID(ctx, providerID)
	if errors.Is(err, store.ErrNotFound) {
		log.Warn("asserted email already linked to another credential")
		return domain.Credential{}, ErrEmailInUse
	}
	if err != nil {
		return domain.Credential{}, err
	}
	return s.recordLogin(ctx, creds, existing, refreshToken)
}

func (s *IdentityService) recordLogin(
	ctx context.Context,
	creds store.Credentials,
	cred domain.Credential,
	refreshToken string,
) (domain.Credential, error) {
	now := s.now()
	if err := creds.RecordLogin(ctx, cred.ID, refreshToken, now); err != nil {
		slogx.FromContext(ctx).Error("failed to record login",
			slog.String("local_id", cred.ID),
			slog.Any("error", err),
		)
		return domain.Credential{}, err
	}

	cred.LastLoginAt = &now
	cred.UpdatedAt = now
	if refreshToken != "" {
		cred.RefreshToken = &refreshToken
	}
	return cred, nil
}

// Get fetches a credential by local id.
func (s *IdentityService) Get(ctx context.Context, localID string) (domain.Credential, error) {
	return s.Store.Credentials().GetCredentialByID(ctx, localID)
}
