package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aussiebroadwan/ratholink/internal/gateway/domain"
	"github.com/aussiebroadwan/ratholink/internal/gateway/store"
	"github.com/aussiebroadwan/ratholink/internal/gateway/store/drivers/sqlite"
	"github.com/aussiebroadwan/ratholink/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func ptr[T any](v T) *T { return &v }

func TestCredentialsCreateAndGet(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	id := idx.New().String()
	require.NoError(t, s.Credentials().CreateCredential(ctx, domain.Credential{
		ID:            id,
		ProviderID:    "g-123",
		Email:         "a@example.com",
		DisplayName:   "Ada",
		AvatarURL:     "https://example.com/a.png",
		EmailVerified: true,
		RefreshToken:  ptr("1//refresh"),
	}))

	got, err := s.Credentials().GetCredentialByProviderID(ctx, "g-123")
	require.NoError(t, err)
	require.Equal(t, id, got.ID)
	require.Equal(t, "a@example.com", got.Email)
	require.Equal(t, "Ada", got.DisplayName)
	require.True(t, got.EmailVerified)
	require.Equal(t, "1//refresh", got.RefreshTokenValue())
	require.Nil(t, got.LastLoginAt)

	byID, err := s.Credentials().GetCredentialByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, got.ProviderID, byID.ProviderID)

	n, err := s.Credentials().CountCredentials(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}

func TestCredentialsNotFound(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	_, err := s.Credentials().GetCredentialByID(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.Credentials().GetCredentialByProviderID(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)

	err = s.Credentials().RecordLogin(ctx, "missing", "", time.Now())
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestCredentialsUniqueness(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.Credentials().CreateCredential(ctx, domain.Credential{
		ID: idx.New().String(), ProviderID: "g-1", Email: "dup@example.com",
	}))

	t.Run("provider id", func(t *testing.T) {
		err := s.Credentials().CreateCredential(ctx, domain.Credential{
			ID: idx.New().String(), ProviderID: "g-1", Email: "other@example.com",
		})
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("email", func(t *testing.T) {
		err := s.Credentials().CreateCredential(ctx, domain.Credential{
			ID: idx.New().String(), ProviderID: "g-2", Email: "dup@example.com",
		})
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("empty emails do not collide", func(t *testing.T) {
		require.NoError(t, s.Credentials().CreateCredential(ctx, domain.Credential{
			ID: idx.New().String(), ProviderID: "g-3",
		}))
		require.NoError(t, s.Credentials().CreateCredential(ctx, domain.Credential{
			ID: idx.New().String(), ProviderID: "g-4",
		}))
	})
}

func TestCredentialsRecordLogin(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	id := idx.New().String()
	require.NoError(t, s.Credentials().CreateCredential(ctx, domain.Credential{
		ID:           id,
		ProviderID:   "g-1",
		RefreshToken: ptr("first"),
		CreatedAt:    created,
		UpdatedAt:    created,
	}))

	t.Run("empty token keeps the stored one", func(t *testing.T) {
		at := created.Add(time.Hour)
		require.NoError(t, s.Credentials().RecordLogin(ctx, id, "", at))

		got, err := s.Credentials().GetCredentialByID(ctx, id)
		require.NoError(t, err)
		require.Equal(t, "first", got.RefreshTokenValue())
		require.True(t, got.UpdatedAt.Equal(at), "a login is a mutation")
		require.NotNil(t, got.LastLoginAt)
		require.True(t, got.LastLoginAt.Equal(at))
	})

	t.Run("new token overwrites the stored one", func(t *testing.T) {
		at := created.Add(2 * time.Hour)
		require.NoError(t, s.Credentials().RecordLogin(ctx, id, "second", at))

		got, err := s.Credentials().GetCredentialByID(ctx, id)
		require.NoError(t, err)
		require.Equal(t, "second", got.RefreshTokenValue())
		require.True(t, got.UpdatedAt.Equal(at))
	})
}

func TestWithTxRollsBack(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := s.WithTx(ctx, func(tx store.Tx) error {
		require.NoError(t, tx.Credentials().CreateCredential(ctx, domain.Credential{
			ID: idx.New().String(), ProviderID: "g-tx",
		}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = s.Credentials().GetCredentialByProviderID(ctx, "g-tx")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestPing(t *testing.T) {
	require.NoError(t, newStore(t).Ping(context.Background()))
}
