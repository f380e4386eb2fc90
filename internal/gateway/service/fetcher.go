package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/ratholink/internal/gateway/domain"
	"github.com/aussiebroadwan/ratholink/internal/gateway/google"
	"github.com/aussiebroadwan/ratholink/internal/gateway/store"
	"github.com/aussiebroadwan/ratholink/pkg/slogx"
)

// Call is one downstream request made with a bearer access credential.
type Call[T any] func(ctx context.Context, accessToken string) (T, error)

// TokenRefresher trades a stored refresh credential for a new access credential.
type TokenRefresher interface {
	Refresh(ctx context.Context, refreshToken string) (string, error)
}

// Fetcher holds what Fetch needs to recover from an expired access credential.
type Fetcher struct {
	Store  store.Store
	Tokens TokenRefresher

	// IsAuthFailure classifies downstream errors. Defaults to google.IsUnauthorized.
	IsAuthFailure func(error) bool
}

func (f *Fetcher) isAuthFailure(err error) bool {
	if f.IsAuthFailure != nil {
		return f.IsAuthFailure(err)
	}
	return google.IsUnauthorized(err)
}

// Fetch runs call with the session's access credential. On an authorization
// failure it refreshes once, stores the new credential on sess and retries
// once. call runs at most twice.
//
// Errors wrap ErrAuthenticationRequired when the person must sign in again,
// or ErrUpstream for any other downstream failure. Store failures while
// loading the refresh credential are returned as is.
func Fetch[T any](ctx context.Context, f *Fetcher, sess *domain.Session, call Call[T]) (T, error) {
	var zero T
	if sess.Anonymous() {
		return zero, ErrAuthenticationRequired
	}

	log := slogx.FromContext(ctx)

	// No access credential counts as an authorization failure without
	// spending a downstream request on it.
	if sess.AccessToken != "" {
		v, err := call(ctx, sess.AccessToken)
		if err == nil {
			return v, nil
		}
		if !f.isAuthFailure(err) {
			return zero, fmt.Errorf("%w: %w", ErrUpstream, err)
		}
		log.Debug("access credential rejected, refreshing", slog.String("local_id", sess.LocalID))
	}

	cred, err := f.Store.Credentials().GetCredentialByID(ctx, sess.LocalID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		log.Info("credential gone, sign-in required", slog.String("local_id", sess.LocalID))
		return zero, fmt.Errorf("%w: %w", ErrAuthenticationRequired, err)
	case err != nil:
		return zero, fmt.Errorf("load credential: %w", err)
	}

	token, err := f.Tokens.Refresh(ctx, cred.RefreshTokenValue())
	if err != nil {
		log.Info("refresh failed, sign-in required",
			slog.String("local_id", sess.LocalID),
			slog.Any("error", err),
		)
		return zero, fmt.Errorf("%w: %w", ErrAuthenticationRequired, err)
	}
	sess.SetAccessToken(token)

	v, err := call(ctx, token)
	switch {
	case err == nil:
		return v, nil
	case f.isAuthFailure(err):
		log.Warn("refreshed credential rejected", slog.String("local_id", sess.LocalID))
		return zero, fmt.Errorf("%w: %w", ErrAuthenticationRequired, err)
	default:
		return zero, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
}
