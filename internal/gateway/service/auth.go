package service

import (
	"context"
	"log/slog"

	"github.com/aussiebroadwan/ratholink/internal/gateway/domain"
	"github.com/aussiebroadwan/ratholink/internal/gateway/google"
	"github.com/aussiebroadwan/ratholink/pkg/slogx"
)

// TokenExchanger is the provider side of the login flow.
type TokenExchanger interface {
	AuthCodeURL(state string) string
	ExchangeAuthorizationCode(ctx context.Context, code string) (google.Grant, error)
	FetchAssertion(ctx context.Context, accessToken string) (domain.Assertion, error)
}

type AuthService struct {
	Tokens   TokenExchanger
	Identity *IdentityService
}

// LoginURL returns where to send the browser to start signing in.
func (s *AuthService) LoginURL(state string) string {
	return s.Tokens.AuthCodeURL(state)
}

// CompleteLogin finishes the authorization code flow: exchange the code,
// load the identity and resolve it to a local record. It returns the record
// and the access credential to keep in the session.
func (s *AuthService) CompleteLogin(ctx context.Context, code string) (domain.Credential, string, error) {
	log := slogx.FromContext(ctx)

	grant, err := s.Tokens.ExchangeAuthorizationCode(ctx, code)
	if err != nil {
		log.Warn("authorization code exchange failed", slog.Any("error", err))
		return domain.Credential{}, "", err
	}

	assertion, err := s.Tokens.FetchAssertion(ctx, grant.AccessToken)
	if err != nil {
		log.Warn("identity lookup failed", slog.Any("error", err))
		return domain.Credential{}, "", err
	}

	cred, err := s.Identity.Resolve(ctx, assertion, grant.RefreshToken)
	if err != nil {
		return domain.Credential{}, "", err
	}

	log.Info("signed in",
		slog.String("local_id", cred.ID),
		slog.Bool("refresh_token_issued", grant.RefreshToken != ""),
	)
	return cred, grant.AccessToken, nil
}
