// Package google talks to Google's OAuth endpoints and Workspace APIs.
package google

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
)

const UserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

type Config struct {
	ClientID     string // Required
	ClientSecret string // Required
	RedirectURL  string // Required: must match the registered callback

	Endpoint    oauth2.Endpoint // Optional: defaults to Google's endpoints
	UserInfoURL string          // Optional: defaults to UserInfoURL
	HTTPClient  *http.Client    // Optional: used for every outbound call
}

// Grant is the result of a successful authorization code exchange.
type Grant struct {
	AccessToken  string
	RefreshToken string // empty when the provider did not issue one
	Expiry       time.Time
}

// TokenClient exchanges authorization codes and refresh credentials with
// Google's token endpoint. It never retries on its own.
type TokenClient struct {
	oauth       *oauth2.Config
	userInfoURL string
	httpClient  *http.Client
}

// NewTokenClient validates cfg and builds a client. Client credentials are
// sent as form parameters.
func NewTokenClient(cfg Config) (*TokenClient, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" || cfg.RedirectURL == "" {
		return nil, ErrMissingConfiguration
	}

	endpoint := cfg.Endpoint
	if endpoint.TokenURL == "" {
		endpoint = googleoauth.Endpoint
	}
	endpoint.AuthStyle = oauth2.AuthStyleInParams

	userInfoURL := cfg.UserInfoURL
	if userInfoURL == "" {
		userInfoURL = UserInfoURL
	}

	return &TokenClient{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     endpoint,
			Scopes:       DefaultScopes(),
		},
		userInfoURL: userInfoURL,
		httpClient:  cfg.HTTPClient,
	}, nil
}

// AuthCodeURL builds the provider authorization URL. Offline access and a
// forced consent prompt make Google issue a refresh credential every time.
func (c *TokenClient) AuthCodeURL(state string) string {
	return c.oauth.AuthCodeURL(
		state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
}

// ExchangeAuthorizationCode trades a one-time code for a Grant.
func (c *TokenClient) ExchangeAuthorizationCode(ctx context.Context, code string) (Grant, error) {
	if code == "" {
		return Grant{}, fmt.Errorf("%w: empty authorization code", ErrTokenExchangeFailed)
	}

	tok, err := c.oauth.Exchange(c.withClient(ctx), code)
	if err != nil {
		return Grant{}, fmt.Errorf("%w: %w", ErrTokenExchangeFailed, err)
	}
	if tok.AccessToken == "" {
		return Grant{}, fmt.Errorf("%w: response missing access_token", ErrTokenExchangeFailed)
	}

	return Grant{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		Expiry:       tok.Expiry,
	}, nil
}

// Refresh obtains a new access credential from a stored refresh credential.
// An empty refreshToken fails with ErrNoRefreshCredential before any request.
func (c *TokenClient) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", ErrNoRefreshCredential
	}

	// A token with no access credential is never valid, so the source
	// goes straight to the token endpoint exactly once.
	src := c.oauth.TokenSource(c.withClient(ctx), &oauth2.Token{RefreshToken: refreshToken})
	tok, err := src.Token()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTokenExchangeFailed, err)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("%w: response missing access_token", ErrTokenExchangeFailed)
	}
	return tok.AccessToken, nil
}

func (c *TokenClient) withClient(ctx context.Context) context.Context {
	if c.httpClient == nil {
		return ctx
	}
	return context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
}

func (c *TokenClient) client() *http.Client {
	if c.httpClient != nil {
		return c.httpClient
	}
	return http.DefaultClient
}
