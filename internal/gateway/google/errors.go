package google

import (
	"errors"
	"net/http"

	"google.golang.org/api/googleapi"
)

var (
	// ErrMissingConfiguration means client id, secret or redirect URI is unset.
	ErrMissingConfiguration = errors.New("google: missing oauth configuration")

	// ErrTokenExchangeFailed covers any failed or malformed token endpoint
	// response, for both authorization codes and refreshes.
	ErrTokenExchangeFailed = errors.New("google: token exchange failed")

	// ErrNoRefreshCredential is returned by Refresh when nothing is stored to
	// refresh with. No request is sent.
	ErrNoRefreshCredential = errors.New("google: no refresh credential")

	// ErrUnauthorized indicates an invalid or expired access credential.
	ErrUnauthorized = errors.New("google: unauthorised (invalid credentials)")

	// ErrIdentityLookupFailed is any non-401 failure of the userinfo call.
	ErrIdentityLookupFailed = errors.New("google: identity lookup failed")
)

// IsUnauthorized reports whether err is an authorization failure from any
// Google endpoint. It is the single predicate the fetcher uses to decide
// whether a refresh is worth trying.
func IsUnauthorized(err error) bool {
	if errors.Is(err, ErrUnauthorized) {
		return true
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == http.StatusUnauthorized
	}
	return false
}
