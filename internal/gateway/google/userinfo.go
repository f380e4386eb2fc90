package google

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aussiebroadwan/ratholink/internal/gateway/domain"
)

// FetchAssertion loads the identity payload for accessToken. The payload is
// returned as-is so callers can apply their own field fallbacks.
func (c *TokenClient) FetchAssertion(ctx context.Context, accessToken string) (domain.Assertion, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.userInfoURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client().Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIdentityLookupFailed, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, ErrUnauthorized
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: status %d", ErrIdentityLookupFailed, resp.StatusCode)
	}

	var assertion domain.Assertion
	if err := json.NewDecoder(resp.Body).Decode(&assertion); err != nil {
		return nil, fmt.Errorf("%w: decode: %w", ErrIdentityLookupFailed, err)
	}
	return assertion, nil
}
