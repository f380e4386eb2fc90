package sessionx

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// stateSize is 256 bits of entropy before encoding.
const stateSize = 32

// NewState returns a URL-safe random OAuth state value.
func NewState() (string, error) {
	buf := make([]byte, stateSize)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("sessionx: generate state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
