// Package sessionx encodes browser sessions as signed cookies.
//
// A session cookie is an HS256 JWT whose subject is the local credential id
// and which carries the current short-lived access credential. A second,
// short-lived cookie carries the OAuth state nonce between the login redirect
// and the provider callback. Both are signed with independent keys derived
// from one configured secret.
package sessionx

import (
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aussiebroadwan/ratholink/pkg/idx"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/hkdf"
)

const (
	SessionCookieName = "ratholink_session"
	StateCookieName   = "ratholink_oauth_state"

	DefaultTTL      = 24 * time.Hour
	DefaultStateTTL = 10 * time.Minute

	// MinSecretLength is the shortest accepted signing secret, in bytes.
	MinSecretLength = 16

	issuer = "ratholink"
)

var (
	ErrSecretTooShort = errors.New("sessionx: secret too short")
	ErrNoSession      = errors.New("sessionx: no session cookie")
	ErrInvalidSession = errors.New("sessionx: invalid session")
	ErrStateMismatch  = errors.New("sessionx: oauth state mismatch")
)

// Data is what a session cookie carries.
type Data struct {
	LocalID     string
	AccessToken string
	ExpiresAt   time.Time
}

type Options struct {
	TTL      time.Duration    // session lifetime (default: 24h)
	StateTTL time.Duration    // oauth state lifetime (default: 10m)
	Secure   bool             // set the Secure cookie attribute
	Now      func() time.Time // clock override for tests
}

// Codec signs and verifies gateway cookies. It is built once at startup and
// shared by every handler.
type Codec struct {
	sessionKey []byte
	stateKey   []byte
	opts       Options
}

type sessionClaims struct {
	jwt.RegisteredClaims

	AccessToken string `json:"at,omitempty"`
}

type stateClaims struct {
	jwt.RegisteredClaims
}

// NewCodec derives the session and state keys from secret.
func NewCodec(secret []byte, opts Options) (*Codec, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("%w: need at least %d bytes", ErrSecretTooShort, MinSecretLength)
	}

	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.StateTTL <= 0 {
		opts.StateTTL = DefaultStateTTL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	sessionKey, err := deriveKey(secret, "ratholink session v1")
	if err != nil {
		return nil, err
	}
	stateKey, err := deriveKey(secret, "ratholink oauth state v1")
	if err != nil {
		return nil, err
	}

	return &Codec{sessionKey: sessionKey, stateKey: stateKey, opts: opts}, nil
}

func deriveKey(secret []byte, info string) ([]byte, error) {
	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, nil, []byte(info)), key); err != nil {
		return nil, fmt.Errorf("sessionx: derive key: %w", err)
	}
	return key, nil
}

// TTL is the lifetime given to new sessions.
func (c *Codec) TTL() time.Duration { return c.opts.TTL }

// Encode signs d into a cookie value. A zero ExpiresAt gets the codec TTL.
func (c *Codec) Encode(d Data) (string, error) {
	now := c.opts.Now()
	exp := d.ExpiresAt
	if exp.IsZero() {
		exp = now.Add(c.opts.TTL)
	}

	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   d.LocalID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		AccessToken: d.AccessToken,
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.sessionKey)
}

// Decode verifies a cookie value produced by Encode. The subject must be a
// well-formed local id.
func (c *Codec) Decode(raw string) (Data, error) {
	var claims sessionClaims
	if err := c.parse(raw, &claims, c.sessionKey); err != nil {
		return Data{}, err
	}
	localID, err := idx.Parse(claims.Subject)
	if err != nil {
		return Data{}, fmt.Errorf("%w: subject: %w", ErrInvalidSession, err)
	}

	return Data{
		LocalID:     localID.String(),
		AccessToken: claims.AccessToken,
		ExpiresAt:   claims.ExpiresAt.Time,
	}, nil
}

func (c *Codec) parse(raw string, claims jwt.Claims, key []byte) error {
	_, err := jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (any, error) { return key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.opts.Now),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSession, err)
	}
	return nil
}

// Read returns the session carried by the request.
func (c *Codec) Read(r *http.Request) (Data, error) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return Data{}, ErrNoSession
	}
	return c.Decode(cookie.Value)
}

// Write sets the session cookie. Must be called before the response body.
func (c *Codec) Write(w http.ResponseWriter, d Data) error {
	if d.ExpiresAt.IsZero() {
		d.ExpiresAt = c.opts.Now().Add(c.opts.TTL)
	}

	value, err := c.Encode(d)
	if err != nil {
		return err
	}

	http.SetCookie(w, c.cookie(SessionCookieName, value, d.ExpiresAt))
	return nil
}

// Clear removes the session cookie.
func (c *Codec) Clear(w http.ResponseWriter) {
	http.SetCookie(w, c.expired(SessionCookieName))
}

func (c *Codec) cookie(name, value string, exp time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  exp,
		HttpOnly: true,
		Secure:   c.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (c *Codec) expired(name string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// IssueState mints a fresh OAuth state nonce, stores it in a signed cookie
// and returns the value to send as the authorization request's state.
func (c *Codec) IssueState(w http.ResponseWriter) (string, error) {
	nonce, err := NewState()
	if err != nil {
		return "", err
	}

	now := c.opts.Now()
	exp := now.Add(c.opts.StateTTL)
	claims := stateClaims{RegisteredClaims: jwt.RegisteredClaims{
		Issuer:    issuer,
		ID:        nonce,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}}

	value, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.stateKey)
	if err != nil {
		return "", err
	}

	http.SetCookie(w, c.cookie(StateCookieName, value, exp))
	return nonce, nil
}

// VerifyState checks the callback's state against the state cookie and
// clears the cookie either way, so a state is usable once.
func (c *Codec) VerifyState(w http.ResponseWriter, r *http.Request, state string) error {
	http.SetCookie(w, c.expired(StateCookieName))

	cookie, err := r.Cookie(StateCookieName)
	if err != nil || cookie.Value == "" || state == "" {
		return ErrStateMismatch
	}

	var claims stateClaims
	if err := c.parse(cookie.Value, &claims, c.stateKey); err != nil {
		return fmt.Errorf("%w: %w", ErrStateMismatch, err)
	}

	if subtle.ConstantTimeCompare([]byte(claims.ID), []byte(state)) != 1 {
		return ErrStateMismatch
	}
	return nil
}
