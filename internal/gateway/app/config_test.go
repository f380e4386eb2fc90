package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("GOOGLE_CLIENT_ID", "client-id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "client-secret")
	t.Setenv("GOOGLE_REDIRECT_URI", "http://localhost:8080/auth/google/callback")
	t.Setenv("SESSION_SECRET", "0123456789abcdef0123456789abcdef")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequired(t)
	t.Setenv("ENV", "")

	cfg := LoadConfig()
	require.NoError(t, cfg.Validate())
	require.Equal(t, "ratholink.db", cfg.DatabaseFile)
	require.Equal(t, 24*time.Hour, cfg.SessionTTL)
	require.Equal(t, 15*time.Second, cfg.UpstreamTimeout)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, "dev", cfg.Env)
	require.False(t, cfg.CookieSecure, "plain http is allowed in dev")
}

func TestLoadConfigOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("ENV", "prod")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("UPSTREAM_TIMEOUT", "5")
	t.Setenv("PORT", "not-a-number")

	cfg := LoadConfig()
	require.Equal(t, 2*time.Hour, cfg.SessionTTL)
	require.Equal(t, 5*time.Second, cfg.UpstreamTimeout)
	require.Equal(t, 8080, cfg.Port)
	require.True(t, cfg.CookieSecure)

	t.Setenv("COOKIE_SECURE", "false")
	require.False(t, LoadConfig().CookieSecure)
}

func TestValidateNamesMissingKeys(t *testing.T) {
	cfg := Config{GoogleClientID: "id", SessionSecret: "  "}

	err := cfg.Validate()
	require.ErrorIs(t, err, ErrMissingConfiguration)
	require.Contains(t, err.Error(), "GOOGLE_CLIENT_SECRET")
	require.Contains(t, err.Error(), "GOOGLE_REDIRECT_URI")
	require.Contains(t, err.Error(), "SESSION_SECRET")
	require.NotContains(t, err.Error(), "GOOGLE_CLIENT_ID")
}

func TestNewRefusesToStartWithoutSecrets(t *testing.T) {
	_, err := New(Config{})
	require.ErrorIs(t, err, ErrMissingConfiguration)
}

func TestNewWiresTheGateway(t *testing.T) {
	setRequired(t)
	t.Setenv("GATEWAY_DATABASE_FILE", ":memory:")
	t.Setenv("LOG_LEVEL", "error")

	application, err := New(LoadConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = application.db.Close() })

	require.NotNil(t, application.Handler())
	require.Equal(t, ":8080", application.server.Addr)
}
