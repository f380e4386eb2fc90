package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// ErrMissingConfiguration is returned by Validate when a required setting is unset.
var ErrMissingConfiguration = errors.New("missing required configuration")

type Config struct {
	GoogleClientID     string // Required: OAuth client id
	GoogleClientSecret string // Required: OAuth client secret
	GoogleRedirectURI  string // Required: registered callback, e.g. http://localhost:8080/auth/google/callback
	SessionSecret      string // Required: signs session and state cookies (min 16 bytes)

	DatabaseFile        string        // Optional: path to SQLite database file (default: ratholink.db)
	SessionTTL          time.Duration // Optional: session lifetime (default: 24h)
	CookieSecure        bool          // Optional: set Secure on cookies (default: true outside dev)
	UpstreamTimeout     time.Duration // Optional: per-request timeout for Google calls (default: 15s)
	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	env := getEnvOrDefault("ENV", "dev")

	return Config{
		GoogleClientID:      os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret:  os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURI:   os.Getenv("GOOGLE_REDIRECT_URI"),
		SessionSecret:       os.Getenv("SESSION_SECRET"),
		DatabaseFile:        getEnvOrDefault("GATEWAY_DATABASE_FILE", "ratholink.db"),
		SessionTTL:          getEnvDurationOrDefault("SESSION_TTL", 24*time.Hour),
		CookieSecure:        getEnvBoolOrDefault("COOKIE_SECURE", env != "dev"),
		UpstreamTimeout:     getEnvDurationOrDefault("UPSTREAM_TIMEOUT", 15*time.Second),
		Env:                 env,
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

// Validate checks that every required secret is present. The error names
// the missing keys, never their values.
func (c Config) Validate() error {
	required := []struct {
		key   string
		value string
	}{
		{"GOOGLE_CLIENT_ID", c.GoogleClientID},
		{"GOOGLE_CLIENT_SECRET", c.GoogleClientSecret},
		{"GOOGLE_REDIRECT_URI", c.GoogleRedirectURI},
		{"SESSION_SECRET", c.SessionSecret},
	}

	var missing []string
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			missing = append(missing, r.key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingConfiguration, strings.Join(missing, ", "))
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are seconds
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
