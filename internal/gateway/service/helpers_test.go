package service_test

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/aussiebroadwan/ratholink/internal/gateway/store/drivers/sqlite"
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

// fakeRefresher hands out a fixed access credential and counts calls.
type fakeRefresher struct {
	calls atomic.Int32
	seen  []string

	token string
	err   error
}

func (f *fakeRefresher) Refresh(_ context.Context, refreshToken string) (string, error) {
	f.calls.Add(1)
	f.seen = append(f.seen, refreshToken)
	if f.err != nil {
		return "", f.err
	}
	return f.token, nil
}
