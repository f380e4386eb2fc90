package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/ratholink/internal/gateway/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers implement it and
// expose sub-repositories so a transaction-scoped Store can hand out the same
// repos bound to the transaction.
type Store interface {
	Credentials() Credentials

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Credentials interface {
	// GetCredentialByID returns a credential by local id.
	GetCredentialByID(ctx context.Context, id string) (domain.Credential, error)

	// GetCredentialByProviderID is the natural-key lookup used at login.
	GetCredentialByProviderID(ctx context.Context, providerID string) (domain.Credential, error)

	// CreateCredential inserts a new record (id is provided by the app via ULID).
	// Returns ErrAlreadyExists when provider_id or email is taken.
	CreateCredential(ctx context.Context, c domain.Credential) error

	// RecordLogin stamps last_login_at and updated_at and, when refreshToken
	// is non-empty, overwrites refresh_token. Always a single write.
	RecordLogin(ctx context.Context, id string, refreshToken string, at time.Time) error

	// CountCredentials returns the number of stored records.
	CountCredentials(ctx context.Context) (int64, error)
}
