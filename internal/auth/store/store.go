package store

import (
	"context"
	"errors"
	"time"

	"github.com/lockboxlabs/gatekey/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable.
type Store interface {
	Users() Users
	RefreshTokens() RefreshTokens

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// Use it for multi-step operations that must be atomic (e.g., refresh rotation).
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
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

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByUsername is used during credential authentication.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// UsernameExists reports whether the username is already taken.
	UsernameExists(ctx context.Context, username string) (bool, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	// Returns ErrAlreadyExists if the username is taken.
	CreateUser(ctx context.Context, u domain.User) error

	// UpdateUser mutates the mutable profile fields (email, first_name,
	// last_name) and bumps updated_at.
	UpdateUser(ctx context.Context, u domain.User) error

	// SetActive enables or disables an account.
	SetActive(ctx context.Context, userID string, active bool) error
}

type RefreshTokens interface {
	// Create records a newly issued refresh token by its jti.
	Create(ctx context.Context, t domain.RefreshToken) error

	// Get returns an outstanding refresh token record by jti.
	Get(ctx context.Context, jti string) (domain.RefreshToken, error)

	// Blacklist marks a refresh token as revoked. Blacklisting the same jti
	// twice is not an error.
	Blacklist(ctx context.Context, jti string, expiresAt time.Time) error

	// IsBlacklisted reports whether a jti has been revoked.
	IsBlacklisted(ctx context.Context, jti string) (bool, error)

	// DeleteExpired purges outstanding and blacklist records whose tokens
	// expired before the cutoff. Returns the number of rows removed.
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}
