package store

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a key has no live value.
	ErrNotFound = errors.New("store: not found")

	// ErrUnavailable wraps transport failures. Callers in the revocation
	// path treat it as "assume revoked" so an outage never lets a revoked
	// token through.
	ErrUnavailable = errors.New("store: unavailable")
)

// Store is the token state store. Concrete drivers (redis) implement this.
// It exposes sub-repositories to keep concerns tidy and testable.
type Store interface {
	Revocations() Revocations
	RefreshTokens() RefreshTokens

	// Ping verifies the store connection is still alive.
	Ping(ctx context.Context) error

	// Close releases the underlying connection.
	Close() error
}

// Revocations is the access-token denylist. Entries live exactly as long as
// the token they shadow, so the denylist never outgrows the set of live
// tokens.
type Revocations interface {
	// Revoke marks a token id as revoked for the given remaining lifetime.
	Revoke(ctx context.Context, jti string, ttl time.Duration) error

	// IsRevoked reports whether a token id is on the denylist.
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// RefreshTokens stores the opaque refresh token per user. A user has at most
// one live refresh token: saving a new one atomically replaces the previous
// pair of mappings.
type RefreshTokens interface {
	// Save stores token for userID with the given ttl, replacing any
	// previous token and its reverse lookup.
	Save(ctx context.Context, userID, token string, ttl time.Duration) error

	// UserIDForToken resolves a presented refresh token to its owner.
	// Returns ErrNotFound for unknown or expired tokens.
	UserIDForToken(ctx context.Context, token string) (string, error)

	// TokenForUser returns the user's current refresh token.
	// Returns ErrNotFound when the user has no live token.
	TokenForUser(ctx context.Context, userID string) (string, error)

	// Delete removes the user's refresh token and its reverse lookup.
	// Deleting when no token exists is not an error.
	Delete(ctx context.Context, userID string) error

	// DeleteLookup removes a single reverse-lookup entry. Used to clean up
	// stale entries left behind by a lost rotation race; the caller must
	// have already established the token is not the user's current one.
	DeleteLookup(ctx context.Context, token string) error
}
