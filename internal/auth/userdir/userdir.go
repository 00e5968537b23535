package userdir

import (
	"context"
	"errors"

	"github.com/wardenauth/warden/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("userdir: not found")
	ErrAlreadyExists = errors.New("userdir: already exists")
)

// Store is the user directory. Concrete drivers (sqlite) implement this.
type Store interface {
	Users() Users

	ApplyMigrations() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error

	// Close releases any underlying resources.
	Close() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is used during login.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by the app via ULID).
	// Returns ErrAlreadyExists when the email is taken.
	CreateUser(ctx context.Context, u domain.User) error

	// UpdatePasswordHash sets the password_hash (argon2) and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, userID string, newHash string) error

	// DeleteUser removes the account.
	DeleteUser(ctx context.Context, userID string) error
}
