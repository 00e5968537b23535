package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wardenauth/warden/internal/auth/domain"
	"github.com/wardenauth/warden/internal/auth/userdir"
	"github.com/wardenauth/warden/internal/auth/userdir/drivers/sqlite"
	"github.com/wardenauth/warden/pkg/idx"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	st, err := sqlite.NewStore("file:" + t.Name() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func TestUsersCRUD(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	u := domain.User{
		ID:           idx.New().String(),
		Email:        "alice@example.com",
		PasswordHash: "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA",
	}

	t.Run("create and fetch", func(t *testing.T) {
		require.NoError(t, st.Users().CreateUser(ctx, u))

		got, err := st.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, u.Email, got.Email)
		require.Equal(t, u.PasswordHash, got.PasswordHash)
		require.False(t, got.CreatedAt.IsZero())

		byName, err := st.Users().GetUserByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		require.Equal(t, u.ID, byName.ID)
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		dup := domain.User{
			ID:           idx.New().String(),
			Email:        "alice@example.com",
			PasswordHash: "x",
		}
		require.ErrorIs(t, st.Users().CreateUser(ctx, dup), userdir.ErrAlreadyExists)
	})

	t.Run("unknown user returns not found", func(t *testing.T) {
		_, err := st.Users().GetUserByEmail(ctx, "nobody@example.com")
		require.ErrorIs(t, err, userdir.ErrNotFound)
	})

	t.Run("update password hash", func(t *testing.T) {
		require.NoError(t, st.Users().UpdatePasswordHash(ctx, u.ID, "new-hash"))

		got, err := st.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, "new-hash", got.PasswordHash)

		require.ErrorIs(t, st.Users().UpdatePasswordHash(ctx, "missing", "x"), userdir.ErrNotFound)
	})

	t.Run("delete user", func(t *testing.T) {
		require.NoError(t, st.Users().DeleteUser(ctx, u.ID))

		_, err := st.Users().GetUserByID(ctx, u.ID)
		require.ErrorIs(t, err, userdir.ErrNotFound)

		require.ErrorIs(t, st.Users().DeleteUser(ctx, u.ID), userdir.ErrNotFound)
	})
}
