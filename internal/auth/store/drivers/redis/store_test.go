package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/wardenauth/warden/internal/auth/store"
	redisdriver "github.com/wardenauth/warden/internal/auth/store/drivers/redis"
)

func newTestStore(t *testing.T) (*redisdriver.Store, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return redisdriver.NewStoreFromClient(rdb), mr
}

func TestRevocations(t *testing.T) {
	ctx := context.Background()
	st, mr := newTestStore(t)

	t.Run("revoke then check", func(t *testing.T) {
		require.NoError(t, st.Revocations().Revoke(ctx, "jti-1", time.Hour))

		revoked, err := st.Revocations().IsRevoked(ctx, "jti-1")
		require.NoError(t, err)
		require.True(t, revoked)
	})

	t.Run("unknown jti is not revoked", func(t *testing.T) {
		revoked, err := st.Revocations().IsRevoked(ctx, "jti-unknown")
		require.NoError(t, err)
		require.False(t, revoked)
	})

	t.Run("entry expires with the token", func(t *testing.T) {
		require.NoError(t, st.Revocations().Revoke(ctx, "jti-2", time.Minute))

		mr.FastForward(2 * time.Minute)

		revoked, err := st.Revocations().IsRevoked(ctx, "jti-2")
		require.NoError(t, err)
		require.False(t, revoked)
	})
}

func TestRefreshTokens(t *testing.T) {
	ctx := context.Background()
	st, mr := newTestStore(t)
	repo := st.RefreshTokens()

	t.Run("save and resolve both directions", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, "user-1", "tok-a", time.Hour))

		userID, err := repo.UserIDForToken(ctx, "tok-a")
		require.NoError(t, err)
		require.Equal(t, "user-1", userID)

		token, err := repo.TokenForUser(ctx, "user-1")
		require.NoError(t, err)
		require.Equal(t, "tok-a", token)
	})

	t.Run("saving a new token retires the old one", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, "user-1", "tok-b", time.Hour))

		_, err := repo.UserIDForToken(ctx, "tok-a")
		require.ErrorIs(t, err, store.ErrNotFound)

		userID, err := repo.UserIDForToken(ctx, "tok-b")
		require.NoError(t, err)
		require.Equal(t, "user-1", userID)
	})

	t.Run("delete removes the pair", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, "user-1"))

		_, err := repo.TokenForUser(ctx, "user-1")
		require.ErrorIs(t, err, store.ErrNotFound)
		_, err = repo.UserIDForToken(ctx, "tok-b")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("delete without a token is a no-op", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, "user-never-seen"))
	})

	t.Run("delete lookup removes only the reverse entry", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, "user-3", "tok-d", time.Hour))
		require.NoError(t, repo.DeleteLookup(ctx, "tok-d"))

		_, err := repo.UserIDForToken(ctx, "tok-d")
		require.ErrorIs(t, err, store.ErrNotFound)

		token, err := repo.TokenForUser(ctx, "user-3")
		require.NoError(t, err)
		require.Equal(t, "tok-d", token)

		require.NoError(t, repo.DeleteLookup(ctx, "tok-never-seen"))
	})

	t.Run("tokens expire", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, "user-2", "tok-c", time.Minute))

		mr.FastForward(2 * time.Minute)

		_, err := repo.UserIDForToken(ctx, "tok-c")
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestStoreUnavailable(t *testing.T) {
	ctx := context.Background()
	st, mr := newTestStore(t)

	mr.Close()

	_, err := st.Revocations().IsRevoked(ctx, "jti-1")
	require.ErrorIs(t, err, store.ErrUnavailable)

	err = st.RefreshTokens().Save(ctx, "user-1", "tok", time.Hour)
	require.ErrorIs(t, err, store.ErrUnavailable)

	require.ErrorIs(t, st.Ping(ctx), store.ErrUnavailable)
}
