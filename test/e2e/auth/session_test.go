package auth_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wardenauth/warden/pkg/authsdk"
)

// TestSessionLifecycle walks a full browser-style session: signup, profile
// fetch off the cookie jar, logout, and the session being dead afterwards.
func TestSessionLifecycle(t *testing.T) {
	srv := startServer(t)
	client := authsdk.NewSDKClient(srv.URL)
	ctx := t.Context()

	pair, err := client.SignUp(ctx, testEmail, testPassword)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	// The cookie jar carries the session, no bearer token needed.
	me, err := client.Me(ctx, "")
	require.NoError(t, err)
	require.Equal(t, testEmail, me.Email)

	require.NoError(t, client.Logout(ctx))

	_, err = client.Me(ctx, pair.AccessToken)
	var apiErr *authsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, authsdk.ErrorCodeInvalidToken, apiErr.Code)
}

// TestLoginFlow covers login with an existing account, including the error
// paths a client is expected to distinguish.
func TestLoginFlow(t *testing.T) {
	srv := startServer(t)
	client := authsdk.NewSDKClient(srv.URL)
	ctx := t.Context()

	_, err := client.SignUp(ctx, testEmail, testPassword)
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		fresh := authsdk.NewSDKClient(srv.URL)
		pair, err := fresh.Login(ctx, testEmail, testPassword)
		require.NoError(t, err)

		me, err := fresh.Me(ctx, pair.AccessToken)
		require.NoError(t, err)
		require.Equal(t, testEmail, me.Email)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := client.Login(ctx, testEmail, "definitely wrong")
		var apiErr *authsdk.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, authsdk.ErrorCodeInvalidCredentials, apiErr.Code)
	})

	t.Run("duplicate signup", func(t *testing.T) {
		_, err := client.SignUp(ctx, testEmail, "another password 99")
		var apiErr *authsdk.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, authsdk.ErrorCodeUserExists, apiErr.Code)
	})
}

// TestRefreshRotation verifies that refresh tokens are single use and a
// rotated-out token cannot mint another session.
func TestRefreshRotation(t *testing.T) {
	srv := startServer(t)
	client := authsdk.NewSDKClient(srv.URL)
	ctx := t.Context()

	pair, err := client.SignUp(ctx, testEmail, testPassword)
	require.NoError(t, err)

	fresh, err := client.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, pair.RefreshToken, fresh.RefreshToken)
	require.NotEmpty(t, fresh.AccessToken)

	// The consumed token is dead.
	_, err = client.Refresh(ctx, pair.RefreshToken)
	var apiErr *authsdk.APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, authsdk.ErrorCodeInvalidRefresh, apiErr.Code)

	// The rotated one works.
	_, err = client.Refresh(ctx, fresh.RefreshToken)
	require.NoError(t, err)
}

// TestSilentRecovery exercises the request guard: a revoked access token is
// replaced transparently while the refresh token is still alive.
func TestSilentRecovery(t *testing.T) {
	srv := startServer(t)
	client := authsdk.NewSDKClient(srv.URL)
	ctx := t.Context()

	pair, err := client.SignUp(ctx, testEmail, testPassword)
	require.NoError(t, err)

	// Revoke just the access token, as an admin tool might.
	require.NoError(t, srv.Tokens.RevokeAccessToken(ctx, pair.AccessToken))

	// The cookie session recovers without the client noticing.
	me, err := client.Me(ctx, "")
	require.NoError(t, err)
	require.Equal(t, testEmail, me.Email)

	// A bearer-only client holding the same revoked token stays locked out.
	bearerOnly := authsdk.NewSDKClient(srv.URL)
	_, err = bearerOnly.Me(ctx, pair.AccessToken)
	var apiErr *authsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, authsdk.ErrorCodeInvalidToken, apiErr.Code)
}
