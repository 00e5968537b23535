package jwtx_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"github.com/wardenauth/warden/pkg/cryptox"
	"github.com/wardenauth/warden/pkg/jwtx"
)

const (
	testIssuer   = "warden"
	testAudience = "warden-clients"
)

func newTestKeyManager(t *testing.T) *jwtx.KeyManager {
	t.Helper()

	key, err := cryptox.GenerateRSAKey(2048)
	require.NoError(t, err)

	km, err := jwtx.NewKeyManager(key, testIssuer, []string{testAudience})
	require.NoError(t, err)
	return km
}

func TestSignAndVerify(t *testing.T) {
	km := newTestKeyManager(t)

	claims := jwtx.NewAccessClaims("user-1", time.Hour, testIssuer, []string{testAudience}, time.Now().UTC())
	token, err := km.Signer().Sign(claims)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := km.Verifier().Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", got.Subject)
	require.Equal(t, claims.ID, got.ID)
	require.NotEmpty(t, got.ID)
}

func TestSignSetsKeyID(t *testing.T) {
	km := newTestKeyManager(t)
	other := newTestKeyManager(t)

	claims := jwtx.NewAccessClaims("user-1", time.Hour, testIssuer, []string{testAudience}, time.Now().UTC())
	token, err := km.Signer().Sign(claims)
	require.NoError(t, err)

	parsed, _, err := jwt.NewParser().ParseUnverified(token, &jwtx.Claims{})
	require.NoError(t, err)
	kid, ok := parsed.Header["kid"].(string)
	require.True(t, ok)
	require.NotEmpty(t, kid)

	// Same key yields the same kid; a different key yields a different one.
	again, err := km.Signer().Sign(claims)
	require.NoError(t, err)
	parsedAgain, _, err := jwt.NewParser().ParseUnverified(again, &jwtx.Claims{})
	require.NoError(t, err)
	require.Equal(t, kid, parsedAgain.Header["kid"])

	foreign, err := other.Signer().Sign(claims)
	require.NoError(t, err)
	parsedForeign, _, err := jwt.NewParser().ParseUnverified(foreign, &jwtx.Claims{})
	require.NoError(t, err)
	require.NotEqual(t, kid, parsedForeign.Header["kid"])
}

func TestVerify_RejectsExpired(t *testing.T) {
	km := newTestKeyManager(t)

	issued := time.Now().UTC().Add(-2 * time.Hour)
	claims := jwtx.NewAccessClaims("user-1", time.Hour, testIssuer, []string{testAudience}, issued)
	token, err := km.Signer().Sign(claims)
	require.NoError(t, err)

	_, err = km.Verifier().Verify(token)
	require.ErrorIs(t, err, jwtx.ErrExpired)
}

func TestVerify_RejectsWrongKey(t *testing.T) {
	km := newTestKeyManager(t)
	other := newTestKeyManager(t)

	claims := jwtx.NewAccessClaims("user-1", time.Hour, testIssuer, []string{testAudience}, time.Now().UTC())
	token, err := other.Signer().Sign(claims)
	require.NoError(t, err)

	_, err = km.Verifier().Verify(token)
	require.ErrorIs(t, err, jwtx.ErrInvalidSig)
}

func TestVerify_RejectsWrongIssuer(t *testing.T) {
	km := newTestKeyManager(t)

	claims := jwtx.NewAccessClaims("user-1", time.Hour, "someone-else", []string{testAudience}, time.Now().UTC())
	token, err := km.Signer().Sign(claims)
	require.NoError(t, err)

	_, err = km.Verifier().Verify(token)
	require.ErrorIs(t, err, jwtx.ErrIssuer)
}

func TestVerify_RejectsMalformed(t *testing.T) {
	km := newTestKeyManager(t)

	_, err := km.Verifier().Verify("definitely.not.a.jwt")
	require.ErrorIs(t, err, jwtx.ErrMalformed)
}

func TestJTIUniquePerIssue(t *testing.T) {
	now := time.Now().UTC()
	a := jwtx.NewAccessClaims("user-1", time.Hour, testIssuer, nil, now)
	b := jwtx.NewAccessClaims("user-1", time.Hour, testIssuer, nil, now)

	require.NotEqual(t, a.ID, b.ID)
}

func TestParseUnverified(t *testing.T) {
	km := newTestKeyManager(t)

	t.Run("extracts claims from an expired token", func(t *testing.T) {
		issued := time.Now().UTC().Add(-2 * time.Hour)
		claims := jwtx.NewAccessClaims("user-1", time.Hour, testIssuer, nil, issued)
		token, err := km.Signer().Sign(claims)
		require.NoError(t, err)

		got, err := jwtx.ParseUnverified(token)
		require.NoError(t, err)
		require.Equal(t, claims.ID, got.ID)
		require.Equal(t, "user-1", got.Subject)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := jwtx.ParseUnverified("garbage")
		require.ErrorIs(t, err, jwtx.ErrMalformed)
	})
}

func TestServiceClaims(t *testing.T) {
	now := time.Now().UTC()
	c := jwtx.NewServiceClaims("billing", time.Hour, testIssuer, nil, now)

	require.True(t, c.IsService())
	require.Equal(t, jwtx.ScopeInternalAPI, c.Scope)
	require.Equal(t, "billing", c.ServiceName)
	require.Equal(t, "billing", c.Subject)
}

func TestRemainingLifetime(t *testing.T) {
	now := time.Now().UTC()
	c := jwtx.NewAccessClaims("user-1", time.Hour, testIssuer, nil, now)

	require.InDelta(t, time.Hour, c.RemainingLifetime(now), float64(time.Second))
	require.Zero(t, c.RemainingLifetime(now.Add(2*time.Hour)))
}
