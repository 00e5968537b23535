package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wardenauth/warden/internal/auth/domain"
	"github.com/wardenauth/warden/internal/auth/store"
	"github.com/wardenauth/warden/pkg/cryptox"
	"github.com/wardenauth/warden/pkg/jwtx"
)

// TokenService mints, refreshes and revokes tokens. Access tokens are signed
// JWTs; refresh tokens are opaque random strings held in the token store.
type TokenService struct {
	Keys   *jwtx.KeyManager
	Tokens store.Store

	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// now is swappable for tests.
	now func() time.Time
}

// NewTokenService wires a token service over the given key manager and store.
// Zero TTLs fall back to the package defaults.
func NewTokenService(keys *jwtx.KeyManager, tokens store.Store, accessTTL, refreshTTL time.Duration) *TokenService {
	if accessTTL <= 0 {
		accessTTL = jwtx.DefaultAccessTokenTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = jwtx.DefaultRefreshTokenTTL
	}
	return &TokenService{
		Keys:       keys,
		Tokens:     tokens,
		AccessTTL:  accessTTL,
		RefreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// IssueAccessToken mints a signed access token for the subject. Each call
// produces a fresh jti, so revoking one token never touches its siblings.
func (s *TokenService) IssueAccessToken(userID string) (string, jwtx.Claims, error) {
	claims := s.Keys.NewAccessClaims(userID, s.AccessTTL, s.now())

	token, err := s.Keys.Signer().Sign(claims)
	if err != nil {
		return "", jwtx.Claims{}, fmt.Errorf("sign access token: %w", err)
	}
	return token, claims, nil
}

// IssuePair mints an access token and a fresh refresh token for the user.
// Saving the refresh token replaces any previous one, so logging in on a
// second device invalidates the first device's refresh token.
func (s *TokenService) IssuePair(ctx context.Context, userID string) (*domain.TokenPair, error) {
	access, _, err := s.IssueAccessToken(userID)
	if err != nil {
		return nil, err
	}

	refresh, err := cryptox.GenerateToken(cryptox.TokenSize512)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	if err := s.Tokens.RefreshTokens().Save(ctx, userID, refresh, s.RefreshTTL); err != nil {
		return nil, fmt.Errorf("save refresh token: %w", err)
	}

	return &domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    s.AccessTTL,
	}, nil
}

// Refresh exchanges a live refresh token for a brand new pair. The presented
// token is rotated out: after a successful call it can never be used again.
func (s *TokenService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	if refreshToken == "" {
		return nil, ErrInvalidRefresh
	}

	// 1. Resolve the token to its owner.
	userID, err := s.Tokens.RefreshTokens().UserIDForToken(ctx, refreshToken)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return nil, ErrInvalidRefresh
	case err != nil:
		return nil, fmt.Errorf("lookup refresh token: %w", err)
	}

	// 2. Make sure it is still the user's current token. A stale reverse
	// lookup surviving a rotation must not mint new credentials.
	current, err := s.Tokens.RefreshTokens().TokenForUser(ctx, userID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return nil, ErrInvalidRefresh
	case err != nil:
		return nil, fmt.Errorf("load current refresh token: %w", err)
	case current != refreshToken:
		// Best effort: the presented token lost a rotation race, so its
		// lookup entry is garbage.
		_ = s.Tokens.RefreshTokens().DeleteLookup(ctx, refreshToken)
		return nil, ErrInvalidRefresh
	}

	// 3. Mint a new pair. Save replaces the old token atomically.
	return s.IssuePair(ctx, userID)
}

// ReissueAccessToken mints a fresh access token for the owner of the given
// refresh token without rotating the refresh token itself. Used by the
// request guard to recover silently from a revoked access token.
func (s *TokenService) ReissueAccessToken(ctx context.Context, refreshToken string) (string, jwtx.Claims, error) {
	if refreshToken == "" {
		return "", jwtx.Claims{}, ErrInvalidRefresh
	}

	userID, err := s.Tokens.RefreshTokens().UserIDForToken(ctx, refreshToken)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return "", jwtx.Claims{}, ErrInvalidRefresh
	case err != nil:
		return "", jwtx.Claims{}, fmt.Errorf("lookup refresh token: %w", err)
	}

	// A reverse lookup alone is not proof of a live session: a rotation
	// race can leave a stale lookup entry behind. Only the user's current
	// token may mint anything.
	current, err := s.Tokens.RefreshTokens().TokenForUser(ctx, userID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return "", jwtx.Claims{}, ErrInvalidRefresh
	case err != nil:
		return "", jwtx.Claims{}, fmt.Errorf("load current refresh token: %w", err)
	case current != refreshToken:
		_ = s.Tokens.RefreshTokens().DeleteLookup(ctx, refreshToken)
		return "", jwtx.Claims{}, ErrInvalidRefresh
	}

	return s.IssueAccessToken(userID)
}

// IssueServiceToken mints a machine token carrying the internal_api scope.
// Service tokens have no refresh token: callers are expected to request a
// new one when theirs expires.
func (s *TokenService) IssueServiceToken(serviceName string) (string, jwtx.Claims, error) {
	claims := s.Keys.NewServiceClaims(serviceName, s.AccessTTL, s.now())
	if !claims.IsService() {
		return "", jwtx.Claims{}, ErrInvalidClaims
	}

	token, err := s.Keys.Signer().Sign(claims)
	if err != nil {
		return "", jwtx.Claims{}, fmt.Errorf("sign service token: %w", err)
	}
	return token, claims, nil
}

// RevokeAccessToken puts the token's jti on the denylist for the remainder
// of its lifetime. The signature is deliberately not checked: revoking is
// harmless, and an already expired token is a clean no-op.
func (s *TokenService) RevokeAccessToken(ctx context.Context, accessToken string) error {
	claims, err := jwtx.ParseUnverified(accessToken)
	if err != nil {
		return ErrInvalidToken
	}
	if claims.ID == "" {
		return ErrInvalidClaims
	}

	remaining := claims.RemainingLifetime(s.now())
	if remaining <= 0 {
		// Already expired, nothing to deny.
		return nil
	}

	if err := s.Tokens.Revocations().Revoke(ctx, claims.ID, remaining); err != nil {
		return fmt.Errorf("revoke access token: %w", err)
	}
	return nil
}

// RevokeRefreshToken drops the user's refresh token. The user keeps any
// outstanding access tokens but cannot mint new ones without logging in.
func (s *TokenService) RevokeRefreshToken(ctx context.Context, userID string) error {
	if err := s.Tokens.RefreshTokens().Delete(ctx, userID); err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}
	return nil
}

// RevokeAllTokens ends the user's session server side. Outstanding access
// tokens keep working until they expire or are revoked individually; with an
// hour TTL that window is considered acceptable.
func (s *TokenService) RevokeAllTokens(ctx context.Context, userID string) error {
	return s.RevokeRefreshToken(ctx, userID)
}

// IsRefreshTokenRevoked reports whether the user currently has no refresh
// token on file. Store errors propagate so callers can fail closed.
func (s *TokenService) IsRefreshTokenRevoked(ctx context.Context, userID string) (bool, error) {
	_, err := s.Tokens.RefreshTokens().TokenForUser(ctx, userID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return true, nil
	case err != nil:
		return true, fmt.Errorf("load refresh token: %w", err)
	}
	return false, nil
}

// IsAccessTokenRevoked reports whether the token's jti is on the denylist.
// When the store is unreachable it fails closed and reports the token as
// revoked alongside the error.
func (s *TokenService) IsAccessTokenRevoked(ctx context.Context, accessToken string) (bool, error) {
	claims, err := jwtx.ParseUnverified(accessToken)
	if err != nil {
		return true, ErrInvalidToken
	}
	if claims.ID == "" {
		return true, ErrInvalidClaims
	}

	revoked, err := s.Tokens.Revocations().IsRevoked(ctx, claims.ID)
	if err != nil {
		return true, fmt.Errorf("check denylist: %w", err)
	}
	return revoked, nil
}

// ValidateAccessToken fully verifies a token: signature, standard claims and
// the denylist. This is the single entry point for authenticating requests.
func (s *TokenService) ValidateAccessToken(ctx context.Context, accessToken string) (jwtx.Claims, error) {
	claims, err := s.Keys.Verifier().Verify(accessToken)
	if err != nil {
		return jwtx.Claims{}, ErrInvalidToken
	}

	revoked, err := s.Tokens.Revocations().IsRevoked(ctx, claims.ID)
	if err != nil || revoked {
		return jwtx.Claims{}, ErrInvalidToken
	}
	return claims, nil
}
