package jwtx

import (
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Default token TTLs. Access tokens are short-lived and individually
// revocable; refresh tokens live long enough to span a working week.
const (
	DefaultAccessTokenTTL  = time.Hour
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// ScopeInternalAPI marks a token as a service-to-service credential.
const ScopeInternalAPI = "internal_api"

// Claims are access-token claims used across services. Changes should stay
// additive to preserve compatibility with already-issued tokens.
type Claims struct {
	jwt.RegisteredClaims

	// Scope marks what the token grants. User tokens carry no scope;
	// service tokens carry "internal_api".
	Scope string `json:"scope,omitempty"`

	// ServiceName identifies the calling service on internal tokens.
	ServiceName string `json:"service_name,omitempty"`
}

// NewAccessClaims builds claims for a user access token. Every call mints a
// fresh jti so individual tokens can be revoked.
func NewAccessClaims(subject string, ttl time.Duration, issuer string, audience []string, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			Audience:  jwt.ClaimStrings(audience),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
	}
}

// NewServiceClaims builds claims for a service-to-service token.
func NewServiceClaims(serviceName string, ttl time.Duration, issuer string, audience []string, now time.Time) Claims {
	c := NewAccessClaims(serviceName, ttl, issuer, audience, now)
	c.Scope = ScopeInternalAPI
	c.ServiceName = serviceName
	return c
}

// NewJTI returns a unique identifier for the "jti" claim.
func NewJTI() string {
	return uuid.NewString()
}

// IsService reports whether the claims describe a valid internal service
// token: the internal scope plus a named service.
func (c *Claims) IsService() bool {
	return c.Scope == ScopeInternalAPI && c.ServiceName != ""
}

// RemainingLifetime returns how long until the token expires, or zero if it
// already has (or carries no expiry).
func (c *Claims) RemainingLifetime(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	if d := c.ExpiresAt.Sub(now); d > 0 {
		return d
	}
	return 0
}

// ValidateIssuer checks if the issuer matches expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil // nothing to enforce
	}

	if c.Issuer != expected {
		return ErrIssuer
	}

	return nil
}

// ValidateAudience checks if at least one expected audience is present.
func (c *Claims) ValidateAudience(expected []string) error {
	if len(expected) == 0 {
		return nil // nothing to enforce
	}

	for _, want := range expected {
		if slices.Contains(c.Audience, want) {
			return nil
		}
	}

	return ErrAudience
}

// ValidateExpiry ensures the token hasn't expired (exp) and isn't used
// before it is valid (nbf).
func (c *Claims) ValidateExpiry() error {
	now := time.Now().UTC()

	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Time) {
		return ErrExpired
	}

	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return ErrNotYetValid
	}

	return nil
}
