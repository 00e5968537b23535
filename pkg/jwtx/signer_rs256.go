package jwtx

import (
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// RS256Signer implements the Signer interface using RSA SHA-256.
type RS256Signer struct {
	key *rsa.PrivateKey
	alg string
	kid string
}

func newRS256Signer(key *rsa.PrivateKey) *RS256Signer {
	return &RS256Signer{
		key: key,
		alg: jwt.SigningMethodRS256.Alg(),
		kid: keyID(key),
	}
}

// keyID derives a stable identifier from the public key so verifiers can
// tell tokens apart after a key rotation. Tokens signed before the key
// changed carry the old kid and fail verification cleanly.
func keyID(key *rsa.PrivateKey) string {
	if key == nil {
		return ""
	}
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(der)
	return base64.RawURLEncoding.EncodeToString(sum[:8])
}

func (s *RS256Signer) Alg() string { return s.alg }

// Sign takes claims and turns them into a signed JWT string.
func (s *RS256Signer) Sign(claims Claims) (string, error) {
	if s.key == nil {
		return "", ErrSigning
	}

	t := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	if s.kid != "" {
		t.Header["kid"] = s.kid
	}
	signed, err := t.SignedString(s.key)
	if err != nil {
		return "", errors.Join(ErrSigning, err)
	}
	return signed, nil
}

// Validate does a quick sanity check to make sure we actually have a key.
func (s *RS256Signer) Validate() error {
	if s.key == nil {
		return errors.New("jwtx: nil RSA key")
	}
	return nil
}
