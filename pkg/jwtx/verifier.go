package jwtx

import (
	"crypto/rsa"
	"errors"
)

// Verifier validates a JWT and gives back the claims if it's legit.
type Verifier interface {
	Verify(token string) (Claims, error)
}

var (
	ErrMalformed   = errors.New("jwtx: malformed token")
	ErrAlgMismatch = errors.New("jwtx: algorithm mismatch")
	ErrInvalidSig  = errors.New("jwtx: invalid signature")
	ErrSigning     = errors.New("jwtx: signing failed")

	ErrIssuer      = errors.New("jwtx: issuer mismatch")
	ErrAudience    = errors.New("jwtx: audience mismatch")
	ErrExpired     = errors.New("jwtx: token expired")
	ErrNotYetValid = errors.New("jwtx: token not yet valid")
)

// NewVerifierRS256 creates a Verifier for tokens signed with the given RSA
// public key.
func NewVerifierRS256(pub *rsa.PublicKey, issuer string, audience []string) Verifier {
	return &RS256Verifier{pub: pub, issuer: issuer, aud: audience}
}
