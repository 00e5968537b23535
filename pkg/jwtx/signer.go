package jwtx

import "crypto/rsa"

// Signer is our interface for anything that can sign JWTs.
type Signer interface {
	Alg() string
	Sign(Claims) (string, error)
	Validate() error
}

// NewSignerRS256 creates an RS256 signer from a parsed private key.
func NewSignerRS256(key *rsa.PrivateKey) Signer {
	return newRS256Signer(key)
}
