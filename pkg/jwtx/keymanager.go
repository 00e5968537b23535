package jwtx

import (
	"crypto/rsa"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/wardenauth/warden/pkg/cryptox"
)

// DefaultRSABits is the key size used when generating a fresh signing key.
const DefaultRSABits = 2048

// KeyManager owns the service signing key and the signer/verifier built on
// it. The service runs a single live key; verifiers fetch the public half
// from the key discovery endpoint.
type KeyManager struct {
	signer    Signer
	verifier  Verifier
	publicPEM []byte
	alg       string
	issuer    string
	audience  []string
}

// FileKeyManagerOptions configures a KeyManager backed by a key file.
type FileKeyManagerOptions struct {
	// Path is where the PEM-encoded private key lives. If the file is
	// missing or unreadable a new key is generated and written there.
	Path string

	// RSABits is the key size for generated keys. Defaults to 2048.
	RSABits int

	// Issuer is the issuer claim (iss) validated in tokens.
	Issuer string

	// Audience is the list of audience values (aud) validated in tokens.
	// Empty means no audience validation.
	Audience []string
}

// NewFileKeyManager loads the signing key from disk, or generates and
// persists a new one when the file is absent or corrupt. Key trouble is
// never fatal: a fresh key only invalidates outstanding tokens, which the
// refresh flow recovers from.
func NewFileKeyManager(opts FileKeyManagerOptions) (*KeyManager, error) {
	if opts.Issuer == "" {
		return nil, fmt.Errorf("jwtx: Issuer is required")
	}

	bits := opts.RSABits
	if bits == 0 {
		bits = DefaultRSABits
	}

	key, err := loadOrGenerateKey(opts.Path, bits)
	if err != nil {
		return nil, err
	}

	return NewKeyManager(key, opts.Issuer, opts.Audience)
}

// NewKeyManager wires a signer and verifier around an already-parsed key.
// Useful in tests where disk round trips just add noise.
func NewKeyManager(key *rsa.PrivateKey, issuer string, audience []string) (*KeyManager, error) {
	publicPEM, err := cryptox.MarshalRSAPublicPEM(&key.PublicKey)
	if err != nil {
		return nil, err
	}

	signer := NewSignerRS256(key)
	if err := signer.Validate(); err != nil {
		return nil, err
	}

	return &KeyManager{
		signer:    signer,
		verifier:  NewVerifierRS256(&key.PublicKey, issuer, audience),
		publicPEM: publicPEM,
		alg:       signer.Alg(),
		issuer:    issuer,
		audience:  audience,
	}, nil
}

// NewAccessClaims mints user access claims bound to this manager's issuer
// and audience.
func (km *KeyManager) NewAccessClaims(subject string, ttl time.Duration, now time.Time) Claims {
	return NewAccessClaims(subject, ttl, km.issuer, km.audience, now)
}

// NewServiceClaims mints service claims bound to this manager's issuer and
// audience.
func (km *KeyManager) NewServiceClaims(serviceName string, ttl time.Duration, now time.Time) Claims {
	return NewServiceClaims(serviceName, ttl, km.issuer, km.audience, now)
}

func loadOrGenerateKey(path string, bits int) (*rsa.PrivateKey, error) {
	if path != "" {
		data, err := os.ReadFile(filepath.Clean(path))
		if err == nil {
			key, perr := cryptox.ParseRSAPrivatePEM(data)
			if perr == nil {
				return key, nil
			}
			slog.Warn("signing key file is corrupt, generating a new key",
				"path", path, "err", perr)
		} else if os.IsNotExist(err) {
			slog.Warn("signing key file not found, generating a new key",
				"path", path)
		} else {
			slog.Warn("signing key file unreadable, generating a new key",
				"path", path, "err", err)
		}
	}

	key, err := cryptox.GenerateRSAKey(bits)
	if err != nil {
		return nil, err
	}

	if path != "" {
		if err := persistKey(path, key); err != nil {
			slog.Warn("failed to persist generated signing key, continuing in-memory",
				"path", path, "err", err)
		}
	}

	return key, nil
}

func persistKey(path string, key *rsa.PrivateKey) error {
	if err := os.MkdirAll(filepath.Dir(filepath.Clean(path)), 0750); err != nil {
		return err
	}
	return os.WriteFile(path, cryptox.MarshalRSAPrivatePEM(key), 0600)
}

// Signer returns the active signing key.
func (km *KeyManager) Signer() Signer { return km.signer }

// Verifier returns a verifier for tokens signed by this manager.
func (km *KeyManager) Verifier() Verifier { return km.verifier }

// PublicKeyPEM returns the PEM-encoded public key served to verifiers.
func (km *KeyManager) PublicKeyPEM() []byte { return km.publicPEM }

// Algorithm returns the signing algorithm in use.
func (km *KeyManager) Algorithm() string { return km.alg }

// IsReady reports whether the manager holds a usable signing key.
func (km *KeyManager) IsReady() bool {
	return km != nil && km.signer != nil && km.signer.Validate() == nil
}
