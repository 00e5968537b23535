package service

import "errors"

// Sentinel errors returned by the service layer. Handlers map these onto
// the wire-level error codes in pkg/authsdk.
var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrInvalidClient      = errors.New("invalid_client")
	ErrInvalidToken       = errors.New("invalid_token")
	ErrInvalidRefresh     = errors.New("invalid_refresh_token")
	ErrInvalidClaims      = errors.New("invalid_claims")
	ErrUserExists         = errors.New("user_exists")
)
