package service

import (
	"context"
	"crypto/subtle"

	"github.com/wardenauth/warden/pkg/jwtx"
)

// ServiceClient is one pre-shared credential a backing service uses to
// request machine tokens.
type ServiceClient struct {
	ClientID     string
	ClientSecret string
	ServiceName  string
}

// InternalAuthService exchanges pre-shared client credentials for service
// tokens. Clients come from configuration; there is no self-registration.
type InternalAuthService struct {
	Tokens  *TokenService
	clients []ServiceClient
}

// NewInternalAuthService wires the service-to-service authenticator.
func NewInternalAuthService(tokens *TokenService, clients []ServiceClient) *InternalAuthService {
	return &InternalAuthService{Tokens: tokens, clients: clients}
}

// Authenticate checks the credentials and mints a service token. Every
// registered client is compared in constant time so response timing reveals
// nothing about which client ids exist.
func (s *InternalAuthService) Authenticate(_ context.Context, clientID, clientSecret string) (string, jwtx.Claims, error) {
	var matched *ServiceClient
	for i := range s.clients {
		c := &s.clients[i]
		idOK := subtle.ConstantTimeCompare([]byte(c.ClientID), []byte(clientID)) == 1
		secretOK := subtle.ConstantTimeCompare([]byte(c.ClientSecret), []byte(clientSecret)) == 1
		if idOK && secretOK {
			matched = c
		}
	}
	if matched == nil {
		return "", jwtx.Claims{}, ErrInvalidClient
	}

	return s.Tokens.IssueServiceToken(matched.ServiceName)
}
