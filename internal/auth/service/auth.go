package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/wardenauth/warden/internal/auth/domain"
	"github.com/wardenauth/warden/internal/auth/events"
	"github.com/wardenauth/warden/internal/auth/userdir"
	"github.com/wardenauth/warden/pkg/cryptox"
	"github.com/wardenauth/warden/pkg/idx"
	"github.com/wardenauth/warden/pkg/jwtx"
)

const (
	minEmailLength    = 3
	maxEmailLength    = 64
	minPasswordLength = 8
)

// AuthService owns the account lifecycle: signup, login and logout. Token
// mechanics are delegated to the TokenService; every state change emits a
// domain event.
type AuthService struct {
	Users  userdir.Store
	Tokens *TokenService
	Events *events.Dispatcher

	now func() time.Time
}

// NewAuthService wires the account service.
func NewAuthService(users userdir.Store, tokens *TokenService, dispatcher *events.Dispatcher) *AuthService {
	return &AuthService{
		Users:  users,
		Tokens: tokens,
		Events: dispatcher,
		now:    time.Now,
	}
}

// SignUp creates a new account and logs it straight in, returning a token
// pair so the client does not need a follow-up login call.
func (s *AuthService) SignUp(ctx context.Context, email, password string) (*domain.User, *domain.TokenPair, error) {
	if err := validateEmail(email); err != nil {
		return nil, nil, err
	}
	if len(password) < minPasswordLength {
		return nil, nil, ErrInvalidCredentials
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	user := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.Users.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, userdir.ErrAlreadyExists) {
			return nil, nil, ErrUserExists
		}
		return nil, nil, fmt.Errorf("create user: %w", err)
	}

	pair, err := s.Tokens.IssuePair(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	s.Events.DispatchAsync(ctx, domain.UserSignedUp{
		EventMeta: domain.NewEventMeta(s.now()),
		UserID:    user.ID,
		Email:     user.Email,
	})

	return &user, pair, nil
}

// Login checks the credentials and mints a token pair. Unknown emails and
// wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, *domain.TokenPair, error) {
	user, err := s.Users.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, userdir.ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("load user: %w", err)
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.Tokens.IssuePair(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	s.Events.DispatchAsync(ctx, domain.UserLoggedIn{
		EventMeta: domain.NewEventMeta(s.now()),
		UserID:    user.ID,
		Email:     user.Email,
	})

	return &user, pair, nil
}

// Logout ends the session behind the presented access token: the token's
// jti goes on the denylist and the user's refresh token is deleted.
func (s *AuthService) Logout(ctx context.Context, accessToken string) error {
	claims, err := jwtx.ParseUnverified(accessToken)
	if err != nil {
		return ErrInvalidToken
	}
	if claims.Subject == "" {
		return ErrInvalidClaims
	}

	if err := s.Tokens.RevokeAccessToken(ctx, accessToken); err != nil {
		return err
	}
	if err := s.Tokens.RevokeAllTokens(ctx, claims.Subject); err != nil {
		return err
	}

	s.Events.DispatchAsync(ctx, domain.UserLoggedOut{
		EventMeta: domain.NewEventMeta(s.now()),
		UserID:    claims.Subject,
	})

	return nil
}

// GetUser loads a user by id, for the authenticated profile endpoint.
func (s *AuthService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	if _, err := idx.Parse(userID); err != nil {
		return nil, ErrInvalidClaims
	}

	user, err := s.Users.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, userdir.ErrNotFound) {
			return nil, userdir.ErrNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return &user, nil
}

// GetUserByEmail looks an account up by its email address. Used by internal
// callers that only know the address, e.g. support tooling.
func (s *AuthService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	if err := validateEmail(email); err != nil {
		return nil, ErrInvalidCredentials
	}

	user, err := s.Users.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, userdir.ErrNotFound) {
			return nil, userdir.ErrNotFound
		}
		return nil, fmt.Errorf("load user by email: %w", err)
	}
	return &user, nil
}

// DeleteUser removes the account and revokes its refresh token, then emits a
// tombstone event. Outstanding access tokens expire on their own.
func (s *AuthService) DeleteUser(ctx context.Context, userID string) error {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.Tokens.RevokeAllTokens(ctx, user.ID); err != nil {
		return err
	}
	if err := s.Users.Users().DeleteUser(ctx, user.ID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	s.Events.DispatchAsync(ctx, domain.UserDeleted{
		EventMeta: domain.NewEventMeta(s.now()),
		UserID:    user.ID,
		Email:     user.Email,
	})

	return nil
}

func validateEmail(email string) error {
	if len(email) < minEmailLength || len(email) > maxEmailLength {
		return ErrInvalidCredentials
	}
	if !strings.Contains(email, "@") {
		return ErrInvalidCredentials
	}
	return nil
}
