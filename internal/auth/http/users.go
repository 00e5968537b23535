package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/wardenauth/warden/internal/auth/domain"
	"github.com/wardenauth/warden/internal/auth/service"
	"github.com/wardenauth/warden/internal/auth/userdir"
	"github.com/wardenauth/warden/pkg/authsdk"
	"github.com/wardenauth/warden/pkg/httpx"
	"github.com/wardenauth/warden/pkg/slogx"
)

// MeHandler serves GET /v1/users/me
// Returns the profile of the authenticated user. Runs behind TokenGuard, so
// the subject is already verified by the time it executes.
type MeHandler struct {
	AuthService *service.AuthService
}

func (h *MeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := httpx.UserIDFromCtx(ctx)
	if userID == "" {
		authsdk.ErrInvalidToken.WriteError(w)
		return
	}

	// Service tokens carry a service name, not a user id.
	if claims, ok := httpx.ClaimsFromCtx(ctx); ok && claims.IsService() {
		authsdk.ErrInvalidClaims.WriteError(w)
		return
	}

	user, err := h.AuthService.GetUser(ctx, userID)
	if err != nil {
		switch {
		case errors.Is(err, userdir.ErrNotFound), errors.Is(err, service.ErrInvalidClaims):
			authsdk.ErrInvalidToken.WriteError(w)
		default:
			log.Error("load profile failed", "err", err)
			authsdk.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		CreatedAt: user.CreatedAt.UTC().Format(time.RFC3339),
	})
}

// UserHandler serves GET /v1/users/{id} and GET /v1/users?email=...
// Users may fetch their own profile; anything else requires a service token.
type UserHandler struct {
	AuthService *service.AuthService
}

func (h *UserHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	// 1. Resolve the target account
	var user *domain.User
	var err error
	switch {
	case r.PathValue("id") != "":
		user, err = h.AuthService.GetUser(ctx, r.PathValue("id"))
	case r.URL.Query().Get("email") != "":
		user, err = h.AuthService.GetUserByEmail(ctx, r.URL.Query().Get("email"))
	default:
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}
	if err != nil {
		switch {
		case errors.Is(err, userdir.ErrNotFound):
			authsdk.ErrNotFound.WriteError(w)
		case errors.Is(err, service.ErrInvalidClaims), errors.Is(err, service.ErrInvalidCredentials):
			authsdk.ErrInvalidRequest.WriteError(w)
		default:
			log.Error("load user failed", "err", err)
			authsdk.ErrServerError.WriteError(w)
		}
		return
	}

	// 2. Only the account owner or a backend service may read it
	if !canActOn(ctx, user.ID) {
		authsdk.ErrInvalidClaims.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		CreatedAt: user.CreatedAt.UTC().Format(time.RFC3339),
	})
}

// DeleteUserHandler serves DELETE /v1/users/{id}
// Deletes the account and revokes its refresh token. Users may delete their
// own account; backend services may delete any.
type DeleteUserHandler struct {
	AuthService *service.AuthService
}

func (h *DeleteUserHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := r.PathValue("id")
	if !canActOn(ctx, userID) {
		authsdk.ErrInvalidClaims.WriteError(w)
		return
	}

	if err := h.AuthService.DeleteUser(ctx, userID); err != nil {
		switch {
		case errors.Is(err, userdir.ErrNotFound):
			authsdk.ErrNotFound.WriteError(w)
		case errors.Is(err, service.ErrInvalidClaims):
			authsdk.ErrInvalidRequest.WriteError(w)
		default:
			log.Error("delete user failed", "err", err)
			authsdk.ErrServerError.WriteError(w)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// canActOn reports whether the authenticated caller may operate on the given
// account. Service tokens may act on any account.
func canActOn(ctx context.Context, userID string) bool {
	claims, ok := httpx.ClaimsFromCtx(ctx)
	if !ok {
		return false
	}
	if claims.IsService() {
		return true
	}
	return claims.Subject == userID
}
