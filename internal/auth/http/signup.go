package http

import (
	"errors"
	"net/http"

	"github.com/wardenauth/warden/internal/auth/service"
	"github.com/wardenauth/warden/pkg/authsdk"
	"github.com/wardenauth/warden/pkg/slogx"
)

// SignUpHandler serves POST /v1/auth/signup
// Creates an account and starts a session in one call.
type SignUpHandler struct {
	AuthService   *service.AuthService
	SecureCookies bool
}

func (h *SignUpHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	// 1. Decode and sanity check the payload
	var req authsdk.SignUpRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	// 2. Create the account and mint the first session
	_, pair, err := h.AuthService.SignUp(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserExists):
			authsdk.ErrUserExists.WriteError(w)
		case errors.Is(err, service.ErrInvalidCredentials):
			authsdk.ErrInvalidRequest.WriteError(w)
		default:
			log.Error("signup failed", "err", err)
			authsdk.ErrServerError.WriteError(w)
		}
		return
	}

	// 3. Set session cookies and return the pair
	writeSessionTokens(w, pair, h.AuthService.Tokens.RefreshTTL, h.SecureCookies, http.StatusCreated)
}
