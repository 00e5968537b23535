package http

import (
	"errors"
	"net/http"

	"github.com/wardenauth/warden/internal/auth/service"
	"github.com/wardenauth/warden/pkg/authsdk"
	"github.com/wardenauth/warden/pkg/slogx"
)

// LoginHandler serves POST /v1/auth/login
type LoginHandler struct {
	AuthService   *service.AuthService
	SecureCookies bool
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	// 1. Decode and sanity check the payload
	var req authsdk.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	// 2. Verify the credentials and mint a session
	_, pair, err := h.AuthService.Login(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			authsdk.ErrInvalidCredentials.WriteError(w)
		default:
			log.Error("login failed", "err", err)
			authsdk.ErrServerError.WriteError(w)
		}
		return
	}

	// 3. Set session cookies and return the pair
	writeSessionTokens(w, pair, h.AuthService.Tokens.RefreshTTL, h.SecureCookies, http.StatusOK)
}
