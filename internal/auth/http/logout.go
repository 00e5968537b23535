package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/wardenauth/warden/internal/auth/service"
	"github.com/wardenauth/warden/pkg/authsdk"
	"github.com/wardenauth/warden/pkg/httpx"
	"github.com/wardenauth/warden/pkg/slogx"
)

// LogoutHandler serves POST /v1/auth/logout
// Revokes the presented access token, drops the user's refresh token and
// clears the session cookies.
type LogoutHandler struct {
	AuthService *service.AuthService
}

func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	// 1. Find the access token: cookie first, then bearer header
	accessToken := httpx.CookieValue(r, AccessTokenCookie)
	if accessToken == "" {
		if authz := r.Header.Get("Authorization"); strings.HasPrefix(authz, "Bearer ") {
			accessToken = strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))
		}
	}
	if accessToken == "" {
		authsdk.ErrInvalidToken.WriteError(w)
		return
	}

	// 2. End the session
	if err := h.AuthService.Logout(ctx, accessToken); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidToken), errors.Is(err, service.ErrInvalidClaims):
			authsdk.ErrInvalidToken.WriteError(w)
		default:
			log.Error("logout failed", "err", err)
			authsdk.ErrServerError.WriteError(w)
		}
		return
	}

	// 3. Clear the cookies regardless of how the token arrived
	clearSessionCookies(w)
	w.WriteHeader(http.StatusNoContent)
}
