package http

import (
	"errors"
	"net/http"

	"github.com/wardenauth/warden/internal/auth/service"
	"github.com/wardenauth/warden/pkg/authsdk"
	"github.com/wardenauth/warden/pkg/httpx"
	"github.com/wardenauth/warden/pkg/slogx"
)

// RefreshHandler serves POST /v1/auth/refresh
// The refresh token may arrive in the JSON body or the session cookie; the
// body wins when both are present. A successful call rotates the token.
type RefreshHandler struct {
	TokenService  *service.TokenService
	SecureCookies bool
}

func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	// 1. Find the refresh token
	var req authsdk.RefreshRequest
	if r.Body != nil && r.ContentLength != 0 {
		if !decodeJSON(w, r, &req) {
			return
		}
	}
	refreshToken := req.RefreshToken
	if refreshToken == "" {
		refreshToken = httpx.CookieValue(r, RefreshTokenCookie)
	}
	if refreshToken == "" {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	// 2. Rotate it for a new pair
	pair, err := h.TokenService.Refresh(ctx, refreshToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRefresh):
			clearSessionCookies(w)
			authsdk.ErrInvalidRefresh.WriteError(w)
		default:
			log.Error("refresh failed", "err", err)
			authsdk.ErrServerError.WriteError(w)
		}
		return
	}

	// 3. Set session cookies and return the pair
	writeSessionTokens(w, pair, h.TokenService.RefreshTTL, h.SecureCookies, http.StatusOK)
}
