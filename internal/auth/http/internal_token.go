package http

import (
	"errors"
	"net/http"

	"github.com/wardenauth/warden/internal/auth/service"
	"github.com/wardenauth/warden/pkg/authsdk"
	"github.com/wardenauth/warden/pkg/httpx"
	"github.com/wardenauth/warden/pkg/slogx"
)

// InternalTokenHandler serves POST /v1/auth/internal
// Exchanges pre-shared service credentials for a machine token carrying the
// internal_api scope. No cookies: services hold the token themselves.
type InternalTokenHandler struct {
	InternalService *service.InternalAuthService
}

func (h *InternalTokenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	// 1. Decode and sanity check the payload
	var req authsdk.ServiceTokenRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ClientID == "" || req.ClientSecret == "" {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	// 2. Verify the credentials and mint a service token
	token, _, err := h.InternalService.Authenticate(ctx, req.ClientID, req.ClientSecret)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidClient):
			authsdk.ErrInvalidClient.WriteError(w)
		case errors.Is(err, service.ErrInvalidClaims):
			authsdk.ErrInvalidClaims.WriteError(w)
		default:
			log.Error("service token exchange failed", "err", err)
			authsdk.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.ServiceTokenResponse{
		Success: true,
		Token:   token,
		Message: "service authenticated",
	})
}
