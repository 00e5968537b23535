package http

import (
	"net/http"
	"strings"

	"github.com/wardenauth/warden/internal/auth/service"
	"github.com/wardenauth/warden/pkg/authsdk"
	"github.com/wardenauth/warden/pkg/httpx"
	"github.com/wardenauth/warden/pkg/slogx"
)

// TokenGuard authenticates cookie or bearer sessions and recovers revoked
// or expired access tokens transparently: when the access token fails
// validation but the session still holds a live refresh token, a fresh
// access token is minted and set on the response, and the request proceeds
// as if nothing happened. Only when both tokens are dead does the client
// see a 401.
func TokenGuard(tokens *service.TokenService, secureCookies bool) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
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

			// 2. Happy path: token verifies and is not on the denylist
			claims, err := tokens.ValidateAccessToken(ctx, accessToken)
			if err == nil {
				next.ServeHTTP(w, r.WithContext(httpx.ContextWithAuth(ctx, claims)))
				return
			}

			// 3. Recovery path: mint a new access token off the refresh token
			refreshToken := httpx.CookieValue(r, RefreshTokenCookie)
			if refreshToken == "" {
				authsdk.ErrInvalidToken.WriteError(w)
				return
			}

			newAccess, claims, err := tokens.ReissueAccessToken(ctx, refreshToken)
			if err != nil {
				clearSessionCookies(w)
				authsdk.ErrInvalidToken.WriteError(w)
				return
			}

			log.Info("reissued access token", "user_id", claims.Subject)
			httpx.SetTokenCookie(w, AccessTokenCookie, newAccess, tokens.AccessTTL, secureCookies)
			next.ServeHTTP(w, r.WithContext(httpx.ContextWithAuth(ctx, claims)))
		})
	}
}
