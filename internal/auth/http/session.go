package http

import (
	"net/http"
	"time"

	"github.com/wardenauth/warden/internal/auth/domain"
	"github.com/wardenauth/warden/pkg/authsdk"
	"github.com/wardenauth/warden/pkg/httpx"
)

// writeSessionTokens sets the session cookies and writes the token response
// body. Shared by the signup, login and refresh handlers so browser clients
// and API clients see the same session either way.
func writeSessionTokens(w http.ResponseWriter, pair *domain.TokenPair, refreshTTL time.Duration, secure bool, status int) {
	httpx.SetTokenCookie(w, AccessTokenCookie, pair.AccessToken, pair.ExpiresIn, secure)
	httpx.SetTokenCookie(w, RefreshTokenCookie, pair.RefreshToken, refreshTTL, secure)

	httpx.WriteJSON(w, status, authsdk.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
		ExpiresIn:    int(pair.ExpiresIn.Seconds()),
	})
}

// clearSessionCookies expires both session cookies.
func clearSessionCookies(w http.ResponseWriter) {
	httpx.ClearCookie(w, AccessTokenCookie)
	httpx.ClearCookie(w, RefreshTokenCookie)
}
