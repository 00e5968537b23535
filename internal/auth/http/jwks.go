package http

import (
	"net/http"

	"github.com/wardenauth/warden/pkg/jwtx"
)

// PublicKeyHandler serves GET /.well-known/jwks.json
// Returns the PEM-encoded RSA public key as plain text so downstream
// services can verify token signatures locally. Responds 204 when no
// signing key is loaded yet.
func PublicKeyHandler(keys *jwtx.KeyManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !keys.IsReady() {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=300")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(keys.PublicKeyPEM())
	}
}
