package http

import (
	"net/http"
	"time"

	"github.com/wardenauth/warden/internal/auth/store"
	"github.com/wardenauth/warden/internal/auth/userdir"
	"github.com/wardenauth/warden/pkg/authsdk"
	"github.com/wardenauth/warden/pkg/httpx"
	"github.com/wardenauth/warden/pkg/jwtx"
)

// ReadyzHandler serves GET /readyz
// Readiness probe: checks the token store, the user directory and the
// signing key, and reports 503 when any of them is unhealthy.
func ReadyzHandler(
	startTime time.Time,
	version string,
	tokenStore store.Store,
	users userdir.Store,
	keys *jwtx.KeyManager,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &authsdk.HealthChecks{
			TokenStore:    "ok",
			UserDirectory: "ok",
			Signer:        "ok",
		}
		overallStatus := "ok"
		statusCode := http.StatusOK

		// Check token store connectivity
		if err := tokenStore.Ping(r.Context()); err != nil {
			checks.TokenStore = "error: " + err.Error()
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		// Check user directory connectivity
		if err := users.Ping(r.Context()); err != nil {
			checks.UserDirectory = "error: " + err.Error()
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		// Check the signing key is loaded
		if !keys.IsReady() {
			checks.Signer = "error: no signing key loaded"
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		response := authsdk.HealthResponse{
			Status:  overallStatus,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		}
		httpx.WriteJSON(w, statusCode, response)
	}
}
