package http

import (
	"net/http"
	"time"

	"github.com/wardenauth/warden/pkg/authsdk"
	"github.com/wardenauth/warden/pkg/httpx"
)

// LivezHandler serves GET /livez
// Liveness probe: always 200 while the process is up.
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := authsdk.HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		}
		httpx.WriteJSON(w, http.StatusOK, response)
	}
}
