package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/wardenauth/warden/pkg/authsdk"
)

// maxBodyBytes caps request bodies. Auth payloads are tiny.
const maxBodyBytes = 1 << 16

// decodeJSON enforces the JSON content type and decodes the body into dst.
// On failure it writes the error response and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if ct := r.Header.Get("Content-Type"); ct != "" &&
		!strings.HasPrefix(ct, "application/json") {
		authsdk.ErrInvalidContentType.WriteError(w)
		return false
	}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		authsdk.ErrInvalidJSONBody.WriteError(w)
		return false
	}
	return true
}
