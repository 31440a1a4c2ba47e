// Package httpapi exposes the REST surface of the expense tracker.
package httpapi

import (
	"encoding/json"
	"net/http"

	"paperless/internal/logger"
)

// errorBody is the machine-readable failure shape shared by every
// endpoint.
type errorBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// writeJSON encodes v as the response body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error().Err(err).Msg("Failed to encode response")
	}
}

// writeError reports a failure with the shared error shape.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{Success: false, Message: message})
}

// decodeJSON reads the request body into v.
func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}
