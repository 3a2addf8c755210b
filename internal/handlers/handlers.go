// Package handlers contains the HTTP handlers for the comparison service
// JSON API. Handlers are grouped by concern (auth, public, admin) and
// receive their dependencies through the handler struct.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// writeJSON serializes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response failed", "error", err)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
