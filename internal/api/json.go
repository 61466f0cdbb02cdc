package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/starford/folio/internal/contact"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", slog.String("error", err.Error()))
	}
}

// errorBody wraps a transport-level failure in the same shape as a
// submission result.
func errorBody(msg string) contact.Result {
	return contact.Result{Success: false, Error: msg}
}
