package handler

import (
	"log/slog"
	"net/http"
)

// NotFound answers unmatched routes with a JSON 404.
func NotFound(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger.Warn("no route", "path", r.URL.Path, "method", r.Method)
		writeJSON(w, http.StatusNotFound, map[string]any{
			"success": false,
			"error":   "Not Found",
			"path":    r.URL.Path,
			"method":  r.Method,
		})
	}
}

// BreakerState reports the store circuit breaker state.
type BreakerState interface {
	State() string
}

// Health reports "degraded" while the store breaker is not closed.
func Health(store BreakerState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := store.State()
		status := "ok"
		if state != "closed" {
			status = "degraded"
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": status, "store": state})
	}
}
