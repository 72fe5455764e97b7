package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/noticeboard/internal/auth"
	"github.com/dukerupert/noticeboard/internal/metrics"
)

// Sessions starts and ends the admin session for a request.
type Sessions interface {
	Login(ctx context.Context, now time.Time) error
	Logout(ctx context.Context) error
}

type AuthHandler struct {
	verifier auth.Verifier
	sessions Sessions
	logger   *slog.Logger
}

func NewAuthHandler(v auth.Verifier, s Sessions, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{verifier: v, sessions: s, logger: logger}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	fields, err := decodeObject(w, r)
	if err != nil {
		metrics.RecordLogin(metrics.LoginBadRequest)
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": err.Error()})
		return
	}

	password, _ := fields["password"].(string)
	if password == "" || !h.verifier.Verify(password) {
		metrics.RecordLogin(metrics.LoginFailure)
		h.logger.Warn("admin login failed", "remote", r.RemoteAddr)
		writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "error": "Invalid password"})
		return
	}

	if err := h.sessions.Login(r.Context(), time.Now()); err != nil {
		metrics.RecordLogin(metrics.LoginError)
		h.logger.Error("start admin session", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": "failed to start session"})
		return
	}

	metrics.RecordLogin(metrics.LoginSuccess)
	h.logger.Info("admin logged in")
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(r.Context()); err != nil && !errors.Is(err, context.Canceled) {
		h.logger.Error("end admin session", "error", err)
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
