package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/noticeboard/internal/metrics"
	"github.com/dukerupert/noticeboard/internal/notice"
	"github.com/dukerupert/noticeboard/internal/store"
	"github.com/dukerupert/noticeboard/internal/websocket"
)

// Broadcaster receives notice change events.
type Broadcaster interface {
	Broadcast(msg websocket.Message)
}

type NoticeHandler struct {
	svc    *notice.Service
	hub    Broadcaster
	logger *slog.Logger
}

func NewNoticeHandler(svc *notice.Service, hub Broadcaster, logger *slog.Logger) *NoticeHandler {
	return &NoticeHandler{svc: svc, hub: hub, logger: logger}
}

func (h *NoticeHandler) broadcast(action, id string) {
	if h.hub != nil {
		h.hub.Broadcast(websocket.NewMessage("notice", action, id))
	}
}

func (h *NoticeHandler) List(w http.ResponseWriter, r *http.Request) {
	notices, err := h.svc.List(r.Context())
	if err != nil {
		h.logger.Warn("serving fallback notices", "error", err)
		metrics.RecordFallback("notices")
		writeData(w, fallbackNotices(time.Now()), false)
		return
	}
	writeData(w, notices, true)
}

func (h *NoticeHandler) Create(w http.ResponseWriter, r *http.Request) {
	fields, err := decodeObject(w, r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": err.Error()})
		return
	}

	id, err := h.svc.Create(r.Context(), fields)
	if err != nil {
		h.writeError(w, "create notice", err)
		return
	}

	h.broadcast("created", id)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "id": id})
}

func (h *NoticeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	fields, err := decodeObject(w, r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": err.Error()})
		return
	}

	if err := h.svc.Update(r.Context(), id, fields); err != nil {
		h.writeError(w, "update notice", err)
		return
	}

	h.broadcast("updated", id)
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *NoticeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.writeError(w, "delete notice", err)
		return
	}

	h.broadcast("deleted", id)
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// writeError maps mutation failures: bad ids are the caller's fault, anything
// else is reported with its message.
func (h *NoticeHandler) writeError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, store.ErrInvalidPath) {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "invalid id"})
		return
	}
	h.logger.Error(op, "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": err.Error()})
}
