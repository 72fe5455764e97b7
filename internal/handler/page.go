package handler

import (
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"
)

type PageHandler struct {
	templates *template.Template
	logger    *slog.Logger
}

// NewPageHandler parses every *.html template in dir.
func NewPageHandler(dir string, logger *slog.Logger) (*PageHandler, error) {
	tmpl, err := template.ParseGlob(filepath.Join(dir, "*.html"))
	if err != nil {
		return nil, fmt.Errorf("parse templates in %s: %w", dir, err)
	}
	return &PageHandler{templates: tmpl, logger: logger}, nil
}

func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	h.render(w, "index.html", map[string]any{"Title": "Digital Notice Board"})
}

func (h *PageHandler) Admin(w http.ResponseWriter, r *http.Request) {
	h.render(w, "admin.html", map[string]any{"Title": "Admin · Digital Notice Board"})
}

func (h *PageHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	h.render(w, "analytics.html", map[string]any{"Title": "Analytics · Digital Notice Board"})
}

func (h *PageHandler) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		h.logger.Error("template error", "template", name, "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}
