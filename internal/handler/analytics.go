package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/noticeboard/internal/analytics"
	"github.com/dukerupert/noticeboard/internal/csvdata"
	"github.com/dukerupert/noticeboard/internal/metrics"
	"github.com/dukerupert/noticeboard/internal/model"
	"github.com/dukerupert/noticeboard/internal/notice"
)

type AnalyticsHandler struct {
	svc     *notice.Service
	csvPath string
	logger  *slog.Logger
}

func NewAnalyticsHandler(svc *notice.Service, csvPath string, logger *slog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc, csvPath: csvPath, logger: logger}
}

// records loads notices for aggregation. ok is false when the store could
// not be read and a fallback should be served.
func (h *AnalyticsHandler) records(r *http.Request, endpoint string) ([]model.Notice, bool) {
	notices, err := h.svc.Records(r.Context())
	if err != nil {
		h.logger.Warn("serving fallback analytics", "endpoint", endpoint, "error", err)
		metrics.RecordFallback(endpoint)
		return nil, false
	}
	return notices, true
}

func (h *AnalyticsHandler) CategoryDistribution(w http.ResponseWriter, r *http.Request) {
	notices, ok := h.records(r, "category-distribution")
	if !ok {
		writeData(w, fallbackCategories(), false)
		return
	}
	writeData(w, analytics.Categories(notices), true)
}

func (h *AnalyticsHandler) Timeline(w http.ResponseWriter, r *http.Request) {
	notices, ok := h.records(r, "timeline")
	if !ok {
		writeData(w, fallbackTimeline(time.Now()), false)
		return
	}
	writeData(w, analytics.DailyTimeline(notices), true)
}

func (h *AnalyticsHandler) PriorityStats(w http.ResponseWriter, r *http.Request) {
	notices, ok := h.records(r, "priority-stats")
	if !ok {
		writeData(w, fallbackPriorities(), false)
		return
	}
	writeData(w, analytics.Priorities(notices), true)
}

func (h *AnalyticsHandler) CSVData(w http.ResponseWriter, r *http.Request) {
	table, err := csvdata.Load(h.csvPath)
	if err != nil {
		h.logger.Error("load csv data", "path", h.csvPath, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, table)
}
