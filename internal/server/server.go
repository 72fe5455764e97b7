package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dukerupert/noticeboard/internal/auth"
	"github.com/dukerupert/noticeboard/internal/handler"
	"github.com/dukerupert/noticeboard/internal/middleware"
	"github.com/dukerupert/noticeboard/internal/notice"
	"github.com/dukerupert/noticeboard/internal/session"
	"github.com/dukerupert/noticeboard/internal/store"
	ws "github.com/dukerupert/noticeboard/internal/websocket"
)

const (
	loginLimit  = 10
	loginWindow = time.Minute
)

// Config holds the HTTP-facing settings.
type Config struct {
	AllowedOrigins []string
	TemplateDir    string
	CSVPath        string
	StoreRoot      string
}

type Server struct {
	cfg         Config
	store       *store.Resilient
	sessions    *session.Manager
	hub         *ws.Hub
	authH       *handler.AuthHandler
	noticeH     *handler.NoticeHandler
	analyticsH  *handler.AnalyticsHandler
	pageH       *handler.PageHandler
	rateLimiter *middleware.RateLimiter
	logger      *slog.Logger
}

func New(cfg Config, st *store.Resilient, sessions *session.Manager, verifier auth.Verifier, logger *slog.Logger) (*Server, error) {
	pageH, err := handler.NewPageHandler(cfg.TemplateDir, logger.With("component", "page"))
	if err != nil {
		return nil, err
	}

	hub := ws.NewHub(logger.With("component", "websocket"))
	svc := notice.NewService(st, cfg.StoreRoot, logger.With("component", "notice"))

	return &Server{
		cfg:         cfg,
		store:       st,
		sessions:    sessions,
		hub:         hub,
		authH:       handler.NewAuthHandler(verifier, sessions, logger.With("component", "auth")),
		noticeH:     handler.NewNoticeHandler(svc, hub, logger.With("component", "notice_handler")),
		analyticsH:  handler.NewAnalyticsHandler(svc, cfg.CSVPath, logger.With("component", "analytics")),
		pageH:       pageH,
		rateLimiter: middleware.NewRateLimiter(loginLimit, loginWindow),
		logger:      logger,
	}, nil
}

// RateLimiter returns the login rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

// Hub returns the websocket hub.
func (s *Server) Hub() *ws.Hub {
	return s.hub
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Routes without session state
	outerMux.HandleFunc("GET /health", handler.Health(s.store))
	outerMux.Handle("GET /metrics", promhttp.Handler())
	outerMux.HandleFunc("GET /ws", ws.Handler(s.hub, s.cfg.AllowedOrigins, s.logger.With("component", "websocket")))

	appMux := http.NewServeMux()
	s.registerRoutes(appMux)
	outerMux.Handle("/", s.sessions.LoadAndSave(appMux))

	var h http.Handler = outerMux
	h = middleware.NoStore(h)
	h = middleware.CORS(s.cfg.AllowedOrigins)(h)
	return middleware.RequestLogger(s.logger.With("component", "http"))(h)
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	// Pages
	mux.HandleFunc("GET /{$}", s.pageH.Index)
	mux.HandleFunc("GET /admin", s.pageH.Admin)
	mux.HandleFunc("GET /analytics", s.pageH.Analytics)

	// Auth
	limited := middleware.RateLimit(s.rateLimiter, middleware.RealIP)
	mux.Handle("POST /api/login", limited(http.HandlerFunc(s.authH.Login)))
	mux.HandleFunc("POST /api/logout", s.authH.Logout)

	// Notices; mutations need an admin session
	guard := middleware.RequireSession(s.sessions)
	mux.HandleFunc("GET /api/notices", s.noticeH.List)
	mux.Handle("POST /api/notices", guard(http.HandlerFunc(s.noticeH.Create)))
	mux.Handle("PUT /api/notices/{id}", guard(http.HandlerFunc(s.noticeH.Update)))
	mux.Handle("DELETE /api/notices/{id}", guard(http.HandlerFunc(s.noticeH.Delete)))

	// Analytics
	mux.HandleFunc("GET /api/analytics/category-distribution", s.analyticsH.CategoryDistribution)
	mux.HandleFunc("GET /api/analytics/timeline", s.analyticsH.Timeline)
	mux.HandleFunc("GET /api/analytics/priority-stats", s.analyticsH.PriorityStats)
	mux.HandleFunc("GET /api/analytics/csv-data", s.analyticsH.CSVData)

	mux.HandleFunc("/", handler.NotFound(s.logger.With("component", "http")))
}
