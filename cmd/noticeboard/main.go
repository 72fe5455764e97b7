package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dukerupert/noticeboard/internal/auth"
	"github.com/dukerupert/noticeboard/internal/config"
	"github.com/dukerupert/noticeboard/internal/database"
	"github.com/dukerupert/noticeboard/internal/logging"
	"github.com/dukerupert/noticeboard/internal/server"
	"github.com/dukerupert/noticeboard/internal/session"
	"github.com/dukerupert/noticeboard/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx := context.Background()
	st, err := store.Open(ctx, store.Options{
		Backend: cfg.StoreBackend,
		DB:      db,
		GCS: store.GCSOptions{
			Bucket:          cfg.GCSBucket,
			Prefix:          cfg.GCSPrefix,
			CredentialsFile: cfg.GCSCredentialsFile,
		},
		Redis: store.RedisOptions{
			URL:    cfg.RedisURL,
			Prefix: cfg.RedisPrefix,
		},
		Breaker: store.BreakerConfig{
			FailureThreshold: cfg.BreakerFailures,
			Timeout:          cfg.BreakerTimeout,
		},
	}, logger.With("component", "store"))
	if err != nil {
		// Keep serving: reads fall back to sample data, writes fail.
		slog.Error("notice store unavailable, running degraded", "backend", cfg.StoreBackend, "error", err)
	}
	defer st.Close()

	verifier, err := auth.NewVerifier(cfg.AdminPasswordHash, cfg.AdminPassword)
	if err != nil {
		slog.Error("failed to set up admin credential", "error", err)
		os.Exit(1)
	}

	sessions := session.New(db, cfg.SessionLifetime, cfg.CookieSecure)
	defer sessions.Close()

	srv, err := server.New(server.Config{
		AllowedOrigins: cfg.AllowedOrigins,
		TemplateDir:    cfg.TemplateDir,
		CSVPath:        cfg.CSVPath,
		StoreRoot:      cfg.StoreRoot,
	}, st, sessions, verifier, logger)
	if err != nil {
		slog.Error("failed to build server", "error", err)
		os.Exit(1)
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	cleanupCtx, cleanupCancel := context.WithCancel(ctx)
	defer cleanupCancel()
	go srv.RateLimiter().Run(cleanupCtx, time.Minute)

	go func() {
		slog.Info("notice board starting", "addr", ":"+cfg.Port, "store", cfg.StoreBackend, "env", cfg.Env)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")
	cleanupCancel()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}
