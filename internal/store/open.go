package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// Options selects and configures a backend for Open.
type Options struct {
	Backend string // sqlite, gcs, redis or memory
	DB      *sql.DB
	GCS     GCSOptions
	Redis   RedisOptions
	Breaker BreakerConfig
}

// Open builds the configured backend wrapped in a Resilient client. If the
// backend cannot be opened, the error is returned together with a Resilient
// client over Broken so the caller can keep serving in degraded mode.
func Open(ctx context.Context, opts Options, logger *slog.Logger) (*Resilient, error) {
	backend, err := openBackend(ctx, opts, logger)
	if err != nil {
		err = fmt.Errorf("open %s store: %w", opts.Backend, err)
		return NewResilient(Broken{Err: err}, opts.Backend, opts.Breaker, logger), err
	}
	return NewResilient(backend, opts.Backend, opts.Breaker, logger), nil
}

func openBackend(ctx context.Context, opts Options, logger *slog.Logger) (Client, error) {
	switch opts.Backend {
	case "sqlite":
		if opts.DB == nil {
			return nil, fmt.Errorf("sqlite backend needs a database handle")
		}
		return NewSQLiteStore(opts.DB), nil
	case "memory":
		return NewMemoryStore(), nil
	case "gcs":
		return OpenGCS(ctx, opts.GCS, logger.With("backend", "gcs"))
	case "redis":
		return OpenRedis(ctx, opts.Redis)
	default:
		return nil, fmt.Errorf("unknown backend %q", opts.Backend)
	}
}
