package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/dukerupert/noticeboard/internal/metrics"
)

// BreakerConfig configures the circuit breaker in front of a backend.
type BreakerConfig struct {
	// FailureThreshold is the number of consecutive failures that opens the breaker.
	FailureThreshold uint32
	// Timeout is how long the breaker stays open before a trial request.
	Timeout time.Duration
	// MaxRequests is the number of trial requests allowed while half-open.
	MaxRequests uint32
}

// Resilient wraps a backend with a circuit breaker and metrics. When the
// breaker is open, calls fail fast with ErrUnavailable.
type Resilient struct {
	next    Client
	backend string
	cb      *gobreaker.CircuitBreaker[any]
	logger  *slog.Logger
}

func NewResilient(next Client, backend string, cfg BreakerConfig, logger *slog.Logger) *Resilient {
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.MaxRequests == 0 {
		cfg.MaxRequests = 1
	}

	r := &Resilient{next: next, backend: backend, logger: logger}
	r.cb = gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        "store-" + backend,
		MaxRequests: cfg.MaxRequests,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.BreakerState.WithLabelValues(backend).Set(float64(to))
			logger.Warn("store circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		},
		IsSuccessful: func(err error) bool {
			// Caller mistakes and cancelled requests say nothing about backend health.
			return err == nil || errors.Is(err, ErrInvalidPath) || errors.Is(err, context.Canceled)
		},
	})
	metrics.BreakerState.WithLabelValues(backend).Set(float64(gobreaker.StateClosed))
	return r
}

// State returns the breaker state name: "closed", "half-open" or "open".
func (r *Resilient) State() string {
	return r.cb.State().String()
}

func (r *Resilient) execute(op string, fn func() (any, error)) (any, error) {
	start := time.Now()
	v, err := r.cb.Execute(fn)
	metrics.RecordStoreOperation(r.backend, op, err, time.Since(start))

	switch {
	case err == nil:
		return v, nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return nil, fmt.Errorf("%w: %s: %w", ErrUnavailable, op, err)
	case errors.Is(err, ErrInvalidPath), errors.Is(err, ErrUnavailable):
		return nil, err
	default:
		return nil, unavailable(op, err)
	}
}

func (r *Resilient) Children(ctx context.Context, path string) ([]Node, error) {
	v, err := r.execute("children", func() (any, error) {
		return r.next.Children(ctx, path)
	})
	if err != nil {
		return nil, err
	}
	return v.([]Node), nil
}

func (r *Resilient) Push(ctx context.Context, path string, data Record) (string, error) {
	v, err := r.execute("push", func() (any, error) {
		return r.next.Push(ctx, path, data)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (r *Resilient) Update(ctx context.Context, path string, fields Record) error {
	_, err := r.execute("update", func() (any, error) {
		return nil, r.next.Update(ctx, path, fields)
	})
	return err
}

func (r *Resilient) Delete(ctx context.Context, path string) error {
	_, err := r.execute("delete", func() (any, error) {
		return nil, r.next.Delete(ctx, path)
	})
	return err
}

func (r *Resilient) Close() error {
	return r.next.Close()
}

// Broken is installed when a backend cannot be opened at startup; every
// call reports ErrUnavailable with the original cause.
type Broken struct {
	Err error
}

func (b Broken) Children(context.Context, string) ([]Node, error) {
	return nil, unavailable("children", b.Err)
}

func (b Broken) Push(context.Context, string, Record) (string, error) {
	return "", unavailable("push", b.Err)
}

func (b Broken) Update(context.Context, string, Record) error {
	return unavailable("update", b.Err)
}

func (b Broken) Delete(context.Context, string) error {
	return unavailable("delete", b.Err)
}

func (b Broken) Close() error { return nil }

var (
	_ Client = (*Resilient)(nil)
	_ Client = Broken{}
)
