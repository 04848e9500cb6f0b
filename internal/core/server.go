// Package core provides the HTTP chassis for the FES mock. It creates a chi
// router, enforces cross-cutting concerns (panic recovery, request IDs,
// body decompression, logging, metrics) and adapts HTTP requests onto the
// transport-independent FES dispatcher.
package core

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fesmock/internal/config"
	"fesmock/internal/fes"
	"fesmock/internal/ledger"
)

// MetricsCollector defines the interface for recording request telemetry.
type MetricsCollector interface {
	// RecordRequest records request latency and count. endpoint is the
	// matched route pattern, never the raw path.
	RecordRequest(method, endpoint, status string, duration time.Duration)
}

// Server encapsulates all dependencies of the FES mock, allowing for easy
// injection during testing.
type Server struct {
	Config  *config.Config
	Logger  *slog.Logger
	Ledger  *ledger.Ledger
	FES     *fes.Dispatcher
	Metrics MetricsCollector

	// MetricsHandler serves /metrics when set.
	MetricsHandler http.Handler

	// Internal router
	router *chi.Mux
}

// NewServer creates the ledger and FES dispatcher for cfg and prepares the
// router. It performs a "fail-fast" check on critical dependencies.
//
// The caller is responsible for calling MountRoutes after construction so
// tests can adjust the dispatcher (e.g. inject an asserter) first.
func NewServer(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}

	l := ledger.New()
	dispatcher, err := fes.NewDispatcher(cfg.FES.Settings(), l, fes.NewJWTIdentityParser(), logger)
	if err != nil {
		return nil, fmt.Errorf("creating FES dispatcher: %w", err)
	}

	return &Server{
		Config: cfg,
		Logger: logger,
		Ledger: l,
		FES:    dispatcher,
		router: chi.NewRouter(),
	}, nil
}

// EnableMetrics registers the Prometheus collectors on reg and exposes reg on
// /metrics.
func (s *Server) EnableMetrics(reg *prometheus.Registry) error {
	m, err := NewPrometheusMetrics(reg, s.Ledger)
	if err != nil {
		return err
	}
	s.Metrics = m
	s.MetricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
	return nil
}

// Handler returns the http.Handler interface for the router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Router returns the underlying chi.Mux for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Shutdown releases server resources. The ledger lives only in memory, so
// this just reports what the run issued.
func (s *Server) Shutdown(ctx context.Context) error {
	s.Logger.InfoContext(ctx, "server shutdown complete", "issued_tokens", s.Ledger.Len())
	return nil
}
