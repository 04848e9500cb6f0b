package core

import (
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"fesmock/internal/config"
	"fesmock/internal/fes"
)

const standardHost = "fes.standardsubdomainfes.test:8001"

// testConfig returns the configuration LoadConfig yields with no environment.
func testConfig() *config.Config {
	return &config.Config{
		Environment: "test",
		LogLevel:    "info",
		Server: config.ServerConfig{
			Port:                  "8001",
			FallbackErrorStatus:   400,
			FallbackGenericStatus: 500,
		},
		FES: config.FESConfig{
			OrgDomain:   fes.DefaultOrgDomain,
			AbsentHosts: append([]string(nil), fes.DefaultAbsentHosts...),
		},
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// newTestServer creates a Server with routes mounted.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	srv, err := NewServer(testConfig(), discardLogger())
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	srv.MountRoutes()
	return srv
}

// newTestServerForMiddleware creates a minimal Server suitable for testing
// middleware in isolation.
func newTestServerForMiddleware(t *testing.T) *Server {
	t.Helper()
	return &Server{
		Logger: discardLogger(),
	}
}

type metricsCall struct {
	method   string
	endpoint string
	status   string
	duration time.Duration
}

type mockMetricsCollector struct {
	mu    sync.Mutex
	calls []metricsCall
}

func (m *mockMetricsCollector) RecordRequest(method, endpoint, status string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, metricsCall{method, endpoint, status, duration})
}
