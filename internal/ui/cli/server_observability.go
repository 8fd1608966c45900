package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"hljsgen/internal/core/ports"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// runStatus tracks the outcome of the latest watch-mode regeneration.
type runStatus struct {
	mu        sync.RWMutex
	runID     string
	lastError string
	updated   time.Time
}

type healthReport struct {
	Status  string    `json:"status"`
	RunID   string    `json:"run_id,omitempty"`
	Error   string    `json:"error,omitempty"`
	Updated time.Time `json:"updated,omitempty"`
}

func (s *runStatus) record(res ports.GenerateResult, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runID = res.RunID
	s.lastError = ""
	if err != nil {
		s.lastError = err.Error()
	}
	s.updated = time.Now()
}

func (s *runStatus) report() healthReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	status := "up"
	if s.lastError != "" {
		status = "degraded"
	}
	return healthReport{Status: status, RunID: s.runID, Error: s.lastError, Updated: s.updated}
}

type ObservabilityServer struct {
	addr     string
	status   *runStatus
	server   *http.Server
	listener net.Listener
}

func NewObservabilityServer(addr string, status *runStatus) *ObservabilityServer {
	return &ObservabilityServer{
		addr:   addr,
		status: status,
	}
}

func (s *ObservabilityServer) handler() http.Handler {
	mux := http.NewServeMux()

	// Prometheus metrics
	mux.Handle("/metrics", promhttp.Handler())

	// Health check
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		report := s.status.report()
		w.Header().Set("Content-Type", "application/json")
		if report.Status != "up" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(report)
	})
	return mux
}

// Start binds addr and serves in the background. A bind failure is returned.
func (s *ObservabilityServer) Start(ctx context.Context) error {
	ln, err := (&net.ListenConfig{}).Listen(ctx, "tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.addr, err)
	}
	s.listener = ln
	s.server = &http.Server{
		Handler:           s.handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	slog.Info("observability server listening", "addr", ln.Addr().String())

	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("observability server failed", "error", err)
		}
	}()

	return nil
}

// Addr is the bound listen address once Start has succeeded.
func (s *ObservabilityServer) Addr() string {
	if s.listener == nil {
		return s.addr
	}
	return s.listener.Addr().String()
}

func (s *ObservabilityServer) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
