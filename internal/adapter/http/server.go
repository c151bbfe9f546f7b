// Package http exposes the service's operational endpoints: liveness,
// readiness, Prometheus metrics, and the latest stored report per package.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/climate-quality-monitor/internal/adapter/registry"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// ReportReader looks up stored package revisions for the report endpoint.
type ReportReader interface {
	Latest(ctx context.Context, name string) (*registry.Package, error)
}

// Server wires the ops endpoints onto one HTTP listener.
type Server struct {
	httpServer *http.Server
	reports    ReportReader
	logger     *slog.Logger
}

// NewServer creates the ops server. reports may be nil, in which case the
// report endpoint responds 404 for every package.
func NewServer(addr string, ready ReadinessChecker, reports ReportReader, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		reports: reports,
		logger:  logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady(ready))
	mux.HandleFunc("GET /reports/{name...}", s.handleLatestReport)
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

// handleLatestReport serves the newest stored revision of one package. The
// package name may contain slashes, hence the wildcard route.
func (s *Server) handleLatestReport(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if s.reports == nil || name == "" {
		http.NotFound(w, r)
		return
	}

	pkg, err := s.reports.Latest(r.Context(), name)
	if errors.Is(err, registry.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown package: " + name})
		return
	}
	if err != nil {
		s.logger.Error("report lookup failed", "package", name, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "report lookup failed"})
		return
	}
	writeJSON(w, http.StatusOK, pkg)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort ops response
}
