// Package api exposes the analysis service over HTTP.
//
// Endpoints:
//
//	POST /analyze       submit a combat log for analysis
//	GET  /reports/{id}  fetch a completed report
//	GET  /reports       list recent report summaries
//	GET  /stats         pipeline counters
//	GET  /healthz       liveness plus Prometheus metrics
package api

import (
	"context"
	"errors"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"github.com/okian/melee/internal/domain/model"
	"github.com/okian/melee/internal/domain/report"
	"github.com/okian/melee/pkg/logger"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Dependencies is the service surface the HTTP layer needs.
type Dependencies interface {
	// Submit registers a log for analysis; see app.Service.Submit.
	Submit(ctx context.Context, job model.Job, contentHash string) (runID string, duplicate bool, err error)

	// Report returns the stored report for a run id.
	Report(ctx context.Context, runID string) (report.Report, error)

	// Recent returns up to n recent report summaries, newest first.
	Recent(ctx context.Context, n int) ([]report.Summary, error)

	// MaxEvents returns the per-submission event cap.
	MaxEvents() int

	// GetStats returns a snapshot of pipeline counters.
	GetStats(ctx context.Context) map[string]any
}

// Server registers the HTTP handlers for the analysis API.
type Server struct {
	deps Dependencies
	log  logger.Logger
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithLogger sets a custom logger for the server.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// NewServer creates an HTTP server facade over the analysis service.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{
		deps: deps,
		log:  logger.Get(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all handlers to the mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.Handle("/analyze", MetricsMiddleware("analyze", http.HandlerFunc(s.handleAnalyze)))
	mux.Handle("/reports", MetricsMiddleware("reports", http.HandlerFunc(s.handleRecent)))
	mux.Handle("/reports/", MetricsMiddleware("report", http.HandlerFunc(s.handleReport)))
	mux.Handle("/stats", MetricsMiddleware("stats", http.HandlerFunc(s.handleStats)))
	mux.Handle("/healthz", MetricsMiddleware("healthz", s.healthHandler()))
}

// errorResponse is the uniform error body.
type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error(context.Background(), "encode response", logger.Error(err))
	}
}

// writeError maps the error kind to an HTTP status and writes the uniform
// error body.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrBadRequest):
		status = http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ErrTooManyRequests):
		status = http.StatusTooManyRequests
	}
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}
