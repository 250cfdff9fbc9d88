// Package server exposes notebook execution over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/notemill"
	"github.com/aretw0/notemill/pkg/domain"
	"github.com/aretw0/notemill/pkg/observability"
)

// ExecutionRequest is the POST /api/v1/executions body.
type ExecutionRequest struct {
	Input       string         `json:"input"`
	Output      string         `json:"output"`
	Parameters  map[string]any `json:"parameters,omitempty"`
	Engine      string         `json:"engine,omitempty"`
	Kernel      string         `json:"kernel,omitempty"`
	PrepareOnly bool           `json:"prepare_only,omitempty"`
	ReportMode  bool           `json:"report_mode,omitempty"`
}

// ExecutionResponse reports the outcome of a run.
type ExecutionResponse struct {
	Output string          `json:"output"`
	Cells  int             `json:"cells"`
	Error  *ExecutionFault `json:"error,omitempty"`
}

// ExecutionFault is the wire form of a cell failure.
type ExecutionFault struct {
	CellIndex int    `json:"cell_index"`
	ExecCount int    `json:"exec_count"`
	Ename     string `json:"ename"`
	Evalue    string `json:"evalue"`
}

// Server handles execution requests.
type Server struct {
	logger  *slog.Logger
	metrics *observability.Metrics
	reg     *prometheus.Registry
}

// New creates the server with its own metrics registry.
func New(logger *slog.Logger) *Server {
	reg := prometheus.NewRegistry()
	return &Server{
		logger:  logger,
		metrics: observability.NewMetrics(reg),
		reg:     reg,
	}
}

// Handler builds the HTTP routing table.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{}))
	r.Post("/api/v1/executions", s.handleExecute)

	return r
}

// ListenAndServe runs the server until the listener fails.
func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("starting server", "addr", addr)
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	var req ExecutionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Input == "" || req.Output == "" {
		http.Error(w, "input and output references are required", http.StatusBadRequest)
		return
	}

	parameters := domain.NewParameters()
	for name, value := range req.Parameters {
		parameters.Set(name, value)
	}

	nb, err := notemill.Execute(r.Context(), req.Input, req.Output,
		notemill.WithParameters(parameters),
		notemill.WithEngine(req.Engine),
		notemill.WithKernelName(req.Kernel),
		notemill.WithPrepareOnly(req.PrepareOnly),
		notemill.WithReportMode(req.ReportMode),
		notemill.WithProgressBar(false),
		notemill.WithLogger(s.logger),
		notemill.WithMetrics(s.metrics),
	)

	resp := ExecutionResponse{Output: req.Output}
	if nb != nil {
		resp.Cells = len(nb.Cells)
	}

	var execErr *domain.ExecutionError
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, resp)
	case errors.As(err, &execErr):
		resp.Error = &ExecutionFault{
			CellIndex: execErr.CellIndex,
			ExecCount: execErr.ExecCount,
			Ename:     execErr.Ename,
			Evalue:    execErr.Evalue,
		}
		writeJSON(w, http.StatusUnprocessableEntity, resp)
	default:
		s.logger.Error("execution failed", "error", err)
		http.Error(w, fmt.Sprintf("execution failed: %v", err), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
