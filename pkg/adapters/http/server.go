// Package http exposes a workflow graph and its runs over a REST API.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	webgraph "github.com/NikBellini/web-graph"
	"github.com/NikBellini/web-graph/internal/presentation/graph"
	"github.com/NikBellini/web-graph/pkg/domain"
	"github.com/NikBellini/web-graph/pkg/ports"
	"github.com/NikBellini/web-graph/pkg/runner"
)

// GraphFactory builds a fresh graph for each launched run. A Graph is
// sealed after one traversal, so the server cannot reuse a single
// instance across POST /runs requests.
type GraphFactory func() (*webgraph.Graph, error)

// Server serves graph inspection and run management endpoints.
type Server struct {
	factory GraphFactory
	inspect GraphFactory
	runner  *runner.Runner
	store   ports.RunStore
	logger  *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the structured logger used by the handlers.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithInspectFactory sets a separate factory for the read-only graph
// endpoints. Inspection never traverses the graph, so a factory whose
// graphs hold no driver avoids claiming browser sessions that would
// only be released by a run.
func WithInspectFactory(factory GraphFactory) Option {
	return func(s *Server) {
		if factory != nil {
			s.inspect = factory
		}
	}
}

// NewHandler creates an HTTP handler serving the given graph factory.
// Runs launched via POST /runs are executed by the runner and their
// reports read back from the store.
func NewHandler(factory GraphFactory, r *runner.Runner, store ports.RunStore, opts ...Option) http.Handler {
	s := &Server{
		factory: factory,
		inspect: factory,
		runner:  r,
		store:   store,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	mux := chi.NewRouter()
	mux.Get("/health", s.getHealth)
	mux.Get("/info", s.getInfo)
	mux.Get("/graph", s.getGraph)
	mux.Get("/graph/mermaid", s.getGraphMermaid)
	mux.Get("/runs", s.listRuns)
	mux.Get("/runs/{runID}", s.getRun)
	mux.Post("/runs", s.createRun)

	return enableCORS(mux)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Custom-Header")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) getHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, map[string]string{"status": "ok"})
}

func (s *Server) getInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, map[string]string{
		"app":     "web-graph-http",
		"version": strings.TrimSpace(webgraph.Version),
	})
}

func (s *Server) getGraph(w http.ResponseWriter, r *http.Request) {
	g, err := s.inspect()
	if err != nil {
		http.Error(w, fmt.Sprintf("Graph error: %v", err), http.StatusInternalServerError)
		s.logger.Error("graph build failed", "err", err)
		return
	}
	writeJSON(w, s.logger, g.Inspect())
}

func (s *Server) getGraphMermaid(w http.ResponseWriter, r *http.Request) {
	g, err := s.inspect()
	if err != nil {
		http.Error(w, fmt.Sprintf("Graph error: %v", err), http.StatusInternalServerError)
		s.logger.Error("graph build failed", "err", err)
		return
	}

	var overlay *graph.Overlay
	if runID := r.URL.Query().Get("run_id"); runID != "" {
		report, err := s.store.Load(r.Context(), runID)
		if err != nil {
			if errors.Is(err, domain.ErrRunNotFound) {
				http.Error(w, "Run not found", http.StatusNotFound)
				return
			}
			http.Error(w, fmt.Sprintf("Store error: %v", err), http.StatusInternalServerError)
			s.logger.Error("run load failed", "err", err, "run_id", runID)
			return
		}
		overlay = &graph.Overlay{VisitedNodes: report.Path}
		if report.Status == domain.StatusRunning && len(report.Path) > 0 {
			overlay.CurrentNode = report.Path[len(report.Path)-1]
		}
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, graph.GenerateMermaid(g.Inspect(), overlay))
}

func (s *Server) listRuns(w http.ResponseWriter, r *http.Request) {
	ids, err := s.store.List(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("Store error: %v", err), http.StatusInternalServerError)
		s.logger.Error("run list failed", "err", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, s.logger, map[string]any{"run_ids": ids})
}

func (s *Server) getRun(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")
	report, err := s.store.Load(r.Context(), runID)
	if err != nil {
		if errors.Is(err, domain.ErrRunNotFound) {
			http.Error(w, "Run not found", http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("Store error: %v", err), http.StatusInternalServerError)
		s.logger.Error("run load failed", "err", err, "run_id", runID)
		return
	}
	writeJSON(w, s.logger, report)
}

func (s *Server) createRun(w http.ResponseWriter, r *http.Request) {
	g, err := s.factory()
	if err != nil {
		http.Error(w, fmt.Sprintf("Graph error: %v", err), http.StatusInternalServerError)
		s.logger.Error("graph build failed", "err", err)
		return
	}

	runID, err := s.runner.Start(r.Context(), g)
	if err != nil {
		http.Error(w, fmt.Sprintf("Run error: %v", err), http.StatusInternalServerError)
		s.logger.Error("run launch failed", "err", err)
		return
	}
	s.logger.Info("run launched", "run_id", runID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	if err := json.NewEncoder(w).Encode(map[string]string{"run_id": runID}); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("response encode failed", "err", err)
	}
}
