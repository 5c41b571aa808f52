// Package api exposes the HTTP interface for serve mode.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/osintkit/handlescan/internal/metrics"
	"github.com/osintkit/handlescan/internal/probe"
	"github.com/osintkit/handlescan/internal/registry"
)

// Scanner runs one batch scan. *probe.Runner is the production
// implementation.
type Scanner interface {
	Run(ctx context.Context, handles []string, sites []probe.Site) ([]probe.Report, error)
}

// Server wires HTTP handlers to the scanner and registry.
type Server struct {
	router  chi.Router
	scanner Scanner
	logger  *zap.Logger
}

// Scans are slow by design (pacing); give them room before the handler
// timeout trips.
const scanTimeout = 10 * time.Minute

// NewServer constructs a Server with middleware and routes.
func NewServer(scanner Scanner, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		scanner: scanner,
		logger:  logger,
	}
	r := chi.NewRouter()
	r.Use(s.loggingMiddleware)
	r.Use(s.recoverMiddleware)

	r.Get("/healthz", s.healthz)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Get("/categories", s.listCategories)
		r.With(timeoutMiddleware(scanTimeout)).Post("/scans", s.submitScan)
	})

	s.router = r
	return s
}

// Handler returns the router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type categoryView struct {
	ID    string   `json:"id"`
	Label string   `json:"label"`
	Sites []string `json:"sites"`
}

func (s *Server) listCategories(w http.ResponseWriter, _ *http.Request) {
	cats := registry.Categories()
	views := make([]categoryView, 0, len(cats))
	for _, c := range cats {
		names := make([]string, 0, len(c.Sites))
		for _, site := range c.Sites {
			names = append(names, site.Name)
		}
		views = append(views, categoryView{ID: c.ID, Label: c.Label, Sites: names})
	}
	s.writeJSON(w, http.StatusOK, views)
}

type scanRequest struct {
	Handles  []string `json:"handles"`
	Category string   `json:"category"`
}

type scanResponse struct {
	Category string         `json:"category"`
	Reports  []probe.Report `json:"reports"`
}

func (s *Server) submitScan(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if len(req.Handles) == 0 {
		s.writeError(w, http.StatusBadRequest, "at least one handle is required")
		return
	}
	for _, handle := range req.Handles {
		if handle == "" {
			s.writeError(w, http.StatusBadRequest, "handles must be non-empty")
			return
		}
	}
	if req.Category == "" {
		req.Category = registry.CategoryAll
	}
	category, ok := registry.Lookup(req.Category)
	if !ok {
		s.writeError(w, http.StatusNotFound, "unknown category")
		return
	}

	reports, err := s.scanner.Run(r.Context(), req.Handles, category.Sites)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			status = http.StatusRequestTimeout
		}
		s.writeError(w, status, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, scanResponse{Category: category.ID, Reports: reports})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Warn("response encode failed", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
