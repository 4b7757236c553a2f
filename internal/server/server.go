// Package server exposes the optimizer over HTTP. Every endpoint is a
// stateless POST taking a graph document; only the run store and the
// artifact cache carry state, and both live behind interfaces so tests
// run without infrastructure.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/dagopt/pkg/cache"
	"github.com/matzehuels/dagopt/pkg/config"
	"github.com/matzehuels/dagopt/pkg/store"
)

// Server wires the HTTP API together.
type Server struct {
	cfg   *config.Config
	cache cache.Cache
	keyer cache.Keyer

	// runs may be nil, which disables the run endpoints' persistence.
	runs store.Store

	router chi.Router
}

// New assembles a server. A nil artifact cache falls back to the null
// cache; a nil store disables run persistence.
func New(cfg *config.Config, artifacts cache.Cache, runs store.Store) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	if artifacts == nil {
		artifacts = cache.NewNullCache()
	}
	keyer := cache.NewDefaultKeyer()
	if cfg.Cache.KeyPrefix != "" {
		keyer = cache.NewScopedKeyer(keyer, cfg.Cache.KeyPrefix)
	}

	s := &Server{
		cfg:   cfg,
		cache: artifacts,
		keyer: keyer,
		runs:  runs,
	}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/validate", s.handleValidate)
		r.Post("/optimize", s.handleOptimize)
		r.Post("/analyze/critical-path", s.handleCriticalPath)
		r.Post("/analyze/layers", s.handleLayers)
		r.Post("/analyze/criticality", s.handleCriticality)
		r.Post("/metrics", s.handleMetrics)
		r.Post("/render", s.handleRender)
		r.Post("/export/neo4j", s.handleExportNeo4j)

		r.Get("/runs", s.handleListRuns)
		r.Get("/runs/{id}", s.handleGetRun)
	})
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
