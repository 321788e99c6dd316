// Package server exposes the anonymizer engine over HTTP: anonymize and
// deanonymize endpoints, the operator catalog, and the audit trail.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/veil-io/veil/internal/anonymizer"
	"github.com/veil-io/veil/internal/audit"
	"github.com/veil-io/veil/internal/otel"
)

const requestTimeout = 30 * time.Second

// Server holds the HTTP API dependencies.
type Server struct {
	router     *chi.Mux
	engine     *anonymizer.Engine
	auditStore *audit.Store // nil when the audit trail is disabled
	startTime  time.Time
}

// Option configures the Server.
type Option func(*Server)

// WithAuditStore enables recording every anonymize/deanonymize request as
// an audit run.
func WithAuditStore(store *audit.Store) Option {
	return func(s *Server) { s.auditStore = store }
}

// NewServer builds a Server around an engine.
func NewServer(engine *anonymizer.Engine, opts ...Option) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		engine:    engine,
		startTime: time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(requestTimeout))
	s.router.Use(otel.Middleware())

	s.router.Get("/health", s.handleHealth)
	s.router.Route("/v1", func(r chi.Router) {
		r.Post("/anonymize", s.handleAnonymize)
		r.Post("/deanonymize", s.handleDeanonymize)
		r.Get("/operators", s.handleOperators)
		r.Get("/audit", s.handleAuditList)
		r.Get("/audit/{run_id}", s.handleAuditGet)
	})

	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}
