package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/inference-sim/proc-sim/internal/store"
)

// Server is the proc-sim REST API server.
type Server struct {
	router    chi.Router
	logger    *logrus.Entry
	startTime time.Time
	store     store.Store // optional; run history endpoints answer 503 without it
	maxTicks  int64
}

// DefaultMaxTicks bounds the work a single simulation request may ask for.
const DefaultMaxTicks = 1_000_000

// Option configures optional Server dependencies.
type Option func(*Server)

// WithStore enables run persistence and the /runs endpoints.
func WithStore(st store.Store) Option {
	return func(s *Server) {
		s.store = st
	}
}

// WithMaxTicks overrides DefaultMaxTicks.
func WithMaxTicks(n int64) Option {
	return func(s *Server) {
		s.maxTicks = n
	}
}

// New creates a new Server with all routes registered.
func New(opts ...Option) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		logger:    logrus.WithField("component", "server"),
		startTime: time.Now(),
		maxTicks:  DefaultMaxTicks,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Handler returns the http.Handler for this server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	r := s.router

	// Global middleware
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(s.logger))

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/policies", s.handleListPolicies)
		r.Post("/simulations", s.handleCreateSimulation)
		r.Get("/runs", s.handleListRuns)
		r.Get("/runs/{id}", s.handleGetRun)
	})
}
