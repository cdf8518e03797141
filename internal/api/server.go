// Package api exposes the HTTP interface for the pagewatch service.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"pagewatch/internal/check"
	"pagewatch/internal/sites"
	"pagewatch/internal/telemetry"
)

// Server wires HTTP handlers to the registration service and the check
// pipeline.
type Server struct {
	router   chi.Router
	sites    *sites.Service
	pipeline *check.Pipeline
	logger   *zap.Logger
}

// NewServer constructs a Server with middleware and routes.
func NewServer(sitesService *sites.Service, pipeline *check.Pipeline, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		sites:    sitesService,
		pipeline: pipeline,
		logger:   logger,
	}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(logger))
	r.Use(recoverMiddleware(logger))
	r.Use(telemetry.Middleware)
	r.Use(timeoutMiddleware(30 * time.Second))

	r.Get("/healthz", s.healthz)
	r.Get("/readyz", s.readyz)
	r.Method(http.MethodGet, "/metrics", telemetry.Handler())

	r.Route("/urls", func(r chi.Router) {
		r.Post("/", s.registerAddress)
		r.Get("/", s.listAddresses)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.showAddress)
			r.Post("/checks", s.runCheck)
		})
	})

	s.router = r
	return s
}

// Handler returns the router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) readyz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
