package server

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (s *Server) routes() chi.Router {
	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		requestLogger(s.logger),
		middleware.Recoverer,
	)

	r.Get("/healthz", s.handleHealth)
	r.Get("/reports/{id}", s.handleReport)

	r.Route("/api", func(r chi.Router) {
		r.Post("/check", s.handleCheck)
		r.Get("/rules", s.handleRules)
		r.Get("/runs", s.handleRuns)
	})

	return r
}
