package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

const requestTimeout = 60 * time.Second

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	r.Route("/api/reports", func(r chi.Router) {
		r.Use(timeoutMiddleware(requestTimeout))
		r.Post("/", s.handleCreateReport)
		r.Get("/", s.handleListReports)
		r.Get("/{id}", s.handleGetReport)
		r.Get("/{id}/moves", s.handleReportMoves)
	})
	return r
}
