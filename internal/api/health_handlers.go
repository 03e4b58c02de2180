package api

import (
	"context"
	"net/http"
	"time"

	"github.com/vytor/chessreport/internal/logger"
)

// Pinger is a dependency the readiness check pings.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// handleHealth returns the liveness status and always returns 200 OK.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady returns 200 when the database and the report cache respond,
// 503 otherwise.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	log := logger.FromContext(ctx)

	checks := map[string]string{"database": "ok", "cache": "ok"}
	status := http.StatusOK

	if s.DB != nil {
		if err := s.DB.PingContext(ctx); err != nil {
			log.Warn("readiness check failed - database: %v", err)
			checks["database"] = err.Error()
			status = http.StatusServiceUnavailable
		}
	}
	if s.Cache != nil {
		if err := s.Cache.Ping(ctx); err != nil {
			log.Warn("readiness check failed - cache: %v", err)
			checks["cache"] = err.Error()
			status = http.StatusServiceUnavailable
		}
	}

	body := map[string]any{"checks": checks, "status": "ready"}
	if status != http.StatusOK {
		body["status"] = "unavailable"
	}
	if s.Pool != nil {
		body["queue"] = map[string]int{"pending": s.Pool.QueueSize(), "capacity": s.Pool.Capacity()}
	}
	writeJSON(w, r, status, body)
}
