package api

import (
	"github.com/vytor/chessreport/internal/cache"
	"github.com/vytor/chessreport/internal/services"
	"github.com/vytor/chessreport/internal/worker"
)

type Server struct {
	ReportService services.ReportService
	DB            Pinger
	Cache         cache.ReportCache
	Pool          *worker.Pool
}
