package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vytor/chessreport/internal/analysis"
	"github.com/vytor/chessreport/internal/api"
	"github.com/vytor/chessreport/internal/cache"
	"github.com/vytor/chessreport/internal/config"
	"github.com/vytor/chessreport/internal/db"
	"github.com/vytor/chessreport/internal/jobs"
	"github.com/vytor/chessreport/internal/logger"
	"github.com/vytor/chessreport/internal/opening"
	"github.com/vytor/chessreport/internal/repository/sqlite"
	"github.com/vytor/chessreport/internal/services"
	"github.com/vytor/chessreport/internal/worker"
)

func main() {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(!cfg.LogJSON),
		logger.WithJSON(cfg.LogJSON),
	)
	logger.SetDefault(log)
	defer func() { _ = log.Sync() }()

	log.Info("===========================================")
	log.Info("ChessReport Server Starting")
	log.Info("===========================================")
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("opening_book_path=%s", cfg.OpeningBookPath)
	log.Debug("use_eco_book=%t", cfg.UseECOBook)
	log.Debug("report_cache_ttl=%v", cfg.ReportCacheTTL)
	log.Debug("report_worker_count=%d", cfg.ReportWorkerCount)
	log.Debug("report_queue_size=%d", cfg.ReportQueueSize)
	log.Debug("max_plies=%d", cfg.MaxPlies)

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	book, err := loadOpeningBook(cfg, log)
	if err != nil {
		log.Error("failed to load opening book: %v", err)
		os.Exit(1)
	}

	var reportCache cache.ReportCache = cache.Noop{}
	if cfg.RedisURL != "" {
		rc, err := cache.NewRedis(ctx, cfg.RedisURL, cfg.ReportCacheTTL)
		if err != nil {
			log.Error("failed to connect to redis: %v", err)
			os.Exit(1)
		}
		reportCache = rc
	}
	defer reportCache.Close()

	reportPool := worker.NewPool(cfg.ReportWorkerCount, cfg.ReportQueueSize)

	var reportService services.ReportService
	queue := jobs.NewWorkerQueue(reportPool, worker.ProcessorFunc(func(ctx context.Context, id int64) error {
		return reportService.Process(ctx, id)
	}))
	reportService = services.NewReportService(
		sqlite.NewReportRepository(database.DB),
		reportCache,
		queue,
		services.ReportConfig{MaxPlies: cfg.MaxPlies, Book: book},
	)

	reportPool.Start(ctx)

	if n, err := reportService.Resume(ctx); err != nil {
		log.Warn("failed to resume pending reports: %v", err)
	} else if n > 0 {
		log.Info("resumed %d pending reports", n)
	}

	srv := &api.Server{
		ReportService: reportService,
		DB:            database,
		Cache:         reportCache,
		Pool:          reportPool,
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	// Reports still processing are reset to pending on next start.
	log.Debug("stopping report pool")
	cancel()
	reportPool.Stop()

	log.Info("===========================================")
	log.Info("ChessReport Server Stopped")
	log.Info("===========================================")
}

// loadOpeningBook merges the configured YAML book with the ECO book. Entries
// of the YAML book win. A nil book disables opening detection.
func loadOpeningBook(cfg config.Config, log *logger.Logger) (analysis.OpeningBook, error) {
	var books []*opening.Book
	if cfg.OpeningBookPath != "" {
		b, err := opening.LoadYAML(cfg.OpeningBookPath)
		if err != nil {
			return nil, err
		}
		log.Info("loaded %d openings from %s", b.Len(), cfg.OpeningBookPath)
		books = append(books, b)
	}
	if cfg.UseECOBook {
		b := opening.NewECOBook()
		log.Info("loaded %d ECO openings", b.Len())
		books = append(books, b)
	}
	if len(books) == 0 {
		log.Warn("no opening book configured, opening detection disabled")
		return nil, nil
	}
	return opening.Merge(books...), nil
}
