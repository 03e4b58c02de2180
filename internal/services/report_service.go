package services

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/vytor/chessreport/internal/analysis"
	"github.com/vytor/chessreport/internal/cache"
	"github.com/vytor/chessreport/internal/errors"
	"github.com/vytor/chessreport/internal/jobs"
	"github.com/vytor/chessreport/internal/logger"
	"github.com/vytor/chessreport/internal/models"
	"github.com/vytor/chessreport/internal/pgn"
	"github.com/vytor/chessreport/internal/repository"
)

// AnalyzeRequest is one game submitted for a report. PGN, when given, is only
// read for its tag pairs.
type AnalyzeRequest struct {
	WhitePlayer string `json:"white_player,omitempty"`
	BlackPlayer string `json:"black_player,omitempty"`
	PGN         string `json:"pgn,omitempty"`
	analysis.Game
}

// WithPGNHeaders fills the player names and ratings left empty from the PGN
// tag pairs.
func (r AnalyzeRequest) WithPGNHeaders() AnalyzeRequest {
	if r.PGN == "" {
		return r
	}
	h := pgn.ParseHeaders(r.PGN)
	if r.WhitePlayer == "" {
		r.WhitePlayer = h.Player(analysis.White)
	}
	if r.BlackPlayer == "" {
		r.BlackPlayer = h.Player(analysis.Black)
	}
	ratings := h.Ratings()
	if r.Ratings.White == nil {
		r.Ratings.White = ratings.White
	}
	if r.Ratings.Black == nil {
		r.Ratings.Black = ratings.Black
	}
	return r
}

// WithPlies numbers the positions by their order when none of them carries a
// ply. Requests with explicit plies are returned unchanged.
func (r AnalyzeRequest) WithPlies() AnalyzeRequest {
	if len(r.Positions) < 2 {
		return r
	}
	for _, p := range r.Positions {
		if p.Ply != 0 {
			return r
		}
	}
	positions := make([]analysis.Position, len(r.Positions))
	copy(positions, r.Positions)
	for i := range positions {
		positions[i].Ply = i
	}
	r.Positions = positions
	return r
}

// ReportResult is a stored report together with its decoded analysis.
// Analysis is nil until the report is completed.
type ReportResult struct {
	Report   models.Report    `json:"report"`
	Analysis *analysis.Report `json:"analysis,omitempty"`
	Cached   bool             `json:"cached"`
}

// ReportService handles report business logic
type ReportService interface {
	Analyze(ctx context.Context, req AnalyzeRequest) (*ReportResult, error)
	Submit(ctx context.Context, req AnalyzeRequest) (*models.Report, error)
	Process(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*ReportResult, error)
	List(ctx context.Context, filter models.ReportFilter) ([]models.Report, int, error)
	Moves(ctx context.Context, id int64, filter models.MoveFilter) ([]models.ReportMove, error)
	Resume(ctx context.Context) (int, error)
}

type reportService struct {
	reportRepo repository.ReportRepository
	cache      cache.ReportCache
	jobQueue   jobs.JobQueue
	config     ReportConfig
}

// NewReportService creates a new ReportService. A nil cache disables caching.
func NewReportService(reportRepo repository.ReportRepository, reportCache cache.ReportCache, jobQueue jobs.JobQueue, config ReportConfig) ReportService {
	if reportCache == nil {
		reportCache = cache.Noop{}
	}
	return &reportService{
		reportRepo: reportRepo,
		cache:      reportCache,
		jobQueue:   jobQueue,
		config:     config,
	}
}

type cacheEntry struct {
	Report   models.Report    `json:"report"`
	Analysis *analysis.Report `json:"analysis"`
}

func (s *reportService) Analyze(ctx context.Context, req AnalyzeRequest) (*ReportResult, error) {
	log := logger.FromContext(ctx)

	req = req.WithPGNHeaders().WithPlies()
	if err := s.validate(req); err != nil {
		return nil, err
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	hash := cache.Key(payload)
	log = log.WithField("payload_hash", hash[:12])

	if res, ok := s.fromCache(ctx, log, hash); ok {
		return res, nil
	}

	existing, err := s.reportRepo.FindCompletedByHash(ctx, hash)
	switch {
	case err == nil:
		log.Debug("reusing stored report: id=%d", existing.ID)
		rep, err := decodeResult(existing)
		if err != nil {
			log.Error("failed to decode stored report %d: %v", existing.ID, err)
			return nil, errors.NewInternalError(err)
		}
		res := &ReportResult{Report: *existing, Analysis: rep, Cached: true}
		s.toCache(ctx, log, hash, res)
		return res, nil
	case !stderrors.Is(err, sql.ErrNoRows):
		log.Error("failed to look up report by hash: %v", err)
		return nil, errors.NewInternalError(err)
	}

	report := models.Report{
		Status:      models.ReportStatusProcessing,
		PayloadHash: hash,
		Payload:     payload,
		WhitePlayer: req.WhitePlayer,
		BlackPlayer: req.BlackPlayer,
		PlyCount:    len(req.Moves),
		CreatedAt:   time.Now().UTC(),
	}
	id, err := s.reportRepo.Create(ctx, report)
	if err != nil {
		log.Error("failed to create report: %v", err)
		return nil, errors.NewInternalError(err)
	}
	report.ID = id

	rep, err := s.run(ctx, &report, req)
	if err != nil {
		return nil, err
	}
	res := &ReportResult{Report: report, Analysis: rep}
	s.toCache(ctx, log, hash, res)
	return res, nil
}

func (s *reportService) Submit(ctx context.Context, req AnalyzeRequest) (*models.Report, error) {
	log := logger.FromContext(ctx)

	req = req.WithPGNHeaders().WithPlies()
	if err := s.validate(req); err != nil {
		return nil, err
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	report := models.Report{
		Status:      models.ReportStatusPending,
		PayloadHash: cache.Key(payload),
		Payload:     payload,
		WhitePlayer: req.WhitePlayer,
		BlackPlayer: req.BlackPlayer,
		PlyCount:    len(req.Moves),
		CreatedAt:   time.Now().UTC(),
	}
	id, err := s.reportRepo.Create(ctx, report)
	if err != nil {
		log.Error("failed to create report: %v", err)
		return nil, errors.NewInternalError(err)
	}
	report.ID = id

	if err := s.jobQueue.EnqueueReport(id); err != nil {
		log.Warn("failed to enqueue report %d: %v", id, err)
		if uerr := s.reportRepo.UpdateStatus(ctx, id, models.ReportStatusFailed, err.Error()); uerr != nil {
			log.Error("failed to mark report %d failed: %v", id, uerr)
		}
		return nil, errors.NewUnavailableError("report queue is unavailable", err)
	}

	log.Info("queued report %d (%d plies)", id, report.PlyCount)
	return &report, nil
}

// Process analyzes a stored report. Completed reports are left alone.
func (s *reportService) Process(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx).WithField("report_id", id)
	log.Info("processing report")

	report, err := s.reportRepo.Get(ctx, id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return errors.NewNotFoundError("report", id)
		}
		log.Error("failed to get report: %v", err)
		return err
	}
	if report.Status == models.ReportStatusCompleted {
		log.Debug("report already completed, skipping")
		return nil
	}

	if err := s.reportRepo.UpdateStatus(ctx, id, models.ReportStatusProcessing, ""); err != nil {
		log.Error("failed to update report status: %v", err)
		return err
	}

	var req AnalyzeRequest
	if err := json.Unmarshal(report.Payload, &req); err != nil {
		log.Error("failed to decode report payload: %v", err)
		s.markFailed(ctx, log, id, fmt.Errorf("decode payload: %w", err))
		return err
	}

	if _, err := s.run(logger.NewContext(ctx, log), report, req); err != nil {
		return err
	}
	return nil
}

// run computes the analysis of req and stores it as the result of report.
// On failure the report is marked failed.
func (s *reportService) run(ctx context.Context, report *models.Report, req AnalyzeRequest) (*analysis.Report, error) {
	log := logger.FromContext(ctx)

	if err := ctx.Err(); err != nil {
		s.markFailed(context.WithoutCancel(ctx), log, report.ID, err)
		return nil, err
	}

	start := time.Now()
	var opts []analysis.Option
	if s.config.Book != nil {
		opts = append(opts, analysis.WithOpeningBook(s.config.Book))
	}
	rep := analysis.Analyze(req.Game, opts...)
	log.Debug("analysis finished in %v: %d moves", time.Since(start), len(rep.Moves))

	result, err := json.Marshal(rep)
	if err != nil {
		s.markFailed(ctx, log, report.ID, err)
		return nil, errors.NewInternalError(err)
	}

	applySummary(report, &rep)
	report.Result = result
	if err := s.reportRepo.SaveResult(ctx, *report, toReportMoves(report.ID, rep.Moves)); err != nil {
		log.Error("failed to save report %d: %v", report.ID, err)
		s.markFailed(ctx, log, report.ID, err)
		return nil, errors.NewInternalError(err)
	}

	now := time.Now().UTC()
	report.Status = models.ReportStatusCompleted
	report.Error = ""
	report.CompletedAt = &now
	log.Info("report %d completed in %v (white %.1f%%, black %.1f%%)",
		report.ID, time.Since(start), report.WhiteAccuracy, report.BlackAccuracy)
	return &rep, nil
}

func (s *reportService) markFailed(ctx context.Context, log *logger.Logger, id int64, cause error) {
	if err := s.reportRepo.UpdateStatus(ctx, id, models.ReportStatusFailed, cause.Error()); err != nil {
		log.Error("failed to mark report %d failed: %v", id, err)
	}
}

func (s *reportService) Get(ctx context.Context, id int64) (*ReportResult, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting report: id=%d", id)

	report, err := s.reportRepo.Get(ctx, id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError("report", id)
		}
		log.Error("failed to get report: %v", err)
		return nil, errors.NewInternalError(err)
	}

	res := &ReportResult{Report: *report}
	if report.Status == models.ReportStatusCompleted {
		if res.Analysis, err = decodeResult(report); err != nil {
			log.Error("failed to decode report %d: %v", id, err)
			return nil, errors.NewInternalError(err)
		}
	}
	return res, nil
}

func (s *reportService) List(ctx context.Context, filter models.ReportFilter) ([]models.Report, int, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing reports: status=%s, player=%s, opening=%s", filter.Status, filter.Player, filter.Opening)

	reports, err := s.reportRepo.List(ctx, filter)
	if err != nil {
		log.Error("failed to list reports: %v", err)
		return nil, 0, errors.NewInternalError(err)
	}
	total, err := s.reportRepo.Count(ctx, filter)
	if err != nil {
		log.Error("failed to count reports: %v", err)
		return nil, 0, errors.NewInternalError(err)
	}
	return reports, total, nil
}

func (s *reportService) Moves(ctx context.Context, id int64, filter models.MoveFilter) ([]models.ReportMove, error) {
	log := logger.FromContext(ctx)

	if filter.Classification != "" && !analysis.Classification(filter.Classification).Valid() {
		return nil, errors.NewValidationError("classification", fmt.Sprintf("unknown classification %q", filter.Classification))
	}
	if filter.Side != "" && filter.Side != analysis.White.String() && filter.Side != analysis.Black.String() {
		return nil, errors.NewValidationError("side", "must be white or black")
	}

	report, err := s.reportRepo.Get(ctx, id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError("report", id)
		}
		log.Error("failed to get report: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if report.Status != models.ReportStatusCompleted {
		return nil, errors.NewConflictError(fmt.Sprintf("report %d is %s", id, report.Status))
	}

	moves, err := s.reportRepo.MovesForReport(ctx, id, filter)
	if err != nil {
		log.Error("failed to get moves for report %d: %v", id, err)
		return nil, errors.NewInternalError(err)
	}
	return moves, nil
}

// Resume puts reports interrupted by a shutdown back on the queue.
func (s *reportService) Resume(ctx context.Context) (int, error) {
	log := logger.FromContext(ctx)

	reset, err := s.reportRepo.ResetProcessingToPending(ctx)
	if err != nil {
		log.Error("failed to reset processing reports: %v", err)
		return 0, err
	}
	if reset > 0 {
		log.Info("reset %d interrupted reports to pending", reset)
	}

	ids, err := s.reportRepo.PendingIDs(ctx)
	if err != nil {
		log.Error("failed to list pending reports: %v", err)
		return 0, err
	}

	queued := 0
	for _, id := range ids {
		if err := s.jobQueue.EnqueueReport(id); err != nil {
			log.Warn("stopped resuming at report %d: %v", id, err)
			break
		}
		queued++
	}
	return queued, nil
}

func (s *reportService) validate(req AnalyzeRequest) error {
	if len(req.Positions) == 0 {
		return errors.NewValidationError("positions", "cannot be empty")
	}
	if len(req.Positions) != len(req.Moves)+1 {
		return errors.NewValidationError("positions",
			fmt.Sprintf("expected %d positions for %d moves, got %d", len(req.Moves)+1, len(req.Moves), len(req.Positions)))
	}
	if s.config.MaxPlies > 0 && len(req.Moves) > s.config.MaxPlies {
		return errors.NewValidationError("moves", fmt.Sprintf("at most %d plies are allowed", s.config.MaxPlies))
	}
	if err := validatePlies(req.Positions); err != nil {
		return err
	}
	switch req.Perspective {
	case "", analysis.PerspectiveSideToMove, analysis.PerspectiveWhite:
	default:
		return errors.NewValidationError("perspective", fmt.Sprintf("unknown perspective %q", req.Perspective))
	}
	for i, m := range req.Moves {
		if m.UCI == "" {
			return errors.NewValidationError(fmt.Sprintf("moves[%d].uci", i), "cannot be empty")
		}
	}
	return nil
}

// validatePlies requires distinct, non-negative plies forming one consecutive
// range.
func validatePlies(positions []analysis.Position) error {
	seen := make(map[int]int, len(positions))
	lo := positions[0].Ply
	for i, p := range positions {
		field := fmt.Sprintf("positions[%d].ply", i)
		if p.Ply < 0 {
			return errors.NewValidationError(field, "cannot be negative")
		}
		if j, dup := seen[p.Ply]; dup {
			return errors.NewValidationError(field, fmt.Sprintf("duplicates positions[%d].ply", j))
		}
		seen[p.Ply] = i
		lo = min(lo, p.Ply)
	}
	for i, p := range positions {
		if p.Ply-lo >= len(positions) {
			return errors.NewValidationError(fmt.Sprintf("positions[%d].ply", i),
				fmt.Sprintf("plies must be consecutive, expected %d..%d", lo, lo+len(positions)-1))
		}
	}
	return nil
}

func (s *reportService) fromCache(ctx context.Context, log *logger.Logger, key string) (*ReportResult, bool) {
	data, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		log.Warn("report cache get failed: %v", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		log.Warn("discarding unreadable cache entry: %v", err)
		return nil, false
	}
	log.Debug("report cache hit: id=%d", entry.Report.ID)
	return &ReportResult{Report: entry.Report, Analysis: entry.Analysis, Cached: true}, true
}

func (s *reportService) toCache(ctx context.Context, log *logger.Logger, key string, res *ReportResult) {
	data, err := json.Marshal(cacheEntry{Report: res.Report, Analysis: res.Analysis})
	if err != nil {
		log.Warn("failed to encode cache entry: %v", err)
		return
	}
	if err := s.cache.Set(ctx, key, data); err != nil {
		log.Warn("report cache set failed: %v", err)
	}
}

func decodeResult(report *models.Report) (*analysis.Report, error) {
	if len(report.Result) == 0 {
		return nil, fmt.Errorf("report %d has no result", report.ID)
	}
	var rep analysis.Report
	if err := json.Unmarshal(report.Result, &rep); err != nil {
		return nil, err
	}
	return &rep, nil
}

func applySummary(report *models.Report, rep *analysis.Report) {
	report.PlyCount = len(rep.Moves)
	report.Opening = rep.Opening
	report.WhiteAccuracy = rep.Accuracy.White.Itera
	report.BlackAccuracy = rep.Accuracy.Black.Itera
	report.WhiteACPL = rep.ACPL.White
	report.BlackACPL = rep.ACPL.Black
	report.WhiteElo = rep.EstimatedElo.White
	report.BlackElo = rep.EstimatedElo.Black
}

func toReportMoves(reportID int64, moves []analysis.MoveReport) []models.ReportMove {
	out := make([]models.ReportMove, len(moves))
	for i, m := range moves {
		out[i] = models.ReportMove{
			ReportID:       reportID,
			Ply:            m.Ply,
			Side:           m.Side.String(),
			SAN:            m.SAN,
			UCI:            m.UCI,
			FENBefore:      m.FENBefore,
			FENAfter:       m.FENAfter,
			WinBefore:      m.WinBefore,
			WinAfter:       m.WinAfter,
			Accuracy:       m.Accuracy,
			Classification: string(m.Classification),
			Opening:        m.Opening,
			Tags:           m.Tags,
		}
	}
	return out
}
