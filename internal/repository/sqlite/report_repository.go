package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/chessreport/internal/logger"
	"github.com/vytor/chessreport/internal/models"
	"github.com/vytor/chessreport/internal/repository"
)

var reportColumns = []string{
	"id", "status", "payload_hash", "payload", "white_player", "black_player", "ply_count", "opening",
	"white_accuracy", "black_accuracy", "white_acpl", "black_acpl", "white_elo", "black_elo",
	"result", "error", "created_at", "completed_at",
}

var moveColumns = []string{
	"report_id", "ply", "side", "san", "uci", "fen_before", "fen_after",
	"win_before", "win_after", "accuracy", "classification", "opening", "tags",
}

type rowScanner interface {
	Scan(dest ...any) error
}

type reportRepository struct {
	db *sql.DB
}

// NewReportRepository creates a new ReportRepository implementation
func NewReportRepository(db *sql.DB) repository.ReportRepository {
	return &reportRepository{db: db}
}

func scanReport(s rowScanner) (models.Report, error) {
	var r models.Report
	err := s.Scan(&r.ID, &r.Status, &r.PayloadHash, &r.Payload, &r.WhitePlayer, &r.BlackPlayer, &r.PlyCount, &r.Opening,
		&r.WhiteAccuracy, &r.BlackAccuracy, &r.WhiteACPL, &r.BlackACPL, &r.WhiteElo, &r.BlackElo,
		&r.Result, &r.Error, &r.CreatedAt, &r.CompletedAt)
	return r, err
}

func (r *reportRepository) Create(ctx context.Context, report models.Report) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("report_repo")
	log.Debug("creating report: hash=%s, plies=%d", report.PayloadHash, report.PlyCount)

	if report.Status == "" {
		report.Status = models.ReportStatusPending
	}

	res, err := r.db.ExecContext(ctx, `
INSERT INTO reports (status, payload_hash, payload, white_player, black_player, ply_count)
VALUES (?, ?, ?, ?, ?, ?)
`, report.Status, report.PayloadHash, report.Payload, report.WhitePlayer, report.BlackPlayer, report.PlyCount)
	if err != nil {
		log.Error("failed to create report: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to get report id: %v", err)
		return 0, err
	}
	log.Debug("report created: id=%d", id)
	return id, nil
}

func (r *reportRepository) Get(ctx context.Context, id int64) (*models.Report, error) {
	log := logger.FromContext(ctx).WithPrefix("report_repo")
	log.Debug("getting report: id=%d", id)

	query, args, err := sqlBuilder.Select(reportColumns...).From("reports").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	report, err := scanReport(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("report not found: id=%d", id)
		} else {
			log.Error("failed to get report: %v", err)
		}
		return nil, err
	}
	return &report, nil
}

func (r *reportRepository) FindCompletedByHash(ctx context.Context, hash string) (*models.Report, error) {
	log := logger.FromContext(ctx).WithPrefix("report_repo")
	log.Debug("finding completed report: hash=%s", hash)

	query, args, err := sqlBuilder.Select(reportColumns...).From("reports").
		Where(squirrel.Eq{"payload_hash": hash, "status": models.ReportStatusCompleted}).
		OrderBy("id DESC").Limit(1).ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	report, err := scanReport(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Error("failed to find report by hash: %v", err)
		}
		return nil, err
	}
	return &report, nil
}

func applyReportFilter(q squirrel.SelectBuilder, filter models.ReportFilter) squirrel.SelectBuilder {
	if filter.Status != "" {
		q = q.Where(squirrel.Eq{"status": filter.Status})
	}
	if filter.Opening != "" {
		q = q.Where(squirrel.Like{"opening": "%" + filter.Opening + "%"})
	}
	if filter.Player != "" {
		q = q.Where(squirrel.Or{
			squirrel.Eq{"white_player": filter.Player},
			squirrel.Eq{"black_player": filter.Player},
		})
	}
	return q
}

func (r *reportRepository) List(ctx context.Context, filter models.ReportFilter) ([]models.Report, error) {
	log := logger.FromContext(ctx).WithPrefix("report_repo")
	log.Debug("listing reports with filter: status=%s, opening=%s, player=%s", filter.Status, filter.Opening, filter.Player)

	query := applyReportFilter(sqlBuilder.Select(reportColumns...).From("reports"), filter)

	orderBy := "created_at"
	switch filter.OrderBy {
	case "created_at", "ply_count", "white_accuracy", "black_accuracy":
		orderBy = filter.OrderBy
	}
	orderDir := "DESC"
	if filter.OrderDir == "ASC" {
		orderDir = "ASC"
	}
	query = query.OrderBy(orderBy+" "+orderDir, "id "+orderDir)

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	query = query.Limit(uint64(limit)).Offset(uint64(offset))

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list reports: %v", err)
		return nil, err
	}
	defer rows.Close()

	var reports []models.Report
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			log.Error("failed to scan report row: %v", err)
			return nil, err
		}
		reports = append(reports, report)
	}
	log.Debug("found %d reports", len(reports))
	return reports, rows.Err()
}

func (r *reportRepository) Count(ctx context.Context, filter models.ReportFilter) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("report_repo")

	sqlStr, args, err := applyReportFilter(sqlBuilder.Select("COUNT(*)").From("reports"), filter).ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return 0, err
	}

	var count int
	if err := r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&count); err != nil {
		log.Error("failed to count reports: %v", err)
		return 0, err
	}
	return count, nil
}

func (r *reportRepository) UpdateStatus(ctx context.Context, id int64, status string, errMsg string) error {
	log := logger.FromContext(ctx).WithPrefix("report_repo")
	log.Debug("updating report status: report_id=%d, status=%s", id, status)

	res, err := r.db.ExecContext(ctx, `UPDATE reports SET status = ?, error = ? WHERE id = ?`, status, errMsg, id)
	if err != nil {
		log.Error("failed to update report status: %v", err)
		return err
	}
	return mustAffect(res)
}

// SaveResult stores the summary columns, the JSON result and every move row
// of a report in one transaction and marks it completed.
func (r *reportRepository) SaveResult(ctx context.Context, report models.Report, moves []models.ReportMove) error {
	log := logger.FromContext(ctx).WithPrefix("report_repo")
	log.Debug("saving report result: report_id=%d, moves=%d", report.ID, len(moves))

	return tx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
UPDATE reports
SET status = ?, ply_count = ?, opening = ?,
    white_accuracy = ?, black_accuracy = ?, white_acpl = ?, black_acpl = ?, white_elo = ?, black_elo = ?,
    result = ?, error = '', completed_at = CURRENT_TIMESTAMP
WHERE id = ?
`, models.ReportStatusCompleted, report.PlyCount, report.Opening,
			report.WhiteAccuracy, report.BlackAccuracy, report.WhiteACPL, report.BlackACPL, report.WhiteElo, report.BlackElo,
			report.Result, report.ID)
		if err != nil {
			log.Error("failed to update report: %v", err)
			return err
		}
		if err := mustAffect(res); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM report_moves WHERE report_id = ?`, report.ID); err != nil {
			log.Error("failed to clear report moves: %v", err)
			return err
		}

		stmt, err := tx.PrepareContext(ctx, `
INSERT INTO report_moves (report_id, ply, side, san, uci, fen_before, fen_after, win_before, win_after, accuracy, classification, opening, tags)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`)
		if err != nil {
			log.Error("failed to prepare move insert: %v", err)
			return err
		}
		defer stmt.Close()

		for _, m := range moves {
			if _, err := stmt.ExecContext(ctx, report.ID, m.Ply, m.Side, m.SAN, m.UCI, m.FENBefore, m.FENAfter,
				m.WinBefore, m.WinAfter, m.Accuracy, m.Classification, m.Opening, joinTags(m.Tags)); err != nil {
				log.Error("failed to insert move ply=%d: %v", m.Ply, err)
				return err
			}
		}
		return nil
	})
}

func (r *reportRepository) MovesForReport(ctx context.Context, id int64, filter models.MoveFilter) ([]models.ReportMove, error) {
	log := logger.FromContext(ctx).WithPrefix("report_repo")
	log.Debug("listing moves: report_id=%d, side=%s, classification=%s", id, filter.Side, filter.Classification)

	query := sqlBuilder.Select(moveColumns...).From("report_moves").Where(squirrel.Eq{"report_id": id})
	if filter.Side != "" {
		query = query.Where(squirrel.Eq{"side": filter.Side})
	}
	if filter.Classification != "" {
		query = query.Where(squirrel.Eq{"classification": filter.Classification})
	}
	sqlStr, args, err := query.OrderBy("ply ASC").ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list moves: %v", err)
		return nil, err
	}
	defer rows.Close()

	var moves []models.ReportMove
	for rows.Next() {
		var m models.ReportMove
		var tags string
		if err := rows.Scan(&m.ReportID, &m.Ply, &m.Side, &m.SAN, &m.UCI, &m.FENBefore, &m.FENAfter,
			&m.WinBefore, &m.WinAfter, &m.Accuracy, &m.Classification, &m.Opening, &tags); err != nil {
			log.Error("failed to scan move row: %v", err)
			return nil, err
		}
		m.Tags = splitTags(tags)
		moves = append(moves, m)
	}
	return moves, rows.Err()
}

func (r *reportRepository) ResetProcessingToPending(ctx context.Context) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("report_repo")

	res, err := r.db.ExecContext(ctx, `UPDATE reports SET status = ? WHERE status = ?`,
		models.ReportStatusPending, models.ReportStatusProcessing)
	if err != nil {
		log.Error("failed to reset processing reports: %v", err)
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n > 0 {
		log.Info("reset %d interrupted reports to pending", n)
	}
	return n, nil
}

func (r *reportRepository) PendingIDs(ctx context.Context) ([]int64, error) {
	log := logger.FromContext(ctx).WithPrefix("report_repo")

	rows, err := r.db.QueryContext(ctx, `SELECT id FROM reports WHERE status = ? ORDER BY id ASC`, models.ReportStatusPending)
	if err != nil {
		log.Error("failed to list pending reports: %v", err)
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
