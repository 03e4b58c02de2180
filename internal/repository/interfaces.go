package repository

import (
	"context"

	"github.com/vytor/chessreport/internal/models"
)

// ReportRepository handles report data access
type ReportRepository interface {
	Create(ctx context.Context, report models.Report) (int64, error)
	Get(ctx context.Context, id int64) (*models.Report, error)
	FindCompletedByHash(ctx context.Context, hash string) (*models.Report, error)
	List(ctx context.Context, filter models.ReportFilter) ([]models.Report, error)
	Count(ctx context.Context, filter models.ReportFilter) (int, error)
	UpdateStatus(ctx context.Context, id int64, status string, errMsg string) error
	SaveResult(ctx context.Context, report models.Report, moves []models.ReportMove) error
	MovesForReport(ctx context.Context, id int64, filter models.MoveFilter) ([]models.ReportMove, error)
	ResetProcessingToPending(ctx context.Context) (int64, error)
	PendingIDs(ctx context.Context) ([]int64, error)
}
