package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/chessreport/internal/models"
	"github.com/vytor/chessreport/internal/services"
)

// MockReportService is a mock implementation of services.ReportService
type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Analyze(ctx context.Context, req services.AnalyzeRequest) (*services.ReportResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ReportResult), args.Error(1)
}

func (m *MockReportService) Submit(ctx context.Context, req services.AnalyzeRequest) (*models.Report, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Report), args.Error(1)
}

func (m *MockReportService) Process(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockReportService) Get(ctx context.Context, id int64) (*services.ReportResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ReportResult), args.Error(1)
}

func (m *MockReportService) List(ctx context.Context, filter models.ReportFilter) ([]models.Report, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]models.Report), args.Int(1), args.Error(2)
}

func (m *MockReportService) Moves(ctx context.Context, id int64, filter models.MoveFilter) ([]models.ReportMove, error) {
	args := m.Called(ctx, id, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ReportMove), args.Error(1)
}

func (m *MockReportService) Resume(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
