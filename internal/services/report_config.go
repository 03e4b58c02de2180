package services

import "github.com/vytor/chessreport/internal/analysis"

// ReportConfig holds configuration for report generation
type ReportConfig struct {
	MaxPlies int // 0 = no limit
	Book     analysis.OpeningBook
}
