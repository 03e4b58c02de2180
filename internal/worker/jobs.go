package worker

import "context"

// ReportProcessor runs the analysis of a stored report.
type ReportProcessor interface {
	Process(ctx context.Context, reportID int64) error
}

// ProcessorFunc adapts a function to ReportProcessor.
type ProcessorFunc func(ctx context.Context, reportID int64) error

func (f ProcessorFunc) Process(ctx context.Context, reportID int64) error {
	return f(ctx, reportID)
}

type AnalyzeReportJob struct {
	Processor ReportProcessor
	ReportID  int64
}

func (j *AnalyzeReportJob) Name() string { return "analyze_report" }

func (j *AnalyzeReportJob) Run(ctx context.Context) error {
	return j.Processor.Process(ctx, j.ReportID)
}
