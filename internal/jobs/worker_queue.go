package jobs

import (
	"github.com/vytor/chessreport/internal/worker"
)

// WorkerQueue implements JobQueue using a worker pool
type WorkerQueue struct {
	pool      *worker.Pool
	processor worker.ReportProcessor
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(pool *worker.Pool, processor worker.ReportProcessor) *WorkerQueue {
	return &WorkerQueue{
		pool:      pool,
		processor: processor,
	}
}

func (q *WorkerQueue) EnqueueReport(reportID int64) error {
	return q.pool.Submit(&worker.AnalyzeReportJob{
		Processor: q.processor,
		ReportID:  reportID,
	})
}
