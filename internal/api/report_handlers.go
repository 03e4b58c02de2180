package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/vytor/chessreport/internal/errors"
	"github.com/vytor/chessreport/internal/logger"
	"github.com/vytor/chessreport/internal/models"
	"github.com/vytor/chessreport/internal/services"
)

type listReportsResponse struct {
	Reports []models.Report `json:"reports"`
	Total   int             `json:"total"`
	Limit   int             `json:"limit"`
	Offset  int             `json:"offset"`
}

// handleCreateReport analyzes a game. With ?async=true the report is only
// queued and 202 is returned with its pending row.
func (s *Server) handleCreateReport(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req services.AnalyzeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	log.Debug("create report: plies=%d, async=%t", len(req.Moves), queryBool(r, "async"))

	if queryBool(r, "async") {
		report, err := s.ReportService.Submit(r.Context(), req)
		if err != nil {
			handleError(w, r, err)
			return
		}
		w.Header().Set("Location", fmt.Sprintf("/api/reports/%d", report.ID))
		writeJSON(w, r, http.StatusAccepted, services.ReportResult{Report: *report})
		return
	}

	res, err := s.ReportService.Analyze(r.Context(), req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	status := http.StatusCreated
	if res.Cached {
		status = http.StatusOK
	}
	w.Header().Set("Location", fmt.Sprintf("/api/reports/%d", res.Report.ID))
	writeJSON(w, r, status, res)
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	filter, err := parseReportFilter(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	reports, total, err := s.ReportService.List(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if reports == nil {
		reports = []models.Report{}
	}
	writeJSON(w, r, http.StatusOK, listReportsResponse{
		Reports: reports,
		Total:   total,
		Limit:   filter.Limit,
		Offset:  filter.Offset,
	})
}

func parseReportFilter(r *http.Request) (models.ReportFilter, error) {
	q := r.URL.Query()
	filter := models.ReportFilter{
		Status:   q.Get("status"),
		Opening:  strings.TrimSpace(q.Get("opening")),
		Player:   strings.TrimSpace(q.Get("player")),
		OrderBy:  q.Get("order_by"),
		OrderDir: q.Get("order_dir"),
	}

	switch filter.Status {
	case "", models.ReportStatusPending, models.ReportStatusProcessing, models.ReportStatusCompleted, models.ReportStatusFailed:
	default:
		return filter, errors.NewValidationError("status", fmt.Sprintf("unknown status %q", filter.Status))
	}

	var err error
	if filter.Limit, err = queryInt(r, "limit", 50); err != nil {
		return filter, err
	}
	if filter.Offset, err = queryInt(r, "offset", 0); err != nil {
		return filter, err
	}
	if filter.Limit == 0 {
		filter.Limit = 50
	}
	filter.Limit = min(filter.Limit, maxPageSize)
	return filter, nil
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	res, err := s.ReportService.Get(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (s *Server) handleReportMoves(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	filter := models.MoveFilter{
		Side:           strings.ToLower(r.URL.Query().Get("side")),
		Classification: strings.ToLower(r.URL.Query().Get("classification")),
	}
	moves, err := s.ReportService.Moves(r.Context(), id, filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if moves == nil {
		moves = []models.ReportMove{}
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"report_id": id, "moves": moves})
}
