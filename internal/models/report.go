package models

import "time"

// Report statuses
const (
	ReportStatusPending    = "pending"
	ReportStatusProcessing = "processing"
	ReportStatusCompleted  = "completed"
	ReportStatusFailed     = "failed"
)

// Report is one stored game analysis. Result holds the full analysis report as
// JSON once the status is completed.
type Report struct {
	ID            int64      `json:"id"`
	Status        string     `json:"status"`
	PayloadHash   string     `json:"payload_hash"`
	Payload       []byte     `json:"-"`
	WhitePlayer   string     `json:"white_player,omitempty"`
	BlackPlayer   string     `json:"black_player,omitempty"`
	PlyCount      int        `json:"ply_count"`
	Opening       string     `json:"opening,omitempty"`
	WhiteAccuracy float64    `json:"white_accuracy"`
	BlackAccuracy float64    `json:"black_accuracy"`
	WhiteACPL     int        `json:"white_acpl"`
	BlackACPL     int        `json:"black_acpl"`
	WhiteElo      *int       `json:"white_elo,omitempty"`
	BlackElo      *int       `json:"black_elo,omitempty"`
	Result        []byte     `json:"-"`
	Error         string     `json:"error,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

// ReportMove is one classified half-move of a completed report.
type ReportMove struct {
	ReportID       int64    `json:"report_id"`
	Ply            int      `json:"ply"`
	Side           string   `json:"side"`
	SAN            string   `json:"san"`
	UCI            string   `json:"uci"`
	FENBefore      string   `json:"fen_before"`
	FENAfter       string   `json:"fen_after"`
	WinBefore      float64  `json:"win_before"`
	WinAfter       float64  `json:"win_after"`
	Accuracy       float64  `json:"accuracy"`
	Classification string   `json:"classification"`
	Opening        string   `json:"opening,omitempty"`
	Tags           []string `json:"tags,omitempty"`
}

type ReportFilter struct {
	Status   string
	Opening  string
	Player   string // matches either side
	Limit    int
	Offset   int
	OrderBy  string
	OrderDir string
}

// MoveFilter narrows MovesForReport.
type MoveFilter struct {
	Side           string
	Classification string
}
