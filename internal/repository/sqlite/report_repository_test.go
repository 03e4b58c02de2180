package sqlite_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/chessreport/internal/models"
	"github.com/vytor/chessreport/internal/repository"
	"github.com/vytor/chessreport/internal/repository/sqlite"
	"github.com/vytor/chessreport/internal/testutil"
)

type ReportRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.ReportRepository
}

func TestReportRepositorySuite(t *testing.T) {
	suite.Run(t, new(ReportRepositorySuite))
}

func (s *ReportRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewReportRepository(s.db)
}

func (s *ReportRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *ReportRepositorySuite) create(hash, white, black string) int64 {
	id, err := s.repo.Create(context.Background(), models.Report{
		PayloadHash: hash,
		Payload:     []byte(`{"positions":[]}`),
		WhitePlayer: white,
		BlackPlayer: black,
		PlyCount:    3,
	})
	s.Require().NoError(err)
	return id
}

func (s *ReportRepositorySuite) complete(id int64, opening string, moves []models.ReportMove) {
	elo := 1650
	err := s.repo.SaveResult(context.Background(), models.Report{
		ID:            id,
		PlyCount:      len(moves),
		Opening:       opening,
		WhiteAccuracy: 91.5,
		BlackAccuracy: 64.25,
		WhiteACPL:     18,
		BlackACPL:     77,
		WhiteElo:      &elo,
		Result:        []byte(`{"moves":[]}`),
	}, moves)
	s.Require().NoError(err)
}

func sampleMoves() []models.ReportMove {
	return []models.ReportMove{
		{Ply: 1, Side: "white", SAN: "e4", UCI: "e2e4", WinBefore: 52.7, WinAfter: 52.7, Accuracy: 100, Classification: "opening", Opening: "King's Pawn Game", Tags: []string{"book"}},
		{Ply: 2, Side: "black", SAN: "e5", UCI: "e7e5", WinBefore: 52.7, WinAfter: 51.8, Accuracy: 100, Classification: "best", Tags: []string{"best"}},
		{Ply: 3, Side: "white", SAN: "Qh5", UCI: "d1h5", WinBefore: 51.8, WinAfter: 3.5, Accuracy: 10.4, Classification: "blunder"},
	}
}

func (s *ReportRepositorySuite) TestCreateAndGet() {
	id := s.create("abc", "alice", "bob")
	s.Assert().Greater(id, int64(0))

	r, err := s.repo.Get(context.Background(), id)
	s.Require().NoError(err)
	s.Assert().Equal(models.ReportStatusPending, r.Status)
	s.Assert().Equal("abc", r.PayloadHash)
	s.Assert().Equal("alice", r.WhitePlayer)
	s.Assert().JSONEq(`{"positions":[]}`, string(r.Payload))
	s.Assert().Nil(r.Result)
	s.Assert().Nil(r.WhiteElo)
	s.Assert().Nil(r.CompletedAt)
	s.Assert().False(r.CreatedAt.IsZero())
}

func (s *ReportRepositorySuite) TestGet_NotFound() {
	r, err := s.repo.Get(context.Background(), 99999)
	s.Assert().ErrorIs(err, sql.ErrNoRows)
	s.Assert().Nil(r)
}

func (s *ReportRepositorySuite) TestSaveResult() {
	ctx := context.Background()
	id := s.create("abc", "alice", "bob")

	s.complete(id, "King's Pawn Game", sampleMoves())

	r, err := s.repo.Get(ctx, id)
	s.Require().NoError(err)
	s.Assert().Equal(models.ReportStatusCompleted, r.Status)
	s.Assert().Equal("King's Pawn Game", r.Opening)
	s.Assert().Equal(91.5, r.WhiteAccuracy)
	s.Assert().Equal(77, r.BlackACPL)
	s.Require().NotNil(r.WhiteElo)
	s.Assert().Equal(1650, *r.WhiteElo)
	s.Assert().Nil(r.BlackElo)
	s.Assert().NotNil(r.CompletedAt)

	moves, err := s.repo.MovesForReport(ctx, id, models.MoveFilter{})
	s.Require().NoError(err)
	s.Require().Len(moves, 3)
	s.Assert().Equal("e4", moves[0].SAN)
	s.Assert().Equal([]string{"book"}, moves[0].Tags)
	s.Assert().Nil(moves[2].Tags)
}

func (s *ReportRepositorySuite) TestSaveResult_ReplacesMoves() {
	ctx := context.Background()
	id := s.create("abc", "", "")

	s.complete(id, "", sampleMoves())
	s.complete(id, "", sampleMoves()[:1])

	moves, err := s.repo.MovesForReport(ctx, id, models.MoveFilter{})
	s.Require().NoError(err)
	s.Assert().Len(moves, 1)
}

func (s *ReportRepositorySuite) TestSaveResult_UnknownReport() {
	err := s.repo.SaveResult(context.Background(), models.Report{ID: 4242}, sampleMoves())
	s.Assert().ErrorIs(err, sql.ErrNoRows)

	var count int
	s.Require().NoError(s.db.QueryRow(`SELECT COUNT(*) FROM report_moves`).Scan(&count))
	s.Assert().Zero(count)
}

func (s *ReportRepositorySuite) TestMovesForReport_Filter() {
	ctx := context.Background()
	id := s.create("abc", "", "")
	s.complete(id, "", sampleMoves())

	white, err := s.repo.MovesForReport(ctx, id, models.MoveFilter{Side: "white"})
	s.Require().NoError(err)
	s.Assert().Len(white, 2)

	blunders, err := s.repo.MovesForReport(ctx, id, models.MoveFilter{Classification: "blunder"})
	s.Require().NoError(err)
	s.Require().Len(blunders, 1)
	s.Assert().Equal("d1h5", blunders[0].UCI)
}

func (s *ReportRepositorySuite) TestListAndCount() {
	ctx := context.Background()
	a := s.create("a", "alice", "bob")
	s.create("b", "carol", "alice")
	c := s.create("c", "dave", "erin")
	s.complete(a, "Sicilian Defense: Najdorf", sampleMoves())
	s.complete(c, "French Defense", sampleMoves())

	tests := []struct {
		name     string
		filter   models.ReportFilter
		expected int
	}{
		{name: "all", filter: models.ReportFilter{}, expected: 3},
		{name: "by status", filter: models.ReportFilter{Status: models.ReportStatusCompleted}, expected: 2},
		{name: "by player on either side", filter: models.ReportFilter{Player: "alice"}, expected: 2},
		{name: "by opening substring", filter: models.ReportFilter{Opening: "Sicilian"}, expected: 1},
		{name: "no match", filter: models.ReportFilter{Player: "zed"}, expected: 0},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			list, err := s.repo.List(ctx, tt.filter)
			s.Require().NoError(err)
			s.Assert().Len(list, tt.expected)

			count, err := s.repo.Count(ctx, tt.filter)
			s.Require().NoError(err)
			s.Assert().Equal(tt.expected, count)
		})
	}

	page, err := s.repo.List(ctx, models.ReportFilter{Limit: 1, Offset: 1, OrderDir: "ASC"})
	s.Require().NoError(err)
	s.Require().Len(page, 1)
	s.Assert().Equal("b", page[0].PayloadHash)
}

func (s *ReportRepositorySuite) TestFindCompletedByHash() {
	ctx := context.Background()
	pending := s.create("same", "", "")

	_, err := s.repo.FindCompletedByHash(ctx, "same")
	s.Assert().ErrorIs(err, sql.ErrNoRows)

	s.complete(pending, "", sampleMoves())

	r, err := s.repo.FindCompletedByHash(ctx, "same")
	s.Require().NoError(err)
	s.Assert().Equal(pending, r.ID)
}

func (s *ReportRepositorySuite) TestStatusLifecycle() {
	ctx := context.Background()
	a := s.create("a", "", "")
	b := s.create("b", "", "")

	s.Require().NoError(s.repo.UpdateStatus(ctx, a, models.ReportStatusProcessing, ""))
	s.Require().NoError(s.repo.UpdateStatus(ctx, b, models.ReportStatusFailed, "boom"))
	s.Assert().ErrorIs(s.repo.UpdateStatus(ctx, 999, models.ReportStatusFailed, ""), sql.ErrNoRows)

	failed, err := s.repo.Get(ctx, b)
	s.Require().NoError(err)
	s.Assert().Equal("boom", failed.Error)

	n, err := s.repo.ResetProcessingToPending(ctx)
	s.Require().NoError(err)
	s.Assert().Equal(int64(1), n)

	ids, err := s.repo.PendingIDs(ctx)
	s.Require().NoError(err)
	s.Assert().Equal([]int64{a}, ids)
}
