package analysis_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/chessreport/internal/analysis"
)

func TestPerformanceElo(t *testing.T) {
	tests := []struct {
		name     string
		acpl     float64
		rating   *int
		expected float64
	}{
		{name: "perfect game without rating", acpl: 0, expected: 3100},
		{name: "acpl only", acpl: 50, expected: 1880.2450},
		{name: "worse than expected pulls rating down", acpl: 460, rating: cp(1500), expected: 216.1968},
		{name: "better than expected pulls rating up", acpl: 0, rating: cp(1500), expected: 2156.3859},
		{name: "rating above ceiling", acpl: 30, rating: cp(3300), expected: 3300 * 0.8607080},
		{name: "non positive rating is ignored", acpl: 50, rating: cp(0), expected: 1880.2450},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, analysis.PerformanceElo(tt.acpl, tt.rating), 1e-2)
		})
	}
}

func TestEstimateElo(t *testing.T) {
	movers := alternating(4)

	t.Run("own rating anchors each side", func(t *testing.T) {
		elo := analysis.EstimateElo(
			analysis.ACPLSummary{White: 0, Black: 50},
			5,
			analysis.Ratings{White: cp(1800), Black: cp(1500)},
			movers,
		)

		require.NotNil(t, elo.White)
		require.NotNil(t, elo.Black)
		assert.Equal(t, 2362, *elo.White)
		assert.Equal(t, 1679, *elo.Black)
	})

	t.Run("falls back to opponent rating", func(t *testing.T) {
		elo := analysis.EstimateElo(analysis.ACPLSummary{White: 50, Black: 0}, 5, analysis.Ratings{Black: cp(1500)}, movers)

		require.NotNil(t, elo.White)
		assert.Equal(t, 1679, *elo.White)
	})

	t.Run("fewer than two positions", func(t *testing.T) {
		assert.Equal(t, analysis.EstimatedElo{}, analysis.EstimateElo(analysis.ACPLSummary{}, 1, analysis.Ratings{}, nil))
		assert.Equal(t, analysis.EstimatedElo{}, analysis.EstimateElo(analysis.ACPLSummary{}, 0, analysis.Ratings{}, nil))
	})

	t.Run("side without moves is omitted", func(t *testing.T) {
		elo := analysis.EstimateElo(analysis.ACPLSummary{}, 2, analysis.Ratings{}, []analysis.Side{analysis.White})

		require.NotNil(t, elo.White)
		assert.Equal(t, 3100, *elo.White)
		assert.Nil(t, elo.Black)
	})
}
