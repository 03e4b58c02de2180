package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"golang.org/x/sync/errgroup"

	"github.com/vytor/chessreport/internal/analysis"
	"github.com/vytor/chessreport/internal/logger"
	"github.com/vytor/chessreport/internal/services"
)

type fileResult struct {
	Path   string
	Game   services.AnalyzeRequest
	Report analysis.Report
}

// analyzeFiles analyzes every file with at most concurrency games in flight.
// Results keep the order of paths. The first failing file cancels the rest.
func analyzeFiles(ctx context.Context, paths []string, concurrency int, opts ...analysis.Option) ([]fileResult, error) {
	results := make([]fileResult, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(concurrency, 1))

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			game, err := readGame(path)
			if err != nil {
				return err
			}
			logger.Default().WithField("file", path).Debug("analyzing %d plies", len(game.Moves))
			results[i] = fileResult{Path: path, Game: game, Report: analysis.Analyze(game.Game, opts...)}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func readGame(path string) (services.AnalyzeRequest, error) {
	var game services.AnalyzeRequest
	f, err := os.Open(path)
	if err != nil {
		return game, err
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(&game); err != nil {
		return game, fmt.Errorf("%s: %w", path, err)
	}
	if len(game.Positions) != len(game.Moves)+1 {
		return game, fmt.Errorf("%s: expected %d positions for %d moves, got %d",
			path, len(game.Moves)+1, len(game.Moves), len(game.Positions))
	}
	return game.WithPGNHeaders().WithPlies(), nil
}

func writeReport(dir string, res fileResult) error {
	name := strings.TrimSuffix(filepath.Base(res.Path), filepath.Ext(res.Path)) + ".report.json"
	data, err := json.MarshalIndent(res.Report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, name), data, 0o644)
}

func printSummary(w io.Writer, results []fileResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "GAME\tSIDE\tPLAYER\tACCURACY\tACPL\tELO\tBEST\tINACC\tMISTAKE\tBLUNDER\tOPENING")
	for _, res := range results {
		counts := res.Report.Counts()
		for _, side := range []analysis.Side{analysis.White, analysis.Black} {
			c := counts.For(side)
			fmt.Fprintf(tw, "%s\t%s\t%s\t%.1f\t%d\t%s\t%d\t%d\t%d\t%d\t%s\n",
				filepath.Base(res.Path),
				side,
				playerName(res.Game, side),
				res.Report.Accuracy.For(side).Itera,
				res.Report.ACPL.For(side),
				formatElo(res.Report.EstimatedElo, side),
				c[analysis.Best]+c[analysis.Perfect]+c[analysis.Splendid],
				c[analysis.Inaccuracy],
				c[analysis.Mistake],
				c[analysis.Blunder],
				res.Report.Opening,
			)
		}
	}
	return tw.Flush()
}

func playerName(game services.AnalyzeRequest, side analysis.Side) string {
	name := game.WhitePlayer
	if side == analysis.Black {
		name = game.BlackPlayer
	}
	if name == "" {
		return "-"
	}
	return name
}

func formatElo(e analysis.EstimatedElo, side analysis.Side) string {
	v := e.White
	if side == analysis.Black {
		v = e.Black
	}
	if v == nil {
		return "-"
	}
	return fmt.Sprint(*v)
}
