// Command report analyzes evaluated games stored as JSON files and prints a
// per-game summary.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"

	"github.com/vytor/chessreport/internal/analysis"
	"github.com/vytor/chessreport/internal/logger"
	"github.com/vytor/chessreport/internal/opening"
)

type Config struct {
	Concurrency int
	OutDir      string
	BookPath    string
	UseECO      bool
	LogLevel    string
}

func main() {
	var cfg Config
	flag.IntVar(&cfg.Concurrency, "concurrency", runtime.NumCPU(), "Number of games analyzed in parallel")
	flag.StringVar(&cfg.OutDir, "out", "", "Directory the full reports are written to")
	flag.StringVar(&cfg.BookPath, "book", "", "YAML opening book")
	flag.BoolVar(&cfg.UseECO, "eco", true, "Use the built-in ECO opening book")
	flag.StringVar(&cfg.LogLevel, "log-level", "WARN", "Log level")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] game.json...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	log := logger.New(logger.WithLevel(logger.ParseLevel(cfg.LogLevel)), logger.WithOutput(os.Stderr))
	logger.SetDefault(log)

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, flag.Args()); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg Config, paths []string) error {
	var opts []analysis.Option
	book, err := loadBook(cfg)
	if err != nil {
		return err
	}
	if book != nil {
		opts = append(opts, analysis.WithOpeningBook(book))
	}

	if cfg.OutDir != "" {
		if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
			return err
		}
	}

	results, err := analyzeFiles(ctx, paths, cfg.Concurrency, opts...)
	if err != nil {
		return err
	}
	if cfg.OutDir != "" {
		for _, res := range results {
			if err := writeReport(cfg.OutDir, res); err != nil {
				return err
			}
		}
	}
	return printSummary(os.Stdout, results)
}

func loadBook(cfg Config) (*opening.Book, error) {
	var books []*opening.Book
	if cfg.BookPath != "" {
		b, err := opening.LoadYAML(cfg.BookPath)
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	if cfg.UseECO {
		books = append(books, opening.NewECOBook())
	}
	if len(books) == 0 {
		return nil, nil
	}
	return opening.Merge(books...), nil
}
