// Command carstudy runs the analyst-recommendation event study: it builds
// the adjusted-close price panel, derives market-adjusted abnormal returns,
// detects upgrade/downgrade events, and writes the per-event cumulative
// abnormal returns plus a mean-CAR summary by event type.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"carstudy/internal/config"
	"carstudy/internal/exporter"
	"carstudy/internal/infrastructure"
	"carstudy/internal/pipeline"
)

func main() {
	configPath := flag.String("config", "carstudy.yaml", "path to the YAML config file (optional)")
	dataDir := flag.String("data", "", "directory containing <tic>_prc.dat and <tic>_rec.csv files")
	tickersFile := flag.String("tickers", "", "path to the ticker list file")
	marketFile := flag.String("market", "", "path to the market-factor CSV")
	outDir := flag.String("out", "", "output directory for result files")
	window := flag.Int("window", -1, "event-window half-width in calendar days")
	topFirms := flag.Int("top-firms", -1, "number of most-active firms retained per ticker")
	skipBad := flag.Bool("skip-bad-tickers", false, "skip tickers with missing or malformed files instead of failing")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Flags override config and environment.
	if *dataDir != "" {
		cfg.Data.Dir = *dataDir
	}
	if *tickersFile != "" {
		cfg.Data.TickersFile = *tickersFile
	}
	if *marketFile != "" {
		cfg.Data.MarketFile = *marketFile
	}
	if *outDir != "" {
		cfg.Output.Dir = *outDir
	}
	if *window >= 0 {
		cfg.Study.Window = *window
	}
	if *topFirms > 0 {
		cfg.Study.TopFirms = *topFirms
	}
	if *skipBad {
		cfg.Study.SkipBadTickers = true
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("failed to initialize logger", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := pipeline.New(cfg, logger).Run(ctx)
	if err != nil {
		logger.Error("event study failed", "error", err)
		os.Exit(1)
	}

	writer := exporter.New(cfg.Output.Dir, logger)
	if _, err := writer.WriteCARCSV(result.CARs, cfg.Output.CARFile); err != nil {
		logger.Error("failed to write CAR table", "error", err)
		os.Exit(1)
	}
	if _, err := writer.WriteSummaryCSV(result.Summary, cfg.Output.SummaryFile); err != nil {
		logger.Error("failed to write summary", "error", err)
		os.Exit(1)
	}
	if _, err := writer.WriteWorkbook(result.CARs, result.Summary, cfg.Output.WorkbookFile); err != nil {
		logger.Error("failed to write workbook", "error", err)
		os.Exit(1)
	}

	for _, s := range result.Summary {
		logger.Info("mean CAR",
			slog.String("event_type", string(s.Type)),
			slog.Int("events", s.Events),
			slog.Float64("mean_car", s.MeanCAR))
	}
	if len(result.Skipped) > 0 {
		logger.Warn("tickers skipped", "tickers", result.Skipped)
	}
}
