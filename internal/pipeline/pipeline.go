// Package pipeline orchestrates the event study end to end: price panel,
// abnormal returns, event detection, window expansion, and CAR aggregation,
// fanned out across tickers.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"carstudy/internal/config"
	"carstudy/internal/fixedwidth"
	"carstudy/internal/marketdata"
	"carstudy/internal/returns"
	"carstudy/internal/study"
)

// Runner executes the study described by its configuration. Runners hold no
// cross-run state; Run is a pure function of the configuration and the
// source files.
type Runner struct {
	cfg    *config.Config
	logger *slog.Logger
}

// Result is the study output: the concatenated CAR table in ticker-list
// order and the mean-CAR summary by event type.
type Result struct {
	Tickers []string
	CARs    []study.CAR
	Summary []study.TypeSummary
	Skipped []string // tickers excluded under SkipBadTickers
}

// New creates a runner. A nil logger falls back to slog.Default().
func New(cfg *config.Config, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{cfg: cfg, logger: logger}
}

// Run executes the whole study. Per-ticker work runs concurrently with no
// shared mutable state; results land in a position-indexed slice so the
// merged CAR table preserves ticker-list order regardless of completion
// order. A per-ticker failure aborts the run unless SkipBadTickers is set,
// in which case the ticker is logged and excluded.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	logger := r.logger.With(slog.String("run_id", uuid.NewString()))

	layout, err := r.cfg.Layout()
	if err != nil {
		return nil, fmt.Errorf("price layout: %w", err)
	}

	tickers, err := marketdata.ReadTickers(r.cfg.Data.TickersFile)
	if err != nil {
		return nil, err
	}
	if len(tickers) == 0 {
		return nil, fmt.Errorf("ticker list %s is empty", r.cfg.Data.TickersFile)
	}

	logger.InfoContext(ctx, "starting event study",
		slog.Int("tickers", len(tickers)),
		slog.Int("window", r.cfg.Study.Window),
		slog.Int("top_firms", r.cfg.Study.TopFirms))

	market, err := marketdata.ReadMarketFactors(r.cfg.Data.MarketFile)
	if err != nil {
		return nil, err
	}

	panel, skippedPrices, err := r.buildPanel(ctx, tickers, layout, logger)
	if err != nil {
		return nil, err
	}

	skipped := make(map[string]bool)
	for _, tic := range skippedPrices {
		skipped[tic] = true
	}

	carsByTicker := make([][]study.CAR, len(tickers))
	skippedRun := make([]bool, len(tickers))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Study.MaxConcurrency)

	for i, tic := range tickers {
		if skipped[tic] {
			continue
		}
		g.Go(func() error {
			cars, err := r.runTicker(gctx, tic, panel, market, logger)
			if err != nil {
				if r.cfg.Study.SkipBadTickers && isTickerFatal(err) {
					logger.WarnContext(gctx, "skipping ticker",
						slog.String("ticker", tic),
						slog.String("error", err.Error()))
					skippedRun[i] = true
					return nil
				}
				return err
			}
			carsByTicker[i] = cars
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for i, tic := range tickers {
		if skippedRun[i] {
			skipped[tic] = true
		}
	}

	// Deterministic sequential merge in ticker-list order.
	var all []study.CAR
	for _, cars := range carsByTicker {
		all = append(all, cars...)
	}

	result := &Result{
		Tickers: tickers,
		CARs:    all,
		Summary: study.SummarizeByType(all),
	}
	for _, tic := range tickers {
		if skipped[tic] {
			result.Skipped = append(result.Skipped, tic)
		}
	}

	logger.InfoContext(ctx, "event study completed",
		slog.Int("car_rows", len(all)),
		slog.Int("skipped_tickers", len(result.Skipped)),
		slog.Duration("elapsed", time.Since(start)))

	return result, nil
}

// buildPanel reads every ticker's price file concurrently and assembles the
// adjusted-close panel. Under SkipBadTickers, tickers whose price file is
// missing or malformed are reported back instead of failing the run.
func (r *Runner) buildPanel(ctx context.Context, tickers []string, layout fixedwidth.Layout, logger *slog.Logger) (*marketdata.Panel, []string, error) {
	recordsByTicker := make([][]marketdata.PriceRecord, len(tickers))
	failed := make([]bool, len(tickers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Study.MaxConcurrency)

	for i, tic := range tickers {
		g.Go(func() error {
			records, err := marketdata.ReadPriceFile(r.cfg.PricePath(tic), tic, layout)
			if err != nil {
				if r.cfg.Study.SkipBadTickers && isTickerFatal(err) {
					logger.WarnContext(gctx, "skipping ticker: price file unusable",
						slog.String("ticker", tic),
						slog.String("error", err.Error()))
					failed[i] = true
					return nil
				}
				return err
			}
			recordsByTicker[i] = records
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	records := make(map[string][]marketdata.PriceRecord, len(tickers))
	var kept, skipped []string
	for i, tic := range tickers {
		if failed[i] {
			skipped = append(skipped, tic)
			continue
		}
		records[tic] = recordsByTicker[i]
		kept = append(kept, tic)
	}

	panel := marketdata.BuildPanel(kept, records)
	logger.InfoContext(ctx, "price panel assembled",
		slog.Int("tickers", len(kept)),
		slog.Int("dates", len(panel.Dates())))

	return panel, skipped, nil
}

// runTicker computes one ticker's CAR rows: abnormal returns from the
// panel, events from the recommendation file, window expansion, and the
// trading-day join.
func (r *Runner) runTicker(ctx context.Context, tic string, panel *marketdata.Panel, market marketdata.MarketFactors, logger *slog.Logger) ([]study.CAR, error) {
	aret := returns.Abnormal(returns.Simple(panel, tic), market)

	recs, err := marketdata.ReadRecommendations(r.cfg.RecPath(tic), tic)
	if err != nil {
		return nil, err
	}

	events := study.DetectEvents(recs, r.cfg.Study.TopFirms)
	rows := study.ExpandWindows(events, r.cfg.Study.Window)
	cars := study.AggregateCAR(tic, rows, aret)

	logger.DebugContext(ctx, "ticker processed",
		slog.String("ticker", tic),
		slog.Int("recommendations", len(recs)),
		slog.Int("events", len(events)),
		slog.Int("abnormal_return_days", aret.Len()),
		slog.Int("car_rows", len(cars)))

	return cars, nil
}

// isTickerFatal reports whether an error is confined to one ticker's source
// files (missing file or undecodable line) and therefore skippable, as
// opposed to a run-wide failure.
func isTickerFatal(err error) bool {
	var missing *marketdata.MissingFileError
	var parse *fixedwidth.ParseError
	var decode *marketdata.DecodeError
	return errors.As(err, &missing) || errors.As(err, &parse) || errors.As(err, &decode)
}
