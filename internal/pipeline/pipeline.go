// Package pipeline orchestrates the per-symbol analysis run: read-through
// cache, fetch, indicator computation and signal decision.
package pipeline

import (
	"context"

	"github.com/rs/zerolog"

	"stock-tracker/internal/analysis/indicators"
	"stock-tracker/internal/analysis/strategy"
	"stock-tracker/internal/config"
	"stock-tracker/internal/errors"
	"stock-tracker/internal/logging"
	"stock-tracker/internal/models"
	"stock-tracker/internal/store"
)

// Fetcher retrieves fetch+normalize results from the upstream provider.
type Fetcher interface {
	Fetch(ctx context.Context, symbol string) (*models.MarketData, error)
}

// Runner executes the analysis pipeline for a list of symbols, one at a
// time. Each symbol is isolated: a failure is recorded in the run summary
// and never aborts the remaining symbols.
type Runner struct {
	fetcher Fetcher
	cache   store.Cache
	cfg     *config.Config
	logger  zerolog.Logger
}

// NewRunner creates a pipeline runner. The cache may be nil, in which case
// every symbol triggers a live fetch.
func NewRunner(fetcher Fetcher, cache store.Cache, cfg *config.Config, logger zerolog.Logger) *Runner {
	return &Runner{
		fetcher: fetcher,
		cache:   cache,
		cfg:     cfg,
		logger:  logger,
	}
}

// getOrFetch is the read-through cache: a fresh cache entry short-circuits
// the upstream fetch; any cache read problem is logged and treated as a
// miss, and a failed cache write never fails the fetch.
func (r *Runner) getOrFetch(ctx context.Context, symbol string) (*models.MarketData, error) {
	logger := logging.WithSymbol(r.logger, symbol)

	if r.cache != nil {
		data, err := r.cache.Get(ctx, symbol, r.cfg.Cache.TTL())
		if err == nil {
			logger.Info().Msg("using cached market data")
			return data, nil
		}
		if !errors.Is(err, errors.ErrCacheMiss) {
			logger.Warn().Err(err).Msg("cache read failed, fetching live")
		}
	}

	data, err := r.fetcher.Fetch(ctx, symbol)
	if err != nil {
		return nil, err
	}

	if r.cache != nil {
		if err := r.cache.Put(ctx, data); err != nil {
			logger.Warn().Err(err).Msg("cache write failed, continuing with live data")
		}
	}
	return data, nil
}

// AnalyzeSymbol runs the full pipeline for one symbol.
func (r *Runner) AnalyzeSymbol(ctx context.Context, symbol string) (*models.SymbolReport, error) {
	logger := logging.WithSymbol(r.logger, symbol)
	logger.Info().Msg("starting analysis")

	data, err := r.getOrFetch(ctx, symbol)
	if err != nil {
		return nil, err
	}

	snapshot, err := indicators.Compute(data, r.cfg.Strategy.AnomalyThreshold)
	if err != nil {
		return nil, errors.NewDataError(symbol, "computing indicators", err)
	}

	signal := strategy.Evaluate(snapshot, r.cfg.Strategy)
	logger.Info().
		Str("recommendation", string(signal.Recommendation)).
		Int("signal_count", signal.SignalCount).
		Msg("analysis complete")

	return &models.SymbolReport{
		Symbol:      symbol,
		DisplayName: r.cfg.DisplayName(symbol),
		Snapshot:    snapshot,
		Signal:      signal,
	}, nil
}

// Run processes the symbols sequentially and aggregates the per-symbol
// outcomes into a run summary.
func (r *Runner) Run(ctx context.Context, symbols []string) *models.RunSummary {
	summary := &models.RunSummary{}

	for _, symbol := range symbols {
		report, err := r.AnalyzeSymbol(ctx, symbol)
		if err != nil {
			symbolLogger := logging.WithSymbol(r.logger, symbol)
			symbolLogger.Error().Err(err).Msg("analysis failed")
			report = &models.SymbolReport{
				Symbol:      symbol,
				DisplayName: r.cfg.DisplayName(symbol),
				Err:         err.Error(),
			}
		}
		summary.Reports = append(summary.Reports, report)
	}

	for _, report := range summary.Reports {
		if report.Failed() {
			summary.ErrorCount++
		} else {
			summary.SuccessCount++
		}
	}

	switch {
	case summary.ErrorCount == 0:
		summary.Status = models.RunSuccess
	case summary.SuccessCount > 0:
		summary.Status = models.RunPartialSuccess
	default:
		summary.Status = models.RunFailure
	}

	r.logger.Info().
		Int("success", summary.SuccessCount).
		Int("errors", summary.ErrorCount).
		Str("status", string(summary.Status)).
		Msg("run complete")

	return summary
}
