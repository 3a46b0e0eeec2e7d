package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"stock-tracker/internal/models"
	"stock-tracker/internal/pipeline"
	"stock-tracker/internal/provider"
	"stock-tracker/internal/store"
)

func newAnalyzeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [symbol...]",
		Short: "Analyze symbols and print buy-signal recommendations",
		Long: `Fetch daily price history (through the expiring cache), compute
technical indicators and evaluate the buy-rule set for each symbol. Without
arguments the configured symbol list is analyzed.`,
		Example: `  tracker analyze
  tracker analyze TSLA
  tracker analyze TSLA AAPL --cache-expiry 8
  tracker analyze NVDA --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			selected := app.Config.Symbols
			if flagged, _ := cmd.Flags().GetStringSlice("symbols"); len(flagged) > 0 {
				selected = flagged
			}
			if len(args) > 0 {
				selected = args
			}
			symbols := make([]string, len(selected))
			for i, s := range selected {
				symbols[i] = strings.ToUpper(s)
			}

			if expiry, _ := cmd.Flags().GetInt("cache-expiry"); cmd.Flags().Changed("cache-expiry") {
				app.Config.Cache.ExpiryHours = expiry
			}

			fetcher := provider.New(provider.Options{
				APIKey:     app.Config.APIKey,
				MaxRetries: app.Config.Fetch.MaxRetries,
				RetryDelay: time.Duration(app.Config.Fetch.RetryDelay) * time.Second,
				Logger:     app.Logger,
			})

			var cache store.Cache
			if sqliteCache, err := store.NewSQLiteCache(app.Config.Cache.Path); err != nil {
				app.Logger.Warn().Err(err).Msg("cache unavailable, fetching live")
			} else {
				cache = sqliteCache
				defer sqliteCache.Close()
			}

			runner := pipeline.NewRunner(fetcher, cache, app.Config, app.Logger)
			summary := runner.Run(context.Background(), symbols)

			if output.IsJSON() {
				if err := output.JSON(summary); err != nil {
					return err
				}
			} else {
				renderSummary(output, summary)
			}

			if summary.Status == models.RunFailure {
				return fmt.Errorf("all %d symbols failed", summary.ErrorCount)
			}
			return nil
		},
	}

	cmd.Flags().StringSlice("symbols", nil, "symbols to analyze (overrides the configured list)")
	cmd.Flags().Int("cache-expiry", 0, "cache expiry override in hours")
	return cmd
}

func renderSummary(output *Output, summary *models.RunSummary) {
	for _, report := range summary.Reports {
		output.Bold("%s (%s)", report.Symbol, report.DisplayName)
		if report.Failed() {
			output.Error("  failed: %s", report.Err)
			output.Println()
			continue
		}

		snap := report.Snapshot
		sig := report.Signal

		output.Printf("  Date:        %s\n", snap.AsOfDate.Format("2006-01-02"))
		output.Printf("  Price:       %.2f  (52w %.2f - %.2f, position %.2f%%)\n",
			snap.CurrentPrice, snap.Low52W, snap.High52W, sig.PricePositionPct)
		output.Printf("  MA50/MA200:  %.2f / %.2f\n", snap.MA50, snap.MA200)
		output.Printf("  RSI(14):     %.2f\n", snap.RSI14)
		output.Printf("  MACD:        %.2f (signal %.2f, hist %.2f)\n",
			snap.MACD, snap.MACDSignal, snap.MACDHist)
		output.Printf("  Bollinger:   %.2f / %.2f\n", snap.BollingerLower, snap.BollingerUpper)
		if snap.PERatio != 0 {
			output.Printf("  P/E:         %.2f\n", snap.PERatio)
		}
		if snap.Anomaly.Detected {
			output.Warning("  Anomaly:     %.2f%% on %s",
				snap.Anomaly.ChangePct, snap.Anomaly.Date.Format("2006-01-02"))
		}

		for _, reason := range sig.BuySignals {
			output.Printf("  + %s\n", reason)
		}

		switch sig.Recommendation {
		case models.BuyCandidate:
			output.Success("  => %s (%d signals, %s)", sig.Recommendation, sig.SignalCount, sig.MarketPosition)
		case models.Watch:
			output.Warning("  => %s (%d signal, %s)", sig.Recommendation, sig.SignalCount, sig.MarketPosition)
		default:
			output.Dim("  => %s (%s)", sig.Recommendation, sig.MarketPosition)
		}
		output.Println()
	}

	output.Printf("Done: %d succeeded, %d failed (%s)\n",
		summary.SuccessCount, summary.ErrorCount, summary.Status)
}
