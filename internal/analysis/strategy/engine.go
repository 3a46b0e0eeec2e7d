// Package strategy applies the buy-rule set to an indicator snapshot.
package strategy

import (
	"fmt"
	"math"

	"stock-tracker/internal/models"
)

// Evaluate applies the four buy rules to the latest indicator values and
// produces a recommendation with supporting evidence. Deterministic and
// side-effect-free: rule order is fixed, and given the same snapshot and
// thresholds the result is identical across runs.
func Evaluate(snap *models.IndicatorSnapshot, cfg models.StrategyConfig) *models.SignalResult {
	cfg = cfg.Normalized()

	pricePosition := pricePositionPct(snap.CurrentPrice, snap.High52W, snap.Low52W)

	var buySignals []string

	// Rule 1: oversold.
	if snap.RSI14 < cfg.RSIThreshold {
		buySignals = append(buySignals,
			fmt.Sprintf("RSI below %.0f, in oversold territory", cfg.RSIThreshold))
	}

	// Rule 2: pullback within an uptrend.
	if snap.CurrentPrice < snap.MA50 && snap.CurrentPrice > snap.MA200 {
		buySignals = append(buySignals,
			"price below the 50-day average but above the 200-day average, likely a technical pullback")
	}

	// Rule 3: lower part of the 52-week range.
	if pricePosition < cfg.PricePositionThreshold {
		buySignals = append(buySignals,
			fmt.Sprintf("price in the bottom %.0f%% of the 52-week range (%.2f%%)",
				cfg.PricePositionThreshold, pricePosition))
	}

	// Rule 4: golden-cross proximity.
	if snap.MA50 > snap.MA200 &&
		math.Abs(snap.CurrentPrice-snap.MA50)/snap.MA50 < cfg.MAProximityThreshold {
		buySignals = append(buySignals,
			"moving averages in a golden cross, with price near the 50-day average")
	}

	recommendation := models.Avoid
	switch {
	case len(buySignals) >= 2:
		recommendation = models.BuyCandidate
	case len(buySignals) == 1:
		recommendation = models.Watch
	}

	return &models.SignalResult{
		BuySignals:       buySignals,
		SignalCount:      len(buySignals),
		Recommendation:   recommendation,
		MarketPosition:   marketPosition(pricePosition),
		PricePositionPct: math.Round(pricePosition*100) / 100,
	}
}

// pricePositionPct places the current price inside the 52-week range as a
// percentage in [0,100]. A flat range (high == low) has no meaningful
// position; it is defined as the 50% midpoint rather than dividing by zero.
func pricePositionPct(current, high, low float64) float64 {
	if high == low {
		return 50
	}
	return (current - low) / (high - low) * 100
}

// marketPosition maps the price position onto five fixed ascending bands.
func marketPosition(pricePosition float64) models.MarketPosition {
	switch {
	case pricePosition < 20:
		return models.PositionNearLow
	case pricePosition < 40:
		return models.PositionLower
	case pricePosition < 60:
		return models.PositionMidRange
	case pricePosition < 80:
		return models.PositionUpper
	default:
		return models.PositionNearHigh
	}
}
