// Package models provides domain models for the stock analysis pipeline.
package models

import (
	"fmt"
	"sort"
	"time"
)

// PricePoint represents one daily OHLCV bar. The Date carries no time
// component; it is normalized to midnight UTC.
type PricePoint struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// PriceSeries is an ordered sequence of daily bars, strictly increasing by
// date with no duplicates. It is owned by the pipeline run that created it
// and never mutated in place; derived data lives in indicator result slices.
type PriceSeries []PricePoint

// SortByDate returns a copy of the series sorted ascending by date.
// Sorting an already-sorted series leaves the ordering unchanged.
func (s PriceSeries) SortByDate() PriceSeries {
	out := make(PriceSeries, len(s))
	copy(out, s)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// Validate checks the series invariants: strictly ascending dates and
// non-negative volume.
func (s PriceSeries) Validate() error {
	for i := range s {
		if s[i].Volume < 0 {
			return fmt.Errorf("negative volume at %s", s[i].Date.Format("2006-01-02"))
		}
		if i == 0 {
			continue
		}
		if !s[i-1].Date.Before(s[i].Date) {
			return fmt.Errorf("series not strictly ascending at %s", s[i].Date.Format("2006-01-02"))
		}
	}
	return nil
}

// Closes extracts the close prices.
func (s PriceSeries) Closes() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Close
	}
	return out
}

// Latest returns the most recent bar. The series must be non-empty.
func (s PriceSeries) Latest() PricePoint {
	return s[len(s)-1]
}

// Since returns the suffix of the series with Date >= cutoff. The series
// must already be sorted ascending.
func (s PriceSeries) Since(cutoff time.Time) PriceSeries {
	idx := sort.Search(len(s), func(i int) bool {
		return !s[i].Date.Before(cutoff)
	})
	return s[idx:]
}

// MarketData is the fetch+normalize result for one symbol: the full daily
// series plus the price/earnings figure from the company overview. This is
// the unit the expiring cache stores.
type MarketData struct {
	Symbol    string      `json:"symbol"`
	Series    PriceSeries `json:"series"`
	PERatio   float64     `json:"pe_ratio"`
	FetchedAt time.Time   `json:"fetched_at"`
}
