package indicators

import (
	"math"
	"time"

	"stock-tracker/internal/models"
)

// yearWindow is the trailing 52-week window: 365 calendar days ending at
// the latest observed date. The window is date-based, not row-count-based.
const yearWindow = 365 * 24 * time.Hour

// Window52W returns the sub-series inside the trailing 52-week window.
// The series must be sorted ascending and non-empty.
func Window52W(series models.PriceSeries) models.PriceSeries {
	cutoff := series.Latest().Date.Add(-yearWindow)
	return series.Since(cutoff)
}

// RangeHighLow computes the 52-week high (max of highs) and low (min of
// lows) over the trailing window.
func RangeHighLow(series models.PriceSeries) (high, low float64) {
	window := Window52W(series)
	high = window[0].High
	low = window[0].Low
	for _, p := range window[1:] {
		if p.High > high {
			high = p.High
		}
		if p.Low < low {
			low = p.Low
		}
	}
	return high, low
}

// DetectAnomaly scans the trailing 52-week window for the single largest
// day-over-day close change. If its absolute percentage exceeds threshold
// (a fraction, e.g. 0.15 for 15%) the anomaly is reported with the date and
// signed magnitude of that change. Ties on absolute magnitude resolve to
// the earliest date.
func DetectAnomaly(series models.PriceSeries, threshold float64) models.PriceAnomaly {
	window := Window52W(series)

	var result models.PriceAnomaly
	maxAbs := threshold * 100
	for i := 1; i < len(window); i++ {
		prev := window[i-1].Close
		if prev == 0 {
			continue
		}
		changePct := (window[i].Close - prev) / prev * 100
		if math.Abs(changePct) > maxAbs {
			maxAbs = math.Abs(changePct)
			result = models.PriceAnomaly{
				Detected:  true,
				Date:      window[i].Date,
				ChangePct: round2(changePct),
			}
		}
	}
	return result
}
