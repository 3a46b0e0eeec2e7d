package indicators

import (
	"fmt"

	"stock-tracker/internal/models"
)

// BollingerBands calculates Bollinger Bands: a simple moving average plus
// and minus a multiple of the trailing sample standard deviation.
type BollingerBands struct {
	period    int
	stdDevMul float64
}

// NewBollingerBands creates a new Bollinger Bands indicator.
func NewBollingerBands(period int, stdDevMul float64) *BollingerBands {
	return &BollingerBands{
		period:    period,
		stdDevMul: stdDevMul,
	}
}

func (b *BollingerBands) Name() string {
	return fmt.Sprintf("BollingerBands_%d_%.1f", b.period, b.stdDevMul)
}

func (b *BollingerBands) Period() int {
	return b.period
}

// Calculate returns the "upper", "middle" and "lower" bands; the first
// period-1 values of each are NaN.
func (b *BollingerBands) Calculate(series models.PriceSeries) (map[string][]float64, error) {
	if b.period <= 0 || b.stdDevMul <= 0 {
		return nil, ErrInvalidPeriod
	}
	if len(series) < b.period {
		return nil, ErrInsufficientData
	}

	n := len(series)
	closes := series.Closes()

	middle := nanSlice(n)
	upper := nanSlice(n)
	lower := nanSlice(n)

	for i := b.period - 1; i < n; i++ {
		window := closes[i-b.period+1 : i+1]
		sma := mean(window)
		sd := sampleStdDev(window)

		middle[i] = sma
		upper[i] = sma + b.stdDevMul*sd
		lower[i] = sma - b.stdDevMul*sd
	}

	return map[string][]float64{
		"upper":  upper,
		"middle": middle,
		"lower":  lower,
	}, nil
}
