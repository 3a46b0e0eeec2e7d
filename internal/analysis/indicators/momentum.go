package indicators

import (
	"fmt"

	"stock-tracker/internal/models"
)

// RSI calculates the Relative Strength Index using a trailing simple
// average of gains and losses over the window.
type RSI struct {
	period int
}

// NewRSI creates a new RSI indicator.
func NewRSI(period int) *RSI {
	return &RSI{period: period}
}

func (r *RSI) Name() string {
	return fmt.Sprintf("RSI_%d", r.period)
}

func (r *RSI) Period() int {
	return r.period
}

// Calculate returns one value per bar; the first period values are NaN.
// When the average loss over the window is zero (a pure uptrend) RSI is
// defined as exactly 100.
func (r *RSI) Calculate(series models.PriceSeries) ([]float64, error) {
	if r.period <= 0 {
		return nil, ErrInvalidPeriod
	}
	if len(series) < r.period+1 {
		return nil, ErrInsufficientData
	}

	n := len(series)
	closes := series.Closes()
	result := nanSlice(n)

	gains := make([]float64, n)
	losses := make([]float64, n)
	for i := 1; i < n; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains[i] = change
		} else {
			losses[i] = -change
		}
	}

	for i := r.period; i < n; i++ {
		avgGain := mean(gains[i-r.period+1 : i+1])
		avgLoss := mean(losses[i-r.period+1 : i+1])

		if avgLoss == 0 {
			result[i] = 100
		} else {
			rs := avgGain / avgLoss
			result[i] = 100 - (100 / (1 + rs))
		}
	}

	return result, nil
}
