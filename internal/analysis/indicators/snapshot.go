package indicators

import (
	"stock-tracker/internal/models"
)

// Default windows for the snapshot computation.
const (
	maShortWindow  = 50
	maLongWindow   = 200
	rsiWindow      = 14
	macdFastSpan   = 12
	macdSlowSpan   = 26
	macdSignalSpan = 9
	bollWindow     = 20
	bollStdDevMul  = 2.0
)

// MinBars is the minimum series length for a full snapshot: every indicator
// window must be populated at the latest row, and the 200-day average is
// the widest.
const MinBars = maLongWindow

// Compute derives the indicator snapshot for the most recent bar of data.
// It is a pure function: the input series is never mutated, and all derived
// values in the snapshot are rounded to 2 decimal places.
func Compute(data *models.MarketData, anomalyThreshold float64) (*models.IndicatorSnapshot, error) {
	series := data.Series
	if len(series) < MinBars {
		return nil, ErrInsufficientData
	}

	ma50, err := NewSMA(maShortWindow).Calculate(series)
	if err != nil {
		return nil, err
	}
	ma200, err := NewSMA(maLongWindow).Calculate(series)
	if err != nil {
		return nil, err
	}
	rsi, err := NewRSI(rsiWindow).Calculate(series)
	if err != nil {
		return nil, err
	}
	macd, err := NewMACD(macdFastSpan, macdSlowSpan, macdSignalSpan).Calculate(series)
	if err != nil {
		return nil, err
	}
	boll, err := NewBollingerBands(bollWindow, bollStdDevMul).Calculate(series)
	if err != nil {
		return nil, err
	}

	high52, low52 := RangeHighLow(series)
	anomaly := DetectAnomaly(series, anomalyThreshold)

	last := len(series) - 1
	latest := series.Latest()

	return &models.IndicatorSnapshot{
		AsOfDate:       latest.Date,
		CurrentPrice:   round2(latest.Close),
		High52W:        round2(high52),
		Low52W:         round2(low52),
		MA50:           round2(ma50[last]),
		MA200:          round2(ma200[last]),
		RSI14:          round2(rsi[last]),
		MACD:           round2(macd["macd"][last]),
		MACDSignal:     round2(macd["signal"][last]),
		MACDHist:       round2(macd["histogram"][last]),
		BollingerUpper: round2(boll["upper"][last]),
		BollingerLower: round2(boll["lower"][last]),
		PERatio:        round2(data.PERatio),
		Anomaly:        anomaly,
	}, nil
}
