package indicators

import (
	"fmt"

	"stock-tracker/internal/models"
)

// SMA calculates Simple Moving Average.
type SMA struct {
	period int
}

// NewSMA creates a new SMA indicator.
func NewSMA(period int) *SMA {
	return &SMA{period: period}
}

func (s *SMA) Name() string {
	return fmt.Sprintf("SMA_%d", s.period)
}

func (s *SMA) Period() int {
	return s.period
}

// Calculate returns one value per bar; the first period-1 values are NaN.
func (s *SMA) Calculate(series models.PriceSeries) ([]float64, error) {
	if s.period <= 0 {
		return nil, ErrInvalidPeriod
	}
	if len(series) < s.period {
		return nil, ErrInsufficientData
	}

	result := nanSlice(len(series))
	closes := series.Closes()

	for i := s.period - 1; i < len(series); i++ {
		result[i] = mean(closes[i-s.period+1 : i+1])
	}

	return result, nil
}

// EMA calculates an Exponential Moving Average with span semantics:
// smoothing factor 2/(span+1), seeded by the first value, no bias
// adjustment. Defined from the first bar onward.
type EMA struct {
	span int
}

// NewEMA creates a new EMA indicator.
func NewEMA(span int) *EMA {
	return &EMA{span: span}
}

func (e *EMA) Name() string {
	return fmt.Sprintf("EMA_%d", e.span)
}

func (e *EMA) Period() int {
	return e.span
}

func (e *EMA) Calculate(series models.PriceSeries) ([]float64, error) {
	if e.span <= 0 {
		return nil, ErrInvalidPeriod
	}
	if len(series) == 0 {
		return nil, ErrInsufficientData
	}
	return CalculateEMA(series.Closes(), e.span), nil
}

// CalculateEMA computes a span-based EMA over raw values (helper for other
// indicators). Returns nil for empty input or non-positive span.
func CalculateEMA(values []float64, span int) []float64 {
	if len(values) == 0 || span <= 0 {
		return nil
	}

	result := make([]float64, len(values))
	alpha := 2.0 / float64(span+1)

	result[0] = values[0]
	for i := 1; i < len(values); i++ {
		result[i] = alpha*values[i] + (1-alpha)*result[i-1]
	}

	return result
}

// MACD calculates Moving Average Convergence Divergence.
type MACD struct {
	fastSpan   int
	slowSpan   int
	signalSpan int
}

// NewMACD creates a new MACD indicator; the conventional spans are (12, 26, 9).
func NewMACD(fast, slow, signal int) *MACD {
	return &MACD{
		fastSpan:   fast,
		slowSpan:   slow,
		signalSpan: signal,
	}
}

func (m *MACD) Name() string {
	return fmt.Sprintf("MACD_%d_%d_%d", m.fastSpan, m.slowSpan, m.signalSpan)
}

func (m *MACD) Period() int {
	return m.slowSpan
}

// Calculate returns the "macd", "signal" and "histogram" lines. With
// first-value seeding all three are defined from the first bar.
func (m *MACD) Calculate(series models.PriceSeries) (map[string][]float64, error) {
	if m.fastSpan <= 0 || m.slowSpan <= 0 || m.signalSpan <= 0 {
		return nil, ErrInvalidPeriod
	}
	if len(series) == 0 {
		return nil, ErrInsufficientData
	}

	closes := series.Closes()
	fastEMA := CalculateEMA(closes, m.fastSpan)
	slowEMA := CalculateEMA(closes, m.slowSpan)

	macdLine := make([]float64, len(closes))
	for i := range closes {
		macdLine[i] = fastEMA[i] - slowEMA[i]
	}

	signalLine := CalculateEMA(macdLine, m.signalSpan)

	histogram := make([]float64, len(closes))
	for i := range closes {
		histogram[i] = macdLine[i] - signalLine[i]
	}

	return map[string][]float64{
		"macd":      macdLine,
		"signal":    signalLine,
		"histogram": histogram,
	}, nil
}
