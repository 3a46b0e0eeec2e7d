package indicators

import (
	"math"
	"testing"
	"time"

	"stock-tracker/internal/models"
)

var testStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// flatSeries builds n consecutive daily bars all at the given close.
func flatSeries(n int, price float64) models.PriceSeries {
	series := make(models.PriceSeries, n)
	for i := range series {
		series[i] = models.PricePoint{
			Date:   testStart.AddDate(0, 0, i),
			Open:   price,
			High:   price,
			Low:    price,
			Close:  price,
			Volume: 1000,
		}
	}
	return series
}

func TestRSI_PureUptrendIsExactly100(t *testing.T) {
	series := make(models.PriceSeries, 30)
	for i := range series {
		price := 100.0 + float64(i)
		series[i] = models.PricePoint{
			Date: testStart.AddDate(0, 0, i), Open: price, High: price, Low: price, Close: price, Volume: 1,
		}
	}

	values, err := NewRSI(14).Calculate(series)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 14; i < len(values); i++ {
		if values[i] != 100 {
			t.Errorf("index %d: expected RSI exactly 100 in pure uptrend, got %v", i, values[i])
		}
	}
}

func TestRSI_FlatSeriesIs100(t *testing.T) {
	// Flat closes mean zero average loss, which is defined as RSI 100.
	values, err := NewRSI(14).Calculate(flatSeries(30, 100))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v := values[len(values)-1]; v != 100 {
		t.Errorf("expected RSI 100 for flat series, got %v", v)
	}
}

func TestMACD_FlatSeriesIsZero(t *testing.T) {
	values, err := NewMACD(12, 26, 9).Calculate(flatSeries(60, 250))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	last := len(values["macd"]) - 1
	if math.Abs(values["macd"][last]) > 1e-9 ||
		math.Abs(values["signal"][last]) > 1e-9 ||
		math.Abs(values["histogram"][last]) > 1e-9 {
		t.Errorf("expected zero MACD for flat series, got macd=%v signal=%v hist=%v",
			values["macd"][last], values["signal"][last], values["histogram"][last])
	}
}

func TestBollinger_FlatSeriesCollapsesToPrice(t *testing.T) {
	values, err := NewBollingerBands(20, 2.0).Calculate(flatSeries(40, 80))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	last := len(values["upper"]) - 1
	if values["upper"][last] != 80 || values["lower"][last] != 80 {
		t.Errorf("expected bands to collapse to 80, got upper=%v lower=%v",
			values["upper"][last], values["lower"][last])
	}
}

func TestRangeHighLow_WindowIsDateBased(t *testing.T) {
	series := flatSeries(500, 100)
	// A spike well outside the trailing 365 days must not count.
	series[50].High = 999
	// The in-window extremes.
	series[400].High = 120
	series[450].Low = 90

	high, low := RangeHighLow(series)
	if high != 120 {
		t.Errorf("expected 52w high 120 (old spike excluded), got %v", high)
	}
	if low != 90 {
		t.Errorf("expected 52w low 90, got %v", low)
	}
}

func TestDetectAnomaly_TwentyPercentDrop(t *testing.T) {
	series := flatSeries(300, 100)
	// Permanent 20% drop on one day.
	for i := 250; i < 300; i++ {
		series[i].Open = 80
		series[i].High = 80
		series[i].Low = 80
		series[i].Close = 80
	}

	anomaly := DetectAnomaly(series, 0.15)
	if !anomaly.Detected {
		t.Fatal("expected anomaly to be detected")
	}
	if !anomaly.Date.Equal(series[250].Date) {
		t.Errorf("expected anomaly date %s, got %s",
			series[250].Date.Format("2006-01-02"), anomaly.Date.Format("2006-01-02"))
	}
	if math.Abs(anomaly.ChangePct-(-20)) > 0.01 {
		t.Errorf("expected change_pct -20, got %v", anomaly.ChangePct)
	}
}

func TestDetectAnomaly_NoneOnQuietSeries(t *testing.T) {
	anomaly := DetectAnomaly(flatSeries(300, 100), 0.15)
	if anomaly.Detected {
		t.Errorf("expected no anomaly, got %+v", anomaly)
	}
}

func TestDetectAnomaly_TieResolvesToEarliestDate(t *testing.T) {
	series := flatSeries(300, 100)
	// Two drops of identical magnitude: 100 -> 80 at index 150 and the
	// equally sized 80 -> 64 at index 260. Both are -20%.
	for i := 150; i < 260; i++ {
		series[i].Close = 80
	}
	for i := 260; i < 300; i++ {
		series[i].Close = 64
	}

	anomaly := DetectAnomaly(series, 0.15)
	if !anomaly.Detected {
		t.Fatal("expected anomaly to be detected")
	}
	if !anomaly.Date.Equal(series[150].Date) {
		t.Errorf("expected earliest maximal change at %s, got %s",
			series[150].Date.Format("2006-01-02"), anomaly.Date.Format("2006-01-02"))
	}
}

func TestCompute_SnapshotRoundingAndFields(t *testing.T) {
	series := flatSeries(250, 123.4567)
	data := &models.MarketData{Symbol: "TEST", Series: series, PERatio: 25.678}

	snap, err := Compute(data, 0.15)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if snap.CurrentPrice != 123.46 {
		t.Errorf("expected rounded current price 123.46, got %v", snap.CurrentPrice)
	}
	if snap.MA50 != 123.46 || snap.MA200 != 123.46 {
		t.Errorf("expected flat MAs 123.46, got ma50=%v ma200=%v", snap.MA50, snap.MA200)
	}
	if snap.RSI14 != 100 {
		t.Errorf("expected RSI 100 on flat series, got %v", snap.RSI14)
	}
	if snap.PERatio != 25.68 {
		t.Errorf("expected rounded P/E 25.68, got %v", snap.PERatio)
	}
	if !snap.AsOfDate.Equal(series.Latest().Date) {
		t.Errorf("expected as-of date %s, got %s", series.Latest().Date, snap.AsOfDate)
	}
	if snap.Anomaly.Detected {
		t.Errorf("expected no anomaly on flat series")
	}
}

func TestCompute_InsufficientData(t *testing.T) {
	data := &models.MarketData{Symbol: "TEST", Series: flatSeries(150, 100)}
	if _, err := Compute(data, 0.15); err != ErrInsufficientData {
		t.Errorf("expected ErrInsufficientData for 150 bars, got %v", err)
	}
}
