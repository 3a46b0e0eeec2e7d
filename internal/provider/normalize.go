package provider

import (
	"encoding/json"
	"strconv"
	"time"

	"stock-tracker/internal/errors"
	"stock-tracker/internal/models"
)

const timeSeriesKey = "Time Series (Daily)"

// dailyBar mirrors the upstream field-map for one trading day. All values
// arrive as strings.
type dailyBar struct {
	Open   string `json:"1. open"`
	High   string `json:"2. high"`
	Low    string `json:"3. low"`
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}

// NormalizeDaily converts the raw date-keyed payload into a sorted
// PriceSeries. Ordering is enforced by sorting on date ascending after
// parse, independent of upstream ordering. An absent or empty time-series
// collection yields ErrEmptySeries.
func NormalizeDaily(payload map[string]json.RawMessage) (models.PriceSeries, error) {
	raw, ok := payload[timeSeriesKey]
	if !ok {
		return nil, errors.ErrEmptySeries
	}

	var bars map[string]dailyBar
	if err := json.Unmarshal(raw, &bars); err != nil {
		return nil, errors.Wrap(err, "decoding time series")
	}
	if len(bars) == 0 {
		return nil, errors.ErrEmptySeries
	}

	series := make(models.PriceSeries, 0, len(bars))
	for dateStr, bar := range bars {
		point, err := parseBar(dateStr, bar)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing bar %s", dateStr)
		}
		series = append(series, point)
	}

	series = series.SortByDate()
	if err := series.Validate(); err != nil {
		return nil, err
	}
	return series, nil
}

func parseBar(dateStr string, bar dailyBar) (models.PricePoint, error) {
	date, err := time.ParseInLocation("2006-01-02", dateStr, time.UTC)
	if err != nil {
		return models.PricePoint{}, err
	}

	open, err := strconv.ParseFloat(bar.Open, 64)
	if err != nil {
		return models.PricePoint{}, err
	}
	high, err := strconv.ParseFloat(bar.High, 64)
	if err != nil {
		return models.PricePoint{}, err
	}
	low, err := strconv.ParseFloat(bar.Low, 64)
	if err != nil {
		return models.PricePoint{}, err
	}
	closePrice, err := strconv.ParseFloat(bar.Close, 64)
	if err != nil {
		return models.PricePoint{}, err
	}
	// Some payloads report volume with a decimal component.
	volume, err := strconv.ParseFloat(bar.Volume, 64)
	if err != nil {
		return models.PricePoint{}, err
	}

	return models.PricePoint{
		Date:   date,
		Open:   open,
		High:   high,
		Low:    low,
		Close:  closePrice,
		Volume: int64(volume),
	}, nil
}

// parsePERatio extracts the price/earnings figure from the overview
// payload; a missing or non-numeric value is treated as zero, matching the
// lenient behavior downstream reporting expects.
func parsePERatio(payload map[string]json.RawMessage) float64 {
	raw, ok := payload["PERatio"]
	if !ok {
		return 0
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0
	}
	pe, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return pe
}
