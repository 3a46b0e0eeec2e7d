package models

import "time"

// PriceAnomaly describes the single largest day-over-day close move inside
// the 52-week window when it exceeds the anomaly threshold. Detected=false
// is the common case; Date and ChangePct are only meaningful when Detected.
type PriceAnomaly struct {
	Detected  bool      `json:"detected"`
	Date      time.Time `json:"date,omitempty"`
	ChangePct float64   `json:"change_pct,omitempty"`
}

// IndicatorSnapshot holds the indicator values for the most recent bar of a
// series. All values are rounded to 2 decimal places; the snapshot is
// read-only after creation.
type IndicatorSnapshot struct {
	AsOfDate       time.Time    `json:"as_of_date"`
	CurrentPrice   float64      `json:"current_price"`
	High52W        float64      `json:"high_52w"`
	Low52W         float64      `json:"low_52w"`
	MA50           float64      `json:"ma50"`
	MA200          float64      `json:"ma200"`
	RSI14          float64      `json:"rsi14"`
	MACD           float64      `json:"macd"`
	MACDSignal     float64      `json:"macd_signal"`
	MACDHist       float64      `json:"macd_hist"`
	BollingerUpper float64      `json:"bollinger_upper"`
	BollingerLower float64      `json:"bollinger_lower"`
	PERatio        float64      `json:"pe_ratio"`
	Anomaly        PriceAnomaly `json:"price_anomaly"`
}
