package models

// Recommendation is the terminal buy/hold/avoid verdict for one symbol.
type Recommendation string

const (
	BuyCandidate Recommendation = "BUY_CANDIDATE"
	Watch        Recommendation = "WATCH"
	Avoid        Recommendation = "AVOID"
)

// MarketPosition places the current price inside the 52-week range, in five
// fixed ascending bands.
type MarketPosition string

const (
	PositionNearLow  MarketPosition = "NEAR_52W_LOW"
	PositionLower    MarketPosition = "LOWER_RANGE"
	PositionMidRange MarketPosition = "MID_RANGE"
	PositionUpper    MarketPosition = "UPPER_RANGE"
	PositionNearHigh MarketPosition = "NEAR_52W_HIGH"
)

// StrategyConfig holds the decision thresholds. Immutable input, supplied
// per run; zero-value fields are filled with defaults by Normalized.
type StrategyConfig struct {
	RSIThreshold           float64 `json:"rsi_threshold" mapstructure:"rsi_threshold"`
	PricePositionThreshold float64 `json:"price_position_threshold" mapstructure:"price_position_threshold"`
	MAProximityThreshold   float64 `json:"ma_proximity_threshold" mapstructure:"ma_proximity_threshold"`
	AnomalyThreshold       float64 `json:"anomaly_threshold" mapstructure:"anomaly_threshold"`
}

// DefaultStrategyConfig returns the default thresholds.
func DefaultStrategyConfig() StrategyConfig {
	return StrategyConfig{
		RSIThreshold:           30,
		PricePositionThreshold: 33,
		MAProximityThreshold:   0.05,
		AnomalyThreshold:       0.15,
	}
}

// Normalized returns a copy with any unset threshold replaced by its default.
func (c StrategyConfig) Normalized() StrategyConfig {
	def := DefaultStrategyConfig()
	if c.RSIThreshold == 0 {
		c.RSIThreshold = def.RSIThreshold
	}
	if c.PricePositionThreshold == 0 {
		c.PricePositionThreshold = def.PricePositionThreshold
	}
	if c.MAProximityThreshold == 0 {
		c.MAProximityThreshold = def.MAProximityThreshold
	}
	if c.AnomalyThreshold == 0 {
		c.AnomalyThreshold = def.AnomalyThreshold
	}
	return c
}

// SignalResult is the output of the decision engine for one snapshot.
// BuySignals preserves rule evaluation order; never mutated after creation.
type SignalResult struct {
	BuySignals       []string       `json:"buy_signals"`
	SignalCount      int            `json:"signal_count"`
	Recommendation   Recommendation `json:"recommendation"`
	MarketPosition   MarketPosition `json:"market_position"`
	PricePositionPct float64        `json:"price_position_pct"`
}
