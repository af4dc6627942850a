package model

import "time"

// Trend labels the alignment of the latest close against MA20 and MA50.
type Trend string

const (
	TrendBullish Trend = "bullish"
	TrendBearish Trend = "bearish"
	TrendNeutral Trend = "neutral"
)

// IndicatorSnapshot is the derived summary of a PriceSeries.
// Pointer fields are nil when the series is too short to define them.
type IndicatorSnapshot struct {
	Ticker        string    `json:"ticker"`
	Timeframe     Timeframe `json:"timeframe"`
	Periods       int       `json:"periods"`
	AsOf          time.Time `json:"as_of"`
	LatestClose   float64   `json:"latest_close"`
	PreviousClose *float64  `json:"previous_close,omitempty"`
	PercentChange *float64  `json:"percent_change,omitempty"`
	MA20          *float64  `json:"ma20,omitempty"`
	MA50          *float64  `json:"ma50,omitempty"`
	LatestVolume  float64   `json:"latest_volume"`
	RSI14         *float64  `json:"rsi14,omitempty"`
	PeriodHigh    float64   `json:"period_high"`
	PeriodLow     float64   `json:"period_low"`
	Trend         Trend     `json:"trend,omitempty"`
}

// OverlayPoint is one value of a chart overlay line.
type OverlayPoint struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
}

// Overlay is a derived line drawn over the price chart, e.g. MA20.
type Overlay struct {
	Name   string         `json:"name"`
	Window int            `json:"window"`
	Points []OverlayPoint `json:"points"`
}

// ChartData is what the presentation layer needs to draw a price chart.
type ChartData struct {
	Ticker    string    `json:"ticker"`
	Timeframe Timeframe `json:"timeframe"`
	Bars      []OHLCV   `json:"bars"`
	Overlays  []Overlay `json:"overlays"`
}

// WatchItem is one row of the market overview. Error is set instead of
// Snapshot when that ticker could not be computed.
type WatchItem struct {
	Ticker   string             `json:"ticker"`
	Snapshot *IndicatorSnapshot `json:"snapshot,omitempty"`
	Error    string             `json:"error,omitempty"`
}
