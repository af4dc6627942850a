package model

import (
	"strings"
	"time"
)

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Timeframe is the lookback window requested from the market-data provider.
type Timeframe string

const (
	Timeframe1d  Timeframe = "1d"
	Timeframe5d  Timeframe = "5d"
	Timeframe1mo Timeframe = "1mo"
	Timeframe3mo Timeframe = "3mo"
	Timeframe6mo Timeframe = "6mo"
	Timeframe1y  Timeframe = "1y"
	Timeframe2y  Timeframe = "2y"
)

// Timeframes lists every supported timeframe, shortest first.
var Timeframes = []Timeframe{
	Timeframe1d, Timeframe5d, Timeframe1mo, Timeframe3mo, Timeframe6mo, Timeframe1y, Timeframe2y,
}

// Valid reports whether tf is one of the supported timeframes.
func (tf Timeframe) Valid() bool {
	for _, t := range Timeframes {
		if tf == t {
			return true
		}
	}
	return false
}

func (tf Timeframe) String() string { return string(tf) }

// ParseTimeframe normalizes s and returns it as a Timeframe. The result still
// has to be checked with Valid.
func ParseTimeframe(s string) Timeframe {
	return Timeframe(strings.ToLower(strings.TrimSpace(s)))
}

// PriceSeries holds the bars returned for one ticker and timeframe, oldest first.
type PriceSeries struct {
	Symbol    string
	Timeframe Timeframe
	Bars      []OHLCV
	FetchedAt time.Time
}

// ClosePrices returns the close of every bar in order.
func ClosePrices(bars []OHLCV) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}

// Closes returns the close of every bar in the series.
func (s *PriceSeries) Closes() []float64 { return ClosePrices(s.Bars) }

// Len returns the number of periods in the series.
func (s *PriceSeries) Len() int { return len(s.Bars) }
