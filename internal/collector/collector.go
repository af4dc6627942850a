package collector

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"ChartDesk/internal/calculator"
	"ChartDesk/internal/model"
)

// DefaultTimeout bounds a single provider fetch when none is configured.
const DefaultTimeout = 10 * time.Second

const maxTickerLen = 16

// Collector fetches price history and derives indicators from it.
// It holds no per-request state and is safe for concurrent use.
type Collector struct {
	Fetcher Fetcher
	Timeout time.Duration
}

// NewCollector creates a new Collector. A non-positive timeout uses DefaultTimeout.
func NewCollector(fetcher Fetcher, timeout time.Duration) *Collector {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Collector{Fetcher: fetcher, Timeout: timeout}
}

// NormalizeTicker upper-cases and validates a ticker symbol.
func NormalizeTicker(ticker string) (string, error) {
	t := strings.ToUpper(strings.TrimSpace(ticker))
	if t == "" {
		return "", &InputError{Field: "ticker", Value: ticker, Reason: "must not be empty"}
	}
	if len(t) > maxTickerLen {
		return "", &InputError{Field: "ticker", Value: ticker, Reason: fmt.Sprintf("longer than %d characters", maxTickerLen)}
	}
	for _, r := range t {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '.', r == '-', r == '^', r == '=':
		default:
			return "", &InputError{Field: "ticker", Value: ticker, Reason: fmt.Sprintf("unexpected character %q", r)}
		}
	}
	return t, nil
}

// ValidateTimeframe rejects anything outside the supported timeframes.
func ValidateTimeframe(tf model.Timeframe) error {
	if !tf.Valid() {
		return &InputError{Field: "timeframe", Value: string(tf), Reason: "must be one of 1d, 5d, 1mo, 3mo, 6mo, 1y, 2y"}
	}
	return nil
}

// FetchSeries validates the request and fetches a non-empty PriceSeries.
func (c *Collector) FetchSeries(ctx context.Context, ticker string, tf model.Timeframe) (*model.PriceSeries, error) {
	symbol, err := NormalizeTicker(ticker)
	if err != nil {
		return nil, err
	}
	if err := ValidateTimeframe(tf); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	bars, err := c.Fetcher.FetchHistory(ctx, symbol, tf)
	if err != nil {
		log.Printf("[WARN] %s fetch %s (%s) failed: %v", c.Fetcher.Name(), symbol, tf, err)
		return nil, &DataUnavailableError{Ticker: symbol, Timeframe: tf, Err: err}
	}
	if len(bars) == 0 {
		return nil, &DataUnavailableError{Ticker: symbol, Timeframe: tf, Err: ErrNoData}
	}

	return &model.PriceSeries{
		Symbol:    symbol,
		Timeframe: tf,
		Bars:      bars,
		FetchedAt: time.Now(),
	}, nil
}

// ComputeSnapshot fetches the series for ticker and summarizes it.
func (c *Collector) ComputeSnapshot(ctx context.Context, ticker string, tf model.Timeframe) (*model.IndicatorSnapshot, error) {
	series, err := c.FetchSeries(ctx, ticker, tf)
	if err != nil {
		return nil, err
	}
	return BuildSnapshot(series)
}

// ComputeChart fetches the series for ticker and prepares its MA overlays.
func (c *Collector) ComputeChart(ctx context.Context, ticker string, tf model.Timeframe) (*model.ChartData, error) {
	series, err := c.FetchSeries(ctx, ticker, tf)
	if err != nil {
		return nil, err
	}
	return BuildChart(series), nil
}

// BuildSnapshot derives an IndicatorSnapshot from series. Values that need
// more periods than the series has are left nil.
func BuildSnapshot(series *model.PriceSeries) (*model.IndicatorSnapshot, error) {
	if series == nil {
		return nil, &DataUnavailableError{Err: ErrNoData}
	}
	if series.Len() == 0 {
		return nil, &DataUnavailableError{Ticker: series.Symbol, Timeframe: series.Timeframe, Err: ErrNoData}
	}
	bars := series.Bars
	last := bars[len(bars)-1]
	closes := series.Closes()

	snap := &model.IndicatorSnapshot{
		Ticker:       series.Symbol,
		Timeframe:    series.Timeframe,
		Periods:      len(bars),
		AsOf:         last.Time,
		LatestClose:  last.Close,
		LatestVolume: last.Volume,
	}

	if prev, _, change, err := calculator.LatestChange(closes); err == nil {
		snap.PreviousClose = &prev
		snap.PercentChange = &change
	} else if !errors.Is(err, calculator.ErrInsufficientData) {
		// previous close of zero: keep it, the change is undefined
		snap.PreviousClose = &prev
	}

	if ma, err := calculator.CalculateSMA(closes, 20); err == nil {
		snap.MA20 = &ma
	}
	if ma, err := calculator.CalculateSMA(closes, 50); err == nil {
		snap.MA50 = &ma
	}
	if rsi, err := calculator.CalculateRSI(closes, 14); err == nil {
		snap.RSI14 = &rsi
	}
	if h, l, err := calculator.CalculateRange(bars, 0); err == nil {
		snap.PeriodHigh = h
		snap.PeriodLow = l
	}
	if snap.MA20 != nil && snap.MA50 != nil {
		snap.Trend = calculator.ClassifyTrend(last.Close, *snap.MA20, *snap.MA50)
	}

	return snap, nil
}

// overlayWindows are the MA overlays drawn on every chart.
var overlayWindows = []struct {
	Name   string
	Window int
}{
	{"MA20", 20},
	{"MA50", 50},
}

// BuildChart packages the bars with every MA overlay the series is long enough for.
func BuildChart(series *model.PriceSeries) *model.ChartData {
	chart := &model.ChartData{
		Ticker:    series.Symbol,
		Timeframe: series.Timeframe,
		Bars:      series.Bars,
		Overlays:  []model.Overlay{},
	}
	for _, w := range overlayWindows {
		ov, err := calculator.MovingAverageOverlay(w.Name, series.Bars, w.Window)
		if err != nil {
			continue
		}
		chart.Overlays = append(chart.Overlays, ov)
	}
	return chart
}

// ComputeWatchlist computes a snapshot per ticker, one after another. A failing
// ticker is reported in its item and does not stop the rest.
func (c *Collector) ComputeWatchlist(ctx context.Context, tickers []string, tf model.Timeframe) []model.WatchItem {
	items := make([]model.WatchItem, 0, len(tickers))
	for _, t := range tickers {
		item := model.WatchItem{Ticker: strings.ToUpper(strings.TrimSpace(t))}
		snap, err := c.ComputeSnapshot(ctx, t, tf)
		if err != nil {
			item.Error = err.Error()
		} else {
			item.Snapshot = snap
			item.Ticker = snap.Ticker
		}
		items = append(items, item)
	}
	return items
}
