package collector

import (
	"context"

	"ChartDesk/internal/model"
)

// Fetcher defines the interface for fetching historical market data.
// Implementations return bars sorted oldest first and may return an empty
// slice when the provider has nothing for the symbol.
type Fetcher interface {
	FetchHistory(ctx context.Context, symbol string, tf model.Timeframe) ([]model.OHLCV, error)
	Name() string
}
