package collector

import (
	"context"
	"time"

	"ChartDesk/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price float64
	Bars  []model.OHLCV
	Err   error
	Delay time.Duration
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchHistory(ctx context.Context, _ string, tf model.Timeframe) ([]model.OHLCV, error) {
	if m.Delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(m.Delay):
		}
	}
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Bars != nil {
		return m.Bars, nil
	}
	return generateMockBars(m.Price, tradingDays(tf)), nil
}

// tradingDays approximates how many daily bars a timeframe spans.
func tradingDays(tf model.Timeframe) int {
	switch tf {
	case model.Timeframe1d:
		return 1
	case model.Timeframe5d:
		return 5
	case model.Timeframe1mo:
		return 21
	case model.Timeframe3mo:
		return 63
	case model.Timeframe6mo:
		return 126
	case model.Timeframe1y:
		return 252
	default:
		return 504
	}
}

func generateMockBars(basePrice float64, count int) []model.OHLCV {
	end := time.Now().UTC().Truncate(24 * time.Hour)
	bars := make([]model.OHLCV, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.OHLCV{
			Time:   end.AddDate(0, 0, -(count - 1 - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}
