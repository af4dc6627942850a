package calculator

import "ChartDesk/internal/model"

// ClassifyTrend labels the MA alignment.
// Bullish: price > MA20 > MA50. Bearish: price < MA20 < MA50.
func ClassifyTrend(price, ma20, ma50 float64) model.Trend {
	switch {
	case price > ma20 && ma20 > ma50:
		return model.TrendBullish
	case price < ma20 && ma20 < ma50:
		return model.TrendBearish
	default:
		return model.TrendNeutral
	}
}
