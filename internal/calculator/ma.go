package calculator

import (
	"errors"

	"ChartDesk/internal/model"
)

// ErrInsufficientData is returned when a series is shorter than an indicator's window.
var ErrInsufficientData = errors.New("not enough data")

// CalculateSMA computes the simple moving average of the given prices over the specified period.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, ErrInsufficientData
	}
	sum := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(period), nil
}

// RollingSMA returns the simple moving average ending at every index from
// period-1 onward, so the result has len(prices)-period+1 values. Each window
// is summed on its own, so the last value equals CalculateSMA(prices, period).
func RollingSMA(prices []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, errors.New("period must be positive")
	}
	if len(prices) < period {
		return nil, ErrInsufficientData
	}
	out := make([]float64, 0, len(prices)-period+1)
	for end := period; end <= len(prices); end++ {
		v, err := CalculateSMA(prices[:end], period)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// MovingAverageOverlay builds a chart overlay of the period-bar SMA of closes.
func MovingAverageOverlay(name string, bars []model.OHLCV, period int) (model.Overlay, error) {
	values, err := RollingSMA(model.ClosePrices(bars), period)
	if err != nil {
		return model.Overlay{}, err
	}
	points := make([]model.OverlayPoint, len(values))
	for i, v := range values {
		points[i] = model.OverlayPoint{Time: bars[i+period-1].Time, Value: v}
	}
	return model.Overlay{Name: name, Window: period, Points: points}, nil
}
