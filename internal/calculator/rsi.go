package calculator

import "errors"

// splitMove separates a close-to-close move into its gain and loss parts.
func splitMove(delta float64) (gain, loss float64) {
	if delta > 0 {
		return delta, 0
	}
	return 0, -delta
}

// CalculateRSI returns Wilder's RSI of closes. The first period moves seed the
// average gain and loss; every later move is folded in with weight 1/period.
// Needs period+1 closes. A flat series reads 50.
func CalculateRSI(closes []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(closes) < period+1 {
		return 0, ErrInsufficientData
	}

	n := float64(period)
	var avgGain, avgLoss float64
	for i := 1; i < len(closes); i++ {
		gain, loss := splitMove(closes[i] - closes[i-1])
		if i <= period {
			avgGain += gain / n
			avgLoss += loss / n
			continue
		}
		avgGain += (gain - avgGain) / n
		avgLoss += (loss - avgLoss) / n
	}

	switch {
	case avgGain == 0 && avgLoss == 0:
		return 50, nil
	case avgLoss == 0:
		return 100, nil
	}
	return 100 * avgGain / (avgGain + avgLoss), nil
}
