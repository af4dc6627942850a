package calculator

import "errors"

// CalculatePercentChange returns (latest-previous)/previous*100.
func CalculatePercentChange(previous, latest float64) (float64, error) {
	if previous == 0 {
		return 0, errors.New("previous value is zero")
	}
	return (latest - previous) / previous * 100, nil
}

// LatestChange returns the last two closes and the percent change between them.
func LatestChange(closes []float64) (previous, latest, change float64, err error) {
	n := len(closes)
	if n < 2 {
		return 0, 0, 0, ErrInsufficientData
	}
	previous, latest = closes[n-2], closes[n-1]
	change, err = CalculatePercentChange(previous, latest)
	return previous, latest, change, err
}
