package collector

import (
	"errors"
	"fmt"

	"ChartDesk/internal/model"
)

var (
	// ErrInvalidInput matches every *InputError.
	ErrInvalidInput = errors.New("invalid input")
	// ErrDataUnavailable matches every *DataUnavailableError.
	ErrDataUnavailable = errors.New("data unavailable")
	// ErrNoData is the cause of a DataUnavailableError when the provider returned an empty series.
	ErrNoData = errors.New("no data returned")
)

// InputError reports a rejected ticker or timeframe.
type InputError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

func (e *InputError) Is(target error) bool { return target == ErrInvalidInput }

// DataUnavailableError reports a provider failure or an empty result for a ticker.
type DataUnavailableError struct {
	Ticker    string
	Timeframe model.Timeframe
	Err       error
}

func (e *DataUnavailableError) Error() string {
	return fmt.Sprintf("data unavailable for %s (%s): %v", e.Ticker, e.Timeframe, e.Err)
}

func (e *DataUnavailableError) Unwrap() error { return e.Err }

func (e *DataUnavailableError) Is(target error) bool { return target == ErrDataUnavailable }
