package recorder

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ChartDesk/internal/model"
)

func newTestSQLite(t *testing.T) *SQLiteRecorder {
	t.Helper()
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "nested", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func ptr(v float64) *float64 { return &v }

func TestSQLiteRecorder_RoundTrip(t *testing.T) {
	r := newTestSQLite(t)

	asOf := time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC)
	full := &model.IndicatorSnapshot{
		Ticker:        "AAPL",
		Timeframe:     model.Timeframe3mo,
		Periods:       63,
		AsOf:          asOf,
		LatestClose:   183.4,
		PreviousClose: ptr(181.2),
		PercentChange: ptr(1.21),
		MA20:          ptr(175.5),
		MA50:          ptr(172.1),
		LatestVolume:  51234000,
		RSI14:         ptr(61.3),
		PeriodHigh:    190,
		PeriodLow:     165,
		Trend:         model.TrendBullish,
	}
	require.NoError(t, r.RecordSnapshot(SourceAPI, full))

	recs, err := r.History("aapl", 10)
	require.NoError(t, err)
	require.Len(t, recs, 1)

	assert.NotEmpty(t, recs[0].ID)
	assert.Equal(t, SourceAPI, recs[0].Source)
	assert.Equal(t, *full, recs[0].Snapshot)
}

func TestSQLiteRecorder_KeepsOmittedValuesNil(t *testing.T) {
	r := newTestSQLite(t)

	short := &model.IndicatorSnapshot{
		Ticker:       "NEW",
		Timeframe:    model.Timeframe1d,
		Periods:      1,
		AsOf:         time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC),
		LatestClose:  10,
		LatestVolume: 100,
		PeriodHigh:   11,
		PeriodLow:    9,
	}
	require.NoError(t, r.RecordSnapshot(SourceWatch, short))

	recs, err := r.History("NEW", 1)
	require.NoError(t, err)
	require.Len(t, recs, 1)

	snap := recs[0].Snapshot
	assert.Nil(t, snap.PreviousClose)
	assert.Nil(t, snap.PercentChange)
	assert.Nil(t, snap.MA20)
	assert.Nil(t, snap.MA50)
	assert.Nil(t, snap.RSI14)
	assert.Empty(t, snap.Trend)
}

func TestSQLiteRecorder_HistoryOrderAndFilter(t *testing.T) {
	r := newTestSQLite(t)

	for i, ticker := range []string{"SPY", "QQQ", "SPY", "SPY"} {
		require.NoError(t, r.RecordSnapshot(SourceWatch, &model.IndicatorSnapshot{
			Ticker:      ticker,
			Timeframe:   model.Timeframe5d,
			Periods:     5,
			LatestClose: float64(100 + i),
		}))
	}

	all, err := r.History("", 0)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	spy, err := r.History("SPY", 2)
	require.NoError(t, err)
	require.Len(t, spy, 2)
	assert.Equal(t, 103.0, spy[0].Snapshot.LatestClose)
	assert.Equal(t, 102.0, spy[1].Snapshot.LatestClose)
	assert.Greater(t, spy[0].ID, spy[1].ID)
}

func TestNoopRecorder(t *testing.T) {
	n := NewNoopRecorder()
	assert.NoError(t, n.RecordSnapshot(SourceCLI, &model.IndicatorSnapshot{Ticker: "X"}))
	recs, err := n.History("X", 10)
	assert.NoError(t, err)
	assert.Empty(t, recs)
	assert.NoError(t, n.Close())
}
