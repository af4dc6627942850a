package scheduler

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ChartDesk/internal/collector"
	"ChartDesk/internal/model"
	"ChartDesk/internal/recorder"
)

type fakeNotifier struct {
	sent []string
	err  error
}

func (f *fakeNotifier) SendWithRetry(_ context.Context, text string, _ int) error {
	f.sent = append(f.sent, text)
	return f.err
}

type symbolFetcher map[string][]model.OHLCV

func (f symbolFetcher) Name() string { return "symbols" }

func (f symbolFetcher) FetchHistory(_ context.Context, symbol string, _ model.Timeframe) ([]model.OHLCV, error) {
	bars, ok := f[symbol]
	if !ok {
		return nil, errors.New("provider down")
	}
	return bars, nil
}

func bars(closes ...float64) []model.OHLCV {
	start := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	out := make([]model.OHLCV, len(closes))
	for i, c := range closes {
		out[i] = model.OHLCV{Time: start.AddDate(0, 0, i), Open: c, High: c, Low: c, Close: c, Volume: 10}
	}
	return out
}

func newTestScheduler(t *testing.T, n Notifier) (*Scheduler, *recorder.SQLiteRecorder) {
	t.Helper()
	rec, err := recorder.NewSQLiteRecorder(filepath.Join(t.TempDir(), "sched.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = rec.Close() })

	engine := collector.NewCollector(symbolFetcher{
		"SPY": bars(420, 421.17),
		"IWM": bars(196, 198.45),
	}, time.Second)

	s := NewScheduler(context.Background(), engine, n, rec, []string{"SPY", "QQQ", "IWM"}, model.Timeframe5d, model.Timeframe1mo)
	return s, rec
}

func TestRefreshWatchlist_RecordsSuccessfulTickers(t *testing.T) {
	s, rec := newTestScheduler(t, nil)

	items := s.RefreshWatchlist(context.Background())
	require.Len(t, items, 3)
	assert.NotNil(t, items[0].Snapshot)
	assert.Nil(t, items[1].Snapshot)
	assert.Contains(t, items[1].Error, "provider down")
	assert.NotNil(t, items[2].Snapshot)

	hist, err := rec.History("", 10)
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, recorder.SourceWatch, hist[0].Source)
	assert.Equal(t, "IWM", hist[0].Snapshot.Ticker)
	assert.Equal(t, "SPY", hist[1].Snapshot.Ticker)
}

func TestRunWatchNow_SendsDigest(t *testing.T) {
	n := &fakeNotifier{}
	s, _ := newTestScheduler(t, n)

	s.RunWatchNow()

	require.Len(t, n.sent, 1)
	assert.Contains(t, n.sent[0], "Market Overview")
	assert.Contains(t, n.sent[0], "<b>SPY</b> $421.17")
	assert.Contains(t, n.sent[0], "<b>QQQ</b> unavailable")
}

func TestRunWatchNow_NotifierErrorIsNotFatal(t *testing.T) {
	n := &fakeNotifier{err: errors.New("telegram down")}
	s, _ := newTestScheduler(t, n)

	assert.NotPanics(t, s.RunWatchNow)
	assert.Len(t, n.sent, 1)
}

func TestRegister(t *testing.T) {
	s, _ := newTestScheduler(t, nil)
	assert.NoError(t, s.Register("0 */15 * * * 1-5"))
	assert.Len(t, s.Cron.Entries(), 1)
	assert.Error(t, s.Register("not a cron"))
}

func TestHandleCommand(t *testing.T) {
	s, _ := newTestScheduler(t, nil)
	ctx := context.Background()

	tests := []struct {
		command  string
		contains string
	}{
		{"/quote spy", "<b>SPY</b> | 1MO"},
		{"/quote SPY 5d", "<b>SPY</b> | 5D"},
		{"/quote SPY 10y", "invalid timeframe"},
		{"/quote QQQ", "data unavailable for QQQ"},
		{"/quote", "Usage: /quote"},
		{"/watchlist", "Market Overview"},
		{"hello", "Available commands"},
		{"", "Available commands"},
	}
	for _, tt := range tests {
		assert.Contains(t, s.HandleCommand(ctx, tt.command), tt.contains, "command %q", tt.command)
	}
}
