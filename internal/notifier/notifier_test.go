package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ChartDesk/internal/model"
)

func ptr(v float64) *float64 { return &v }

func TestFormatSnapshot(t *testing.T) {
	s := &model.IndicatorSnapshot{
		Ticker:        "AAPL",
		Timeframe:     model.Timeframe3mo,
		Periods:       63,
		AsOf:          time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC),
		LatestClose:   1183.4,
		PercentChange: ptr(-0.98),
		MA20:          ptr(175.5),
		LatestVolume:  51234000,
		RSI14:         ptr(61.3),
		PeriodHigh:    190,
		PeriodLow:     165,
		Trend:         model.TrendBullish,
	}
	out := FormatSnapshot(s)

	assert.Contains(t, out, "<b>AAPL</b> | 3MO | 2024-05-03")
	assert.Contains(t, out, "Price: $1,183.40 (-0.98%)")
	assert.Contains(t, out, "MA20: $175.50 | MA50: n/a")
	assert.Contains(t, out, "Volume: 51,234,000")
	assert.Contains(t, out, "RSI14: 61")
	assert.Contains(t, out, "Trend: bullish")
	assert.Contains(t, out, "Range: $165.00 - $190.00 (63 periods, at 100%)")
}

func TestFormatSnapshot_RangePosition(t *testing.T) {
	out := FormatSnapshot(&model.IndicatorSnapshot{Ticker: "SPY", Periods: 20, LatestClose: 180, PeriodHigh: 200, PeriodLow: 160})
	assert.Contains(t, out, "Range: $160.00 - $200.00 (20 periods, at 50%)")
}

func TestFormatSnapshot_ShortSeries(t *testing.T) {
	out := FormatSnapshot(&model.IndicatorSnapshot{Ticker: "NEW", Timeframe: model.Timeframe1d, Periods: 1, LatestClose: 10})
	assert.Contains(t, out, "(n/a)")
	assert.NotContains(t, out, "RSI14")
	assert.NotContains(t, out, "Trend")
}

func TestFormatWatchlist(t *testing.T) {
	items := []model.WatchItem{
		{Ticker: "SPY", Snapshot: &model.IndicatorSnapshot{Ticker: "SPY", LatestClose: 421.17, PercentChange: ptr(0.85)}},
		{Ticker: "QQQ", Snapshot: &model.IndicatorSnapshot{Ticker: "QQQ", LatestClose: 367.23, PercentChange: ptr(-0.23)}},
		{Ticker: "^VIX", Error: "data unavailable for ^VIX (5d): timeout"},
	}
	out := FormatWatchlist(items, model.Timeframe5d, time.Date(2024, 5, 3, 15, 4, 0, 0, time.UTC))

	assert.Contains(t, out, "Market Overview</b> | 5D | 2024-05-03 15:04")
	assert.Contains(t, out, "🟢 <b>SPY</b> $421.17 (+0.85%)")
	assert.Contains(t, out, "🔴 <b>QQQ</b> $367.23 (-0.23%)")
	assert.Contains(t, out, "⚠️ <b>^VIX</b> unavailable")
}

func TestTelegramNotifier_Send(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTOKEN/sendMessage", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	n := NewTelegramNotifier("TOKEN", "42", "")
	n.APIBase = srv.URL

	require.NoError(t, n.Send(context.Background(), "hello"))
	assert.Equal(t, "42", got["chat_id"])
	assert.Equal(t, "hello", got["text"])
	assert.Equal(t, "HTML", got["parse_mode"])
}

func TestTelegramNotifier_SendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"ok":false}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	n := NewTelegramNotifier("BAD", "42", "")
	n.APIBase = srv.URL

	err := n.Send(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func TestSendWithRetry(t *testing.T) {
	var calls int32
	flaky := func(ctx context.Context, text string) error {
		if atomic.AddInt32(&calls, 1) < 3 {
			return errors.New("temporary")
		}
		return nil
	}
	require.NoError(t, sendWithRetry(context.Background(), flaky, "x", 3, time.Millisecond))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))

	atomic.StoreInt32(&calls, 0)
	failing := func(ctx context.Context, text string) error {
		atomic.AddInt32(&calls, 1)
		return errors.New("down")
	}
	err := sendWithRetry(context.Background(), failing, "x", 2, time.Millisecond)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all 3 retries exhausted")
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestPollOnce(t *testing.T) {
	var replies []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/botTOKEN/getUpdates":
			assert.Equal(t, "7", r.URL.Query().Get("offset"))
			_, _ = w.Write([]byte(`{"ok":true,"result":[
				{"update_id":7,"message":{"text":" /quote aapl "}},
				{"update_id":8},
				{"update_id":9,"message":{"text":"/help"}}
			]}`))
		case "/botTOKEN/sendMessage":
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			replies = append(replies, body["text"])
			_, _ = w.Write([]byte(`{"ok":true}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	n := NewTelegramNotifier("TOKEN", "42", "")
	n.APIBase = srv.URL

	var commands []string
	next, err := n.PollOnce(context.Background(), srv.Client(), 7, func(ctx context.Context, cmd string) string {
		commands = append(commands, cmd)
		if cmd == "/help" {
			return ""
		}
		return "reply:" + cmd
	})
	require.NoError(t, err)

	assert.Equal(t, 10, next)
	assert.Equal(t, []string{"/quote aapl", "/help"}, commands)
	assert.Equal(t, []string{"reply:/quote aapl"}, replies)
}
