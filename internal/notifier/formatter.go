package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"ChartDesk/internal/calculator"
	"ChartDesk/internal/model"
)

func price(v float64) string {
	return "$" + humanize.FormatFloat("#,###.##", v)
}

func optionalPrice(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return price(*v)
}

func changeText(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%+.2f%%", *v)
}

func changeIcon(v *float64) string {
	switch {
	case v == nil:
		return "⚪"
	case *v > 0:
		return "🟢"
	case *v < 0:
		return "🔴"
	default:
		return "⚪"
	}
}

// FormatSnapshot formats a snapshot into a Telegram message.
func FormatSnapshot(s *model.IndicatorSnapshot) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📈 <b>%s</b> | %s | %s\n\n", html.EscapeString(s.Ticker), strings.ToUpper(string(s.Timeframe)), s.AsOf.Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("Price: %s (%s)\n", price(s.LatestClose), changeText(s.PercentChange)))
	b.WriteString(fmt.Sprintf("MA20: %s | MA50: %s\n", optionalPrice(s.MA20), optionalPrice(s.MA50)))
	b.WriteString(fmt.Sprintf("Volume: %s\n", humanize.Comma(int64(s.LatestVolume))))
	if s.RSI14 != nil {
		b.WriteString(fmt.Sprintf("RSI14: %.0f\n", *s.RSI14))
	}
	b.WriteString(fmt.Sprintf("Range: %s - %s (%d periods)", price(s.PeriodLow), price(s.PeriodHigh), s.Periods))
	if pos, err := calculator.CalculateRangePosition(s.LatestClose, s.PeriodHigh, s.PeriodLow); err == nil {
		b.WriteString(fmt.Sprintf(", at %.0f%%", pos*100))
	}
	b.WriteString("\n")
	if s.Trend != "" {
		b.WriteString(fmt.Sprintf("Trend: %s\n", s.Trend))
	}
	return b.String()
}

// FormatWatchlist formats the market overview digest.
func FormatWatchlist(items []model.WatchItem, tf model.Timeframe, at time.Time) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 <b>Market Overview</b> | %s | %s\n\n", strings.ToUpper(string(tf)), at.Format("2006-01-02 15:04")))
	for _, it := range items {
		if it.Snapshot == nil {
			b.WriteString(fmt.Sprintf("⚠️ <b>%s</b> unavailable: %s\n", html.EscapeString(it.Ticker), html.EscapeString(it.Error)))
			continue
		}
		s := it.Snapshot
		b.WriteString(fmt.Sprintf("%s <b>%s</b> %s (%s)\n", changeIcon(s.PercentChange), html.EscapeString(s.Ticker), price(s.LatestClose), changeText(s.PercentChange)))
	}
	return b.String()
}

// FormatHelp lists the supported chat commands.
func FormatHelp() string {
	return "Available commands:\n• /quote TICKER [1d|5d|1mo|3mo|6mo|1y|2y]\n• /watchlist"
}
