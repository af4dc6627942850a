package cmd

import (
	"context"
	"fmt"
	"log"
	"os"

	"ChartDesk/internal/collector"
	"ChartDesk/internal/config"
	"ChartDesk/internal/notifier"
	"ChartDesk/internal/recorder"
	"ChartDesk/internal/scheduler"
)

func loadConfig() (*config.Config, error) {
	path := cfgPath
	if path == "" {
		path = "configs/config.yaml"
		if v := os.Getenv("CONFIG_PATH"); v != "" {
			path = v
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func newFetcher(cfg *config.Config) collector.Fetcher {
	switch cfg.Provider.Source {
	case config.SourceREST:
		return collector.NewRESTFetcher(cfg.Provider.BaseURL, cfg.Provider.APIKey, cfg.Proxy, cfg.Provider.Timeout)
	case config.SourceMock:
		return &collector.MockFetcher{Price: 100}
	default:
		return collector.NewYahooFetcher(cfg.Proxy, cfg.Provider.Timeout)
	}
}

func newEngine(cfg *config.Config) *collector.Collector {
	fetcher := newFetcher(cfg)
	log.Printf("[INFO] data source: %s", fetcher.Name())
	return collector.NewCollector(fetcher, cfg.Provider.Timeout)
}

// openRecorder falls back to a no-op journal when SQLite cannot be opened.
func openRecorder(cfg *config.Config) recorder.Recorder {
	if cfg.Database.SQLitePath == "" {
		return recorder.NewNoopRecorder()
	}
	sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
	if err != nil {
		log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
		return recorder.NewNoopRecorder()
	}
	return sr
}

// startWatcher registers and starts the watchlist cron task, plus Telegram
// command polling when a bot is configured. The returned func stops it.
func startWatcher(ctx context.Context, cfg *config.Config, engine *collector.Collector, rec recorder.Recorder, runNow bool) (func(), error) {
	var tn *notifier.TelegramNotifier
	var n scheduler.Notifier
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		n = tn
	} else {
		log.Println("[INFO] telegram not configured, digests go to the log")
	}

	sched := scheduler.NewScheduler(ctx, engine, n, rec, cfg.Watchlist.Tickers, cfg.Watchlist.Timeframe, cfg.DefaultTimeframe)
	if err := sched.Register(cfg.Schedule.WatchCron); err != nil {
		return nil, err
	}
	sched.Start()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Println("[INFO] Telegram polling started")
	}

	if runNow {
		log.Println("[INFO] RUN_ON_START enabled, refreshing watchlist now")
		go sched.RunWatchNow()
	}
	return sched.Stop, nil
}
