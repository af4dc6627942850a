package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"ChartDesk/internal/collector"
	"ChartDesk/internal/model"
	"ChartDesk/internal/notifier"
	"ChartDesk/internal/recorder"
)

// Engine is the part of the indicator engine the scheduler drives.
type Engine interface {
	ComputeSnapshot(ctx context.Context, ticker string, tf model.Timeframe) (*model.IndicatorSnapshot, error)
	ComputeWatchlist(ctx context.Context, tickers []string, tf model.Timeframe) []model.WatchItem
}

// Notifier delivers digests; *notifier.TelegramNotifier satisfies it.
type Notifier interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler runs the watchlist refresh on a cron schedule and answers chat commands.
type Scheduler struct {
	Cron             *cron.Cron
	Engine           Engine
	Notifier         Notifier // nil disables delivery
	Recorder         recorder.Recorder
	Tickers          []string
	Timeframe        model.Timeframe
	DefaultTimeframe model.Timeframe
	Ctx              context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, engine Engine, n Notifier, rec recorder.Recorder, tickers []string, tf, defaultTF model.Timeframe) *Scheduler {
	return &Scheduler{
		Cron:             cron.New(cron.WithSeconds()),
		Engine:           engine,
		Notifier:         n,
		Recorder:         rec,
		Tickers:          tickers,
		Timeframe:        tf,
		DefaultTimeframe: defaultTF,
		Ctx:              ctx,
	}
}

// Register adds the watchlist refresh task.
func (s *Scheduler) Register(watchCron string) error {
	if _, err := s.Cron.AddFunc(watchCron, s.watchTask); err != nil {
		return fmt.Errorf("register watch task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for a running task to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// RunWatchNow executes the watch task immediately (for RUN_ON_START / manual trigger).
func (s *Scheduler) RunWatchNow() {
	s.watchTask()
}

// RefreshWatchlist computes and records a snapshot for every watched ticker.
func (s *Scheduler) RefreshWatchlist(ctx context.Context) []model.WatchItem {
	items := s.Engine.ComputeWatchlist(ctx, s.Tickers, s.Timeframe)
	for _, it := range items {
		if it.Snapshot == nil {
			log.Printf("[WARN] watchlist %s: %s", it.Ticker, it.Error)
			continue
		}
		if err := s.Recorder.RecordSnapshot(recorder.SourceWatch, it.Snapshot); err != nil {
			log.Printf("[ERROR] record snapshot %s: %v", it.Ticker, err)
		}
	}
	return items
}

func (s *Scheduler) watchTask() {
	log.Println("[INFO] running watchlist refresh")
	items := s.RefreshWatchlist(s.Ctx)
	s.trySend(notifier.FormatWatchlist(items, s.Timeframe, time.Now()))
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return notifier.FormatHelp()
	}
	switch strings.ToLower(fields[0]) {
	case "/quote":
		if len(fields) < 2 {
			return "Usage: /quote TICKER [TIMEFRAME]"
		}
		tf := s.DefaultTimeframe
		if len(fields) > 2 {
			tf = model.ParseTimeframe(fields[2])
		}
		snap, err := s.Engine.ComputeSnapshot(ctx, fields[1], tf)
		if err != nil {
			return describeError(err)
		}
		return notifier.FormatSnapshot(snap)
	case "/watchlist":
		return notifier.FormatWatchlist(s.Engine.ComputeWatchlist(ctx, s.Tickers, s.Timeframe), s.Timeframe, time.Now())
	default:
		return notifier.FormatHelp()
	}
}

func describeError(err error) string {
	switch {
	case errors.Is(err, collector.ErrInvalidInput):
		return "❌ " + err.Error()
	case errors.Is(err, collector.ErrNoData):
		return "⚪ " + err.Error()
	default:
		return "⚠️ " + err.Error()
	}
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		log.Printf("[INFO] notifier disabled, digest:\n%s", text)
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
