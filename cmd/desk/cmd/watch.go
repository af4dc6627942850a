package cmd

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var watchNow bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Refresh the watchlist on schedule and post digests to Telegram",
	Long: `Run the watchlist refresh on schedule.watch_cron. Every run computes a
snapshot per watchlist ticker, journals it, and sends the market overview to
Telegram when a bot is configured. The bot also answers /quote and /watchlist.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().BoolVar(&watchNow, "now", false, "refresh once immediately on start")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	engine := newEngine(cfg)
	rec := openRecorder(cfg)
	defer rec.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stopWatcher, err := startWatcher(ctx, cfg, engine, rec, watchNow)
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer stopWatcher()

	log.Println("[INFO] ChartDesk watcher is running. Press Ctrl+C to stop.")
	<-ctx.Done()
	log.Println("[INFO] shutdown signal received, stopping...")
	return nil
}
