package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"ChartDesk/internal/api"
)

var (
	servePort  int
	serveWatch bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve snapshots, charts and the watchlist over HTTP",
	Long: `Start the HTTP API.

Endpoints:
  GET /api/v1/snapshot?ticker=AAPL&timeframe=1mo
  GET /api/v1/chart?ticker=AAPL&timeframe=6mo
  GET /api/v1/watchlist
  GET /api/v1/history?ticker=AAPL&limit=50
  GET /health`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "listen port (overrides server.port)")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "also run the scheduled watchlist refresh")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort > 0 {
		cfg.Server.Port = servePort
	}

	engine := newEngine(cfg)
	rec := openRecorder(cfg)
	defer rec.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if serveWatch {
		stopWatcher, err := startWatcher(ctx, cfg, engine, rec, os.Getenv("RUN_ON_START") == "true")
		if err != nil {
			return fmt.Errorf("start watcher: %w", err)
		}
		defer stopWatcher()
	}

	handler := api.NewHandler(engine, rec, api.Options{
		DefaultTimeframe:   cfg.DefaultTimeframe,
		Watchlist:          cfg.Watchlist.Tickers,
		WatchlistTimeframe: cfg.Watchlist.Timeframe,
	})
	srv := handler.Server(cfg.Server.Port)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[INFO] ChartDesk listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		log.Println("[INFO] shutdown signal received, stopping...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Println("[INFO] ChartDesk stopped")
	return nil
}
