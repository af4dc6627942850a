package cmd

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"ChartDesk/internal/model"
	"ChartDesk/internal/recorder"
)

var (
	snapTimeframe string
	snapRecord    bool
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot <ticker>",
	Short: "Print the indicator snapshot for a ticker as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runSnapshot,
}

var chartCmd = &cobra.Command{
	Use:   "chart <ticker>",
	Short: "Print bars and MA overlays for a ticker as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runChart,
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(chartCmd)

	for _, c := range []*cobra.Command{snapshotCmd, chartCmd} {
		c.Flags().StringVarP(&snapTimeframe, "timeframe", "t", "", "1d, 5d, 1mo, 3mo, 6mo, 1y or 2y (default: default_timeframe)")
	}
	snapshotCmd.Flags().BoolVar(&snapRecord, "record", false, "append the snapshot to the journal")
}

func timeframeFlag(def model.Timeframe) model.Timeframe {
	if snapTimeframe == "" {
		return def
	}
	return model.ParseTimeframe(snapTimeframe)
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	engine := newEngine(cfg)

	snap, err := engine.ComputeSnapshot(cmd.Context(), args[0], timeframeFlag(cfg.DefaultTimeframe))
	if err != nil {
		return err
	}

	if snapRecord {
		rec := openRecorder(cfg)
		defer rec.Close()
		if err := rec.RecordSnapshot(recorder.SourceCLI, snap); err != nil {
			log.Printf("[ERROR] record snapshot: %v", err)
		}
	}
	return printJSON(cmd, snap)
}

func runChart(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	chart, err := newEngine(cfg).ComputeChart(cmd.Context(), args[0], timeframeFlag(cfg.DefaultTimeframe))
	if err != nil {
		return err
	}
	return printJSON(cmd, chart)
}
