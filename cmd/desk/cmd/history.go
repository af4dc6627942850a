package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history [ticker]",
	Short: "List journaled snapshots, newest first",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum rows")
}

func optional(v *float64, format string) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf(format, *v)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	rec := openRecorder(cfg)
	defer rec.Close()

	ticker := ""
	if len(args) == 1 {
		ticker = args[0]
	}
	recs, err := rec.History(ticker, historyLimit)
	if err != nil {
		return fmt.Errorf("history: %w", err)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RECORDED\tSOURCE\tTICKER\tTF\tCLOSE\tCHG%\tMA20\tMA50\tVOLUME")
	for _, r := range recs {
		s := r.Snapshot
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2f\t%s\t%s\t%s\t%.0f\n",
			r.RecordedAt.Format("2006-01-02 15:04:05"), r.Source, s.Ticker, s.Timeframe,
			s.LatestClose, optional(s.PercentChange, "%+.2f"), optional(s.MA20, "%.2f"), optional(s.MA50, "%.2f"),
			s.LatestVolume)
	}
	return w.Flush()
}
