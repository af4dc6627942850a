package cmd

import (
	"github.com/spf13/cobra"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "desk",
	Short: "Price snapshots, moving averages and chart overlays for the trading dashboard",
	Long: `desk computes indicator snapshots (latest close, percent change, MA20,
MA50, volume) and chart overlays from historical prices.

It can:
  - serve them over HTTP for the dashboard front end
  - refresh a watchlist on a cron schedule and post it to Telegram
  - print a single snapshot or chart from the command line
  - list journaled snapshots`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (default $CONFIG_PATH or configs/config.yaml)")
}
