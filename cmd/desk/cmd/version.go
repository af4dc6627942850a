package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"ChartDesk/internal/api"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "desk version %s\n", api.ServiceVersion)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
