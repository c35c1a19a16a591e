package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Print store metrics for this run in Prometheus text format",
	RunE: func(cmd *cobra.Command, args []string) error {
		return mtr.WriteText(os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(metricsCmd)
}
