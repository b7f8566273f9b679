package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "kvbench",
	Short: "Load-generation harness for KV services",
	Long: `kvbench drives a pool of worker processes against a target
service, mixing read/write transactions, index queries and scans, and
reports per-second throughput, timeout and error counters.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
