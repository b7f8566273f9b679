package cmd

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/eyeKill/KVBench/common"
	"github.com/eyeKill/KVBench/worker"
)

var (
	simLatency     time.Duration
	simTimeoutRate float64
	simErrorRate   float64
)

func init() {
	rootCmd.AddCommand(workerCmd)
	workerCmd.Flags().DurationVar(&simLatency, "sim-latency", time.Millisecond,
		"Simulated per-operation latency")
	workerCmd.Flags().Float64Var(&simTimeoutRate, "sim-timeout-rate", 0,
		"Simulated operation timeout fraction")
	workerCmd.Flags().Float64Var(&simErrorRate, "sim-error-rate", 0,
		"Simulated operation error fraction")
}

// workerCmd is spawned by the master, never invoked by hand. It
// speaks the message protocol on stdin/stdout, so all logging goes to
// stderr via zap.
var workerCmd = &cobra.Command{
	Use:    "worker",
	Hidden: true,
	Run: func(cmd *cobra.Command, args []string) {
		executor := worker.NewSimExecutor(simLatency, simTimeoutRate, simErrorRate)
		w := worker.New(executor, os.Stdin, os.Stdout)
		if err := w.Run(); err != nil {
			common.Log().Error("Worker failed.", zap.Error(err))
			os.Exit(1)
		}
	},
}
