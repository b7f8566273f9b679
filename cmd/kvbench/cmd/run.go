package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/eyeKill/KVBench/common"
	"github.com/eyeKill/KVBench/master"
	"github.com/eyeKill/KVBench/report"
)

func init() {
	rootCmd.AddCommand(runCmd)
	flags := runCmd.Flags()
	flags.Int("processes", 4, "Total worker process count")
	flags.Int("operations", 100, "Operations per read/write job dispatch")
	flags.Int("reads", 1, "Read weight of the operation mix")
	flags.Int("writes", 1, "Write weight of the operation mix")
	flags.Int64("key-min", 0, "Lower key range bound (inclusive)")
	flags.Int64("key-max", 100000, "Upper key range bound (exclusive)")
	flags.String("namespace", "test", "Target namespace")
	flags.String("set", "demo", "Target set")
	flags.String("bin-name", "b", "Bin written by write transactions")
	flags.String("bin-kind", "integer", "Bin kind: integer, string or bytes")
	flags.Int("bin-size", 8, "Bin payload size for string and bytes bins")
	flags.Int("duration", 0, "Run duration in seconds; disables the iteration limit")
	flags.Int("iterations", 0, "Per-worker iteration limit, 0 for unlimited")
	flags.Bool("silent", false, "Suppress per-second interval lines")
	flags.Bool("summary", true, "Emit a final summary report")
	flags.String("metrics-addr", "", "Serve prometheus metrics on this address")
	flags.String("spec", "", "YAML file with query and scan specs")
	flags.Duration("sim-latency", time.Millisecond, "Simulated per-operation latency")
	flags.Float64("sim-timeout-rate", 0, "Simulated operation timeout fraction")
	flags.Float64("sim-error-rate", 0, "Simulated operation error fraction")
	for _, name := range []string{
		"processes", "operations", "reads", "writes", "key-min", "key-max",
		"namespace", "set", "bin-name", "bin-kind", "bin-size",
		"duration", "iterations", "silent", "summary",
		"metrics-addr", "spec", "sim-latency", "sim-timeout-rate", "sim-error-rate",
	} {
		_ = viper.BindPFlag(name, flags.Lookup(name))
	}
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a benchmark against the target service",
	Run: func(cmd *cobra.Command, args []string) {
		log := common.Log()
		cfg, err := buildConfig()
		if err != nil {
			log.Error("Invalid configuration.", zap.Error(err))
			os.Exit(1)
		}

		console := report.NewConsoleSink(os.Stdout)
		sink := report.Sink(console)
		alerts := report.AlertChannel(report.NewLogAlerts())
		if addr := viper.GetString("metrics-addr"); addr != "" {
			reg := prometheus.NewRegistry()
			prom := report.NewPromSink(reg)
			prom.Serve(addr, reg)
			sink = report.Multi(console, prom)
			alerts = report.MultiAlert(alerts, prom)
		}

		bin, err := os.Executable()
		if err != nil {
			log.Error("Cannot locate own binary for worker spawning.", zap.Error(err))
			os.Exit(1)
		}
		workerArgs := []string{
			"worker",
			"--sim-latency", viper.GetDuration("sim-latency").String(),
			"--sim-timeout-rate", fmt.Sprint(viper.GetFloat64("sim-timeout-rate")),
			"--sim-error-rate", fmt.Sprint(viper.GetFloat64("sim-error-rate")),
		}
		launcher := master.NewExecLauncher(bin, workerArgs)

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		log.Info("Starting run.", zap.String("runId", console.RunID.String()))
		os.Exit(master.NewMaster(cfg, sink, alerts, launcher).Run(ctx))
	},
}

func buildConfig() (*common.RunConfig, error) {
	cfg := &common.RunConfig{
		Processes:  viper.GetInt("processes"),
		Operations: viper.GetInt("operations"),
		Reads:      viper.GetInt("reads"),
		Writes:     viper.GetInt("writes"),
		KeyRange: common.KeyRange{
			Min: viper.GetInt64("key-min"),
			Max: viper.GetInt64("key-max"),
		},
		Namespace: viper.GetString("namespace"),
		Set:       viper.GetString("set"),
		Bin: common.BinSpec{
			Name: viper.GetString("bin-name"),
			Kind: viper.GetString("bin-kind"),
			Size: viper.GetInt("bin-size"),
		},
		Duration:   viper.GetInt("duration"),
		Iterations: viper.GetInt("iterations"),
		Silent:     viper.GetBool("silent"),
		Summary:    viper.GetBool("summary"),
	}
	if specFile := viper.GetString("spec"); specFile != "" {
		v := viper.New()
		v.SetConfigFile(specFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
		if err := v.UnmarshalKey("queries", &cfg.Queries); err != nil {
			return nil, err
		}
		if err := v.UnmarshalKey("scans", &cfg.Scans); err != nil {
			return nil, err
		}
	}
	if cfg.DurationMode() {
		// duration and iteration limit are mutually exclusive
		cfg.Iterations = 0
	}
	return cfg, cfg.Validate()
}
