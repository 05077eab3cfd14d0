package config

import (
	"github.com/spf13/pflag"
)

// BindFlags registers every config key on fs with defaults taken from def.
// Values are read back through Load, not through bound variables.
func BindFlags(fs *pflag.FlagSet, def *Config) {
	// Scheduling service
	fs.String("api-base", def.APIBase, "Scheduling service base URL")
	fs.Duration("timeout", def.Timeout, "Per-request timeout")
	fs.Int("retries", def.Retries, "Retries for transport failures and 502/503/504")
	fs.Duration("backoff-initial", def.BackoffInitial, "Delay before the first retry")
	fs.Duration("backoff-max", def.BackoffMax, "Maximum retry delay")

	// Run settings
	fs.StringP("algorithm", "a", def.Algorithm, "Algorithm for execute (FCFS, RR, SJF, SPN, SRTF, HRRN, MLQ, MLFQ)")
	fs.Float64("context-switch", def.ContextSwitch, "Context switch cost")
	fs.Float64("time-slice", def.TimeSlice, "Time slice for RR/MLFQ (0 = service default)")
	fs.String("algo-config", def.AlgoConfig, "Algorithm-specific config as a JSON object")
	fs.StringSlice("compare", def.Compare, "Algorithms to compare, in display order")

	// Workload
	fs.StringP("workload", "w", def.Workload, "CSV workload file (pid,arrival,burst[,priority])")
	fs.Bool("sample", def.Sample, "Start from the sample workload")

	// Shells
	fs.String("listen", def.Listen, "Web UI listen address")
	fs.Int("width", def.Width, "Terminal timeline width in columns")

	// Observability
	fs.String("metrics", def.MetricsAddr, "Prometheus metrics address (empty = disabled)")
	fs.Bool("dump-metrics", def.DumpMetrics, "Print collected metrics after a CLI command")
	fs.BoolP("v", "v", def.Verbose, "Verbose logging")
	fs.String("log-format", def.LogFormat, `Log format: "json" or "text"`)
	fs.String("log-level", def.LogLevel, "Log level: debug, info, warn, error")

	// Diagnostics
	fs.Bool("skip-preflight", def.SkipPreflight, "Skip preflight checks")

	fs.StringP("config", "c", def.ConfigFile, "Config file (yaml, json or toml)")
}
