// Package config provides configuration management for schedviz.
package config

import (
	"time"

	"github.com/randomizedcoder/schedviz/internal/client"
	"github.com/randomizedcoder/schedviz/internal/schedule"
	"github.com/randomizedcoder/schedviz/internal/session"
)

// Config holds all configuration options. The mapstructure tags are the
// flag names, config file keys and (upper-cased, "-" -> "_", prefixed with
// SCHEDVIZ_) environment variable names.
type Config struct {
	// Scheduling service
	APIBase        string        `mapstructure:"api-base"`
	Timeout        time.Duration `mapstructure:"timeout"`
	Retries        int           `mapstructure:"retries"`
	BackoffInitial time.Duration `mapstructure:"backoff-initial"`
	BackoffMax     time.Duration `mapstructure:"backoff-max"`

	// Run settings
	Algorithm     string   `mapstructure:"algorithm"`
	ContextSwitch float64  `mapstructure:"context-switch"`
	TimeSlice     float64  `mapstructure:"time-slice"`
	AlgoConfig    string   `mapstructure:"algo-config"`
	Compare       []string `mapstructure:"compare"`

	// Workload
	Workload string `mapstructure:"workload"` // CSV path
	Sample   bool   `mapstructure:"sample"`

	// Shells
	Listen string `mapstructure:"listen"`
	Width  int    `mapstructure:"width"`

	// Observability
	MetricsAddr string `mapstructure:"metrics"`
	DumpMetrics bool   `mapstructure:"dump-metrics"`
	Verbose     bool   `mapstructure:"v"`
	LogFormat   string `mapstructure:"log-format"` // json, text
	LogLevel    string `mapstructure:"log-level"`

	// Diagnostic modes
	SkipPreflight bool `mapstructure:"skip-preflight"`

	// ConfigFile is where the file layer came from, if any.
	ConfigFile string `mapstructure:"config"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		APIBase:        "http://localhost:8000",
		Timeout:        10 * time.Second,
		Retries:        0,
		BackoffInitial: 200 * time.Millisecond,
		BackoffMax:     2 * time.Second,

		Algorithm:  schedule.FCFS,
		Compare:    append([]string(nil), schedule.DefaultAlgorithms...),
		AlgoConfig: "",

		Listen: "127.0.0.1:8080",
		Width:  80,

		MetricsAddr: "", // disabled
		LogFormat:   "text",
		LogLevel:    "info",
	}
}

// ClientConfig returns the service client settings.
func (c *Config) ClientConfig() client.Config {
	cc := client.DefaultConfig()
	cc.BaseURL = c.APIBase
	cc.Timeout = c.Timeout
	cc.Retries = c.Retries
	cc.Backoff.Initial = c.BackoffInitial
	cc.Backoff.Max = c.BackoffMax
	cc.Seed = time.Now().UnixNano()
	return cc
}

// Settings returns the run settings for a session.
func (c *Config) Settings() session.Settings {
	return session.Settings{
		Algorithm:     c.Algorithm,
		ContextSwitch: c.ContextSwitch,
		TimeSlice:     c.TimeSlice,
		ConfigText:    c.AlgoConfig,
	}
}
