package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/randomizedcoder/schedviz/internal/config"
	"github.com/randomizedcoder/schedviz/internal/logging"
	"github.com/randomizedcoder/schedviz/internal/orchestrator"
)

// version is set at build time via ldflags:
//
//	go build -ldflags "-X main.version=1.0.0" ./cmd/schedviz
var version = "dev"

var (
	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "schedviz",
	Short: "Visualise CPU scheduling runs from a scheduling service",
	Long: `schedviz sends a process workload to a CPU scheduling service and renders
the result: a proportional Gantt timeline with per-process metrics, or a
comparison of several algorithms.

Settings come from flags, SCHEDVIZ_* environment variables and an optional
--config file, in that order of precedence.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(cmd.Flags())
		if err != nil {
			return err
		}
		if err := config.Validate(loaded); err != nil {
			return fmt.Errorf("configuration error:\n%w", err)
		}
		cfg = loaded

		// The TUI owns the terminal, so its logs go nowhere
		if cmd.Name() == "tui" {
			logger = logging.Discard()
		} else {
			logger = logging.NewLogger(cfg.LogFormat, cfg.LogLevel, cfg.Verbose)
		}
		logging.SetDefault(logger)
		return nil
	},
}

func init() {
	config.BindFlags(rootCmd.PersistentFlags(), config.DefaultConfig())
}

// newOrchestrator builds the components for the loaded configuration.
func newOrchestrator() (*orchestrator.Orchestrator, error) {
	return orchestrator.New(cfg, logger)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
