// Package orchestrator wires the configured components together and runs
// one shell (execute, compare, tui or serve) over them.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/randomizedcoder/schedviz/internal/client"
	"github.com/randomizedcoder/schedviz/internal/config"
	"github.com/randomizedcoder/schedviz/internal/metrics"
	"github.com/randomizedcoder/schedviz/internal/preflight"
	"github.com/randomizedcoder/schedviz/internal/session"
	"github.com/randomizedcoder/schedviz/internal/tui"
	"github.com/randomizedcoder/schedviz/internal/web"
	"github.com/randomizedcoder/schedviz/internal/workload"
)

// ErrPreflight is returned when a preflight check fails.
var ErrPreflight = errors.New("preflight checks failed (use --skip-preflight to override)")

// Orchestrator coordinates the client, session and metrics for one run.
type Orchestrator struct {
	config *config.Config
	logger *slog.Logger

	registry      *prometheus.Registry
	metrics       *metrics.Collector
	client        *client.Client
	session       *session.Session
	metricsServer *metrics.Server

	// Stdout receives rendered results, Stderr preflight output.
	Stdout io.Writer
	Stderr io.Writer

	startTime time.Time
}

// New creates an Orchestrator. The initial workload comes from the CSV
// file, the sample, or the default rows, in that order.
func New(cfg *config.Config, logger *slog.Logger) (*Orchestrator, error) {
	rows, err := initialRows(cfg)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollectorWithRegistry(registry)

	cc := cfg.ClientConfig()
	cc.Observer = collector
	svc := client.New(cc, logger)

	o := &Orchestrator{
		config:   cfg,
		logger:   logger,
		registry: registry,
		metrics:  collector,
		client:   svc,
		session:  session.New(svc, workload.New(rows...), collector, logger),
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
	}
	if cfg.MetricsAddr != "" {
		o.metricsServer = metrics.NewServer(cfg.MetricsAddr, registry, logger)
	}
	return o, nil
}

func initialRows(cfg *config.Config) ([]workload.Row, error) {
	switch {
	case cfg.Workload != "":
		rows, err := workload.LoadFile(cfg.Workload)
		if err != nil {
			return nil, fmt.Errorf("loading workload: %w", err)
		}
		return rows, nil
	case cfg.Sample:
		return workload.SampleRows(), nil
	default:
		return workload.DefaultRows(), nil
	}
}

// Session returns the session every shell drives.
func (o *Orchestrator) Session() *session.Session {
	return o.session
}

// Gatherer returns the registry holding the collector.
func (o *Orchestrator) Gatherer() prometheus.Gatherer {
	return o.registry
}

// =============================================================================
// Shells
// =============================================================================

// Execute runs the configured algorithm once and prints the result.
func (o *Orchestrator) Execute(ctx context.Context) error {
	return o.run(ctx, func(ctx context.Context) error {
		err := o.session.Execute(ctx, o.config.Settings())
		snap := o.session.Snapshot()
		if err != nil {
			return err
		}
		return printRun(o.Stdout, snap.Run, o.config.Width)
	})
}

// Compare runs the configured compare set and prints the table.
func (o *Orchestrator) Compare(ctx context.Context) error {
	return o.run(ctx, func(ctx context.Context) error {
		err := o.session.Compare(ctx, o.config.Settings(), o.config.Compare)
		snap := o.session.Snapshot()
		if err != nil {
			return err
		}
		return printComparison(o.Stdout, snap.Comparison)
	})
}

// TUI runs the interactive terminal UI until the user quits.
func (o *Orchestrator) TUI(ctx context.Context) error {
	return o.run(ctx, func(ctx context.Context) error {
		model := tui.New(tui.Config{
			Session:  o.session,
			Settings: o.config.Settings(),
			Compare:  o.config.Compare,
			APIBase:  o.client.BaseURL(),
			Timeout:  o.config.Timeout,
			Latency:  o.metrics,
		})
		p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
		if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return fmt.Errorf("tui: %w", err)
		}
		return nil
	})
}

// Serve runs the web UI until ctx is cancelled or a signal arrives.
func (o *Orchestrator) Serve(ctx context.Context) error {
	if !o.config.Verbose {
		gin.SetMode(gin.ReleaseMode)
	}
	return o.run(ctx, func(ctx context.Context) error {
		srv, err := web.New(web.Config{
			Session:  o.session,
			Settings: o.config.Settings(),
			Compare:  o.config.Compare,
			Gatherer: o.registry,
			Timeout:  o.config.Timeout,
			APIBase:  o.client.BaseURL(),
		}, o.logger)
		if err != nil {
			return err
		}
		fmt.Fprintf(o.Stderr, "schedviz web UI on http://%s\n", o.config.Listen)
		return srv.Run(ctx, o.config.Listen)
	})
}

// run wraps a shell with preflight, the optional metrics server, signal
// handling and the exit summary.
func (o *Orchestrator) run(ctx context.Context, shell func(context.Context) error) error {
	o.startTime = time.Now()

	if !o.config.SkipPreflight {
		result := preflight.RunAll(ctx, o.client, o.config)
		preflight.PrintResults(o.Stderr, result)
		if !result.Passed {
			return ErrPreflight
		}
	}

	if o.metricsServer != nil {
		if err := o.metricsServer.Start(); err != nil {
			return fmt.Errorf("failed to start metrics server: %w", err)
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			o.logger.Info("received_signal", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()

	err := shell(ctx)

	if o.metricsServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if serr := o.metricsServer.Shutdown(shutdownCtx); serr != nil {
			o.logger.Warn("metrics_server_shutdown_error", "error", serr)
		}
	}

	if o.config.DumpMetrics {
		if derr := metrics.WriteText(o.Stdout, o.registry); derr != nil {
			o.logger.Warn("metrics_dump_failed", "error", derr)
		}
	}

	o.logSummary()
	return err
}

// logSummary logs the request latency seen during the run.
func (o *Orchestrator) logSummary() {
	l := o.metrics.Latency()
	o.logger.Debug("run_summary",
		"duration", time.Since(o.startTime).Round(time.Millisecond),
		"requests", l.Count,
		"p50", l.P50,
		"p95", l.P95,
		"p99", l.P99,
		"max", l.Max,
	)
}
