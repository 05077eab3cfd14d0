package orchestrator

import (
	"errors"
	"fmt"
	"io"

	"github.com/randomizedcoder/schedviz/internal/report"
	"github.com/randomizedcoder/schedviz/internal/session"
	"github.com/randomizedcoder/schedviz/internal/timeline"
)

var errNoResult = errors.New("no result to print")

// printRun writes the Gantt bar, its axis, the metrics table and any
// warnings.
func printRun(w io.Writer, run *session.RunView, width int) error {
	if run == nil {
		return errNoResult
	}

	fmt.Fprintf(w, "Gantt Chart: %s\n", run.Algorithm)
	if run.Layout.Empty() {
		fmt.Fprintln(w, "(no execution segments)")
	} else {
		fmt.Fprintln(w, timeline.RenderBar(run.Layout, width))
		fmt.Fprintln(w, timeline.RenderAxis(run.Layout, width))
		fmt.Fprintln(w, run.Layout.AxisLine())
	}
	fmt.Fprintln(w)

	if err := report.WriteMetrics(w, run.Metrics); err != nil {
		return err
	}
	printWarnings(w, run.Warnings)
	return nil
}

// printComparison writes the comparison table and any warnings.
func printComparison(w io.Writer, cmp *session.ComparisonView) error {
	if cmp == nil {
		return errNoResult
	}

	if err := report.WriteComparison(w, cmp.Table); err != nil {
		return err
	}
	printWarnings(w, cmp.Warnings)
	return nil
}

func printWarnings(w io.Writer, warnings []string) {
	for _, warning := range warnings {
		fmt.Fprintf(w, "⚠ %s\n", warning)
	}
}
