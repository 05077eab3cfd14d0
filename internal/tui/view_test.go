package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/randomizedcoder/schedviz/internal/metrics"
	"github.com/randomizedcoder/schedviz/internal/report"
	"github.com/randomizedcoder/schedviz/internal/schedule"
	"github.com/randomizedcoder/schedviz/internal/session"
)

// wide avoids line wrapping inside the boxes.
func wide(m Model) Model {
	m.width = 200
	m.height = 60
	return m
}

// =============================================================================
// Tests: Main View
// =============================================================================

func TestView_Idle(t *testing.T) {
	view := wide(newTestModel(&stubService{})).View()

	for _, want := range []string{"schedviz", "http://localhost:8000", "FCFS", "Workload (3)", "P1", "P3", "[ ] 1 FCFS", "q: quit"} {
		if !strings.Contains(view, want) {
			t.Errorf("view should contain %q", want)
		}
	}
	if strings.Contains(view, "Gantt Chart") || strings.Contains(view, "Comparison") {
		t.Error("idle view should not show results")
	}
}

func TestView_HeaderSettings(t *testing.T) {
	m, _ := press(t, newTestModel(&stubService{}), "+", "]", "]")
	header := m.renderHeader()

	if !strings.Contains(header, "CS: 0.5") {
		t.Errorf("header missing context switch: %q", header)
	}
	if !strings.Contains(header, "TS: 2") {
		t.Errorf("header missing time slice: %q", header)
	}
}

func TestView_EmptyWorkload(t *testing.T) {
	m, _ := press(t, newTestModel(&stubService{}), "x", "x", "x")
	if view := m.View(); !strings.Contains(view, "No processes") {
		t.Error("empty workload should show a hint")
	}
}

func TestView_BlankCellsShowDash(t *testing.T) {
	if cellOrDash("  ") != "-" || cellOrDash("3") != "3" {
		t.Error("cellOrDash mismatch")
	}
}

func TestView_Pending(t *testing.T) {
	m, _ := press(t, newTestModel(&stubService{}), "enter")
	if view := m.View(); !strings.Contains(view, "Waiting for the scheduling service") {
		t.Error("pending view should say it is waiting")
	}
}

func TestView_Run(t *testing.T) {
	m, cmd := press(t, newTestModel(&stubService{}), "enter")
	m = wide(run(t, m, cmd))
	view := m.View()

	for _, want := range []string{"Gantt Chart: FCFS", "IDLE", "PID", "WT", "Avg WT: 2.50", "CPU Util: 88.89%", "Throughput: 0.2222"} {
		if !strings.Contains(view, want) {
			t.Errorf("run view should contain %q", want)
		}
	}
}

func TestView_RunBarFitsBox(t *testing.T) {
	m, cmd := press(t, newTestModel(&stubService{}), "enter")
	m = run(t, m, cmd)

	bar := m.snap.Run.Layout
	for _, w := range []int{40, 80, 120} {
		m.width = w
		block := m.renderRun()
		if got := lipgloss.Width(block); got > w {
			t.Errorf("width %d: run block is %d wide", w, got)
		}
	}
	if bar.Empty() {
		t.Error("layout should not be empty")
	}
}

func TestView_Error(t *testing.T) {
	m, cmd := press(t, newTestModel(&stubService{err: errors.New("Request failed")}), "enter")
	m = wide(run(t, m, cmd))

	if view := m.View(); !strings.Contains(view, "✗ Request failed") {
		t.Error("error view should show the message")
	}
}

func TestView_Warnings(t *testing.T) {
	m := wide(newTestModel(&stubService{}))
	m.snap.Run = &session.RunView{
		Algorithm: "FCFS",
		Metrics:   report.BuildMetrics(nil, nil),
		Warnings:  []string{"P9: burst must be positive"},
	}

	view := m.View()
	if !strings.Contains(view, "⚠ P9: burst must be positive") {
		t.Error("warnings should be listed")
	}
	if !strings.Contains(view, "No execution segments") {
		t.Error("empty layout should be noted")
	}
}

// =============================================================================
// Tests: Comparison
// =============================================================================

func TestView_Comparison(t *testing.T) {
	m := wide(newTestModel(&stubService{}))
	m.snap.Comparison = &session.ComparisonView{
		Table: report.BuildComparison([]schedule.ComparisonEntry{
			{Algorithm: "SJF", AverageWaitingTime: schedule.Float(4)},
			{Algorithm: "LOTTERY", AverageWaitingTime: schedule.Float(2)},
		}),
	}

	view := m.View()
	sjf := strings.Index(view, "SJF")
	lottery := strings.Index(view, "LOTTERY*")
	if sjf < 0 || lottery < 0 {
		t.Fatalf("missing rows:\n%s", view)
	}
	if sjf > lottery {
		t.Error("rows must keep the service order")
	}
	if !strings.Contains(view, "* not a recognised algorithm") {
		t.Error("missing legend")
	}
}

func TestView_ComparisonEmpty(t *testing.T) {
	m := newTestModel(&stubService{})
	m.snap.Comparison = &session.ComparisonView{Table: report.BuildComparison(nil)}

	if view := m.View(); !strings.Contains(view, "No results") {
		t.Error("empty comparison should say so")
	}
}

// =============================================================================
// Tests: Footer
// =============================================================================

func TestView_FooterLatency(t *testing.T) {
	tests := []struct {
		name    string
		latency LatencySource
		want    string
	}{
		{"none", nil, ""},
		{"no samples", fixedLatency{}, "latency: -"},
		{"samples", fixedLatency{Count: 3, P50: 12 * time.Millisecond, P95: 40 * time.Millisecond}, "p50 12ms p95 40ms"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(&stubService{})
			m.latency = tt.latency
			if got := m.latencyLabel(); got != tt.want {
				t.Errorf("latencyLabel = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestView_LatencyFromCollector(t *testing.T) {
	m := newTestModel(&stubService{})
	m.latency = metrics.NewCollectorWithRegistry(prometheus.NewRegistry())

	if got := m.latencyLabel(); got != "latency: -" {
		t.Errorf("latencyLabel = %q", got)
	}
}

func TestFormatRow(t *testing.T) {
	if got := formatRow([]string{"a", "bb"}, 3); got != "a   bb " {
		t.Errorf("formatRow = %q", got)
	}
}
