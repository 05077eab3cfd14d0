package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/randomizedcoder/schedviz/internal/report"
	"github.com/randomizedcoder/schedviz/internal/timeline"
)

// =============================================================================
// Main View Rendering
// =============================================================================

// renderMain renders the whole screen.
func (m Model) renderMain() string {
	sections := []string{
		m.renderHeader(),
		m.renderWorkload(),
		m.renderPicker(),
	}

	if r := m.renderResults(); r != "" {
		sections = append(sections, r)
	}

	sections = append(sections, m.renderFooter())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// =============================================================================
// Header
// =============================================================================

func (m Model) renderHeader() string {
	ts := "-"
	if m.settings.TimeSlice > 0 {
		ts = timeline.FormatTime(m.settings.TimeSlice)
	}

	header := fmt.Sprintf(
		" schedviz │ %s │ %s │ CS: %s │ TS: %s ",
		m.apiBase,
		m.settings.Algorithm,
		timeline.FormatTime(m.settings.ContextSwitch),
		ts,
	)

	return headerStyle.Width(m.width).Render(header)
}

// =============================================================================
// Workload
// =============================================================================

func (m Model) renderWorkload() string {
	header := tableHeaderStyle.Render(
		fmt.Sprintf("%-8s %-10s %-10s %-10s", "PID", "Arrival", "Burst", "Priority"),
	)

	maxRows := m.height - 18
	if maxRows < 5 {
		maxRows = 5
	}

	rows := m.snap.Rows
	lines := make([]string, 0, len(rows)+1)
	for i, r := range rows {
		if i >= maxRows {
			lines = append(lines, dimStyle.Render(fmt.Sprintf("... and %d more rows", len(rows)-maxRows)))
			break
		}
		line := fmt.Sprintf("%-8s %-10s %-10s %-10s",
			cellOrDash(r.ID), cellOrDash(r.Arrival), cellOrDash(r.Burst), cellOrDash(r.Priority))
		lines = append(lines, rowStyle(i).Render(line))
	}
	if len(rows) == 0 {
		lines = append(lines, dimStyle.Render("No processes. Press 'a' to add one or 's' for the sample."))
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		append([]string{
			sectionHeaderStyle.Render(fmt.Sprintf("Workload (%d)", len(rows))),
			header,
		}, lines...)...,
	)

	return boxStyle.Width(m.width - 2).Render(content)
}

func cellOrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// =============================================================================
// Algorithm Picker
// =============================================================================

func (m Model) renderPicker() string {
	chips := make([]string, len(m.algorithms))
	for i, a := range m.algorithms {
		chips[i] = RenderChip(a, i == m.algoIdx)
	}

	checks := make([]string, len(m.algorithms))
	for i, a := range m.algorithms {
		checks[i] = RenderCheck(fmt.Sprint(i+1), a, m.compareSet[i])
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		sectionHeaderStyle.Render("Algorithm"),
		lipgloss.JoinHorizontal(lipgloss.Top, chips...),
		RenderKeyValue("Compare", strings.Join(checks, "  ")),
	)

	return boxStyle.Width(m.width - 2).Render(content)
}

// =============================================================================
// Results
// =============================================================================

func (m Model) renderResults() string {
	switch {
	case m.Running():
		return boxStyle.Width(m.width - 2).Render(statusInfo.Render("Waiting for the scheduling service..."))
	case m.snap.Err != "":
		return boxStyle.Width(m.width - 2).Render(statusError.Render("✗ " + m.snap.Err))
	case m.snap.Run != nil:
		return m.renderRun()
	case m.snap.Comparison != nil:
		return m.renderComparison()
	}

	if m.status != "" {
		return dimStyle.Render(" " + m.status)
	}
	return ""
}

// barWidth is the bar width inside a bordered, padded box.
func (m Model) barWidth() int {
	w := m.width - 6
	if w < 10 {
		w = 10
	}
	return w
}

func (m Model) renderRun() string {
	run := m.snap.Run
	parts := []string{sectionHeaderStyle.Render("Gantt Chart: " + run.Algorithm)}

	if run.Layout.Empty() {
		parts = append(parts, dimStyle.Render("No execution segments."))
	} else {
		parts = append(parts,
			timeline.RenderBar(run.Layout, m.barWidth()),
			timeline.RenderAxis(run.Layout, m.barWidth()),
		)
	}

	parts = append(parts, "", m.renderMetricsTable(run.Metrics))
	parts = append(parts, renderWarnings(run.Warnings)...)

	return boxStyle.Width(m.width - 2).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (m Model) renderMetricsTable(t report.MetricsTable) string {
	lines := []string{tableHeaderStyle.Render(formatRow(t.Header, 8))}
	for i, r := range t.Rows {
		lines = append(lines, rowStyle(i).Render(formatRow(r, 8)))
	}

	summary := make([]string, len(t.Summary))
	for i, f := range t.Summary {
		summary[i] = mutedStyle.Render(f.Label+": ") + valueStyle.Render(f.Value)
	}
	lines = append(lines, "", strings.Join(summary, "   "))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) renderComparison() string {
	cmp := m.snap.Comparison
	t := cmp.Table

	best := make([]int, len(t.Header))
	for col := range best {
		best[col] = t.Best(col)
	}

	lines := []string{
		sectionHeaderStyle.Render("Comparison"),
		tableHeaderStyle.Render(formatRow(t.Header, 11)),
	}

	unrecognized := false
	for i, r := range t.Rows {
		cells := make([]string, len(r.Cells))
		for col, c := range r.Cells {
			if col == report.ColAlgorithm && !r.Recognized {
				c += "*"
				unrecognized = true
			}
			cell := fmt.Sprintf("%-11s", c)
			if best[col] == i {
				cells[col] = valueGoodStyle.Render(cell)
			} else {
				cells[col] = rowStyle(i).Render(cell)
			}
		}
		lines = append(lines, strings.Join(cells, " "))
	}
	if len(t.Rows) == 0 {
		lines = append(lines, dimStyle.Render("No results."))
	}
	if unrecognized {
		lines = append(lines, dimStyle.Render("* not a recognised algorithm"))
	}
	lines = append(lines, renderWarnings(cmp.Warnings)...)

	return boxStyle.Width(m.width - 2).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func renderWarnings(warnings []string) []string {
	out := make([]string, 0, len(warnings))
	for _, w := range warnings {
		out = append(out, statusWarning.Render("⚠ "+w))
	}
	return out
}

func formatRow(cells []string, width int) string {
	parts := make([]string, len(cells))
	for i, c := range cells {
		parts[i] = fmt.Sprintf("%-*s", width, c)
	}
	return strings.Join(parts, " ")
}

// =============================================================================
// Footer
// =============================================================================

func (m Model) renderFooter() string {
	shortcuts := []string{
		"←/→: algorithm",
		"1-7: compare set",
		"+/-: CS",
		"[/]: TS",
		"a/x/s: rows",
		"enter: run",
		"c: compare",
		"q: quit",
	}

	left := dimStyle.Render(strings.Join(shortcuts, " │ "))
	right := dimStyle.Render(m.latencyLabel())

	padding := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if padding < 1 {
		padding = 1
	}

	return footerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Left,
			left,
			strings.Repeat(" ", padding),
			right,
		),
	)
}

func (m Model) latencyLabel() string {
	if m.latency == nil {
		return ""
	}
	l := m.latency.Latency()
	if l.Count == 0 {
		return "latency: -"
	}
	return fmt.Sprintf("p50 %s p95 %s", formatMs(l.P50), formatMs(l.P95))
}

func formatMs(d time.Duration) string {
	return fmt.Sprintf("%dms", d.Milliseconds())
}
