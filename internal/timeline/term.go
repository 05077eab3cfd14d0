package timeline

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	cellTextColor = lipgloss.Color("#F9FAFB")
	axisStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
)

// RenderBar draws the layout as one row of coloured blocks, width columns
// wide (wider if there are more cells than columns). Each block carries its
// owner's label, truncated to fit. An empty layout renders "".
func RenderBar(l Layout, width int) string {
	if l.Empty() {
		return ""
	}

	cols := l.Columns(width)
	blocks := make([]string, len(l.Cells))
	for i, c := range l.Cells {
		style := lipgloss.NewStyle().
			Background(lipgloss.Color(c.Swatch.Hex)).
			Foreground(cellTextColor).
			Bold(true).
			Width(cols[i]).
			MaxWidth(cols[i]).
			Align(lipgloss.Center)
		blocks[i] = style.Render(fit(c.Label, cols[i]))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, blocks...)
}

// RenderAxis draws the boundary timestamps under a bar of the same width.
// Each label starts at its boundary's column, except the final one, which
// is right-aligned to the end of the bar. Labels that would collide with a
// neighbour are dropped.
func RenderAxis(l Layout, width int) string {
	if l.Empty() {
		return ""
	}

	cols := l.Columns(width)
	labels := l.AxisLabels()

	pos := make([]int, len(labels))
	for k := 1; k < len(pos); k++ {
		pos[k] = pos[k-1] + cols[k-1]
	}
	total := pos[len(pos)-1]

	final := labels[len(labels)-1]
	finalAt := total - len(final)
	if finalAt < 0 {
		finalAt = 0
	}

	var b strings.Builder
	col := 0
	for k := 0; k < len(labels)-1; k++ {
		if pos[k] < col || pos[k]+len(labels[k]) >= finalAt {
			continue
		}
		b.WriteString(strings.Repeat(" ", pos[k]-col))
		b.WriteString(labels[k])
		col = pos[k] + len(labels[k]) + 1
		b.WriteString(" ")
	}
	if finalAt > b.Len() {
		b.WriteString(strings.Repeat(" ", finalAt-b.Len()))
	}
	b.WriteString(final)

	return axisStyle.Render(b.String())
}

// fit truncates s to at most n runes.
func fit(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 0 {
		return ""
	}
	return string(r[:n])
}
