// Package timeline turns a schedule's execution segments into a
// proportional Gantt layout.
//
// A Layout only carries relative weights (end - start per segment); how
// many columns or pixels a segment gets is decided by the surface that
// draws it. Absolute time values never influence the layout, so shifting a
// schedule or changing its time unit renders the same bar.
package timeline

import (
	"strconv"
	"strings"

	"github.com/randomizedcoder/schedviz/internal/color"
	"github.com/randomizedcoder/schedviz/internal/schedule"
)

// Cell is one rendered segment.
type Cell struct {
	OwnerID string
	Label   string
	Start   float64
	End     float64
	Weight  float64
	Swatch  color.Swatch
}

// Layout is the renderable form of a segment sequence.
type Layout struct {
	Cells []Cell
	// Axis lists the boundary timestamps: the first start followed by
	// every segment end. len(Axis) == len(Cells)+1, or 0 when empty.
	Axis []float64
}

// Build lays out segments. An empty input yields an empty Layout.
func Build(segments []schedule.Segment) Layout {
	if len(segments) == 0 {
		return Layout{}
	}

	l := Layout{
		Cells: make([]Cell, 0, len(segments)),
		Axis:  make([]float64, 0, len(segments)+1),
	}
	l.Axis = append(l.Axis, segments[0].Start)

	for _, seg := range segments {
		sw := color.For(seg.OwnerID)
		l.Cells = append(l.Cells, Cell{
			OwnerID: seg.OwnerID,
			Label:   sw.Label,
			Start:   seg.Start,
			End:     seg.End,
			Weight:  seg.Duration(),
			Swatch:  sw,
		})
		l.Axis = append(l.Axis, seg.End)
	}

	return l
}

// Empty reports whether there is nothing to draw.
func (l Layout) Empty() bool {
	return len(l.Cells) == 0
}

// TotalWeight returns the sum of all cell weights.
func (l Layout) TotalWeight() float64 {
	var total float64
	for _, c := range l.Cells {
		total += c.Weight
	}
	return total
}

// Percent returns cell i's share of the total weight, in percent.
func (l Layout) Percent(i int) float64 {
	total := l.positiveTotal()
	if i < 0 || i >= len(l.Cells) {
		return 0
	}
	if total <= 0 {
		return 100 / float64(len(l.Cells))
	}
	return positive(l.Cells[i].Weight) / total * 100
}

// Columns splits width terminal columns across the cells in proportion to
// their weights. Every cell gets at least one column, so the result sums
// to max(width, len(Cells)). Leftover columns go to the largest
// fractional remainders, earlier cells first on ties.
func (l Layout) Columns(width int) []int {
	n := len(l.Cells)
	if n == 0 {
		return nil
	}
	if width < n {
		width = n
	}

	cols := make([]int, n)
	for i := range cols {
		cols[i] = 1
	}
	spare := width - n
	if spare == 0 {
		return cols
	}

	total := l.positiveTotal()
	rem := make([]float64, n)
	used := 0
	for i, c := range l.Cells {
		var share float64
		if total > 0 {
			share = positive(c.Weight) / total * float64(spare)
		} else {
			share = float64(spare) / float64(n)
		}
		whole := int(share)
		cols[i] += whole
		used += whole
		rem[i] = share - float64(whole)
	}

	for left := spare - used; left > 0; left-- {
		best := 0
		for i := 1; i < n; i++ {
			if rem[i] > rem[best] {
				best = i
			}
		}
		cols[best]++
		rem[best] = -1
	}

	return cols
}

// AxisLabels formats the axis timestamps.
func (l Layout) AxisLabels() []string {
	labels := make([]string, len(l.Axis))
	for i, v := range l.Axis {
		labels[i] = FormatTime(v)
	}
	return labels
}

// AxisLine renders the axis as a single line, e.g. "Time: 0  |  5  |  8".
// An empty layout renders "".
func (l Layout) AxisLine() string {
	if len(l.Axis) == 0 {
		return ""
	}
	return "Time: " + strings.Join(l.AxisLabels(), "  |  ")
}

// FormatTime prints v with the fewest digits that round-trip.
func FormatTime(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (l Layout) positiveTotal() float64 {
	var total float64
	for _, c := range l.Cells {
		total += positive(c.Weight)
	}
	return total
}

func positive(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
