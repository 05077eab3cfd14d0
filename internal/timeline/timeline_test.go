package timeline

import (
	"math"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/randomizedcoder/schedviz/internal/color"
	"github.com/randomizedcoder/schedviz/internal/schedule"
)

func sampleSegments() []schedule.Segment {
	return []schedule.Segment{
		{OwnerID: "P1", Start: 0, End: 5},
		{OwnerID: "CS", Start: 5, End: 6},
		{OwnerID: "P2", Start: 6, End: 9},
		{OwnerID: "IDLE", Start: 9, End: 10},
		{OwnerID: "P3", Start: 10, End: 18},
	}
}

// =============================================================================
// Tests: Build
// =============================================================================

func TestBuild_Empty(t *testing.T) {
	for _, segs := range [][]schedule.Segment{nil, {}} {
		l := Build(segs)
		if !l.Empty() {
			t.Error("layout should be empty")
		}
		if len(l.Axis) != 0 {
			t.Errorf("axis length = %d, want 0", len(l.Axis))
		}
		if l.TotalWeight() != 0 {
			t.Errorf("TotalWeight = %v, want 0", l.TotalWeight())
		}
		if l.AxisLine() != "" || RenderBar(l, 40) != "" || RenderAxis(l, 40) != "" {
			t.Error("empty layout should render nothing")
		}
		if l.Columns(40) != nil {
			t.Error("empty layout should allocate no columns")
		}
	}
}

func TestBuild_WeightsAndAxis(t *testing.T) {
	segs := sampleSegments()
	l := Build(segs)

	if len(l.Cells) != len(segs) {
		t.Fatalf("got %d cells, want %d", len(l.Cells), len(segs))
	}
	if len(l.Axis) != len(segs)+1 {
		t.Fatalf("axis length = %d, want %d", len(l.Axis), len(segs)+1)
	}

	var sum float64
	for _, s := range segs {
		sum += s.End - s.Start
	}
	if l.TotalWeight() != sum {
		t.Errorf("TotalWeight = %v, want %v", l.TotalWeight(), sum)
	}

	wantAxis := []float64{0, 5, 6, 9, 10, 18}
	for i, v := range wantAxis {
		if l.Axis[i] != v {
			t.Errorf("Axis[%d] = %v, want %v", i, l.Axis[i], v)
		}
	}

	wantLabels := []string{"P1", "CS", "P2", "IDLE", "P3"}
	for i, want := range wantLabels {
		if l.Cells[i].Label != want {
			t.Errorf("Cells[%d].Label = %q, want %q", i, l.Cells[i].Label, want)
		}
	}

	if l.Cells[1].Swatch.Hex != color.ContextSwitchHex {
		t.Errorf("context switch colour = %s", l.Cells[1].Swatch.Hex)
	}
	if l.Cells[3].Swatch.Hex != color.IdleHex {
		t.Errorf("idle colour = %s", l.Cells[3].Swatch.Hex)
	}
	if l.Cells[0].Swatch != color.For("P1") {
		t.Error("process colour should come from the colour assigner")
	}
}

func TestBuild_ContextSwitchAliasLabel(t *testing.T) {
	l := Build([]schedule.Segment{{OwnerID: "CONTEXT_SWITCH", Start: 0, End: 1}})
	if l.Cells[0].Label != "CS" {
		t.Errorf("Label = %q, want CS", l.Cells[0].Label)
	}
}

func TestAxisLine(t *testing.T) {
	l := Build([]schedule.Segment{
		{OwnerID: "P1", Start: 0, End: 5},
		{OwnerID: "P2", Start: 5, End: 8.5},
	})
	if got := l.AxisLine(); got != "Time: 0  |  5  |  8.5" {
		t.Errorf("AxisLine = %q", got)
	}
}

func TestFormatTime(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{13, "13"},
		{2.5, "2.5"},
		{0.1, "0.1"},
		{1234567, "1234567"},
	}
	for _, tt := range tests {
		if got := FormatTime(tt.in); got != tt.want {
			t.Errorf("FormatTime(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// =============================================================================
// Tests: Proportions
// =============================================================================

func TestPercent(t *testing.T) {
	l := Build([]schedule.Segment{
		{OwnerID: "P1", Start: 0, End: 1},
		{OwnerID: "P2", Start: 1, End: 4},
	})
	if got := l.Percent(0); got != 25 {
		t.Errorf("Percent(0) = %v, want 25", got)
	}
	if got := l.Percent(1); got != 75 {
		t.Errorf("Percent(1) = %v, want 75", got)
	}
	if got := l.Percent(5); got != 0 {
		t.Errorf("Percent(out of range) = %v, want 0", got)
	}
}

func TestColumns_SumAndMinimum(t *testing.T) {
	l := Build(sampleSegments())

	for _, width := range []int{1, 5, 7, 18, 40, 80, 123} {
		cols := l.Columns(width)
		sum := 0
		for i, c := range cols {
			if c < 1 {
				t.Errorf("width %d: cell %d got %d columns", width, i, c)
			}
			sum += c
		}
		want := width
		if want < len(l.Cells) {
			want = len(l.Cells)
		}
		if sum != want {
			t.Errorf("width %d: columns sum to %d, want %d", width, sum, want)
		}
	}
}

func TestColumns_Proportional(t *testing.T) {
	l := Build([]schedule.Segment{
		{OwnerID: "P1", Start: 0, End: 5},
		{OwnerID: "P2", Start: 5, End: 8},
		{OwnerID: "P3", Start: 8, End: 16},
	})

	cols := l.Columns(16)
	want := []int{5, 3, 8}
	for i := range want {
		if cols[i] != want[i] {
			t.Errorf("cols = %v, want %v", cols, want)
			break
		}
	}
}

func TestColumns_InvariantToOffsetAndUnit(t *testing.T) {
	base := sampleSegments()

	shifted := make([]schedule.Segment, len(base))
	scaled := make([]schedule.Segment, len(base))
	for i, s := range base {
		shifted[i] = schedule.Segment{OwnerID: s.OwnerID, Start: s.Start + 1000, End: s.End + 1000}
		scaled[i] = schedule.Segment{OwnerID: s.OwnerID, Start: s.Start * 1000, End: s.End * 1000}
	}

	want := Build(base).Columns(60)
	for name, segs := range map[string][]schedule.Segment{"shifted": shifted, "scaled": scaled} {
		got := Build(segs).Columns(60)
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("%s: cols = %v, want %v", name, got, want)
				break
			}
		}
	}
}

func TestColumns_ZeroWeights(t *testing.T) {
	l := Layout{Cells: []Cell{{Weight: 0}, {Weight: 0}}}
	cols := l.Columns(10)
	if cols[0]+cols[1] != 10 || math.Abs(float64(cols[0]-cols[1])) > 1 {
		t.Errorf("zero weights should split evenly, got %v", cols)
	}
}

// =============================================================================
// Tests: Terminal rendering
// =============================================================================

func TestRenderBar(t *testing.T) {
	l := Build(sampleSegments())
	bar := RenderBar(l, 60)

	if w := lipgloss.Width(bar); w != 60 {
		t.Errorf("bar width = %d, want 60", w)
	}
	for _, label := range []string{"P1", "P2", "P3", "IDLE"} {
		if !strings.Contains(bar, label) {
			t.Errorf("bar missing label %q: %q", label, bar)
		}
	}
}

func TestRenderBar_TruncatesLabels(t *testing.T) {
	l := Build([]schedule.Segment{
		{OwnerID: "a-very-long-process-name", Start: 0, End: 1},
		{OwnerID: "P2", Start: 1, End: 100},
	})
	bar := RenderBar(l, 20)
	if w := lipgloss.Width(bar); w != 20 {
		t.Errorf("bar width = %d, want 20", w)
	}
}

func TestRenderAxis(t *testing.T) {
	l := Build([]schedule.Segment{
		{OwnerID: "P1", Start: 0, End: 5},
		{OwnerID: "P2", Start: 5, End: 8},
		{OwnerID: "P3", Start: 8, End: 16},
	})

	axis := RenderAxis(l, 16)
	if axis != "0    5  8     16" {
		t.Errorf("axis = %q", axis)
	}
	if w := lipgloss.Width(axis); w != 16 {
		t.Errorf("axis width = %d, want 16", w)
	}
}

func TestRenderAxis_DropsCollidingLabels(t *testing.T) {
	l := Build([]schedule.Segment{
		{OwnerID: "P1", Start: 100, End: 101},
		{OwnerID: "P2", Start: 101, End: 102},
		{OwnerID: "P3", Start: 102, End: 200},
	})

	axis := RenderAxis(l, 20)
	if !strings.HasPrefix(axis, "100") {
		t.Errorf("first label missing: %q", axis)
	}
	if !strings.HasSuffix(axis, "200") {
		t.Errorf("last label missing: %q", axis)
	}
	if strings.Contains(axis, "101") {
		t.Errorf("colliding label should be dropped: %q", axis)
	}
}
