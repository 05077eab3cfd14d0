package report

import (
	"strings"

	"github.com/randomizedcoder/schedviz/internal/schedule"
)

// Summary field labels.
const (
	LabelAvgWT      = "Avg WT"
	LabelAvgTAT     = "Avg TAT"
	LabelAvgRT      = "Avg RT"
	LabelCPUUtil    = "CPU Util"
	LabelThroughput = "Throughput"
)

// MetricsHeader is the header of the per-process table.
var MetricsHeader = []string{"PID", "WT", "TAT", "RT", "CT"}

// Field is one labelled summary value.
type Field struct {
	Label string
	Value string
	// Present is false when Value is the placeholder.
	Present bool
}

func (f Field) String() string {
	return f.Label + ": " + f.Value
}

// MetricsTable is the display form of a single run's results.
type MetricsTable struct {
	Header  []string
	Rows    [][]string
	Summary []Field
}

// BuildMetrics renders one row per process, in input order, and the
// summary block. summary may be nil, in which case every summary field is
// the placeholder.
func BuildMetrics(metrics []schedule.ProcessMetric, summary *schedule.RunSummary) MetricsTable {
	t := MetricsTable{
		Header: MetricsHeader,
		Rows:   make([][]string, 0, len(metrics)),
	}

	for _, m := range metrics {
		t.Rows = append(t.Rows, []string{
			m.ID,
			Exact(m.WaitingTime),
			Exact(m.TurnaroundTime),
			Exact(m.ResponseTime),
			Exact(m.CompletionTime),
		})
	}

	var s schedule.RunSummary
	if summary != nil {
		s = *summary
	}
	t.Summary = []Field{
		field(LabelAvgWT, s.AverageWaitingTime, Fixed(s.AverageWaitingTime, 2)),
		field(LabelAvgTAT, s.AverageTurnaroundTime, Fixed(s.AverageTurnaroundTime, 2)),
		field(LabelAvgRT, s.AverageResponseTime, Fixed(s.AverageResponseTime, 2)),
		field(LabelCPUUtil, s.CPUUtilization, Percent(s.CPUUtilization)),
		field(LabelThroughput, s.Throughput, Fixed(s.Throughput, 4)),
	}

	return t
}

func field(label string, v *float64, text string) Field {
	return Field{Label: label, Value: text, Present: v != nil}
}

// Field returns the summary field with the given label.
func (t MetricsTable) Field(label string) (Field, bool) {
	for _, f := range t.Summary {
		if f.Label == label {
			return f, true
		}
	}
	return Field{}, false
}

// SummaryLine joins the summary fields on one line, e.g.
// "Avg WT: 5.00   ...   CPU Util: 80.00%   Throughput: 0.1000".
func (t MetricsTable) SummaryLine() string {
	parts := make([]string, len(t.Summary))
	for i, f := range t.Summary {
		parts[i] = f.String()
	}
	return strings.Join(parts, "   ")
}
