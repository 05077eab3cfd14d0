package report

import "github.com/randomizedcoder/schedviz/internal/schedule"

// Comparison table columns.
const (
	ColAlgorithm = iota
	ColAvgWT
	ColAvgTAT
	ColAvgRT
	ColCPUUtil
	ColThroughput
)

// ComparisonHeader is the header of the comparison table.
var ComparisonHeader = []string{"Algorithm", LabelAvgWT, LabelAvgTAT, LabelAvgRT, LabelCPUUtil, LabelThroughput}

// ComparisonRow is one algorithm's row.
type ComparisonRow struct {
	Algorithm string
	// Recognized is false for names outside the known algorithm set. Such
	// names are still shown verbatim.
	Recognized bool
	Cells      []string

	values [ColThroughput + 1]*float64
}

// ComparisonTable holds the rows in the order the service returned them,
// which is the order the algorithms were requested in.
type ComparisonTable struct {
	Header []string
	Rows   []ComparisonRow
}

// BuildComparison renders entries without reordering them. Numeric fields
// are rounded to two decimals; CPU utilisation is shown as a percentage.
func BuildComparison(entries []schedule.ComparisonEntry) ComparisonTable {
	t := ComparisonTable{
		Header: ComparisonHeader,
		Rows:   make([]ComparisonRow, 0, len(entries)),
	}

	for _, e := range entries {
		row := ComparisonRow{
			Algorithm:  e.Algorithm,
			Recognized: schedule.IsKnown(e.Algorithm),
			Cells: []string{
				e.Algorithm,
				Fixed(e.AverageWaitingTime, 2),
				Fixed(e.AverageTurnaroundTime, 2),
				Fixed(e.AverageResponseTime, 2),
				Percent(e.CPUUtilization),
				Fixed(e.Throughput, 2),
			},
		}
		row.values[ColAvgWT] = e.AverageWaitingTime
		row.values[ColAvgTAT] = e.AverageTurnaroundTime
		row.values[ColAvgRT] = e.AverageResponseTime
		row.values[ColCPUUtil] = e.CPUUtilization
		row.values[ColThroughput] = e.Throughput
		t.Rows = append(t.Rows, row)
	}

	return t
}

// Best returns the index of the row with the best value in column col:
// lowest for the time averages, highest for CPU utilisation and
// throughput. Rows without a value are ignored. It returns -1 when no row
// has a value. The table itself is never reordered.
func (t ComparisonTable) Best(col int) int {
	if col <= ColAlgorithm || col > ColThroughput {
		return -1
	}
	higherIsBetter := col == ColCPUUtil || col == ColThroughput

	best := -1
	for i, r := range t.Rows {
		v := r.values[col]
		if v == nil {
			continue
		}
		if best == -1 {
			best = i
			continue
		}
		cur := *t.Rows[best].values[col]
		if (higherIsBetter && *v > cur) || (!higherIsBetter && *v < cur) {
			best = i
		}
	}
	return best
}
