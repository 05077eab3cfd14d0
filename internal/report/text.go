package report

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
)

// WriteMetrics writes the per-process table followed by the summary line.
// With no rows, only the summary line is written.
func WriteMetrics(w io.Writer, t MetricsTable) error {
	if len(t.Rows) > 0 {
		table := newTable(w, t.Header)
		table.AppendBulk(t.Rows)
		table.Render()
	}
	_, err := fmt.Fprintln(w, t.SummaryLine())
	return err
}

// WriteComparison writes the comparison table. Unrecognized algorithm
// names are suffixed with "*" and a legend line is added.
func WriteComparison(w io.Writer, t ComparisonTable) error {
	table := newTable(w, t.Header)

	unknown := false
	for _, r := range t.Rows {
		cells := append([]string(nil), r.Cells...)
		if !r.Recognized {
			cells[ColAlgorithm] += "*"
			unknown = true
		}
		table.Append(cells)
	}
	table.Render()

	if unknown {
		_, err := fmt.Fprintln(w, "* not a recognised algorithm")
		return err
	}
	return nil
}

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	return table
}
