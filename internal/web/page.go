package web

import (
	"fmt"
	"html/template"
	"strconv"

	"github.com/randomizedcoder/schedviz/internal/report"
	"github.com/randomizedcoder/schedviz/internal/schedule"
	"github.com/randomizedcoder/schedviz/internal/session"
	"github.com/randomizedcoder/schedviz/internal/timeline"
	"github.com/randomizedcoder/schedviz/internal/workload"
)

// page is the data behind templates/index.html.
type page struct {
	APIBase       string
	Rows          []workload.Row
	Algorithm     string
	Algorithms    []algoOption
	ContextSwitch string
	TimeSlice     string
	Config        string
	Pending       bool
	Err           string
	Run           *runPage
	Comparison    *comparePage
}

type algoOption struct {
	Name     string
	Selected bool
	Compared bool
}

type runPage struct {
	Algorithm string
	Cells     []cellPage
	Axis      string
	Metrics   report.MetricsTable
	Warnings  []string
}

// cellPage is one Gantt block. Style is trusted CSS built from numbers and
// swatch hex values only.
type cellPage struct {
	Label string
	Title string
	Style template.CSS
}

type comparePage struct {
	Header   []string
	Rows     [][]compareCell
	Legend   bool
	Warnings []string
}

type compareCell struct {
	Text string
	Best bool
}

func newPage(snap session.Snapshot, set session.Settings, compare []string) page {
	p := page{
		Rows:          snap.Rows,
		Algorithm:     schedule.NormalizeAlgorithm(set.Algorithm),
		ContextSwitch: formatSetting(set.ContextSwitch),
		TimeSlice:     formatSetting(set.TimeSlice),
		Config:        set.ConfigText,
		Pending:       snap.Pending,
		Err:           snap.Err,
	}

	compared := make(map[string]bool, len(compare))
	for _, name := range compare {
		compared[schedule.NormalizeAlgorithm(name)] = true
	}
	for _, name := range schedule.DefaultAlgorithms {
		p.Algorithms = append(p.Algorithms, algoOption{
			Name:     name,
			Selected: name == p.Algorithm,
			Compared: compared[name],
		})
	}

	if snap.Run != nil {
		p.Run = newRunPage(snap.Run)
	}
	if snap.Comparison != nil {
		p.Comparison = newComparePage(snap.Comparison)
	}
	return p
}

func newRunPage(v *session.RunView) *runPage {
	r := &runPage{
		Algorithm: v.Algorithm,
		Axis:      v.Layout.AxisLine(),
		Metrics:   v.Metrics,
		Warnings:  v.Warnings,
	}
	for i, c := range v.Layout.Cells {
		r.Cells = append(r.Cells, cellPage{
			Label: c.Label,
			Title: fmt.Sprintf("%s: %s to %s", c.Label, timeline.FormatTime(c.Start), timeline.FormatTime(c.End)),
			Style: cellStyle(v.Layout.Percent(i), c.Swatch.Hex),
		})
	}
	return r
}

// cellStyle sizes a block by its share of the bar.
func cellStyle(percent float64, hex string) template.CSS {
	return template.CSS(fmt.Sprintf("flex: %s 0 0; background: %s",
		strconv.FormatFloat(percent, 'f', 4, 64), hex))
}

func newComparePage(v *session.ComparisonView) *comparePage {
	t := v.Table
	c := &comparePage{Header: t.Header, Warnings: v.Warnings}

	best := make([]int, len(t.Header))
	for col := range best {
		best[col] = t.Best(col)
	}

	for i, row := range t.Rows {
		cells := make([]compareCell, len(row.Cells))
		for col, text := range row.Cells {
			if col == report.ColAlgorithm && !row.Recognized {
				text += "*"
				c.Legend = true
			}
			cells[col] = compareCell{Text: text, Best: best[col] == i}
		}
		c.Rows = append(c.Rows, cells)
	}
	return c
}

func formatSetting(v float64) string {
	if v == 0 {
		return ""
	}
	return timeline.FormatTime(v)
}
