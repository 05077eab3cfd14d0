package web

import (
	"strconv"
	"strings"

	"github.com/randomizedcoder/schedviz/internal/session"
	"github.com/randomizedcoder/schedviz/internal/workload"
)

// runForm is the posted page form. Row fields arrive as parallel lists,
// one entry per table row.
type runForm struct {
	PID      []string `form:"pid"`
	Arrival  []string `form:"arrival"`
	Burst    []string `form:"burst"`
	Priority []string `form:"priority"`
	// Remove holds the index of a row whose remove button was pressed.
	Remove string `form:"remove"`

	Algorithm     string   `form:"algorithm"`
	ContextSwitch string   `form:"context_switch"`
	TimeSlice     string   `form:"time_slice"`
	Config        string   `form:"config"`
	Algorithms    []string `form:"algorithms"`
}

// rows zips the row lists back into workload rows. Short lists are padded
// with blanks so a missing cell becomes an empty field, not a shifted one.
func (f runForm) rows() []workload.Row {
	n := max(len(f.PID), len(f.Arrival), len(f.Burst), len(f.Priority))

	skip := -1
	if i, err := strconv.Atoi(strings.TrimSpace(f.Remove)); err == nil {
		skip = i
	}

	rows := make([]workload.Row, 0, n)
	for i := 0; i < n; i++ {
		if i == skip {
			continue
		}
		rows = append(rows, workload.Row{
			ID:       at(f.PID, i),
			Arrival:  at(f.Arrival, i),
			Burst:    at(f.Burst, i),
			Priority: at(f.Priority, i),
		})
	}
	return rows
}

// settings converts the numeric text fields. Blank means 0.
func (f runForm) settings() (session.Settings, error) {
	set := session.Settings{
		Algorithm:  f.Algorithm,
		ConfigText: f.Config,
	}

	var err error
	if set.ContextSwitch, err = parseNumber(f.ContextSwitch); err != nil {
		return set, session.ValidationError{Field: "context_switch_time", Message: "must be a number"}
	}
	if set.TimeSlice, err = parseNumber(f.TimeSlice); err != nil {
		return set, session.ValidationError{Field: "time_slice", Message: "must be a number"}
	}
	return set, nil
}

func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

func at(list []string, i int) string {
	if i < len(list) {
		return list[i]
	}
	return ""
}
