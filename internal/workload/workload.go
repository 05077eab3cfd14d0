// Package workload holds the editable list of processes a user submits.
//
// Rows keep the raw text typed by the user. Conversion to numbers happens
// only when a submittable workload is built, and a row that fails
// structural validation is excluded rather than coerced to zero.
package workload

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/randomizedcoder/schedviz/internal/schedule"
)

// ErrIndex is returned when a row index is out of range.
var ErrIndex = errors.New("row index out of range")

// Row is one editable workload row, exactly as entered.
type Row struct {
	ID       string `json:"pid"`
	Arrival  string `json:"arrival"`
	Burst    string `json:"burst"`
	Priority string `json:"priority"`
}

// Exclusion records why a row was left out of the submitted workload.
type Exclusion struct {
	Index  int
	Row    Row
	Reason string
}

func (e Exclusion) String() string {
	id := strings.TrimSpace(e.Row.ID)
	if id == "" {
		id = "(no id)"
	}
	return fmt.Sprintf("row %d %s skipped: %s", e.Index+1, id, e.Reason)
}

// Workload is an ordered list of rows owned by one UI session.
type Workload struct {
	mu   sync.RWMutex
	rows []Row
}

// New creates a workload holding a copy of rows.
func New(rows ...Row) *Workload {
	w := &Workload{}
	w.Replace(rows)
	return w
}

// Len returns the number of rows.
func (w *Workload) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.rows)
}

// Rows returns a copy of the rows.
func (w *Workload) Rows() []Row {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]Row, len(w.rows))
	copy(out, w.rows)
	return out
}

// Add appends a row.
func (w *Workload) Add(r Row) {
	w.mu.Lock()
	w.rows = append(w.rows, r)
	w.mu.Unlock()
}

// AddBlank appends a row with the next free id, arrival 0 and burst 1.
func (w *Workload) AddBlank() Row {
	w.mu.Lock()
	defer w.mu.Unlock()
	r := Row{ID: nextID(w.rows), Arrival: "0", Burst: "1"}
	w.rows = append(w.rows, r)
	return r
}

// Update replaces row i.
func (w *Workload) Update(i int, r Row) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if i < 0 || i >= len(w.rows) {
		return fmt.Errorf("update row %d: %w", i, ErrIndex)
	}
	w.rows[i] = r
	return nil
}

// Remove deletes row i, keeping the order of the rest.
func (w *Workload) Remove(i int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if i < 0 || i >= len(w.rows) {
		return fmt.Errorf("remove row %d: %w", i, ErrIndex)
	}
	w.rows = append(w.rows[:i], w.rows[i+1:]...)
	return nil
}

// Replace discards all rows and stores a copy of rows.
func (w *Workload) Replace(rows []Row) {
	cp := make([]Row, len(rows))
	copy(cp, rows)
	w.mu.Lock()
	w.rows = cp
	w.mu.Unlock()
}

// NextID returns the id the next added row would get: P<n+1>, skipping ids
// already in use.
func (w *Workload) NextID() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return nextID(w.rows)
}

func nextID(rows []Row) string {
	used := make(map[string]bool, len(rows))
	for _, r := range rows {
		used[strings.TrimSpace(r.ID)] = true
	}
	for n := len(rows) + 1; ; n++ {
		id := "P" + strconv.Itoa(n)
		if !used[id] {
			return id
		}
	}
}

// Specs converts the rows into the array submitted to the service. Rows
// that fail structural validation are returned as exclusions, in order.
func (w *Workload) Specs() ([]schedule.ProcessSpec, []Exclusion) {
	rows := w.Rows()

	specs := make([]schedule.ProcessSpec, 0, len(rows))
	var excluded []Exclusion
	seen := make(map[string]bool, len(rows))

	for i, r := range rows {
		spec, reason := parseRow(r)
		if reason == "" && seen[spec.ID] {
			reason = "duplicate id"
		}
		if reason != "" {
			excluded = append(excluded, Exclusion{Index: i, Row: r, Reason: reason})
			continue
		}
		seen[spec.ID] = true
		specs = append(specs, spec)
	}

	return specs, excluded
}

// parseRow returns the spec for r, or a non-empty reason it is invalid.
func parseRow(r Row) (schedule.ProcessSpec, string) {
	id := strings.TrimSpace(r.ID)
	if id == "" {
		return schedule.ProcessSpec{}, "missing id"
	}

	arrival, ok := parseFinite(r.Arrival)
	if !ok {
		return schedule.ProcessSpec{}, "arrival time is not a number"
	}

	burst, ok := parseFinite(r.Burst)
	if !ok {
		return schedule.ProcessSpec{}, "burst time is not a number"
	}

	spec := schedule.ProcessSpec{
		ID:          id,
		ArrivalTime: arrival,
		BurstTime:   burst,
	}

	if strings.TrimSpace(r.Priority) != "" {
		p, ok := parseFinite(r.Priority)
		if !ok {
			return schedule.ProcessSpec{}, "priority is not a number"
		}
		spec.Priority = &p
	}

	return spec, ""
}

// parseFinite parses s as a finite float. Empty input is not a number.
func parseFinite(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// DefaultRows is the workload a fresh session starts with.
func DefaultRows() []Row {
	return []Row{
		{ID: "P1", Arrival: "0", Burst: "5", Priority: "1"},
		{ID: "P2", Arrival: "1", Burst: "3", Priority: "2"},
		{ID: "P3", Arrival: "2", Burst: "8", Priority: "3"},
	}
}

// SampleRows is the larger demonstration workload.
func SampleRows() []Row {
	return []Row{
		{ID: "P1", Arrival: "0", Burst: "8", Priority: "1"},
		{ID: "P2", Arrival: "1", Burst: "4", Priority: "2"},
		{ID: "P3", Arrival: "2", Burst: "9", Priority: "3"},
		{ID: "P4", Arrival: "3", Burst: "5", Priority: "4"},
	}
}
