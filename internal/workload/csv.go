package workload

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// LoadCSV reads rows of the form pid,arrival,burst[,priority]. A first
// line whose first cell is "pid" or "id" is treated as a header. Cells are
// kept as text; validation happens in Specs.
func LoadCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading workload csv: %w", err)
	}

	rows := make([]Row, 0, len(records))
	for i, rec := range records {
		if i == 0 && isHeader(rec) {
			continue
		}
		if len(rec) < 3 {
			return nil, fmt.Errorf("workload csv line %d: want at least 3 fields (pid,arrival,burst), got %d", i+1, len(rec))
		}
		row := Row{ID: rec[0], Arrival: rec[1], Burst: rec[2]}
		if len(rec) >= 4 {
			row.Priority = rec[3]
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// LoadFile opens path and reads it with LoadCSV.
func LoadFile(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening workload file: %w", err)
	}
	defer f.Close()
	return LoadCSV(f)
}

func isHeader(rec []string) bool {
	if len(rec) == 0 {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(rec[0])) {
	case "pid", "id", "process":
		return true
	}
	return false
}
