package session

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/randomizedcoder/schedviz/internal/schedule"
)

// ValidationError is an input problem found before any request is sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Settings are the run parameters shared by execute and compare.
type Settings struct {
	Algorithm     string
	ContextSwitch float64
	// TimeSlice is sent only when positive.
	TimeSlice float64
	// ConfigText is the algorithm-specific JSON object as typed by the
	// user. Blank means {}.
	ConfigText string
}

// DefaultSettings returns FCFS with no context switch cost.
func DefaultSettings() Settings {
	return Settings{Algorithm: schedule.FCFS}
}

// ParseConfig parses the algorithm config text. Blank text yields an empty
// object. Anything that is not a JSON object is a ValidationError.
func ParseConfig(text string) (map[string]any, error) {
	if strings.TrimSpace(text) == "" {
		return map[string]any{}, nil
	}

	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil, ValidationError{Field: "config", Message: "invalid JSON: " + err.Error()}
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, ValidationError{Field: "config", Message: "must be a JSON object"}
	}
	return obj, nil
}

// validate checks the numeric settings and parses the config text.
func (s Settings) validate() (map[string]any, error) {
	if math.IsNaN(s.ContextSwitch) || math.IsInf(s.ContextSwitch, 0) || s.ContextSwitch < 0 {
		return nil, ValidationError{Field: "context_switch_time", Message: "must be a non-negative number"}
	}
	if math.IsNaN(s.TimeSlice) || math.IsInf(s.TimeSlice, 0) || s.TimeSlice < 0 {
		return nil, ValidationError{Field: "time_slice", Message: "must be a non-negative number"}
	}
	return ParseConfig(s.ConfigText)
}

func (s Settings) timeSlice() *float64 {
	if s.TimeSlice > 0 {
		return schedule.Float(s.TimeSlice)
	}
	return nil
}

// normalizeAlgorithms upper-cases names, drops blanks and duplicates, and
// keeps the caller's order.
func normalizeAlgorithms(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = schedule.NormalizeAlgorithm(n)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
