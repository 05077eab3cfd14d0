// Package report turns per-process metrics and comparison results into
// display-ready tables.
//
// Nothing here recomputes a value the scheduling service produced. Absent
// values render as Placeholder so that "not computed" stays visibly
// different from a computed zero.
package report

import (
	"fmt"
	"strconv"
)

// Placeholder is shown for values the service did not provide.
const Placeholder = "-"

// Exact formats v with the fewest digits that round-trip.
func Exact(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Fixed formats v with the given number of decimals, or Placeholder.
func Fixed(v *float64, decimals int) string {
	if v == nil {
		return Placeholder
	}
	return strconv.FormatFloat(*v, 'f', decimals, 64)
}

// Percent formats a fraction as a percentage with two decimals
// (0.8 -> "80.00%"), or Placeholder.
func Percent(v *float64) string {
	if v == nil {
		return Placeholder
	}
	return fmt.Sprintf("%.2f%%", *v*100)
}
