package schedule

import "strings"

// Algorithm names recognised by the scheduling service.
const (
	FCFS = "FCFS"
	RR   = "RR"
	SJF  = "SJF"
	SPN  = "SPN"
	SRTF = "SRTF"
	HRRN = "HRRN"
	MLQ  = "MLQ"
	MLFQ = "MLFQ"
)

// DefaultAlgorithms is the selectable list, in display order.
var DefaultAlgorithms = []string{FCFS, RR, SRTF, HRRN, SJF, MLQ, MLFQ}

var known = map[string]bool{
	FCFS: true, RR: true, SJF: true, SPN: true,
	SRTF: true, HRRN: true, MLQ: true, MLFQ: true,
}

// IsKnown reports whether name is one of the recognised algorithm names.
// The check is exact; use NormalizeAlgorithm first for user input.
func IsKnown(name string) bool {
	return known[name]
}

// NormalizeAlgorithm trims and upper-cases name, the same normalisation
// the service applies.
func NormalizeAlgorithm(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// UsesTimeSlice reports whether the algorithm takes a time slice.
func UsesTimeSlice(name string) bool {
	switch NormalizeAlgorithm(name) {
	case RR, MLFQ:
		return true
	}
	return false
}
