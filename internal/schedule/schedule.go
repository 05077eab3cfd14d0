// Package schedule defines the workload, schedule and metrics types
// exchanged with the scheduling service.
//
// Field tags follow the service's JSON contract (pid, arrival_time, ...).
// Values produced by the service are treated as immutable, request-scoped
// data: nothing in this package recomputes them.
package schedule

import "fmt"

// Owner sentinels used in place of a process id inside a Gantt segment.
const (
	// Idle marks a span where the CPU had nothing to run.
	Idle = "IDLE"

	// ContextSwitch is the id the service emits for a context switch.
	ContextSwitch = "CS"

	// ContextSwitchAlias is accepted as an alternative spelling.
	ContextSwitchAlias = "CONTEXT_SWITCH"
)

// IsIdle reports whether ownerID is the idle sentinel.
func IsIdle(ownerID string) bool {
	return ownerID == Idle
}

// IsContextSwitch reports whether ownerID is a context switch sentinel.
func IsContextSwitch(ownerID string) bool {
	return ownerID == ContextSwitch || ownerID == ContextSwitchAlias
}

// IsSentinel reports whether ownerID is not a real process.
func IsSentinel(ownerID string) bool {
	return IsIdle(ownerID) || IsContextSwitch(ownerID)
}

// ProcessSpec is one row of a submitted workload.
type ProcessSpec struct {
	ID          string   `json:"pid"`
	ArrivalTime float64  `json:"arrival_time"`
	BurstTime   float64  `json:"burst_time"`
	Priority    *float64 `json:"priority"`
}

// Segment is a contiguous interval during which one owner held the CPU.
type Segment struct {
	OwnerID string  `json:"pid"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
}

// Duration returns End - Start.
func (s Segment) Duration() float64 {
	return s.End - s.Start
}

// ProcessMetric holds the per-process timings computed by the service.
type ProcessMetric struct {
	ID             string  `json:"pid"`
	WaitingTime    float64 `json:"waiting_time"`
	TurnaroundTime float64 `json:"turnaround_time"`
	ResponseTime   float64 `json:"response_time"`
	CompletionTime float64 `json:"completion_time"`
}

// Averages is the "averages" object of an execute response.
type Averages struct {
	AvgWaitingTime    *float64 `json:"avg_waiting_time"`
	AvgTurnaroundTime *float64 `json:"avg_turnaround_time"`
	AvgResponseTime   *float64 `json:"avg_response_time"`
}

// RunSummary collects the summary statistics of one run. Every field is a
// pointer: nil means the service did not compute it, which is not the same
// as zero.
type RunSummary struct {
	AverageWaitingTime    *float64
	AverageTurnaroundTime *float64
	AverageResponseTime   *float64
	CPUUtilization        *float64
	Throughput            *float64
}

// ComparisonEntry is one algorithm's row in a compare response.
type ComparisonEntry struct {
	Algorithm             string   `json:"algorithm"`
	AverageWaitingTime    *float64 `json:"avg_waiting_time"`
	AverageTurnaroundTime *float64 `json:"avg_turnaround_time"`
	AverageResponseTime   *float64 `json:"avg_response_time"`
	CPUUtilization        *float64 `json:"cpu_utilization,omitempty"`
	Throughput            *float64 `json:"throughput,omitempty"`
}

// CheckContiguous verifies that segments are time ordered and contiguous,
// i.e. segments[i].End == segments[i+1].Start. It returns a description of
// the first violation found, or nil.
func CheckContiguous(segments []Segment) error {
	for i := 0; i < len(segments); i++ {
		if segments[i].Start >= segments[i].End {
			return fmt.Errorf("segment %d (%s) has start %g >= end %g",
				i, segments[i].OwnerID, segments[i].Start, segments[i].End)
		}
		if i > 0 && segments[i-1].End != segments[i].Start {
			return fmt.Errorf("segment %d (%s) starts at %g but previous ends at %g",
				i, segments[i].OwnerID, segments[i].Start, segments[i-1].End)
		}
	}
	return nil
}

// Float returns a pointer to v. Handy for optional fields.
func Float(v float64) *float64 {
	return &v
}
