package schedule

// ExecuteRequest is the body of POST /execute.
type ExecuteRequest struct {
	Algorithm         string         `json:"algorithm"`
	Processes         []ProcessSpec  `json:"processes"`
	ContextSwitchTime float64        `json:"context_switch_time"`
	Config            map[string]any `json:"config"`
	TimeSlice         *float64       `json:"time_slice,omitempty"`
}

// ExecuteResponse is the body returned by POST /execute. Only the fields
// the presentation layer reads are decoded.
type ExecuteResponse struct {
	Algorithm      string          `json:"algorithm"`
	Gantt          []Segment       `json:"gantt"`
	Metrics        []ProcessMetric `json:"metrics"`
	Averages       *Averages       `json:"averages"`
	CPUUtilization *float64        `json:"cpu_utilization"`
	Throughput     *float64        `json:"throughput"`
	Warnings       []string        `json:"warnings"`
}

// Summary folds the averages and the top-level rates into a RunSummary.
func (r *ExecuteResponse) Summary() RunSummary {
	s := RunSummary{
		CPUUtilization: r.CPUUtilization,
		Throughput:     r.Throughput,
	}
	if r.Averages != nil {
		s.AverageWaitingTime = r.Averages.AvgWaitingTime
		s.AverageTurnaroundTime = r.Averages.AvgTurnaroundTime
		s.AverageResponseTime = r.Averages.AvgResponseTime
	}
	return s
}

// CompareRequest is the body of POST /compare. An empty Algorithms list is
// omitted so the service falls back to its own default list.
type CompareRequest struct {
	Algorithms        []string       `json:"algorithms,omitempty"`
	Processes         []ProcessSpec  `json:"processes"`
	ContextSwitchTime float64        `json:"context_switch_time"`
	Config            map[string]any `json:"config"`
	TimeSlice         *float64       `json:"time_slice,omitempty"`
}

// CompareResponse is the body returned by POST /compare.
type CompareResponse struct {
	Results []ComparisonEntry `json:"results"`
}
