// Package session holds the state of one interactive session: the editable
// workload, the last rendered results, the last error, and the request
// sequence that decides which response may publish.
//
// Every command clears previous output before it does anything else, so a
// failure never leaves stale results on screen. Only the most recently
// issued request may publish; older responses are dropped with ErrStale.
package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/randomizedcoder/schedviz/internal/report"
	"github.com/randomizedcoder/schedviz/internal/schedule"
	"github.com/randomizedcoder/schedviz/internal/timeline"
	"github.com/randomizedcoder/schedviz/internal/workload"
)

// ErrStale is returned when a response arrived after a newer request was
// issued. Its results were discarded.
var ErrStale = errors.New("response superseded by a newer request")

// ErrNoProcesses is returned when every workload row was excluded.
var ErrNoProcesses = ValidationError{Field: "processes", Message: "no valid processes to schedule"}

// Service is the scheduling backend.
type Service interface {
	Execute(ctx context.Context, req schedule.ExecuteRequest) (*schedule.ExecuteResponse, error)
	Compare(ctx context.Context, req schedule.CompareRequest) (*schedule.CompareResponse, error)
}

// Recorder receives session events for metrics. May be nil.
type Recorder interface {
	RecordStale()
	RecordExcluded(n int)
	RecordSegments(n int)
}

// Session is safe for concurrent use.
type Session struct {
	svc      Service
	rec      Recorder
	logger   *slog.Logger
	workload *workload.Workload

	mu         sync.Mutex
	seq        uint64
	pending    bool
	run        *RunView
	comparison *ComparisonView
	lastErr    string
}

// New creates a Session over wl. A nil wl starts with the default rows.
func New(svc Service, wl *workload.Workload, rec Recorder, logger *slog.Logger) *Session {
	if wl == nil {
		wl = workload.New(workload.DefaultRows()...)
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Session{
		svc:      svc,
		rec:      rec,
		logger:   logger,
		workload: wl,
	}
}

// Workload returns the editable workload.
func (s *Session) Workload() *workload.Workload {
	return s.workload
}

// =============================================================================
// Commands
// =============================================================================

// Execute runs one algorithm over the workload and publishes a RunView.
func (s *Session) Execute(ctx context.Context, set Settings) error {
	seq := s.begin()

	cfg, err := set.validate()
	if err != nil {
		return s.fail(seq, err)
	}
	algorithm := schedule.NormalizeAlgorithm(set.Algorithm)
	if algorithm == "" {
		return s.fail(seq, ValidationError{Field: "algorithm", Message: "is required"})
	}

	specs, exclusions := s.specs()
	if len(specs) == 0 {
		return s.fail(seq, ErrNoProcesses)
	}

	req := schedule.ExecuteRequest{
		Algorithm:         algorithm,
		Processes:         specs,
		ContextSwitchTime: set.ContextSwitch,
		Config:            cfg,
		TimeSlice:         set.timeSlice(),
	}

	s.logger.Debug("execute_requested",
		"seq", seq,
		"algorithm", algorithm,
		"processes", len(specs),
		"excluded", len(exclusions),
	)

	resp, err := s.svc.Execute(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.seq {
		return s.staleLocked(seq)
	}
	s.pending = false
	if err != nil {
		s.lastErr = err.Error()
		s.logger.Warn("execute_failed", "seq", seq, "error", err)
		return err
	}

	view := newRunView(algorithm, resp, exclusions)
	if s.rec != nil {
		s.rec.RecordSegments(len(view.Layout.Cells))
	}
	s.run = view
	s.logger.Info("execute_rendered",
		"seq", seq,
		"algorithm", view.Algorithm,
		"segments", len(view.Layout.Cells),
		"warnings", len(view.Warnings),
	)
	return nil
}

// Compare runs several algorithms over the workload and publishes a
// ComparisonView. An empty algorithms list lets the service choose.
func (s *Session) Compare(ctx context.Context, set Settings, algorithms []string) error {
	seq := s.begin()

	cfg, err := set.validate()
	if err != nil {
		return s.fail(seq, err)
	}

	specs, exclusions := s.specs()
	if len(specs) == 0 {
		return s.fail(seq, ErrNoProcesses)
	}

	req := schedule.CompareRequest{
		Algorithms:        normalizeAlgorithms(algorithms),
		Processes:         specs,
		ContextSwitchTime: set.ContextSwitch,
		Config:            cfg,
		TimeSlice:         set.timeSlice(),
	}

	s.logger.Debug("compare_requested",
		"seq", seq,
		"algorithms", req.Algorithms,
		"processes", len(specs),
		"excluded", len(exclusions),
	)

	resp, err := s.svc.Compare(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.seq {
		return s.staleLocked(seq)
	}
	s.pending = false
	if err != nil {
		s.lastErr = err.Error()
		s.logger.Warn("compare_failed", "seq", seq, "error", err)
		return err
	}

	s.comparison = newComparisonView(resp, exclusions)
	s.logger.Info("compare_rendered", "seq", seq, "results", len(s.comparison.Table.Rows))
	return nil
}

// Clear drops results and error. It also supersedes any in-flight
// request.
func (s *Session) Clear() {
	s.begin()
	s.mu.Lock()
	s.pending = false
	s.mu.Unlock()
}

// =============================================================================
// Internal
// =============================================================================

// begin issues a new sequence number and clears previous output.
func (s *Session) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	s.pending = true
	s.run = nil
	s.comparison = nil
	s.lastErr = ""
	return s.seq
}

// fail publishes err for seq unless a newer request exists.
func (s *Session) fail(seq uint64, err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.seq {
		return s.staleLocked(seq)
	}
	s.pending = false
	s.lastErr = err.Error()
	s.logger.Debug("command_rejected", "seq", seq, "error", err)
	return err
}

func (s *Session) staleLocked(seq uint64) error {
	if s.rec != nil {
		s.rec.RecordStale()
	}
	s.logger.Debug("response_stale", "seq", seq, "current", s.seq)
	return ErrStale
}

func (s *Session) specs() ([]schedule.ProcessSpec, []workload.Exclusion) {
	specs, exclusions := s.workload.Specs()
	if s.rec != nil {
		s.rec.RecordExcluded(len(exclusions))
	}
	for _, e := range exclusions {
		s.logger.Debug("row_excluded", "index", e.Index, "id", e.Row.ID, "reason", e.Reason)
	}
	return specs, exclusions
}

// =============================================================================
// Snapshot
// =============================================================================

// Snapshot is a point-in-time copy of the session for renderers.
type Snapshot struct {
	Seq        uint64
	Pending    bool
	Rows       []workload.Row
	Run        *RunView
	Comparison *ComparisonView
	Err        string
}

// Snapshot returns the current state. The views are shared but never
// mutated after publication.
func (s *Session) Snapshot() Snapshot {
	rows := s.workload.Rows()

	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Seq:        s.seq,
		Pending:    s.pending,
		Rows:       rows,
		Run:        s.run,
		Comparison: s.comparison,
		Err:        s.lastErr,
	}
}

// RunView is a rendered single-algorithm run.
type RunView struct {
	Algorithm string
	Layout    timeline.Layout
	Metrics   report.MetricsTable
	// Warnings holds service warnings, excluded rows and timeline issues.
	Warnings []string
}

func newRunView(requested string, resp *schedule.ExecuteResponse, exclusions []workload.Exclusion) *RunView {
	algorithm := resp.Algorithm
	if algorithm == "" {
		algorithm = requested
	}
	summary := resp.Summary()

	v := &RunView{
		Algorithm: algorithm,
		Layout:    timeline.Build(resp.Gantt),
		Metrics:   report.BuildMetrics(resp.Metrics, &summary),
	}
	v.Warnings = append(v.Warnings, resp.Warnings...)
	v.Warnings = append(v.Warnings, exclusionWarnings(exclusions)...)
	if err := schedule.CheckContiguous(resp.Gantt); err != nil {
		v.Warnings = append(v.Warnings, "timeline: "+err.Error())
	}
	return v
}

// ComparisonView is a rendered multi-algorithm comparison.
type ComparisonView struct {
	Table    report.ComparisonTable
	Warnings []string
}

func newComparisonView(resp *schedule.CompareResponse, exclusions []workload.Exclusion) *ComparisonView {
	return &ComparisonView{
		Table:    report.BuildComparison(resp.Results),
		Warnings: exclusionWarnings(exclusions),
	}
}

func exclusionWarnings(exclusions []workload.Exclusion) []string {
	out := make([]string, 0, len(exclusions))
	for _, e := range exclusions {
		out = append(out, e.String())
	}
	return out
}
