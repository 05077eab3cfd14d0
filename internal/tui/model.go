package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/randomizedcoder/schedviz/internal/metrics"
	"github.com/randomizedcoder/schedviz/internal/schedule"
	"github.com/randomizedcoder/schedviz/internal/session"
	"github.com/randomizedcoder/schedviz/internal/workload"
)

// Step sizes for the numeric settings.
const (
	contextSwitchStep = 0.5
	timeSliceStep     = 1.0
)

// Operation names carried by ResultMsg.
const (
	OpExecute = "execute"
	OpCompare = "compare"
)

// =============================================================================
// Messages
// =============================================================================

// ResultMsg reports a finished execute or compare.
type ResultMsg struct {
	Op  string
	Err error
}

// QuitMsg signals the TUI should exit.
type QuitMsg struct{}

// =============================================================================
// Model
// =============================================================================

// LatencySource provides request latency percentiles for the footer.
type LatencySource interface {
	Latency() metrics.Latency
}

// Model represents the TUI state.
type Model struct {
	// Configuration
	sess    *session.Session
	latency LatencySource
	apiBase string
	timeout time.Duration

	// Settings being edited
	settings   session.Settings
	algoIdx    int
	algorithms []string
	compareSet []bool

	// Current state
	snap     session.Snapshot
	inFlight int
	status   string

	// Display options
	width  int
	height int

	quitting bool
}

// Config holds TUI configuration.
type Config struct {
	Session  *session.Session
	Settings session.Settings
	// Compare is the initially selected compare set.
	Compare []string
	APIBase string
	Timeout time.Duration
	Latency LatencySource
}

// New creates a new TUI model.
func New(cfg Config) Model {
	algorithms := append([]string(nil), schedule.DefaultAlgorithms...)

	algo := schedule.NormalizeAlgorithm(cfg.Settings.Algorithm)
	algoIdx := 0
	for i, a := range algorithms {
		if a == algo {
			algoIdx = i
		}
	}
	settings := cfg.Settings
	settings.Algorithm = algorithms[algoIdx]

	compareSet := make([]bool, len(algorithms))
	for _, name := range cfg.Compare {
		for i, a := range algorithms {
			if a == schedule.NormalizeAlgorithm(name) {
				compareSet[i] = true
			}
		}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	m := Model{
		sess:       cfg.Session,
		latency:    cfg.Latency,
		apiBase:    cfg.APIBase,
		timeout:    timeout,
		settings:   settings,
		algoIdx:    algoIdx,
		algorithms: algorithms,
		compareSet: compareSet,
		width:      80,
		height:     24,
	}
	m.refresh()
	return m
}

// =============================================================================
// Bubble Tea Interface
// =============================================================================

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case ResultMsg:
		if m.inFlight > 0 {
			m.inFlight--
		}
		switch {
		case errors.Is(msg.Err, session.ErrStale):
			m.status = "dropped a superseded " + msg.Op + " response"
		case msg.Err != nil:
			m.status = ""
		default:
			m.status = msg.Op + " done"
		}
		m.refresh()
		return m, nil

	case QuitMsg:
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	wl := m.sess.Workload()

	switch msg.String() {
	case "q", "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit

	case "left", "h":
		m.selectAlgorithm(m.algoIdx - 1)
	case "right", "l":
		m.selectAlgorithm(m.algoIdx + 1)

	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		i := int(msg.String()[0] - '1')
		if i < len(m.compareSet) {
			m.compareSet[i] = !m.compareSet[i]
		}

	case "+", "=":
		m.settings.ContextSwitch += contextSwitchStep
	case "-", "_":
		m.settings.ContextSwitch = clampStep(m.settings.ContextSwitch, -contextSwitchStep)
	case "]":
		m.settings.TimeSlice += timeSliceStep
	case "[":
		m.settings.TimeSlice = clampStep(m.settings.TimeSlice, -timeSliceStep)

	case "a":
		row := wl.AddBlank()
		m.status = "added " + row.ID
	case "x":
		if n := wl.Len(); n > 0 {
			_ = wl.Remove(n - 1)
			m.status = "removed last row"
		}
	case "s":
		wl.Replace(workload.SampleRows())
		m.status = "loaded sample workload"

	case "enter", "e":
		return m.issue(OpExecute)
	case "c":
		return m.issue(OpCompare)

	default:
		return m, nil
	}

	m.refresh()
	return m, nil
}

// issue clears the visible output at once and runs the request as a
// command. The session discards the response if a newer one was issued.
func (m Model) issue(op string) (tea.Model, tea.Cmd) {
	m.inFlight++
	m.status = ""
	m.snap.Run = nil
	m.snap.Comparison = nil
	m.snap.Err = ""

	sess, set, timeout := m.sess, m.settings, m.timeout
	compare := m.CompareSelection()

	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		var err error
		if op == OpCompare {
			err = sess.Compare(ctx, set, compare)
		} else {
			err = sess.Execute(ctx, set)
		}
		return ResultMsg{Op: op, Err: err}
	}
}

func (m *Model) selectAlgorithm(i int) {
	n := len(m.algorithms)
	m.algoIdx = ((i % n) + n) % n
	m.settings.Algorithm = m.algorithms[m.algoIdx]
}

func (m *Model) refresh() {
	if m.sess != nil {
		m.snap = m.sess.Snapshot()
	}
}

func clampStep(v, step float64) float64 {
	v += step
	if v < 0 {
		return 0
	}
	return v
}

// View renders the TUI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return m.renderMain()
}

// =============================================================================
// Accessors
// =============================================================================

// Settings returns the settings a request would be issued with.
func (m Model) Settings() session.Settings {
	return m.settings
}

// CompareSelection returns the selected compare algorithms in display
// order.
func (m Model) CompareSelection() []string {
	var out []string
	for i, on := range m.compareSet {
		if on {
			out = append(out, m.algorithms[i])
		}
	}
	return out
}

// Running reports whether any request is outstanding.
func (m Model) Running() bool {
	return m.inFlight > 0
}

// Snapshot returns the session state the view was last rendered from.
func (m Model) Snapshot() session.Snapshot {
	return m.snap
}
