// Package preflight provides startup validation checks.
package preflight

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/randomizedcoder/schedviz/internal/config"
	"github.com/randomizedcoder/schedviz/internal/session"
)

// PingTimeout bounds the reachability probe.
const PingTimeout = 3 * time.Second

// Pinger probes the scheduling service.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Check represents the result of a single preflight check.
type Check struct {
	Name    string // Name of the check
	Passed  bool   // Whether the check passed
	Warning bool   // True if it's a warning (non-fatal)
	Message string // Additional context
}

// Result holds the results of all preflight checks.
type Result struct {
	Checks []Check
	Passed bool
}

// String returns a human-readable summary of the check.
func (c Check) String() string {
	status := "✓"
	if !c.Passed {
		status = "✗"
	} else if c.Warning {
		status = "⚠"
	}
	return fmt.Sprintf("  %s %s: %s", status, c.Name, c.Message)
}

// RunAll executes all preflight checks. An unreachable service is only a
// warning: the shells stay usable and report the failure per request.
func RunAll(ctx context.Context, pinger Pinger, cfg *config.Config) *Result {
	result := &Result{
		Checks: make([]Check, 0, 3),
		Passed: true,
	}

	add := func(c Check) {
		result.Checks = append(result.Checks, c)
		if !c.Passed {
			result.Passed = false
		}
	}

	urlCheck := checkBaseURL(cfg.APIBase)
	add(urlCheck)

	// Probing a malformed URL only repeats the failure above
	if urlCheck.Passed {
		add(checkReachable(ctx, pinger, cfg.APIBase))
	}

	add(checkAlgoConfig(cfg.AlgoConfig))

	return result
}

// checkBaseURL verifies the service URL is an absolute http(s) URL.
func checkBaseURL(base string) Check {
	if err := config.ValidateURL(base); err != nil {
		return Check{
			Name:    "api_base_url",
			Passed:  false,
			Message: fmt.Sprintf("%q: %v", base, err),
		}
	}
	return Check{
		Name:    "api_base_url",
		Passed:  true,
		Message: base,
	}
}

// checkReachable pings the service.
func checkReachable(ctx context.Context, pinger Pinger, base string) Check {
	if pinger == nil {
		return Check{
			Name:    "service_reachable",
			Passed:  true,
			Warning: true,
			Message: "no client configured",
		}
	}

	ctx, cancel := context.WithTimeout(ctx, PingTimeout)
	defer cancel()

	start := time.Now()
	if err := pinger.Ping(ctx); err != nil {
		return Check{
			Name:    "service_reachable",
			Passed:  true,
			Warning: true,
			Message: fmt.Sprintf("%s: %v", base, err),
		}
	}
	return Check{
		Name:    "service_reachable",
		Passed:  true,
		Message: fmt.Sprintf("%s answered in %v", base, time.Since(start).Round(time.Millisecond)),
	}
}

// checkAlgoConfig verifies the algorithm config parses as a JSON object.
func checkAlgoConfig(text string) Check {
	obj, err := session.ParseConfig(text)
	if err != nil {
		return Check{
			Name:    "algo_config",
			Passed:  false,
			Message: err.Error(),
		}
	}
	return Check{
		Name:    "algo_config",
		Passed:  true,
		Message: fmt.Sprintf("%d top-level keys", len(obj)),
	}
}

// PrintResults writes the preflight check results to w.
func PrintResults(w io.Writer, result *Result) {
	fmt.Fprintln(w, "Preflight checks:")
	for _, check := range result.Checks {
		fmt.Fprintln(w, check.String())
		if !check.Passed || check.Warning {
			fmt.Fprintf(w, "    Fix: %s\n", suggestFix(check.Name))
		}
	}
	fmt.Fprintln(w)
}

// suggestFix returns a suggestion for fixing a failed check.
func suggestFix(name string) string {
	switch name {
	case "api_base_url":
		return "pass --api-base http://host:port (or set SCHEDVIZ_API_BASE)"
	case "service_reachable":
		return "start the scheduling service, or check --api-base"
	case "algo_config":
		return `pass a JSON object to --algo-config, e.g. '{"queues": 3}'`
	default:
		return "see --help"
	}
}
