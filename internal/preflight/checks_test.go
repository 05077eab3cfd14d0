package preflight

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/randomizedcoder/schedviz/internal/config"
)

type fakePinger struct {
	err   error
	calls int
}

func (p *fakePinger) Ping(context.Context) error {
	p.calls++
	return p.err
}

func TestCheck_String(t *testing.T) {
	tests := []struct {
		name  string
		check Check
		glyph string
	}{
		{"passed", Check{Name: "c", Passed: true, Message: "fine"}, "✓"},
		{"failed", Check{Name: "c", Passed: false, Message: "broken"}, "✗"},
		{"warning", Check{Name: "c", Passed: true, Warning: true, Message: "hmm"}, "⚠"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.check.String()
			if !strings.Contains(s, tt.glyph) {
				t.Errorf("%q should contain %s", s, tt.glyph)
			}
			if !strings.Contains(s, tt.check.Message) {
				t.Errorf("%q should contain the message", s)
			}
		})
	}
}

func findCheck(r *Result, name string) (Check, bool) {
	for _, c := range r.Checks {
		if c.Name == name {
			return c, true
		}
	}
	return Check{}, false
}

func TestRunAll_AllPass(t *testing.T) {
	p := &fakePinger{}
	r := RunAll(context.Background(), p, config.DefaultConfig())

	if !r.Passed {
		t.Errorf("expected pass: %+v", r.Checks)
	}
	if len(r.Checks) != 3 {
		t.Errorf("got %d checks, want 3", len(r.Checks))
	}
	if p.calls != 1 {
		t.Errorf("ping calls = %d, want 1", p.calls)
	}
	if c, _ := findCheck(r, "service_reachable"); c.Warning {
		t.Error("reachable service should not warn")
	}
}

func TestRunAll_UnreachableIsWarning(t *testing.T) {
	r := RunAll(context.Background(), &fakePinger{err: errors.New("connection refused")}, config.DefaultConfig())

	if !r.Passed {
		t.Error("unreachable service must not fail preflight")
	}
	c, ok := findCheck(r, "service_reachable")
	if !ok || !c.Warning || !strings.Contains(c.Message, "connection refused") {
		t.Errorf("service_reachable = %+v", c)
	}
}

func TestRunAll_BadURLSkipsPing(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.APIBase = "localhost:8000"
	p := &fakePinger{}

	r := RunAll(context.Background(), p, cfg)
	if r.Passed {
		t.Error("bad URL should fail")
	}
	if p.calls != 0 {
		t.Errorf("ping calls = %d, want 0", p.calls)
	}
	if _, ok := findCheck(r, "service_reachable"); ok {
		t.Error("service_reachable should be skipped")
	}
}

func TestRunAll_BadAlgoConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.AlgoConfig = "{bad json"

	r := RunAll(context.Background(), &fakePinger{}, cfg)
	if r.Passed {
		t.Error("bad algo config should fail")
	}
	c, _ := findCheck(r, "algo_config")
	if c.Passed || !strings.Contains(c.Message, "invalid JSON") {
		t.Errorf("algo_config = %+v", c)
	}
}

func TestRunAll_NilPinger(t *testing.T) {
	r := RunAll(context.Background(), nil, config.DefaultConfig())
	c, _ := findCheck(r, "service_reachable")
	if !c.Warning || !r.Passed {
		t.Errorf("nil pinger should warn only: %+v", c)
	}
}

func TestSuggestFix(t *testing.T) {
	for _, name := range []string{"api_base_url", "service_reachable", "algo_config", "other"} {
		if suggestFix(name) == "" {
			t.Errorf("suggestFix(%q) is empty", name)
		}
	}
}

func TestPrintResults(t *testing.T) {
	var buf bytes.Buffer
	PrintResults(&buf, &Result{
		Checks: []Check{
			{Name: "api_base_url", Passed: true, Message: "http://localhost:8000"},
			{Name: "algo_config", Passed: false, Message: "config: invalid JSON"},
		},
	})

	out := buf.String()
	if !strings.HasPrefix(out, "Preflight checks:") {
		t.Errorf("missing heading:\n%s", out)
	}
	if strings.Count(out, "Fix:") != 1 {
		t.Errorf("want one fix suggestion:\n%s", out)
	}
}
