package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/randomizedcoder/schedviz/internal/schedule"
)

type recordingObserver struct {
	mu    sync.Mutex
	calls []string
}

func (o *recordingObserver) ObserveRequest(op, outcome string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls = append(o.calls, op+"/"+outcome)
}

func testClient(t *testing.T, h http.HandlerFunc, mutate func(*Config)) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	cfg := DefaultConfig()
	cfg.BaseURL = srv.URL + "/"
	cfg.Timeout = 2 * time.Second
	cfg.Backoff = BackoffConfig{Initial: time.Millisecond, Max: 5 * time.Millisecond, Multiplier: 2}
	if mutate != nil {
		mutate(&cfg)
	}
	return New(cfg, nil), srv
}

func executeRequest() schedule.ExecuteRequest {
	return schedule.ExecuteRequest{
		Algorithm: schedule.FCFS,
		Processes: []schedule.ProcessSpec{
			{ID: "P1", ArrivalTime: 0, BurstTime: 5, Priority: schedule.Float(1)},
		},
		ContextSwitchTime: 0,
		Config:            map[string]any{},
	}
}

// =============================================================================
// Tests: Execute and Compare
// =============================================================================

func TestExecute_Success(t *testing.T) {
	var gotPath, gotMethod, gotType, gotID string
	var gotBody map[string]any

	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotMethod = r.URL.Path, r.Method
		gotType = r.Header.Get("Content-Type")
		gotID = r.Header.Get(RequestIDHeader)
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"algorithm": "FCFS",
			"gantt": [{"pid": "P1", "start": 0, "end": 5}],
			"metrics": [{"pid": "P1", "waiting_time": 0, "turnaround_time": 5, "response_time": 0, "completion_time": 5}],
			"averages": {"avg_waiting_time": 0, "avg_turnaround_time": 5, "avg_response_time": 0},
			"cpu_utilization": 1,
			"throughput": 0.2,
			"warnings": []
		}`))
	}, nil)

	resp, err := c.Execute(context.Background(), executeRequest())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if gotPath != "/execute" {
		t.Errorf("path = %q, want /execute", gotPath)
	}
	if gotMethod != http.MethodPost {
		t.Errorf("method = %q, want POST", gotMethod)
	}
	if gotType != "application/json" {
		t.Errorf("Content-Type = %q", gotType)
	}
	if _, err := uuid.Parse(gotID); err != nil {
		t.Errorf("request id %q is not a uuid: %v", gotID, err)
	}
	if gotBody["algorithm"] != "FCFS" {
		t.Errorf("body algorithm = %v", gotBody["algorithm"])
	}
	if _, ok := gotBody["time_slice"]; ok {
		t.Error("time_slice should be omitted when unset")
	}

	if len(resp.Gantt) != 1 || resp.Gantt[0].OwnerID != "P1" {
		t.Errorf("gantt = %+v", resp.Gantt)
	}
	s := resp.Summary()
	if s.CPUUtilization == nil || *s.CPUUtilization != 1 {
		t.Errorf("cpu utilization = %v", s.CPUUtilization)
	}
}

func TestCompare_Success(t *testing.T) {
	var gotAlgorithms []string

	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/compare" {
			http.NotFound(w, r)
			return
		}
		var body schedule.CompareRequest
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotAlgorithms = body.Algorithms
		_, _ = w.Write([]byte(`{"results": [
			{"algorithm": "FCFS", "avg_waiting_time": 5, "avg_turnaround_time": 10, "avg_response_time": 5},
			{"algorithm": "SJF", "avg_waiting_time": 4, "avg_turnaround_time": 9, "avg_response_time": 4}
		]}`))
	}, nil)

	resp, err := c.Compare(context.Background(), schedule.CompareRequest{
		Algorithms: []string{"FCFS", "SJF"},
		Processes:  executeRequest().Processes,
		Config:     map[string]any{},
	})
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if strings.Join(gotAlgorithms, ",") != "FCFS,SJF" {
		t.Errorf("algorithms sent = %v", gotAlgorithms)
	}
	if len(resp.Results) != 2 || resp.Results[0].Algorithm != "FCFS" || resp.Results[1].Algorithm != "SJF" {
		t.Errorf("results = %+v", resp.Results)
	}
}

// =============================================================================
// Tests: Failure contract
// =============================================================================

func TestExecute_ErrorDetail(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"string detail", 400, `{"detail": "Unknown algorithm: FOO"}`, "Unknown algorithm: FOO"},
		{"validation list", 422, `{"detail": [{"loc": ["body", "processes"], "msg": "field required"}, {"msg": "value is not a valid float"}]}`, "field required; value is not a valid float"},
		{"no detail", 500, `{"error": "boom"}`, GenericFailure},
		{"empty detail", 400, `{"detail": ""}`, GenericFailure},
		{"not json", 502, `<html>bad gateway</html>`, GenericFailure},
		{"empty body", 404, ``, GenericFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}, nil)

			_, err := c.Execute(context.Background(), executeRequest())
			var se *ServiceError
			if !errors.As(err, &se) {
				t.Fatalf("error = %v, want *ServiceError", err)
			}
			if se.Message != tt.want {
				t.Errorf("message = %q, want %q", se.Message, tt.want)
			}
			if se.Status != tt.status {
				t.Errorf("status = %d, want %d", se.Status, tt.status)
			}
			if se.Transport() {
				t.Error("HTTP failure reported as transport failure")
			}
		})
	}
}

func TestExecute_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	cfg := DefaultConfig()
	cfg.BaseURL = url
	cfg.Timeout = time.Second
	c := New(cfg, nil)

	_, err := c.Execute(context.Background(), executeRequest())
	var se *ServiceError
	if !errors.As(err, &se) {
		t.Fatalf("error = %v, want *ServiceError", err)
	}
	if !se.Transport() {
		t.Errorf("status = %d, want transport failure", se.Status)
	}
	if !strings.HasPrefix(se.Error(), GenericFailure) {
		t.Errorf("message = %q", se.Error())
	}
}

func TestExecute_MalformedResponse(t *testing.T) {
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"gantt": [`))
	}, nil)

	_, err := c.Execute(context.Background(), executeRequest())
	var se *ServiceError
	if !errors.As(err, &se) {
		t.Fatalf("error = %v, want *ServiceError", err)
	}
	if se.Retryable() {
		t.Error("decode failure should not be retryable")
	}
}

func TestExecute_Timeout(t *testing.T) {
	release := make(chan struct{})
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, func(cfg *Config) { cfg.Timeout = 50 * time.Millisecond })
	defer close(release)

	start := time.Now()
	_, err := c.Execute(context.Background(), executeRequest())
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if time.Since(start) > time.Second {
		t.Errorf("timeout took %v", time.Since(start))
	}
}

func TestExecute_ContextCancel(t *testing.T) {
	release := make(chan struct{})
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, nil)
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := c.Execute(ctx, executeRequest())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

// =============================================================================
// Tests: Retries
// =============================================================================

func TestRetry_ServiceUnavailable(t *testing.T) {
	var calls atomic.Int32
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"results": []}`))
	}, func(cfg *Config) { cfg.Retries = 2 })

	if _, err := c.Compare(context.Background(), schedule.CompareRequest{}); err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestRetry_NotForValidationErrors(t *testing.T) {
	var calls atomic.Int32
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail": "bad"}`))
	}, func(cfg *Config) { cfg.Retries = 3 })

	if _, err := c.Execute(context.Background(), executeRequest()); err == nil {
		t.Fatal("expected error")
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestRetry_DisabledByDefault(t *testing.T) {
	var calls atomic.Int32
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}, nil)

	if _, err := c.Execute(context.Background(), executeRequest()); err == nil {
		t.Fatal("expected error")
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

// =============================================================================
// Tests: Ping and Observer
// =============================================================================

func TestPing(t *testing.T) {
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"message": "welcome"}`))
	}, nil)

	if err := c.Ping(context.Background()); err != nil {
		t.Errorf("Ping: %v", err)
	}
}

func TestObserver(t *testing.T) {
	obs := &recordingObserver{}
	var calls atomic.Int32
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`{"results": []}`))
	}, func(cfg *Config) { cfg.Observer = obs })

	_, _ = c.Execute(context.Background(), executeRequest())
	_, _ = c.Compare(context.Background(), schedule.CompareRequest{})

	want := []string{"execute/service_error", "compare/success"}
	if strings.Join(obs.calls, ",") != strings.Join(want, ",") {
		t.Errorf("observed = %v, want %v", obs.calls, want)
	}
}

func TestBaseURLTrimmed(t *testing.T) {
	c := New(Config{BaseURL: "http://svc:8000///"}, nil)
	if c.BaseURL() != "http://svc:8000" {
		t.Errorf("BaseURL = %q", c.BaseURL())
	}
}
