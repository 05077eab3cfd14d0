// Package client talks to the scheduling service over HTTP.
//
// Every failure, network or HTTP, is returned as a *ServiceError whose
// message is safe to show to the user as-is.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/randomizedcoder/schedviz/internal/schedule"
)

// Operation names, also used as metric label values.
const (
	OpExecute = "execute"
	OpCompare = "compare"
	OpPing    = "ping"
)

// Outcome label values reported to the Observer.
const (
	OutcomeSuccess   = "success"
	OutcomeService   = "service_error"
	OutcomeTransport = "transport_error"
)

// RequestIDHeader carries a per-call identifier for correlating logs.
const RequestIDHeader = "X-Request-ID"

// maxErrorBody bounds how much of a failed response body is read.
const maxErrorBody = 64 << 10

// Observer receives one call per finished request attempt.
type Observer interface {
	ObserveRequest(operation, outcome string, d time.Duration)
}

// Config holds client settings.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	Retries   int
	Backoff   BackoffConfig
	Seed      int64
	UserAgent string

	// HTTPClient overrides the default client. Timeout is applied to the
	// default client only.
	HTTPClient *http.Client
	Observer   Observer
}

// DefaultConfig returns a Config for a service on localhost:8000.
func DefaultConfig() Config {
	return Config{
		BaseURL:   "http://localhost:8000",
		Timeout:   10 * time.Second,
		Backoff:   DefaultBackoffConfig(),
		UserAgent: "schedviz",
	}
}

// Client is a scheduling service client. Safe for concurrent use.
type Client struct {
	base     string
	cfg      Config
	http     *http.Client
	logger   *slog.Logger
	attempts atomic.Int64
}

// New creates a Client. A nil logger discards logs.
func New(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		base:   strings.TrimRight(cfg.BaseURL, "/"),
		cfg:    cfg,
		http:   hc,
		logger: logger,
	}
}

// BaseURL returns the normalized service base URL.
func (c *Client) BaseURL() string {
	return c.base
}

// Execute runs a single algorithm.
func (c *Client) Execute(ctx context.Context, req schedule.ExecuteRequest) (*schedule.ExecuteResponse, error) {
	var resp schedule.ExecuteResponse
	if err := c.post(ctx, OpExecute, "/execute", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Compare runs several algorithms on one workload.
func (c *Client) Compare(ctx context.Context, req schedule.CompareRequest) (*schedule.CompareResponse, error) {
	var resp schedule.CompareResponse
	if err := c.post(ctx, OpCompare, "/compare", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Ping issues GET on the base URL and succeeds on any 2xx.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, OpPing, http.MethodGet, "/", nil, nil)
}

func (c *Client) post(ctx context.Context, op, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return &ServiceError{Operation: op, Message: fmt.Sprintf("encoding %s request: %v", op, err), Err: err}
	}
	return c.do(ctx, op, http.MethodPost, path, body, out)
}

// do performs the call, retrying retryable failures up to cfg.Retries
// times.
func (c *Client) do(ctx context.Context, op, method, path string, body []byte, out any) error {
	backoff := NewBackoff(c.cfg.Seed^c.attempts.Add(1), c.cfg.Backoff)

	for {
		err := c.once(ctx, op, method, path, body, out)
		if err == nil {
			return nil
		}

		var se *ServiceError
		if !errors.As(err, &se) || !se.Retryable() || backoff.Attempts() >= c.cfg.Retries || ctx.Err() != nil {
			return err
		}

		delay := backoff.Next()
		c.logger.Debug("request_retry",
			"operation", op,
			"attempt", backoff.Attempts(),
			"delay", delay,
			"error", se.Message,
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return err
		case <-timer.C:
		}
	}
}

func (c *Client) once(ctx context.Context, op, method, path string, body []byte, out any) error {
	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rdr)
	if err != nil {
		return &ServiceError{Operation: op, Message: fmt.Sprintf("%s: %v", GenericFailure, err), Err: err}
	}
	id := uuid.NewString()
	req.Header.Set(RequestIDHeader, id)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	c.logger.Debug("request_sent",
		"operation", op,
		"request_id", id,
		"url", req.URL.String(),
	)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.observe(op, OutcomeTransport, start)
		c.logger.Warn("request_failed", "operation", op, "request_id", id, "error", err)
		return &ServiceError{Operation: op, Message: fmt.Sprintf("%s: %v", GenericFailure, err), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.observe(op, OutcomeService, start)
		se := &ServiceError{Operation: op, Status: resp.StatusCode, Message: detailMessage(raw)}
		c.logger.Warn("request_rejected",
			"operation", op,
			"request_id", id,
			"status", resp.StatusCode,
			"detail", se.Message,
		)
		return se
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			c.observe(op, OutcomeService, start)
			return &ServiceError{
				Operation: op,
				Status:    resp.StatusCode,
				Message:   fmt.Sprintf("decoding %s response: %v", op, err),
				Err:       err,
			}
		}
	} else {
		_, _ = io.Copy(io.Discard, resp.Body)
	}

	c.observe(op, OutcomeSuccess, start)
	c.logger.Debug("response_received",
		"operation", op,
		"request_id", id,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)
	return nil
}

func (c *Client) observe(op, outcome string, start time.Time) {
	if c.cfg.Observer != nil {
		c.cfg.Observer.ObserveRequest(op, outcome, time.Since(start))
	}
}
