// Package metrics provides Prometheus metrics for schedviz.
//
// The collector counts service calls, stale responses, excluded workload
// rows and rendered timeline segments. Request latency is also folded into
// a t-digest so the shells can show p50/p95/p99 without a Prometheus
// server.
package metrics

import (
	"sync"
	"time"

	"github.com/influxdata/tdigest"
	"github.com/prometheus/client_golang/prometheus"
)

// Namespace prefixes every metric name.
const Namespace = "schedviz"

// digestCompression bounds the digest at roughly 100 centroids.
const digestCompression = 100

// Collector records schedviz metrics. Safe for concurrent use.
type Collector struct {
	requests  *prometheus.CounterVec
	durations *prometheus.HistogramVec
	quantiles *prometheus.GaugeVec
	stale     prometheus.Counter
	excluded  prometheus.Counter
	segments  prometheus.Counter

	mu     sync.Mutex
	digest *tdigest.TDigest
	count  int64
	max    time.Duration
}

// NewCollector creates a collector registered on the default registry.
func NewCollector() *Collector {
	return NewCollectorWithRegistry(prometheus.DefaultRegisterer)
}

// NewCollectorWithRegistry creates a collector with a custom registry.
// Each collector owns its metric vectors, so several may coexist on
// separate registries.
func NewCollectorWithRegistry(registry prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "requests_total",
				Help:      "Scheduling service calls by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		durations: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "request_duration_seconds",
				Help:      "Scheduling service call latency",
				Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"operation"},
		),
		quantiles: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: Namespace,
				Name:      "request_latency_quantile_seconds",
				Help:      "Scheduling service call latency quantiles from a t-digest",
			},
			[]string{"quantile"},
		),
		stale: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "stale_responses_total",
			Help:      "Responses discarded because a newer request was issued",
		}),
		excluded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "excluded_rows_total",
			Help:      "Workload rows left out of a request because they were invalid",
		}),
		segments: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "rendered_segments_total",
			Help:      "Timeline segments laid out for display",
		}),
		digest: tdigest.NewWithCompression(digestCompression),
	}

	registry.MustRegister(
		c.requests,
		c.durations,
		c.quantiles,
		c.stale,
		c.excluded,
		c.segments,
	)

	return c
}

// =============================================================================
// Recording Methods
// =============================================================================

// ObserveRequest records one finished service call.
func (c *Collector) ObserveRequest(operation, outcome string, d time.Duration) {
	c.requests.WithLabelValues(operation, outcome).Inc()
	c.durations.WithLabelValues(operation).Observe(d.Seconds())

	c.mu.Lock()
	c.digest.Add(d.Seconds(), 1)
	c.count++
	if d > c.max {
		c.max = d
	}
	p50, p95, p99 := c.digest.Quantile(0.50), c.digest.Quantile(0.95), c.digest.Quantile(0.99)
	c.mu.Unlock()

	c.quantiles.WithLabelValues("0.5").Set(p50)
	c.quantiles.WithLabelValues("0.95").Set(p95)
	c.quantiles.WithLabelValues("0.99").Set(p99)
}

// RecordStale counts a discarded response.
func (c *Collector) RecordStale() {
	c.stale.Inc()
}

// RecordExcluded counts rows left out of a request.
func (c *Collector) RecordExcluded(n int) {
	if n > 0 {
		c.excluded.Add(float64(n))
	}
}

// RecordSegments counts laid-out timeline segments.
func (c *Collector) RecordSegments(n int) {
	if n > 0 {
		c.segments.Add(float64(n))
	}
}

// =============================================================================
// Latency Summary
// =============================================================================

// Latency summarizes observed request latency.
type Latency struct {
	Count int64
	P50   time.Duration
	P95   time.Duration
	P99   time.Duration
	Max   time.Duration
}

// Latency returns the current latency summary. The zero value means no
// requests have been observed.
func (c *Collector) Latency() Latency {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.count == 0 {
		return Latency{}
	}
	return Latency{
		Count: c.count,
		P50:   seconds(c.digest.Quantile(0.50)),
		P95:   seconds(c.digest.Quantile(0.95)),
		P99:   seconds(c.digest.Quantile(0.99)),
		Max:   c.max,
	}
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}
