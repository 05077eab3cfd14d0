package client

import (
	"math"
	"math/rand"
	"time"
)

// BackoffConfig holds the configuration for retry backoff.
type BackoffConfig struct {
	Initial    time.Duration // Delay before the first retry (default: 200ms)
	Max        time.Duration // Maximum delay (default: 2s)
	Multiplier float64       // Growth per attempt (default: 2)
	JitterPct  float64       // Jitter as a fraction of delay (default: 0.2 = ±10%)
}

// DefaultBackoffConfig returns the defaults used when retries are enabled.
func DefaultBackoffConfig() BackoffConfig {
	return BackoffConfig{
		Initial:    200 * time.Millisecond,
		Max:        2 * time.Second,
		Multiplier: 2,
		JitterPct:  0.2,
	}
}

// Backoff calculates exponential retry delays with seeded jitter.
// Not safe for concurrent use; each request owns one.
type Backoff struct {
	config   BackoffConfig
	attempts int
	rng      *rand.Rand
}

// NewBackoff creates a Backoff whose jitter sequence is fixed by seed.
func NewBackoff(seed int64, cfg BackoffConfig) *Backoff {
	return &Backoff{
		config: cfg,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// Next returns the next delay and increments the attempt counter.
func (b *Backoff) Next() time.Duration {
	delay := b.Calculate()
	b.attempts++
	return delay
}

// Calculate returns the current delay without incrementing attempts.
func (b *Backoff) Calculate() time.Duration {
	mult := b.config.Multiplier
	if mult < 1 {
		mult = 1
	}
	delay := float64(b.config.Initial) * math.Pow(mult, float64(b.attempts))

	if b.config.Max > 0 && delay > float64(b.config.Max) {
		delay = float64(b.config.Max)
	}

	// ±(JitterPct/2) of the delay
	if b.config.JitterPct > 0 {
		jitterRange := delay * b.config.JitterPct
		delay += jitterRange*b.rng.Float64() - jitterRange/2
	}

	if delay < 0 {
		delay = 0
	}
	return time.Duration(delay)
}

// Attempts returns the current attempt count.
func (b *Backoff) Attempts() int {
	return b.attempts
}
