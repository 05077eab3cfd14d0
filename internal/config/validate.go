package config

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strings"

	"github.com/randomizedcoder/schedviz/internal/session"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the configuration for errors and inconsistencies.
// Returns nil if valid, or an error describing every problem found.
func Validate(cfg *Config) error {
	var errs []error

	if err := ValidateURL(cfg.APIBase); err != nil {
		errs = append(errs, ValidationError{
			Field:   "api-base",
			Message: err.Error(),
		})
	}

	if cfg.Timeout <= 0 {
		errs = append(errs, ValidationError{
			Field:   "timeout",
			Message: "must be positive",
		})
	}

	if cfg.Retries < 0 {
		errs = append(errs, ValidationError{
			Field:   "retries",
			Message: "must be >= 0",
		})
	}

	// Backoff settings only matter when retrying
	if cfg.Retries > 0 {
		if cfg.BackoffInitial <= 0 {
			errs = append(errs, ValidationError{
				Field:   "backoff-initial",
				Message: "must be positive",
			})
		}
		if cfg.BackoffMax < cfg.BackoffInitial {
			errs = append(errs, ValidationError{
				Field:   "backoff-max",
				Message: "must be >= backoff-initial",
			})
		}
	}

	if strings.TrimSpace(cfg.Algorithm) == "" {
		errs = append(errs, ValidationError{
			Field:   "algorithm",
			Message: "is required",
		})
	}

	if !finiteNonNegative(cfg.ContextSwitch) {
		errs = append(errs, ValidationError{
			Field:   "context-switch",
			Message: "must be a non-negative number",
		})
	}
	if !finiteNonNegative(cfg.TimeSlice) {
		errs = append(errs, ValidationError{
			Field:   "time-slice",
			Message: "must be a non-negative number",
		})
	}

	if _, err := session.ParseConfig(cfg.AlgoConfig); err != nil {
		var ve session.ValidationError
		msg := err.Error()
		if errors.As(err, &ve) {
			msg = ve.Message
		}
		errs = append(errs, ValidationError{
			Field:   "algo-config",
			Message: msg,
		})
	}

	if cfg.Width < 10 {
		errs = append(errs, ValidationError{
			Field:   "width",
			Message: "must be at least 10",
		})
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[cfg.LogFormat] {
		errs = append(errs, ValidationError{
			Field:   "log-format",
			Message: fmt.Sprintf("must be 'json' or 'text' (got %q)", cfg.LogFormat),
		})
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(cfg.LogLevel)] {
		errs = append(errs, ValidationError{
			Field:   "log-level",
			Message: fmt.Sprintf("must be one of debug, info, warn, error (got %q)", cfg.LogLevel),
		})
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// ValidateURL checks that rawURL is an absolute http or https URL.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return errors.New("is required")
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL scheme must be http or https (got %q)", u.Scheme)
	}

	if u.Host == "" {
		return errors.New("URL must have a host")
	}

	return nil
}

func finiteNonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
