package client

import (
	"encoding/json"
	"strings"
)

// GenericFailure is the message used when the service gives no detail.
const GenericFailure = "Request failed"

// ServiceError is the single error type returned for a failed call.
// Message is what the user sees.
type ServiceError struct {
	Operation string
	// Status is the HTTP status, or 0 for transport failures.
	Status  int
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// Transport reports whether the call never got an HTTP response.
func (e *ServiceError) Transport() bool {
	return e.Status == 0
}

// Retryable reports whether retrying could help: transport failures and
// 502/503/504. Validation responses are never retried.
func (e *ServiceError) Retryable() bool {
	switch e.Status {
	case 0, 502, 503, 504:
		return true
	}
	return false
}

// detailMessage extracts the "detail" field of an error body. It accepts a
// string, or a list of objects carrying "msg" as produced by request
// validation, joined by "; ". Anything else gives GenericFailure.
func detailMessage(body []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return GenericFailure
	}

	var s string
	if err := json.Unmarshal(envelope.Detail, &s); err == nil {
		if strings.TrimSpace(s) == "" {
			return GenericFailure
		}
		return s
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		if len(msgs) > 0 {
			return strings.Join(msgs, "; ")
		}
	}

	return GenericFailure
}
