package llm

import (
	"encoding/json"
	"fmt"
	"time"
)

// RateLimitError is a 429 from the provider.
type RateLimitError struct {
	RetryAfter time.Duration
	Err        error
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("llm: rate limited: %v", e.Err)
}

func (e *RateLimitError) Unwrap() error { return e.Err }

// UnavailableError covers provider outages and transport failures.
type UnavailableError struct {
	Err error
}

func (e *UnavailableError) Error() string {
	if e.Err == nil {
		return "llm: provider unavailable"
	}
	return fmt.Sprintf("llm: provider unavailable: %v", e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// OutputError means the model answered with something that does not fit
// the requested schema.
type OutputError struct {
	Content json.RawMessage
	Err     error
}

func (e *OutputError) Error() string {
	return fmt.Sprintf("llm: unusable output: %v", e.Err)
}

func (e *OutputError) Unwrap() error { return e.Err }
