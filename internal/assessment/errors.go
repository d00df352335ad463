package assessment

import (
	"fmt"
	"net/http"
)

// APIError is a response whose envelope reported success=false. The HTTP
// status is kept for diagnostics only; it never turns a failure into a success.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("assessment service error (HTTP %d)", e.StatusCode)
	}
	return fmt.Sprintf("assessment service error (HTTP %d): %s", e.StatusCode, e.Message)
}

// TransportError means the request never produced a response.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError means a response arrived but its body was not a JSON envelope.
type DecodeError struct {
	StatusCode int
	Err        error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode response (HTTP %d %s): %v", e.StatusCode, http.StatusText(e.StatusCode), e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// PayloadError means a parsed response was missing fields the client needs.
type PayloadError struct {
	Err error
}

func (e *PayloadError) Error() string {
	return fmt.Sprintf("malformed payload: %v", e.Err)
}

func (e *PayloadError) Unwrap() error { return e.Err }
