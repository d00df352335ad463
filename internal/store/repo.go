package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit     int       // max results (0 = unlimited)
	After     int64     // id > After
	Before    int64     // id < Before
	From      time.Time // timestamp >= From
	To        time.Time // timestamp <= To
	SessionID string    // diagnostic events only
	Purpose   string    // LLM events only
}

// DiagnosticEventData captures one step of a diagnostic session.
type DiagnosticEventData struct {
	SessionID          string
	Kind               string
	QuestionIndex      *int
	SelectedOption     *int
	CorrectAnswerIndex *int
	HesitationSeconds  float64
	Detail             string
}

// DiagnosticEvent is a stored DiagnosticEventData.
type DiagnosticEvent struct {
	ID        int64
	Timestamp time.Time
	DiagnosticEventData
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a stored LLMRequestEventData.
type LLMEvent struct {
	ID        int64
	Timestamp time.Time
	LLMRequestEventData
}

// PurposeUsage aggregates LLM usage for one purpose label.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// ModelUsage aggregates LLM usage for one model.
type ModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendDiagnosticEvent records a diagnostic session event.
	AppendDiagnosticEvent(ctx context.Context, data DiagnosticEventData) error

	// DiagnosticEvents returns diagnostic events, newest first.
	DiagnosticEvents(ctx context.Context, opts QueryOpts) ([]DiagnosticEvent, error)

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns LLM events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)

	// GetLLMEvent returns one LLM event, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int64) (*LLMEvent, error)

	// LLMUsageByPurpose aggregates token usage per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error)

	// LLMUsageByModel aggregates token usage per model.
	LLMUsageByModel(ctx context.Context) ([]ModelUsage, error)
}
