package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

var (
	diagnosticEventColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt64, Increment: true},
		{Name: "session_id", Type: field.TypeString},
		{Name: "kind", Type: field.TypeString},
		{Name: "question_index", Type: field.TypeInt, Nullable: true},
		{Name: "selected_option", Type: field.TypeInt, Nullable: true},
		{Name: "correct_answer_index", Type: field.TypeInt, Nullable: true},
		{Name: "hesitation_seconds", Type: field.TypeFloat64, Default: 0},
		{Name: "detail", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "created_at", Type: field.TypeInt64},
	}
	diagnosticEventsTable = &schema.Table{
		Name:       "diagnostic_events",
		Columns:    diagnosticEventColumns,
		PrimaryKey: []*schema.Column{diagnosticEventColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "diagnosticevent_session_id",
				Unique:  false,
				Columns: []*schema.Column{diagnosticEventColumns[1]},
			},
		},
	}

	llmRequestEventColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt64, Increment: true},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "request_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "response_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "created_at", Type: field.TypeInt64},
	}
	llmRequestEventsTable = &schema.Table{
		Name:       "llm_request_events",
		Columns:    llmRequestEventColumns,
		PrimaryKey: []*schema.Column{llmRequestEventColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "llmrequestevent_purpose",
				Unique:  false,
				Columns: []*schema.Column{llmRequestEventColumns[3]},
			},
		},
	}

	// tables lists every table the auto-migration manages.
	tables = []*schema.Table{
		diagnosticEventsTable,
		llmRequestEventsTable,
	}
)
