package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendDiagnosticEvent(ctx context.Context, data DiagnosticEventData) error {
	query, args := r.sql.Insert(diagnosticEventsTable.Name).
		Columns("session_id", "kind", "question_index", "selected_option",
			"correct_answer_index", "hesitation_seconds", "detail", "created_at").
		Values(data.SessionID, data.Kind, nullableInt(data.QuestionIndex), nullableInt(data.SelectedOption),
			nullableInt(data.CorrectAnswerIndex), data.HesitationSeconds, data.Detail, now().UnixMilli()).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save diagnostic event: %w", err)
	}
	return nil
}

func (r *eventRepo) DiagnosticEvents(ctx context.Context, opts QueryOpts) ([]DiagnosticEvent, error) {
	sel := r.sql.Select("id", "session_id", "kind", "question_index", "selected_option",
		"correct_answer_index", "hesitation_seconds", "detail", "created_at").
		From(r.sql.Table(diagnosticEventsTable.Name))
	if opts.SessionID != "" {
		sel.Where(entsql.EQ("session_id", opts.SessionID))
	}
	applyQueryOpts(sel, opts)

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query diagnostic events: %w", err)
	}
	defer rows.Close()

	var events []DiagnosticEvent
	for rows.Next() {
		var (
			e                         DiagnosticEvent
			index, selected, expected sql.NullInt64
			createdAt                 int64
		)
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Kind, &index, &selected,
			&expected, &e.HesitationSeconds, &e.Detail, &createdAt); err != nil {
			return nil, fmt.Errorf("scan diagnostic event: %w", err)
		}
		e.QuestionIndex = intPtr(index)
		e.SelectedOption = intPtr(selected)
		e.CorrectAnswerIndex = intPtr(expected)
		e.Timestamp = time.UnixMilli(createdAt)
		events = append(events, e)
	}
	return events, rows.Err()
}
