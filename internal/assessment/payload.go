package assessment

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// questionSchema is the shape a question_payload must have before the
// client will display it.
var questionSchema = map[string]any{
	"type":     "object",
	"required": []any{"question", "options", "correct_answer"},
	"properties": map[string]any{
		"question": map[string]any{"type": "string", "minLength": 1},
		"options": map[string]any{
			"type":     "array",
			"minItems": 2,
			"items":    map[string]any{"type": "string"},
		},
		"correct_answer":    map[string]any{"type": "integer", "minimum": 0},
		"questionIndex":     map[string]any{"type": "integer", "minimum": 0},
		"difficulty_weight": map[string]any{"type": "integer"},
	},
}

var (
	compileOnce     sync.Once
	compiledPayload *jsonschema.Schema
	compileErr      error
)

func payloadSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		const url = "schema://question-payload.json"
		// The compiler wants decoded JSON values, so go through the encoder
		// rather than handing it Go ints.
		def, err := json.Marshal(questionSchema)
		if err != nil {
			compileErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		var parsed any
		if err := json.Unmarshal(def, &parsed); err != nil {
			compileErr = fmt.Errorf("parse schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(url, parsed); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledPayload, compileErr = c.Compile(url)
	})
	return compiledPayload, compileErr
}

// DecodeQuestion shape-checks and decodes a question_payload.
// It returns a *PayloadError when the payload is not a usable question.
func DecodeQuestion(raw json.RawMessage) (*Question, error) {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, &PayloadError{Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	schema, err := payloadSchema()
	if err != nil {
		return nil, fmt.Errorf("compile question schema: %w", err)
	}
	if err := schema.Validate(parsed); err != nil {
		return nil, &PayloadError{Err: err}
	}

	var q Question
	if err := json.Unmarshal(raw, &q); err != nil {
		return nil, &PayloadError{Err: err}
	}
	if q.CorrectAnswer >= len(q.Options) {
		return nil, &PayloadError{Err: fmt.Errorf("correct_answer %d out of range for %d options", q.CorrectAnswer, len(q.Options))}
	}
	return &q, nil
}
