package devserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/abhisek/learnai/internal/llm"
)

// PurposeQuestion labels question-writing calls in the LLM event log.
const PurposeQuestion = "diagnostic-question"

var writtenQuestionSchema = &llm.Schema{
	Name:        PurposeQuestion,
	Description: "One multiple-choice diagnostic question with four options",
	Definition: map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []any{"question", "options", "correct_answer"},
		"properties": map[string]any{
			"question": map[string]any{"type": "string"},
			"options": map[string]any{
				"type":     "array",
				"items":    map[string]any{"type": "string"},
				"minItems": 4,
				"maxItems": 4,
			},
			"correct_answer": map[string]any{"type": "integer", "minimum": 0, "maximum": 3},
		},
	},
}

const writerSystem = `You write multiple-choice questions for a five-question diagnostic that places learners in an introductory AI course.
Each question has exactly four options and exactly one correct option.
Never include an "I'm not sure" option; the app adds it.
Keep options short and plausible.`

// Writer asks an LLM for a fresh variant of a bank question.
type Writer struct {
	provider llm.Provider
}

// NewWriter returns a Writer backed by p.
func NewWriter(p llm.Provider) *Writer {
	return &Writer{provider: p}
}

// Rewrite returns a new question on the same concept and at the same
// difficulty as seed.
func (w *Writer) Rewrite(ctx context.Context, seed BankQuestion) (BankQuestion, error) {
	prompt := fmt.Sprintf(
		"Write one question that tests the same concept as:\n%q\nDifficulty: %d on a scale of 1 (beginner) to 3 (advanced).",
		seed.Question, seed.Weight)

	resp, err := w.provider.Generate(llm.WithPurpose(ctx, PurposeQuestion), llm.Request{
		System:      writerSystem,
		Prompt:      prompt,
		Schema:      writtenQuestionSchema,
		MaxTokens:   512,
		Temperature: 0.7,
	})
	if err != nil {
		return BankQuestion{}, err
	}

	var out struct {
		Question      string   `json:"question"`
		Options       []string `json:"options"`
		CorrectAnswer int      `json:"correct_answer"`
	}
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return BankQuestion{}, fmt.Errorf("decode written question: %w", err)
	}

	q := BankQuestion{
		Question: strings.TrimSpace(out.Question),
		Options:  lo.Map(out.Options, func(o string, _ int) string { return strings.TrimSpace(o) }),
		Correct:  out.CorrectAnswer,
		Weight:   seed.Weight,
	}
	if err := q.validate(); err != nil {
		return BankQuestion{}, fmt.Errorf("written question: %w", err)
	}
	if len(lo.Uniq(q.Options)) != len(q.Options) || lo.Contains(q.Options, "") {
		return BankQuestion{}, fmt.Errorf("written question: options must be distinct and non-empty")
	}
	return q, nil
}
