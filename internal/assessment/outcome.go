package assessment

// Outcome is the decoded meaning of a diagnostic Result. It is one of
// NextQuestion, Completed, ExamplesFirst or Unexpected.
type Outcome interface {
	mode() string
}

// NextQuestion is a multiple_choice result.
type NextQuestion struct {
	// Index is the index the service assigned to the question, if any.
	Index *int
	// Total is the total question count, if the service supplied one.
	Total *int
	// Question is nil when the payload was missing or failed the shape check.
	Question *Question
	// PayloadErr explains why Question is nil when a payload was present.
	PayloadErr error
}

// Completed ends the diagnostic with an assessment.
type Completed struct {
	Completion
}

// Completion is the service's assessment of the learner.
type Completion struct {
	// AssessedLevel is 0..3. Nil means the service did not send one; zero
	// is a real level.
	AssessedLevel *int
	AllCorrect    bool
	AllUnsure     bool
	Accelerated   ModuleFlag
	Reasoning     string
}

// ExamplesFirst asks the client to skip structured questions and start
// from worked examples.
type ExamplesFirst struct {
	Reasoning string
}

// Unexpected is any next_mode the client does not know.
type Unexpected struct {
	Mode string
}

func (NextQuestion) mode() string  { return ModeMultipleChoice }
func (Completed) mode() string     { return ModeComplete }
func (ExamplesFirst) mode() string { return ModeExamplesFirst }
func (u Unexpected) mode() string  { return u.Mode }

// Outcome decodes the result's next_mode. The payload of a multiple_choice
// result is shape-checked here.
func (r *Result) Outcome() Outcome {
	if r == nil {
		return Unexpected{}
	}

	switch r.NextMode {
	case ModeMultipleChoice:
		nq := NextQuestion{Index: r.QuestionIndex, Total: r.TotalQuestions}
		if len(r.QuestionPayload) > 0 && string(r.QuestionPayload) != "null" {
			nq.Question, nq.PayloadErr = DecodeQuestion(r.QuestionPayload)
		}
		return nq

	case ModeComplete:
		return Completed{Completion{
			AssessedLevel: r.AssessedLevel,
			AllCorrect:    r.AllCorrect,
			AllUnsure:     r.AllUnsure,
			Accelerated:   r.AcceleratedModule,
			Reasoning:     r.Reasoning,
		}}

	case ModeExamplesFirst:
		return ExamplesFirst{Reasoning: r.Reasoning}
	}

	return Unexpected{Mode: r.NextMode}
}
