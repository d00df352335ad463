package assessment

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Wire values of next_mode.
const (
	ModeMultipleChoice = "multiple_choice"
	ModeComplete       = "complete"
	ModeExamplesFirst  = "examples_first"
)

// DefaultTotalQuestions is the diagnostic length assumed until the service
// reports one.
const DefaultTotalQuestions = 5

// Question is a multiple-choice diagnostic question. Once cached it is never
// mutated.
type Question struct {
	Text             string   `json:"question"`
	Options          []string `json:"options"`
	CorrectAnswer    int      `json:"correct_answer"`
	Index            int      `json:"questionIndex"`
	DifficultyWeight int      `json:"difficulty_weight,omitempty"`
}

// AnswerRecord is one confirmed diagnostic answer. The full ordered history
// travels with every diagnostic request.
type AnswerRecord struct {
	QuestionIndex      int     `json:"question_index"`
	SelectedOption     int     `json:"selected_option"`
	HesitationSeconds  float64 `json:"hesitation_seconds"`
	CorrectAnswerIndex int     `json:"correct_answer_index"`
}

// FetchRequest asks the service for the question at QuestionIndex.
// Answer is always sent empty.
type FetchRequest struct {
	Answer            string         `json:"answer"`
	QuestionIndex     int            `json:"question_index"`
	PreviousAnswers   []AnswerRecord `json:"previous_answers"`
	HesitationSeconds float64        `json:"hesitation_seconds"`
}

// SubmitRequest reports the learner's choice for the current question.
//
// CorrectAnswerIndex is echoed from the question the client holds, so the
// service ends up trusting client state for correctness. Servers that care
// about integrity should recompute it from their own copy of the question.
type SubmitRequest struct {
	SelectedOption     int            `json:"selected_option"`
	QuestionIndex      int            `json:"question_index"`
	PreviousAnswers    []AnswerRecord `json:"previous_answers"`
	CorrectAnswerIndex int            `json:"correct_answer_index"`
	HesitationSeconds  float64        `json:"hesitation_seconds"`
}

// TextAnswerRequest carries a free-text answer to the fallback question.
type TextAnswerRequest struct {
	Answer            string  `json:"answer"`
	HesitationSeconds float64 `json:"hesitation_seconds"`
}

// Result is the "result" object of a diagnostic response.
type Result struct {
	NextMode          string          `json:"next_mode"`
	QuestionPayload   json.RawMessage `json:"question_payload,omitempty"`
	QuestionIndex     *int            `json:"question_index,omitempty"`
	TotalQuestions    *int            `json:"total_questions,omitempty"`
	AssessedLevel     *int            `json:"assessed_level,omitempty"`
	AllCorrect        bool            `json:"all_correct,omitempty"`
	AllUnsure         bool            `json:"all_unsure,omitempty"`
	AcceleratedModule ModuleFlag      `json:"accelerated_module"`
	Reasoning         string          `json:"reasoning,omitempty"`
	Answers           []AnswerRecord  `json:"answers,omitempty"`
}

// ModuleFlag is the accelerated_module field. Services send either a boolean
// or the name of the module the learner skips ahead to.
type ModuleFlag struct {
	Set  bool
	Name string
}

// Module returns a flag naming the given module.
func Module(name string) ModuleFlag {
	return ModuleFlag{Set: name != "", Name: name}
}

func (f ModuleFlag) MarshalJSON() ([]byte, error) {
	if f.Name != "" {
		return json.Marshal(f.Name)
	}
	return json.Marshal(f.Set)
}

func (f *ModuleFlag) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case nil:
		*f = ModuleFlag{}
	case bool:
		*f = ModuleFlag{Set: t}
	case string:
		*f = Module(t)
	default:
		return fmt.Errorf("accelerated_module: unsupported JSON value %s", data)
	}
	return nil
}

// Lesson is the current lesson page returned by the lesson endpoint.
type Lesson struct {
	Module         string          `json:"module"`
	Title          string          `json:"title,omitempty"`
	Content        string          `json:"content"`
	Difficulty     int             `json:"difficulty"`
	ImageReference string          `json:"image_reference,omitempty"`
	CheckQuestions []CheckQuestion `json:"check_questions,omitempty"`
	CurrentPage    int             `json:"current_page"`
	TotalPages     int             `json:"total_pages"`
	IsPaginated    bool            `json:"is_paginated,omitempty"`
}

// PageTurn is the result of NextLessonPage. Lesson is nil when ComingSoon.
type PageTurn struct {
	Lesson         *Lesson
	HasMorePages   bool
	ModuleAdvanced bool
	ComingSoon     bool
	Message        string
}

// ModuleTitle turns a module ID such as "transformers_llms" into
// "Transformers Llms".
func ModuleTitle(id string) string {
	words := strings.Fields(strings.ReplaceAll(id, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// CheckQuestion is a comprehension question attached to a lesson. The
// service numbers a module's questions with GlobalIndex; the quiz
// endpoint knows them as "<module>_q<GlobalIndex>".
type CheckQuestion struct {
	ID                 string   `json:"id,omitempty"`
	Question           string   `json:"question"`
	Type               string   `json:"type,omitempty"`
	Options            []string `json:"options,omitempty"`
	CorrectAnswerIndex *int     `json:"correct_answer_index,omitempty"`
	GlobalIndex        *int     `json:"global_index,omitempty"`
}

// QuizID returns the ID the quiz endpoint records an answer under.
func (q CheckQuestion) QuizID(module string, position int) string {
	if q.ID != "" {
		return q.ID
	}
	if q.GlobalIndex != nil {
		position = *q.GlobalIndex
	}
	return fmt.Sprintf("%s_q%d", module, position)
}

// QuizAnswer is submitted to the quiz evaluation endpoint. SelectedOption
// and CorrectAnswerIndex are set together for multiple-choice checks; the
// service grades free text itself.
type QuizAnswer struct {
	QuestionID         string  `json:"question_id"`
	Question           string  `json:"question"`
	Answer             string  `json:"answer"`
	SelectedOption     *int    `json:"selected_option,omitempty"`
	CorrectAnswerIndex *int    `json:"correct_answer_index,omitempty"`
	HesitationSeconds  float64 `json:"hesitation_seconds"`
}

// Evaluation is the quiz endpoint's feedback. IsCorrect is only reported
// for multiple-choice answers and takes precedence over Correct.
type Evaluation struct {
	Correct                bool    `json:"correct"`
	IsCorrect              *bool   `json:"is_correct,omitempty"`
	IsConfused             bool    `json:"is_confused"`
	Confidence             float64 `json:"confidence,omitempty"`
	Reasoning              string  `json:"reasoning,omitempty"`
	SuggestedAction        string  `json:"suggested_action,omitempty"`
	ChangeDirection        string  `json:"change_direction,omitempty"`
	ClarificationGenerated bool    `json:"clarification_generated,omitempty"`
}

// Passed reports whether the answer was judged correct.
func (e Evaluation) Passed() bool {
	if e.IsCorrect != nil {
		return *e.IsCorrect
	}
	return e.Correct
}

// Verdict is the one-line message shown to the learner. A confused
// learner is never told they were right.
func (e Evaluation) Verdict() string {
	switch {
	case e.IsConfused:
		return "I understand this is challenging. Let me help clarify!"
	case e.Passed():
		return "Correct! Great job!"
	}
	return "Not quite right. Let's keep learning!"
}

// Progress summarizes the learner's state as reported by the service.
type Progress struct {
	UserID           string   `json:"user_id"`
	CurrentModule    string   `json:"current_module"`
	CompletedModules []string `json:"completed_modules"`
	DifficultyLevel  int      `json:"difficulty_level"`
	TotalQuestions   int      `json:"total_questions"`
	CorrectAnswers   int      `json:"correct_answers"`
	Accuracy         float64  `json:"accuracy"`
	PreferredStyle   string   `json:"preferred_style,omitempty"`
}

// Advancement is the result of moving to the next module.
type Advancement struct {
	Advanced   bool   `json:"advanced"`
	ComingSoon bool   `json:"coming_soon"`
	Message    string `json:"message"`
}

// Capstone is a generated starter agent for the learner's own task.
type Capstone struct {
	AgentCode        string   `json:"agent_code"`
	AgentDescription string   `json:"agent_description"`
	NextSteps        []string `json:"next_steps,omitempty"`
}

// Image is an illustration for a lesson concept. URL is empty when the
// service found nothing relevant.
type Image struct {
	URL     string
	Concept string
}
