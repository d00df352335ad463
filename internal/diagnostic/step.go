package diagnostic

import (
	"time"

	"github.com/abhisek/learnai/internal/assessment"
)

// StepKind tells the display layer what to show next.
type StepKind int

const (
	// StepQuestion shows a multiple-choice question.
	StepQuestion StepKind = iota
	// StepFallback shows the free-text fallback question.
	StepFallback
	// StepComplete shows the completion summary, then the lesson flow
	// after Step.Delay.
	StepComplete
	// StepLessons leaves the diagnostic for the lesson flow immediately.
	StepLessons
)

func (k StepKind) String() string {
	switch k {
	case StepQuestion:
		return "question"
	case StepFallback:
		return "fallback"
	case StepComplete:
		return "complete"
	case StepLessons:
		return "lessons"
	}
	return "unknown"
}

// Step is the displayable outcome of a controller operation. Every
// operation resolves to a Step, including when the service fails.
type Step struct {
	Kind      StepKind
	SessionID string

	// Index and Total position a StepQuestion in the run.
	Index int
	Total int

	Question *assessment.Question
	Fallback *FallbackQuestion
	Summary  *Summary

	// Delay is how long a StepComplete summary stays up.
	Delay time.Duration

	// Notice is a transient, non-blocking notification.
	Notice string
	// Warning is an inline validation message for the learner's input.
	Warning string
}

// FallbackQuestion is the open question shown when no structured question
// is available.
type FallbackQuestion struct {
	Prompt string
	Hint   string
}

// DefaultFallback is the free-text question. "skip" is an accepted answer.
var DefaultFallback = FallbackQuestion{
	Prompt: "In one or two sentences, how would you describe what AI does?",
	Hint:   "Type 'skip' if you're not sure",
}

// User-facing notices and warnings.
const (
	NoticeFetchFailed  = "Couldn't load the next question, so here's a quick open question instead."
	NoticeSubmitFailed = "Couldn't submit your answer. Please try again."
	WarningNoSelection = "Please select an answer before submitting."
	WarningEmptyAnswer = "Please type an answer, or 'skip'."
)
