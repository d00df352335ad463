package diagnostic

import (
	"fmt"

	"github.com/abhisek/learnai/internal/assessment"
)

// SummaryKind selects the completion message.
type SummaryKind int

const (
	SummaryGeneric SummaryKind = iota
	SummaryAllUnsure
	SummaryPerfect
	SummaryAcceleratedPerfect
)

func (k SummaryKind) String() string {
	switch k {
	case SummaryAllUnsure:
		return "all-unsure"
	case SummaryPerfect:
		return "perfect"
	case SummaryAcceleratedPerfect:
		return "accelerated-perfect"
	default:
		return "generic"
	}
}

// Summary is what the learner sees when the diagnostic completes.
type Summary struct {
	Kind      SummaryKind
	Level     int
	Label     string
	Message   string
	Reasoning string
	// Module is the display name of the module the learner skips ahead to.
	Module string
}

// Perfect reports whether the learner answered everything correctly.
func (s Summary) Perfect() bool {
	return s.Kind == SummaryPerfect || s.Kind == SummaryAcceleratedPerfect
}

var levelLabels = [...]string{"Beginner", "Intermediate", "Advanced", "Expert"}

// defaultLevel is used only when the service sends no level at all.
const defaultLevel = 1

// LevelLabel names an assessed level, clamping to 0..3.
func LevelLabel(level int) string {
	level = max(0, min(level, len(levelLabels)-1))
	return levelLabels[level]
}

// Summarize picks exactly one of the four completion messages.
func Summarize(c assessment.Completion) Summary {
	level := defaultLevel
	if c.AssessedLevel != nil {
		level = max(0, min(*c.AssessedLevel, len(levelLabels)-1))
	}

	s := Summary{
		Level:     level,
		Label:     LevelLabel(level),
		Reasoning: c.Reasoning,
	}

	switch {
	case c.AllCorrect && c.Accelerated.Set:
		s.Kind = SummaryAcceleratedPerfect
		s.Module = moduleTitle(c.Accelerated.Name)
		s.Message = fmt.Sprintf("Perfect score! Skipping ahead to %s. Your level: %s", s.Module, s.Label)
	case c.AllCorrect:
		s.Kind = SummaryPerfect
		s.Message = "Perfect score! Your level: " + s.Label
	case c.AllUnsure:
		s.Kind = SummaryAllUnsure
		s.Message = "No problem! We'll start from the fundamentals. Your level: " + s.Label
	default:
		s.Kind = SummaryGeneric
		s.Message = "Assessment complete! Your level: " + s.Label
	}
	return s
}

// moduleTitle names the module a perfect score skips ahead to.
func moduleTitle(name string) string {
	if name == "" {
		return "an advanced module"
	}
	return assessment.ModuleTitle(name)
}
