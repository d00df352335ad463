package devserver

import (
	"github.com/samber/lo"

	"github.com/abhisek/learnai/internal/assessment"
)

// questionWeights weighs answers by question index; later questions are harder.
var questionWeights = []int{1, 1, 2, 2, 3}

// Assessment is the placement derived from a full set of answers.
type Assessment struct {
	Level      int
	AllCorrect bool
	AllUnsure  bool
}

// Assess places a learner from their diagnostic answers.
func Assess(answers []assessment.AnswerRecord) Assessment {
	if len(answers) == 0 {
		return Assessment{Level: 1}
	}

	unsure := lo.CountBy(answers, func(a assessment.AnswerRecord) bool {
		return a.SelectedOption == UnsureOption
	})
	if unsure == len(answers) {
		return Assessment{Level: 0, AllUnsure: true}
	}

	var correct, score, weight int
	for _, a := range answers {
		if a.SelectedOption == UnsureOption {
			continue
		}
		w := 1
		if a.QuestionIndex >= 0 && a.QuestionIndex < len(questionWeights) {
			w = questionWeights[a.QuestionIndex]
		}
		weight += w
		if a.SelectedOption == a.CorrectAnswerIndex {
			correct++
			score += w
		}
	}

	switch {
	case correct == len(answers):
		return Assessment{Level: 3, AllCorrect: true}
	case correct == 0, unsure >= 3:
		return Assessment{Level: 0}
	}

	avg := float64(score) / float64(weight)
	switch {
	case avg >= 0.8:
		return Assessment{Level: 3}
	case avg >= 0.6:
		return Assessment{Level: 2}
	case avg >= 0.4:
		return Assessment{Level: 1}
	}
	return Assessment{Level: 0}
}
