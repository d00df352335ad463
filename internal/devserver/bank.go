package devserver

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/learnai/internal/assessment"
)

//go:embed bank.yaml
var defaultBank []byte

// NotSure is always the last option. Its index is UnsureOption.
const NotSure = "I'm not sure"

// UnsureOption is the option index that means the learner did not know.
const UnsureOption = 4

// BankQuestion is a diagnostic question before shuffling.
type BankQuestion struct {
	Question string   `yaml:"question"`
	Options  []string `yaml:"options"`
	Correct  int      `yaml:"correct"`
	Weight   int      `yaml:"weight"`
}

// LoadBank reads a question bank. An empty path loads the built-in bank.
func LoadBank(path string) ([]BankQuestion, error) {
	data := defaultBank
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("read question bank: %w", err)
		}
	}

	var doc struct {
		Questions []BankQuestion `yaml:"questions"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse question bank: %w", err)
	}
	if len(doc.Questions) == 0 {
		return nil, fmt.Errorf("question bank is empty")
	}
	for i, q := range doc.Questions {
		if err := q.validate(); err != nil {
			return nil, fmt.Errorf("question %d: %w", i, err)
		}
	}
	return doc.Questions, nil
}

func (q BankQuestion) validate() error {
	if q.Question == "" {
		return fmt.Errorf("missing text")
	}
	if len(q.Options) != UnsureOption {
		return fmt.Errorf("want %d options, got %d", UnsureOption, len(q.Options))
	}
	if q.Correct < 0 || q.Correct >= len(q.Options) {
		return fmt.Errorf("correct option %d out of range", q.Correct)
	}
	return nil
}

// present shuffles the options, tracks where the correct one landed and
// appends NotSure.
func (q BankQuestion) present(shuffle func([]int) []int) assessment.Question {
	order := make([]int, len(q.Options))
	for i := range order {
		order[i] = i
	}
	order = shuffle(order)

	out := assessment.Question{
		Text:             q.Question,
		Options:          make([]string, 0, len(order)+1),
		DifficultyWeight: q.Weight,
	}
	for pos, orig := range order {
		out.Options = append(out.Options, q.Options[orig])
		if orig == q.Correct {
			out.CorrectAnswer = pos
		}
	}
	out.Options = append(out.Options, NotSure)
	return out
}
