package devserver

import (
	_ "embed"
	"fmt"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/learnai/internal/assessment"
)

//go:embed lessons.yaml
var defaultLessons []byte

// comingSoonMessage is returned when the next module is not available yet.
const comingSoonMessage = "AI Agents and Capstone modules are coming soon! Stay tuned for updates."

type page struct {
	Title          string                     `yaml:"title"`
	Content        string                     `yaml:"content"`
	CheckQuestions []assessment.CheckQuestion `yaml:"check_questions"`
}

type module struct {
	Name       string `yaml:"name"`
	Title      string `yaml:"title"`
	ComingSoon bool   `yaml:"coming_soon"`
	Pages      []page `yaml:"pages"`
}

// catalogue is the ordered list of lesson modules.
type catalogue struct {
	modules []module
}

func loadCatalogue(data []byte) (*catalogue, error) {
	var doc struct {
		Modules []module `yaml:"modules"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse lessons: %w", err)
	}
	for _, m := range doc.Modules {
		if !m.ComingSoon && len(m.Pages) == 0 {
			return nil, fmt.Errorf("module %q has no pages", m.Name)
		}
	}
	if len(doc.Modules) == 0 || doc.Modules[0].ComingSoon {
		return nil, fmt.Errorf("lessons need an available first module")
	}
	return &catalogue{modules: doc.Modules}, nil
}

func (c *catalogue) first() string {
	return c.modules[0].Name
}

func (c *catalogue) find(name string) (module, int, bool) {
	m, i, ok := lo.FindIndexOf(c.modules, func(m module) bool { return m.Name == name })
	return m, i, ok
}

// next returns the module after name, if any.
func (c *catalogue) next(name string) (module, bool) {
	_, i, ok := c.find(name)
	if !ok || i+1 >= len(c.modules) {
		return module{}, false
	}
	return c.modules[i+1], true
}

// lesson renders page p of module name. Out-of-range pages clamp to the last.
func (c *catalogue) lesson(name string, p, difficulty int) (assessment.Lesson, bool) {
	m, _, ok := c.find(name)
	if !ok || len(m.Pages) == 0 {
		return assessment.Lesson{}, false
	}
	p = max(0, min(p, len(m.Pages)-1))
	pg := m.Pages[p]
	return assessment.Lesson{
		Module:         m.Name,
		Title:          pg.Title,
		Content:        pg.Content,
		Difficulty:     difficulty,
		CheckQuestions: pg.CheckQuestions,
		CurrentPage:    p,
		TotalPages:     len(m.Pages),
		IsPaginated:    len(m.Pages) > 1,
	}, true
}
