package devserver

import "testing"

func TestDefaultCatalogue(t *testing.T) {
	c, err := loadCatalogue(defaultLessons)
	if err != nil {
		t.Fatalf("loadCatalogue: %v", err)
	}
	if c.first() != "fundamentals" {
		t.Errorf("first module = %q", c.first())
	}

	next, ok := c.next("fundamentals")
	if !ok || next.Name != "transformers_llms" {
		t.Errorf("next(fundamentals) = %q, %v", next.Name, ok)
	}
	next, ok = c.next("transformers_llms")
	if !ok || !next.ComingSoon {
		t.Errorf("expected a coming-soon module after transformers_llms, got %q", next.Name)
	}
	if _, ok := c.next("build_todo_agent"); ok {
		t.Error("expected no module after the last one")
	}
}

func TestCatalogueLesson(t *testing.T) {
	c, err := loadCatalogue(defaultLessons)
	if err != nil {
		t.Fatal(err)
	}

	l, ok := c.lesson("fundamentals", 99, 2)
	if !ok {
		t.Fatal("expected a lesson")
	}
	if l.CurrentPage != l.TotalPages-1 {
		t.Errorf("page %d should clamp to %d", l.CurrentPage, l.TotalPages-1)
	}
	if l.Difficulty != 2 || !l.IsPaginated || l.Content == "" {
		t.Errorf("unexpected lesson: %+v", l)
	}

	if _, ok := c.lesson("agents", 0, 1); ok {
		t.Error("coming-soon module should have no lesson")
	}
	if _, ok := c.lesson("nope", 0, 1); ok {
		t.Error("unknown module should have no lesson")
	}
}

func TestLoadCatalogue_Invalid(t *testing.T) {
	for name, doc := range map[string]string{
		"no modules":          "modules: []\n",
		"first coming soon":   "modules:\n  - name: a\n    coming_soon: true\n",
		"module without page": "modules:\n  - name: a\n",
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := loadCatalogue([]byte(doc)); err == nil {
				t.Error("expected error")
			}
		})
	}
}
