package diagnostic

import (
	"slices"
	"sync"

	"github.com/abhisek/learnai/internal/assessment"
)

// QuestionCache maps question index to Question. Entries are write-once:
// the first writer wins and later writes for the same index are discarded.
type QuestionCache struct {
	mu      sync.Mutex
	entries map[int]assessment.Question
}

// NewQuestionCache returns an empty cache.
func NewQuestionCache() *QuestionCache {
	return &QuestionCache{entries: make(map[int]assessment.Question)}
}

// Get returns the question cached for index.
func (c *QuestionCache) Get(index int) (assessment.Question, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	q, ok := c.entries[index]
	if !ok {
		return assessment.Question{}, false
	}
	return cloneQuestion(q), true
}

// PutIfAbsent stores q under index unless an entry already exists. It
// returns the entry that is cached after the call and whether this call
// stored it.
func (c *QuestionCache) PutIfAbsent(index int, q assessment.Question) (assessment.Question, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.entries[index]; ok {
		return cloneQuestion(existing), false
	}
	c.entries[index] = cloneQuestion(q)
	return cloneQuestion(q), true
}

// Len returns the number of cached questions.
func (c *QuestionCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Indexes returns the cached indexes in ascending order.
func (c *QuestionCache) Indexes() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]int, 0, len(c.entries))
	for i := range c.entries {
		out = append(out, i)
	}
	slices.Sort(out)
	return out
}

// cloneQuestion copies the options slice so callers cannot mutate a cached entry.
func cloneQuestion(q assessment.Question) assessment.Question {
	q.Options = slices.Clone(q.Options)
	return q
}
