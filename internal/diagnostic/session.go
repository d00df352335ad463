package diagnostic

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/abhisek/learnai/internal/assessment"
)

// Session is the state of one diagnostic run. A new Session, and with it a
// new cache, is created every time a diagnostic starts.
type Session struct {
	ID        string
	StartedAt time.Time

	cache *QuestionCache

	mu       sync.Mutex
	current  int
	total    int
	history  []assessment.AnswerRecord
	question *assessment.Question // displayed question; nil before the first one and during fallback
	fallback bool
	shownAt  time.Time
	finished bool
}

func newSession(total int, now time.Time) *Session {
	return &Session{
		ID:        uuid.NewString(),
		StartedAt: now,
		cache:     NewQuestionCache(),
		total:     total,
		history:   []assessment.AnswerRecord{},
	}
}

// Cache returns the session's question cache.
func (s *Session) Cache() *QuestionCache {
	return s.cache
}

// Current returns the current question index.
func (s *Session) Current() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Total returns the total question count.
func (s *Session) Total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

// History returns a copy of the confirmed answers in index order.
func (s *Session) History() []assessment.AnswerRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.history)
}

// Question returns the displayed question, if a multiple-choice question
// is showing.
func (s *Session) Question() (assessment.Question, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.question == nil {
		return assessment.Question{}, false
	}
	return cloneQuestion(*s.question), true
}

// InFallback reports whether the free-text fallback question is showing.
func (s *Session) InFallback() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fallback
}

// Finished reports whether the session has handed off to the lesson flow.
func (s *Session) Finished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finished
}

// view is a consistent copy of the fields a submission reads.
type view struct {
	current  int
	total    int
	history  []assessment.AnswerRecord
	question *assessment.Question
	fallback bool
	shownAt  time.Time
	finished bool
}

func (s *Session) view() view {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := view{
		current:  s.current,
		total:    s.total,
		history:  slices.Clone(s.history),
		fallback: s.fallback,
		shownAt:  s.shownAt,
		finished: s.finished,
	}
	if s.question != nil {
		q := cloneQuestion(*s.question)
		v.question = &q
	}
	return v
}

func (s *Session) setTotal(n int) {
	if n <= 0 {
		return
	}
	s.mu.Lock()
	s.total = n
	s.mu.Unlock()
}

// display makes q the current question. The index never moves backwards.
func (s *Session) display(index int, q assessment.Question, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index > s.current {
		s.current = index
	}
	s.question = &q
	s.fallback = false
	s.shownAt = at
}

func (s *Session) displayFallback(at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.question = nil
	s.fallback = true
	s.shownAt = at
}

// appendAnswer adds rec to the history unless its index is already
// recorded or is not past the last recorded one.
func (s *Session) appendAnswer(rec assessment.AnswerRecord) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if lo.ContainsBy(s.history, func(r assessment.AnswerRecord) bool {
		return r.QuestionIndex >= rec.QuestionIndex
	}) {
		return false
	}
	s.history = append(s.history, rec)
	return true
}

func (s *Session) finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finished = true
	s.question = nil
	s.fallback = false
}
