package devserver

import (
	"slices"
	"sync"

	"github.com/abhisek/learnai/internal/assessment"
)

const diagnosticModule = "diagnostic"

// learner is one user's progress. The server forgets it on restart.
type learner struct {
	module     string
	page       int
	difficulty int
	completed  []string
}

func newLearner() *learner {
	return &learner{module: diagnosticModule, difficulty: 1, completed: []string{}}
}

// moveTo enters module, marking the current one completed.
func (l *learner) moveTo(module string) {
	if !slices.Contains(l.completed, l.module) {
		l.completed = append(l.completed, l.module)
	}
	l.module = module
	l.page = 0
}

func (l *learner) progress(userID string) assessment.Progress {
	return assessment.Progress{
		UserID:           userID,
		CurrentModule:    l.module,
		CompletedModules: slices.Clone(l.completed),
		DifficultyLevel:  l.difficulty,
	}
}

// learners holds per-user state keyed by the X-User-ID header.
type learners struct {
	mu    sync.Mutex
	users map[string]*learner
}

func newLearners() *learners {
	return &learners{users: make(map[string]*learner)}
}

// with runs fn with the user's state locked.
func (ls *learners) with(userID string, fn func(*learner)) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	l, ok := ls.users[userID]
	if !ok {
		l = newLearner()
		ls.users[userID] = l
	}
	fn(l)
}

func (ls *learners) reset(userID string) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	delete(ls.users, userID)
}
