package diagnostic

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/abhisek/learnai/internal/assessment"
	"github.com/abhisek/learnai/internal/store"
)

var (
	// ErrNoSession is returned when an operation runs before Start.
	ErrNoSession = errors.New("diagnostic: no session started")
	// ErrSessionFinished is returned after the session handed off to lessons.
	ErrSessionFinished = errors.New("diagnostic: session finished")
	// ErrIndexOutOfRange is returned for an index outside [current, total).
	ErrIndexOutOfRange = errors.New("diagnostic: question index out of range")
	// ErrWrongQuestionType is returned when submitting an option while the
	// fallback question is showing, or text while a multiple-choice one is.
	ErrWrongQuestionType = errors.New("diagnostic: no such question is displayed")
)

// Assessor is the remote assessment service.
type Assessor interface {
	FetchQuestion(ctx context.Context, req assessment.FetchRequest) (*assessment.Result, error)
	SubmitAnswer(ctx context.Context, req assessment.SubmitRequest) (*assessment.Result, error)
	SubmitText(ctx context.Context, req assessment.TextAnswerRequest) (*assessment.Result, error)
}

// Recorder receives diagnostic events. store.EventRepo satisfies it.
type Recorder interface {
	AppendDiagnosticEvent(ctx context.Context, data store.DiagnosticEventData) error
}

// Event kinds written to the Recorder.
const (
	EventSessionStart      = "session_start"
	EventQuestionShown     = "question_shown"
	EventPrefetched        = "prefetched"
	EventPrefetchFailed    = "prefetch_failed"
	EventFetchFailed       = "fetch_failed"
	EventSubmitRejected    = "submit_rejected"
	EventSubmitFailed      = "submit_failed"
	EventAnswerRecorded    = "answer_recorded"
	EventFallbackShown     = "fallback_shown"
	EventFallbackSubmitted = "fallback_submitted"
	EventCompleted         = "completed"
	EventLessonHandoff     = "lesson_handoff"
)

// Options configures a Controller.
type Options struct {
	// DefaultTotal is the question count assumed until the service sends one.
	DefaultTotal int
	// PrefetchCount is how many questions after the first are fetched in
	// the background when a session starts.
	PrefetchCount int
	// CompletionDelay is how long the completion summary stays up.
	CompletionDelay time.Duration
	// PerfectDelay replaces CompletionDelay after a perfect score.
	PerfectDelay time.Duration
	// Recorder, if set, receives diagnostic events.
	Recorder Recorder
	// Now is the clock used for hesitation. Defaults to time.Now.
	Now func() time.Time
}

// DefaultOptions returns the standard five-question configuration.
func DefaultOptions() Options {
	return Options{
		DefaultTotal:    assessment.DefaultTotalQuestions,
		PrefetchCount:   assessment.DefaultTotalQuestions - 1,
		CompletionDelay: 2 * time.Second,
		PerfectDelay:    3500 * time.Millisecond,
	}
}

// Controller drives a learner through the diagnostic. Operations block
// on the remote service; the controller itself is safe for concurrent use,
// but a display layer is expected to run one foreground operation at a time.
type Controller struct {
	assessor Assessor
	opts     Options

	mu      sync.Mutex
	session *Session

	prefetches sync.WaitGroup
}

// NewController creates a Controller.
func NewController(a Assessor, opts Options) *Controller {
	if opts.DefaultTotal <= 0 {
		opts.DefaultTotal = assessment.DefaultTotalQuestions
	}
	if opts.PrefetchCount < 0 {
		opts.PrefetchCount = 0
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Controller{assessor: a, opts: opts}
}

// Session returns the active session, or nil before Start.
func (c *Controller) Session() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// WaitPrefetch blocks until every background prefetch issued so far has
// resolved, including those of replaced sessions.
func (c *Controller) WaitPrefetch() {
	c.prefetches.Wait()
}

// Start discards any previous session and begins a new one. Question 0 is
// fetched in the foreground while questions 1..PrefetchCount are fetched
// in the background; background failures only cost later cache misses.
func (c *Controller) Start(ctx context.Context) Step {
	s := newSession(c.opts.DefaultTotal, c.opts.Now())

	c.mu.Lock()
	c.session = s
	c.mu.Unlock()

	c.record(ctx, s, store.DiagnosticEventData{Kind: EventSessionStart})

	for i := 1; i <= c.opts.PrefetchCount; i++ {
		c.prefetch(ctx, s, i)
	}

	return c.request(ctx, s, 0)
}

// prefetch fills the session's cache for index in the background. The
// goroutine holds its own session pointer, so a late result after a
// restart lands in the orphaned cache.
func (c *Controller) prefetch(ctx context.Context, s *Session, index int) {
	req := assessment.FetchRequest{
		QuestionIndex:   index,
		PreviousAnswers: s.History(),
	}

	c.prefetches.Add(1)
	go func() {
		defer c.prefetches.Done()

		res, err := c.assessor.FetchQuestion(ctx, req)
		if err != nil {
			c.record(ctx, s, store.DiagnosticEventData{Kind: EventPrefetchFailed, QuestionIndex: &index, Detail: err.Error()})
			return
		}

		nq, ok := res.Outcome().(assessment.NextQuestion)
		if !ok || nq.Question == nil {
			detail := "no question payload"
			if nq.PayloadErr != nil {
				detail = nq.PayloadErr.Error()
			}
			c.record(ctx, s, store.DiagnosticEventData{Kind: EventPrefetchFailed, QuestionIndex: &index, Detail: detail})
			return
		}

		q := *nq.Question
		q.Index = index
		if _, stored := s.cache.PutIfAbsent(index, q); stored {
			c.record(ctx, s, store.DiagnosticEventData{Kind: EventPrefetched, QuestionIndex: &index})
		}
	}()
}

// RequestQuestion shows the question at index, from the cache when
// possible.
func (c *Controller) RequestQuestion(ctx context.Context, index int) (Step, error) {
	s, err := c.active()
	if err != nil {
		return Step{}, err
	}
	if index < s.Current() || index >= s.Total() {
		return Step{}, ErrIndexOutOfRange
	}
	return c.request(ctx, s, index), nil
}

func (c *Controller) request(ctx context.Context, s *Session, index int) Step {
	if q, ok := s.cache.Get(index); ok {
		return c.show(ctx, s, index, q)
	}

	res, err := c.assessor.FetchQuestion(ctx, assessment.FetchRequest{
		QuestionIndex:   index,
		PreviousAnswers: s.History(),
	})
	if err != nil {
		c.record(ctx, s, store.DiagnosticEventData{Kind: EventFetchFailed, QuestionIndex: &index, Detail: err.Error()})
		return c.fallback(ctx, s, NoticeFetchFailed)
	}

	switch o := res.Outcome().(type) {
	case assessment.NextQuestion:
		if o.Question == nil {
			if o.PayloadErr != nil {
				c.record(ctx, s, store.DiagnosticEventData{Kind: EventFetchFailed, QuestionIndex: &index, Detail: o.PayloadErr.Error()})
				return c.fallback(ctx, s, NoticeFetchFailed)
			}
			return c.fallback(ctx, s, "")
		}
		if o.Total != nil {
			s.setTotal(*o.Total)
		}
		q := *o.Question
		q.Index = index
		// A prefetch may have won the race; show whichever entry is cached.
		stored, _ := s.cache.PutIfAbsent(index, q)
		return c.show(ctx, s, index, stored)

	case assessment.Completed:
		return c.complete(ctx, s, o.Completion)

	default:
		return c.fallback(ctx, s, "")
	}
}

// Submit sends the learner's choice for the displayed question. An
// option outside the displayed options counts as no selection and is
// rejected without a network call.
func (c *Controller) Submit(ctx context.Context, option int) (Step, error) {
	s, err := c.active()
	if err != nil {
		return Step{}, err
	}
	v := s.view()
	if v.question == nil {
		return Step{}, ErrWrongQuestionType
	}

	if option < 0 || option >= len(v.question.Options) {
		c.record(ctx, s, store.DiagnosticEventData{Kind: EventSubmitRejected, QuestionIndex: &v.current})
		step := c.questionStep(s, v)
		step.Warning = WarningNoSelection
		return step, nil
	}

	record := assessment.AnswerRecord{
		QuestionIndex:      v.current,
		SelectedOption:     option,
		HesitationSeconds:  c.opts.Now().Sub(v.shownAt).Seconds(),
		CorrectAnswerIndex: v.question.CorrectAnswer,
	}

	res, err := c.assessor.SubmitAnswer(ctx, assessment.SubmitRequest{
		SelectedOption:     record.SelectedOption,
		QuestionIndex:      record.QuestionIndex,
		PreviousAnswers:    v.history,
		CorrectAnswerIndex: record.CorrectAnswerIndex,
		HesitationSeconds:  record.HesitationSeconds,
	})
	if err != nil {
		return c.submitFailed(ctx, s, v, err.Error()), nil
	}

	switch o := res.Outcome().(type) {
	case assessment.Completed:
		c.confirm(ctx, s, record)
		return c.complete(ctx, s, o.Completion), nil

	case assessment.NextQuestion:
		next := v.current + 1
		if o.Index != nil && *o.Index > v.current {
			next = *o.Index
		}

		// The cache wins over the payload embedded in the response.
		q, cached := s.cache.Get(next)
		if !cached {
			if o.Question == nil {
				detail := "no question payload"
				if o.PayloadErr != nil {
					detail = o.PayloadErr.Error()
				}
				return c.submitFailed(ctx, s, v, detail), nil
			}
			q = *o.Question
			q.Index = next
			q, _ = s.cache.PutIfAbsent(next, q)
		}
		if o.Total != nil {
			s.setTotal(*o.Total)
		}

		c.confirm(ctx, s, record)
		return c.show(ctx, s, next, q), nil

	default:
		c.confirm(ctx, s, record)
		return c.handoff(ctx, s, "unexpected mode after submission"), nil
	}
}

// SubmitFallback sends a free-text answer to the fallback question and
// moves to the lesson flow once the service accepts it.
func (c *Controller) SubmitFallback(ctx context.Context, text string) (Step, error) {
	s, err := c.active()
	if err != nil {
		return Step{}, err
	}
	v := s.view()
	if !v.fallback {
		return Step{}, ErrWrongQuestionType
	}

	answer := strings.TrimSpace(text)
	if answer == "" {
		c.record(ctx, s, store.DiagnosticEventData{Kind: EventSubmitRejected})
		return Step{Kind: StepFallback, SessionID: s.ID, Fallback: &DefaultFallback, Warning: WarningEmptyAnswer}, nil
	}

	hesitation := c.opts.Now().Sub(v.shownAt).Seconds()
	if _, err := c.assessor.SubmitText(ctx, assessment.TextAnswerRequest{
		Answer:            answer,
		HesitationSeconds: hesitation,
	}); err != nil {
		c.record(ctx, s, store.DiagnosticEventData{Kind: EventSubmitFailed, Detail: err.Error()})
		return Step{Kind: StepFallback, SessionID: s.ID, Fallback: &DefaultFallback, Notice: NoticeSubmitFailed}, nil
	}

	c.record(ctx, s, store.DiagnosticEventData{Kind: EventFallbackSubmitted, HesitationSeconds: hesitation, Detail: answer})
	return c.handoff(ctx, s, "fallback answered"), nil
}

func (c *Controller) active() (*Session, error) {
	s := c.Session()
	if s == nil {
		return nil, ErrNoSession
	}
	if s.Finished() {
		return nil, ErrSessionFinished
	}
	return s, nil
}

func (c *Controller) show(ctx context.Context, s *Session, index int, q assessment.Question) Step {
	s.display(index, q, c.opts.Now())
	c.record(ctx, s, store.DiagnosticEventData{Kind: EventQuestionShown, QuestionIndex: &index})
	return Step{
		Kind:      StepQuestion,
		SessionID: s.ID,
		Index:     index,
		Total:     s.Total(),
		Question:  &q,
	}
}

// questionStep re-displays the current question without touching state.
func (c *Controller) questionStep(s *Session, v view) Step {
	return Step{
		Kind:      StepQuestion,
		SessionID: s.ID,
		Index:     v.current,
		Total:     v.total,
		Question:  v.question,
	}
}

func (c *Controller) submitFailed(ctx context.Context, s *Session, v view, detail string) Step {
	c.record(ctx, s, store.DiagnosticEventData{Kind: EventSubmitFailed, QuestionIndex: &v.current, Detail: detail})
	step := c.questionStep(s, v)
	step.Notice = NoticeSubmitFailed
	return step
}

func (c *Controller) fallback(ctx context.Context, s *Session, notice string) Step {
	s.displayFallback(c.opts.Now())
	c.record(ctx, s, store.DiagnosticEventData{Kind: EventFallbackShown, Detail: notice})
	return Step{
		Kind:      StepFallback,
		SessionID: s.ID,
		Fallback:  &DefaultFallback,
		Notice:    notice,
	}
}

// confirm appends a server-confirmed answer, at most once per index.
func (c *Controller) confirm(ctx context.Context, s *Session, rec assessment.AnswerRecord) {
	if !s.appendAnswer(rec) {
		return
	}
	c.record(ctx, s, store.DiagnosticEventData{
		Kind:               EventAnswerRecorded,
		QuestionIndex:      &rec.QuestionIndex,
		SelectedOption:     &rec.SelectedOption,
		CorrectAnswerIndex: &rec.CorrectAnswerIndex,
		HesitationSeconds:  rec.HesitationSeconds,
	})
}

// complete ends the session with a summary. Nothing about the session is
// read or written after this.
func (c *Controller) complete(ctx context.Context, s *Session, done assessment.Completion) Step {
	summary := Summarize(done)
	delay := c.opts.CompletionDelay
	if summary.Perfect() {
		delay = c.opts.PerfectDelay
	}

	s.finish()
	c.record(ctx, s, store.DiagnosticEventData{Kind: EventCompleted, Detail: summary.Kind.String() + ": " + summary.Label})

	return Step{
		Kind:      StepComplete,
		SessionID: s.ID,
		Summary:   &summary,
		Delay:     delay,
	}
}

func (c *Controller) handoff(ctx context.Context, s *Session, reason string) Step {
	s.finish()
	c.record(ctx, s, store.DiagnosticEventData{Kind: EventLessonHandoff, Detail: reason})
	return Step{Kind: StepLessons, SessionID: s.ID}
}

func (c *Controller) record(ctx context.Context, s *Session, data store.DiagnosticEventData) {
	if c.opts.Recorder == nil {
		return
	}
	data.SessionID = s.ID
	// Fetches abandoned on shutdown are still logged.
	_ = c.opts.Recorder.AppendDiagnosticEvent(context.WithoutCancel(ctx), data)
}
