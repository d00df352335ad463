package assessment

import (
	"context"
	"net/http"
	"net/url"
)

// Lesson returns the current lesson page.
func (c *Client) Lesson(ctx context.Context) (*Lesson, error) {
	fields, err := c.do(ctx, http.MethodGet, "/api/lesson", nil, nil)
	if err != nil {
		return nil, err
	}
	var l Lesson
	if err := decodeField(fields, "lesson", &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// NextLessonPage turns the page. At the end of a module the service moves
// the learner on, or reports that the next module is not released yet.
func (c *Client) NextLessonPage(ctx context.Context) (*PageTurn, error) {
	fields, err := c.do(ctx, http.MethodPost, "/api/lesson/next-page", nil, struct{}{})
	if err != nil {
		return nil, err
	}
	var turn PageTurn
	decodeOptional(fields, map[string]any{
		"coming_soon":     &turn.ComingSoon,
		"message":         &turn.Message,
		"module_advanced": &turn.ModuleAdvanced,
		"has_more_pages":  &turn.HasMorePages,
	})
	if turn.ComingSoon {
		return &turn, nil
	}
	var l Lesson
	if err := decodeField(fields, "lesson", &l); err != nil {
		return nil, err
	}
	turn.Lesson = &l
	return &turn, nil
}

// SubmitQuiz asks the service to evaluate a lesson check answer.
func (c *Client) SubmitQuiz(ctx context.Context, ans QuizAnswer) (*Evaluation, error) {
	fields, err := c.do(ctx, http.MethodPost, "/api/quiz", nil, ans)
	if err != nil {
		return nil, err
	}
	var ev Evaluation
	if err := decodeField(fields, "feedback", &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}

// Capstone asks the service to generate a starter agent for the tasks the
// learner described.
func (c *Client) Capstone(ctx context.Context, taskDescription string) (*Capstone, error) {
	body := map[string]string{"task_description": taskDescription}
	fields, err := c.do(ctx, http.MethodPost, "/api/capstone", nil, body)
	if err != nil {
		return nil, err
	}
	var cp Capstone
	if err := decodeField(fields, "result", &cp); err != nil {
		return nil, err
	}
	return &cp, nil
}

// Progress returns the learner's progress summary.
func (c *Client) Progress(ctx context.Context) (*Progress, error) {
	fields, err := c.do(ctx, http.MethodGet, "/api/progress", nil, nil)
	if err != nil {
		return nil, err
	}
	var p Progress
	if err := decodeField(fields, "progress", &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Advance moves the learner to the next module.
func (c *Client) Advance(ctx context.Context) (*Advancement, error) {
	fields, err := c.do(ctx, http.MethodPost, "/api/advance", nil, struct{}{})
	if err != nil {
		return nil, err
	}
	// The advancement fields sit at the top level of the envelope.
	var adv Advancement
	decodeOptional(fields, map[string]any{
		"advanced":    &adv.Advanced,
		"coming_soon": &adv.ComingSoon,
		"message":     &adv.Message,
	})
	return &adv, nil
}

// Reset clears the learner's progress and returns the service's message.
func (c *Client) Reset(ctx context.Context) (string, error) {
	fields, err := c.do(ctx, http.MethodPost, "/api/reset", nil, struct{}{})
	if err != nil {
		return "", err
	}
	var msg string
	decodeOptional(fields, map[string]any{"message": &msg})
	return msg, nil
}

// Image looks up an illustration for concept.
func (c *Client) Image(ctx context.Context, concept string) (*Image, error) {
	fields, err := c.do(ctx, http.MethodGet, "/api/freepik-image", url.Values{"concept": {concept}}, nil)
	if err != nil {
		return nil, err
	}
	// The URL is null when no relevant image exists.
	img := Image{Concept: concept}
	decodeOptional(fields, map[string]any{
		"image_url": &img.URL,
		"concept":   &img.Concept,
	})
	return &img, nil
}
