package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func fastBackoff() Backoff {
	return Backoff{Attempts: 3, Initial: time.Millisecond, Max: 5 * time.Millisecond, Multiplier: 2}
}

func TestRetryTransientThenSuccess(t *testing.T) {
	s := NewScripted(
		Reply{Err: &UnavailableError{Err: errors.New("down")}},
		Reply{Content: json.RawMessage(`{"ok":true}`)},
	)
	resp, err := WithRetry(s, fastBackoff()).Generate(context.Background(), Request{})
	if err != nil {
		t.Fatal(err)
	}
	if string(resp.Content) != `{"ok":true}` {
		t.Errorf("Content = %s", resp.Content)
	}
	if n := len(s.Requests()); n != 2 {
		t.Errorf("calls = %d, want 2", n)
	}
}

func TestRetryGivesUpAfterAttempts(t *testing.T) {
	s := NewScripted(
		Reply{Err: &RateLimitError{Err: errors.New("429")}},
		Reply{Err: &RateLimitError{Err: errors.New("429")}},
		Reply{Err: &RateLimitError{Err: errors.New("429")}},
		Reply{Content: json.RawMessage(`{}`)},
	)
	_, err := WithRetry(s, fastBackoff()).Generate(context.Background(), Request{})

	var rl *RateLimitError
	if !errors.As(err, &rl) {
		t.Fatalf("err = %v, want rate limit", err)
	}
	if n := len(s.Requests()); n != 3 {
		t.Errorf("calls = %d, want 3", n)
	}
}

func TestRetryOutputErrorOnce(t *testing.T) {
	s := NewScripted(
		Reply{Err: &OutputError{Err: errors.New("bad")}},
		Reply{Err: &OutputError{Err: errors.New("bad again")}},
		Reply{Content: json.RawMessage(`{}`)},
	)
	_, err := WithRetry(s, fastBackoff()).Generate(context.Background(), Request{})

	var out *OutputError
	if !errors.As(err, &out) {
		t.Fatalf("err = %v, want output error", err)
	}
	if n := len(s.Requests()); n != 2 {
		t.Errorf("calls = %d, want 2", n)
	}
}

func TestRetryStopsOnCancel(t *testing.T) {
	s := NewScripted(Reply{Err: context.Canceled}, Reply{Content: json.RawMessage(`{}`)})
	_, err := WithRetry(s, fastBackoff()).Generate(context.Background(), Request{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if n := len(s.Requests()); n != 1 {
		t.Errorf("calls = %d, want 1", n)
	}
}

func TestRetryHonoursRetryAfter(t *testing.T) {
	r := &retryProvider{b: fastBackoff()}
	got := r.wait(0, &RateLimitError{RetryAfter: 3 * time.Second})
	if got != 3*time.Second {
		t.Errorf("wait = %v, want 3s", got)
	}
	if d := r.wait(5, errors.New("x")); d > 6*time.Millisecond {
		t.Errorf("wait = %v, want capped near 5ms", d)
	}
}
