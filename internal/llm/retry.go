package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

type retryProvider struct {
	inner Provider
	b     Backoff
}

// WithRetry retries transient failures of p with exponential backoff and
// ±20% jitter. An unusable output is retried once.
func WithRetry(p Provider, b Backoff) Provider {
	if b.Attempts < 1 {
		b.Attempts = 1
	}
	return &retryProvider{inner: p, b: b}
}

func (r *retryProvider) Model() string { return r.inner.Model() }

func (r *retryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	var err error
	retriedOutput := false

	for attempt := 0; attempt < r.b.Attempts; attempt++ {
		var resp *Response
		resp, err = r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}

		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		var out *OutputError
		if errors.As(err, &out) {
			if retriedOutput {
				return nil, err
			}
			retriedOutput = true
		}

		if attempt == r.b.Attempts-1 {
			break
		}

		timer := time.NewTimer(r.wait(attempt, err))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	return nil, err
}

func (r *retryProvider) wait(attempt int, err error) time.Duration {
	var rl *RateLimitError
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	mult := r.b.Multiplier
	if mult <= 0 {
		mult = 2
	}
	d := float64(r.b.Initial) * math.Pow(mult, float64(attempt))
	if r.b.Max > 0 {
		d = math.Min(d, float64(r.b.Max))
	}
	d += d * 0.2 * (2*rand.Float64() - 1)
	return time.Duration(max(d, 0))
}
