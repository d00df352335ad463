package llm

import (
	"context"
	"fmt"
	"time"
)

// New builds the provider named by cfg. Every call is recorded through rec
// and transient failures are retried. It returns nil, nil when cfg has no
// provider.
func New(ctx context.Context, cfg Config, rec Recorder) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !cfg.Enabled() {
		return nil, nil
	}

	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropic(cfg.APIKey, cfg.ModelName(), cfg.BaseURL)
	case ProviderOpenAI:
		base, err = NewOpenAI(cfg.APIKey, cfg.ModelName(), cfg.BaseURL)
	case ProviderOpenRouter:
		url := cfg.BaseURL
		if url == "" {
			url = openRouterBaseURL
		}
		base, err = NewOpenAI(cfg.APIKey, cfg.ModelName(), url)
	case ProviderGemini:
		base, err = NewGemini(ctx, cfg.APIKey, cfg.ModelName())
	}
	if err != nil {
		return nil, fmt.Errorf("llm: init %s: %w", cfg.Provider, err)
	}

	// timeout → retry → record → provider
	p := WithRetry(WithRecorder(base, cfg.Provider, rec), cfg.Retry)
	if cfg.Timeout > 0 {
		p = &timeoutProvider{Provider: p, d: cfg.Timeout}
	}
	return p, nil
}

type timeoutProvider struct {
	Provider
	d time.Duration
}

func (t *timeoutProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, t.d)
	defer cancel()
	return t.Provider.Generate(ctx, req)
}
