package llm

import (
	"fmt"
	"time"
)

// Provider names accepted in Config.Provider.
const (
	ProviderNone       = "none"
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderOpenRouter = "openrouter"
	ProviderGemini     = "gemini"
)

const openRouterBaseURL = "https://openrouter.ai/api/v1"

// defaultModels is used when Config.Model is empty.
var defaultModels = map[string]string{
	ProviderAnthropic:  "claude-haiku-4-5",
	ProviderOpenAI:     "gpt-4o-mini",
	ProviderOpenRouter: "google/gemini-2.0-flash-001",
	ProviderGemini:     "gemini-2.0-flash",
}

// Config selects and configures a provider.
type Config struct {
	// Provider is one of the Provider* names. Empty means ProviderNone.
	Provider string
	Model    string
	APIKey   string
	// BaseURL overrides the API root for OpenAI-compatible providers.
	BaseURL string
	// Timeout bounds one Generate call including retries. Zero disables it.
	Timeout time.Duration
	Retry   Backoff
}

// Backoff configures retries of transient failures.
type Backoff struct {
	Attempts   int
	Initial    time.Duration
	Max        time.Duration
	Multiplier float64
}

// DefaultBackoff retries three times, starting at one second.
func DefaultBackoff() Backoff {
	return Backoff{Attempts: 3, Initial: time.Second, Max: 10 * time.Second, Multiplier: 2}
}

// Enabled reports whether a real provider is configured.
func (c Config) Enabled() bool {
	return c.Provider != "" && c.Provider != ProviderNone
}

// ModelName returns the configured model or the provider default.
func (c Config) ModelName() string {
	if c.Model != "" {
		return c.Model
	}
	return defaultModels[c.Provider]
}

// Validate checks the provider name and that it has a key.
func (c Config) Validate() error {
	switch c.Provider {
	case "", ProviderNone:
		return nil
	case ProviderAnthropic, ProviderOpenAI, ProviderOpenRouter, ProviderGemini:
		if c.APIKey == "" {
			return fmt.Errorf("llm: an API key is required for provider %q", c.Provider)
		}
		return nil
	}
	return fmt.Errorf("llm: unknown provider %q", c.Provider)
}
