// Package config resolves learnai settings from defaults, a YAML file,
// a .env file and LEARNAI_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/abhisek/learnai/internal/llm"
)

// EnvPrefix prefixes every environment override, e.g. LEARNAI_ASSESSMENT_BASE_URL.
const EnvPrefix = "LEARNAI"

type Config struct {
	Assessment AssessmentConfig `mapstructure:"assessment"`
	Diagnostic DiagnosticConfig `mapstructure:"diagnostic"`
	Store      StoreConfig      `mapstructure:"store"`
	Server     ServerConfig     `mapstructure:"server"`
	LLM        LLMConfig        `mapstructure:"llm"`

	file string
}

// AssessmentConfig points the client at the assessment service.
type AssessmentConfig struct {
	BaseURL string `mapstructure:"base_url"`
	// UserID is generated and saved on first run when empty.
	UserID string `mapstructure:"user_id"`
	// Timeout bounds each request. Zero means none.
	Timeout time.Duration `mapstructure:"timeout"`
}

type DiagnosticConfig struct {
	TotalQuestions  int           `mapstructure:"total_questions"`
	PrefetchCount   int           `mapstructure:"prefetch_count"`
	CompletionDelay time.Duration `mapstructure:"completion_delay"`
	PerfectDelay    time.Duration `mapstructure:"perfect_delay"`
}

type StoreConfig struct {
	// Path is the event log database. Empty means the XDG data dir.
	Path string `mapstructure:"path"`
}

// ServerConfig configures `learnai serve`.
type ServerConfig struct {
	Addr           string   `mapstructure:"addr"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	// BankFile replaces the built-in question bank when set.
	BankFile string `mapstructure:"bank_file"`
}

type LLMConfig struct {
	// Provider is anthropic, openai, openrouter, gemini or none. Empty
	// picks the first provider whose standard API key variable is set.
	Provider string        `mapstructure:"provider"`
	Model    string        `mapstructure:"model"`
	APIKey   string        `mapstructure:"api_key"`
	BaseURL  string        `mapstructure:"base_url"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		Assessment: AssessmentConfig{BaseURL: "http://localhost:8080"},
		Diagnostic: DiagnosticConfig{
			TotalQuestions:  5,
			PrefetchCount:   4,
			CompletionDelay: 2 * time.Second,
			PerfectDelay:    3500 * time.Millisecond,
		},
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"*"},
		},
		LLM: LLMConfig{Timeout: 30 * time.Second},
	}
}

// Dir returns the directory holding config.yaml.
func Dir() (string, error) {
	if d := os.Getenv("XDG_CONFIG_HOME"); d != "" {
		return filepath.Join(d, "learnai"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "learnai"), nil
}

// Load resolves the configuration. An empty path searches the config
// directory and tolerates a missing file; an explicit path must exist.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	file := path
	if path != "" {
		v.SetConfigFile(path)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		file = filepath.Join(dir, "config.yaml")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(dir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.file = file
	cfg.LLM.discover()

	return &cfg, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("assessment.base_url", d.Assessment.BaseURL)
	v.SetDefault("assessment.user_id", d.Assessment.UserID)
	v.SetDefault("assessment.timeout", d.Assessment.Timeout)
	v.SetDefault("diagnostic.total_questions", d.Diagnostic.TotalQuestions)
	v.SetDefault("diagnostic.prefetch_count", d.Diagnostic.PrefetchCount)
	v.SetDefault("diagnostic.completion_delay", d.Diagnostic.CompletionDelay)
	v.SetDefault("diagnostic.perfect_delay", d.Diagnostic.PerfectDelay)
	v.SetDefault("store.path", d.Store.Path)
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.allowed_origins", d.Server.AllowedOrigins)
	v.SetDefault("server.bank_file", d.Server.BankFile)
	v.SetDefault("llm.provider", d.LLM.Provider)
	v.SetDefault("llm.model", d.LLM.Model)
	v.SetDefault("llm.api_key", d.LLM.APIKey)
	v.SetDefault("llm.base_url", d.LLM.BaseURL)
	v.SetDefault("llm.timeout", d.LLM.Timeout)
}

// File is the config file Load read, or would have read.
func (c *Config) File() string {
	return c.file
}

// Validate rejects settings the client cannot run with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Assessment.BaseURL) == "" {
		return errors.New("assessment.base_url is required")
	}
	if c.Assessment.Timeout < 0 {
		return errors.New("assessment.timeout must not be negative")
	}
	if c.Diagnostic.TotalQuestions <= 0 {
		return errors.New("diagnostic.total_questions must be positive")
	}
	if c.Diagnostic.PrefetchCount < 0 {
		return errors.New("diagnostic.prefetch_count must not be negative")
	}
	if c.Diagnostic.CompletionDelay < 0 || c.Diagnostic.PerfectDelay < 0 {
		return errors.New("diagnostic delays must not be negative")
	}
	return c.LLM.ProviderConfig().Validate()
}

// standardKeys are probed in this order when no provider is configured.
var standardKeys = []struct{ provider, env string }{
	{llm.ProviderGemini, "GEMINI_API_KEY"},
	{llm.ProviderOpenAI, "OPENAI_API_KEY"},
	{llm.ProviderAnthropic, "ANTHROPIC_API_KEY"},
	{llm.ProviderOpenRouter, "OPENROUTER_API_KEY"},
}

// discover fills the provider and key from the vendors' own variables.
func (l *LLMConfig) discover() {
	for _, k := range standardKeys {
		key := os.Getenv(k.env)
		if key == "" {
			continue
		}
		if l.Provider == "" {
			l.Provider = k.provider
		}
		if l.Provider == k.provider && l.APIKey == "" {
			l.APIKey = key
			return
		}
	}
	if l.Provider == "" {
		l.Provider = llm.ProviderNone
	}
}

// ProviderConfig converts to the llm package configuration.
func (l LLMConfig) ProviderConfig() llm.Config {
	return llm.Config{
		Provider: l.Provider,
		Model:    l.Model,
		APIKey:   l.APIKey,
		BaseURL:  l.BaseURL,
		Timeout:  l.Timeout,
		Retry:    llm.DefaultBackoff(),
	}
}
