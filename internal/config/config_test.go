package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// isolate points every lookup at a temp dir and clears provider keys.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	for _, k := range []string{"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY"} {
		t.Setenv(k, "")
	}
	t.Chdir(dir)
	return dir
}

func TestLoadDefaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.Assessment.BaseURL)
	assert.Equal(t, time.Duration(0), cfg.Assessment.Timeout)
	assert.Equal(t, 5, cfg.Diagnostic.TotalQuestions)
	assert.Equal(t, 4, cfg.Diagnostic.PrefetchCount)
	assert.Equal(t, 3500*time.Millisecond, cfg.Diagnostic.PerfectDelay)
	assert.Equal(t, "none", cfg.LLM.Provider)
	assert.Equal(t, filepath.Join(dir, "learnai", "config.yaml"), cfg.File())
	assert.NoError(t, cfg.Validate())
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
assessment:
  base_url: http://file:9000
  timeout: 5s
diagnostic:
  completion_delay: 1s
server:
  allowed_origins: [http://a.test, http://b.test]
`), 0o600))
	t.Setenv("LEARNAI_ASSESSMENT_BASE_URL", "http://env:7000")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://env:7000", cfg.Assessment.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Assessment.Timeout)
	assert.Equal(t, time.Second, cfg.Diagnostic.CompletionDelay)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.AllowedOrigins)
}

func TestLoadDotEnv(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LEARNAI_STORE_PATH=/tmp/from-dotenv.db\n"), 0o600))
	t.Setenv("LEARNAI_STORE_PATH", "")
	os.Unsetenv("LEARNAI_STORE_PATH")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/from-dotenv.db", cfg.Store.Path)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	dir := isolate(t)
	_, err := Load(filepath.Join(dir, "nope.yaml"))
	assert.Error(t, err)
}

func TestDiscoverProviderKey(t *testing.T) {
	isolate(t)
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")
	t.Setenv("OPENAI_API_KEY", "sk-oai")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "sk-oai", cfg.LLM.APIKey)

	t.Setenv("LEARNAI_LLM_PROVIDER", "anthropic")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, "sk-ant", cfg.LLM.APIKey)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty url", func(c *Config) { c.Assessment.BaseURL = " " }},
		{"zero total", func(c *Config) { c.Diagnostic.TotalQuestions = 0 }},
		{"negative prefetch", func(c *Config) { c.Diagnostic.PrefetchCount = -1 }},
		{"negative delay", func(c *Config) { c.Diagnostic.PerfectDelay = -time.Second }},
		{"unknown provider", func(c *Config) { c.LLM.Provider = "llama" }},
		{"provider without key", func(c *Config) { c.LLM.Provider = "gemini" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestEnsureUserIDPersists(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "learnai", "config.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("server:\n  addr: \":9999\"\n"), 0o600))

	cfg, err := Load("")
	require.NoError(t, err)
	id, err := cfg.EnsureUserID()
	require.NoError(t, err)
	require.NotEmpty(t, id)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string]map[string]any
	require.NoError(t, yaml.Unmarshal(data, &doc))
	assert.Equal(t, id, doc["assessment"]["user_id"])
	assert.Equal(t, ":9999", doc["server"]["addr"])

	again, err := Load("")
	require.NoError(t, err)
	got, err := again.EnsureUserID()
	require.NoError(t, err)
	assert.Equal(t, id, got)
}
