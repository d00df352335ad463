package cmd

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/abhisek/learnai/internal/assessment"
	"github.com/abhisek/learnai/internal/config"
	"github.com/abhisek/learnai/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "learnai",
	Short: "Find your level in AI, then learn what's next",
	Long: "LearnAI: terminal client for an adaptive AI course. A short diagnostic " +
		"places you at the right module and difficulty.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default $XDG_CONFIG_HOME/learnai/config.yaml)")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides LEARNAI_DB env var)")
	rootCmd.PersistentFlags().String("server", "", "Assessment service URL (overrides assessment.base_url)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(advanceCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the config named by --config and applies --server.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if s, _ := cmd.Flags().GetString("server"); s != "" {
		cfg.Assessment.BaseURL = s
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then store.path from the config, then LEARNAI_DB env var, then the
// default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg *config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg != nil && cfg.Store.Path != "" {
		return cfg.Store.Path, store.EnsureDir(cfg.Store.Path)
	}
	return store.DefaultDBPath()
}

func openStore(cmd *cobra.Command, cfg *config.Config) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

// newClient builds the assessment client, creating the learner identity
// on first use.
func newClient(cfg *config.Config) (*assessment.Client, error) {
	uid, err := cfg.EnsureUserID()
	if err != nil {
		return nil, fmt.Errorf("learner identity: %w", err)
	}
	return assessment.NewClient(assessment.Config{
		BaseURL: cfg.Assessment.BaseURL,
		UserID:  uid,
		Timeout: cfg.Assessment.Timeout,
	}), nil
}

// serviceHost is the header status: the service host without scheme.
func serviceHost(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return baseURL
	}
	return u.Host
}
