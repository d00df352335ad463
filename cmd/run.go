package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/learnai/internal/app"
	diag "github.com/abhisek/learnai/internal/diagnostic"
)

// runApp loads config, opens the store, builds dependencies, and launches
// the TUI. The app still runs without a store; it just keeps no history.
func runApp(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	dcfg := cfg.Diagnostic
	ctrlOpts := diag.Options{
		DefaultTotal:    dcfg.TotalQuestions,
		PrefetchCount:   dcfg.PrefetchCount,
		CompletionDelay: dcfg.CompletionDelay,
		PerfectDelay:    dcfg.PerfectDelay,
	}
	opts := app.Options{
		Service: client,
		Status:  serviceHost(cfg.Assessment.BaseURL),
	}

	st, err := openStore(cmd, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Event log unavailable:", err)
		fmt.Fprintln(os.Stderr, "Past diagnostics will not be recorded.")
	} else {
		defer st.Close()
		repo := st.EventRepo()
		ctrlOpts.Recorder = repo
		opts.Events = repo
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	ctrl := diag.NewController(client, ctrlOpts)
	opts.Context = ctx
	opts.Controller = ctrl

	err = app.Run(opts)
	// Abandon in-flight fetches, then let prefetches finish recording
	// before the store closes.
	cancel()
	ctrl.WaitPrefetch()
	return err
}
