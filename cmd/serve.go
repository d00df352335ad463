package cmd

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/learnai/internal/devserver"
	"github.com/abhisek/learnai/internal/llm"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a local assessment service",
	Long: "Serves the diagnostic, lesson and progress endpoints from a built-in " +
		"question bank. With an LLM provider configured, questions are rewritten " +
		"fresh for every request.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger := log.New(os.Stderr, "learnai: ", log.LstdFlags)

		var rec llm.Recorder
		st, err := openStore(cmd, cfg)
		if err != nil {
			logger.Printf("LLM calls will not be recorded: %v", err)
		} else {
			defer st.Close()
			rec = st.EventRepo()
		}

		opts := devserver.Options{
			AllowedOrigins: cfg.Server.AllowedOrigins,
			Logger:         logger,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		provider, err := llm.New(ctx, cfg.LLM.ProviderConfig(), rec)
		if err != nil {
			return fmt.Errorf("llm provider: %w", err)
		}
		if provider != nil {
			opts.Writer = devserver.NewWriter(provider)
			logger.Printf("writing questions with %s (%s)", cfg.LLM.Provider, provider.Model())
		} else {
			logger.Printf("no LLM provider configured, serving the question bank as is")
		}

		if cfg.Server.BankFile != "" {
			bank, err := devserver.LoadBank(cfg.Server.BankFile)
			if err != nil {
				return fmt.Errorf("question bank: %w", err)
			}
			opts.Bank = bank
		}

		srv, err := devserver.New(opts)
		if err != nil {
			return err
		}

		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = cfg.Server.Addr
		}
		logger.Printf("listening on %s", addr)
		return srv.ListenAndServe(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
}
