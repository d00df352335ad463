package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/learnai/internal/store"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List recorded diagnostic events",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		session, _ := cmd.Flags().GetString("session")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		s, err := openStore(cmd, cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().DiagnosticEvents(cmd.Context(), store.QueryOpts{
			Limit:     limit,
			SessionID: session,
		})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		if len(events) == 0 {
			fmt.Println("No diagnostic events found.")
			return nil
		}

		fmt.Printf("%-5s  %-19s  %-8s  %-18s  %-3s  %-6s  %-7s  %s\n",
			"ID", "Timestamp", "Session", "Kind", "Q", "Answer", "Hesit.", "Detail")
		fmt.Println(strings.Repeat("─", 100))

		for _, e := range events {
			fmt.Printf("%-5d  %-19s  %-8s  %-18s  %-3s  %-6s  %-7s  %s\n",
				e.ID,
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				truncate(e.SessionID, 8),
				e.Kind,
				optional(e.QuestionIndex),
				answer(e.SelectedOption, e.CorrectAnswerIndex),
				hesitation(e.HesitationSeconds),
				truncate(e.Detail, 40),
			)
		}
		return nil
	},
}

func optional(n *int) string {
	if n == nil {
		return "-"
	}
	return fmt.Sprint(*n)
}

// answer renders the chosen option, marked when it matched the key.
func answer(selected, correct *int) string {
	if selected == nil {
		return "-"
	}
	mark := ""
	if correct != nil {
		mark = "✗"
		if *selected == *correct {
			mark = "✓"
		}
	}
	return fmt.Sprintf("%d%s", *selected, mark)
}

func hesitation(sec float64) string {
	if sec <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.1fs", sec)
}

func init() {
	eventsCmd.Flags().IntP("limit", "n", 50, "Number of events to show")
	eventsCmd.Flags().StringP("session", "s", "", "Only show events from this session")
}
