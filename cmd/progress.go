package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	diag "github.com/abhisek/learnai/internal/diagnostic"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show your progress through the course",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		client, err := newClient(cfg)
		if err != nil {
			return err
		}

		p, err := client.Progress(cmd.Context())
		if err != nil {
			return fmt.Errorf("fetch progress: %w", err)
		}

		completed := "none"
		if len(p.CompletedModules) > 0 {
			completed = strings.Join(p.CompletedModules, ", ")
		}

		fmt.Printf("Learner:    %s\n", p.UserID)
		fmt.Printf("Module:     %s\n", p.CurrentModule)
		fmt.Printf("Level:      %s (%d)\n", diag.LevelLabel(p.DifficultyLevel), p.DifficultyLevel)
		fmt.Printf("Completed:  %s\n", completed)
		if p.TotalQuestions > 0 {
			fmt.Printf("Accuracy:   %d/%d (%.0f%%)\n", p.CorrectAnswers, p.TotalQuestions, p.Accuracy*100)
		}
		return nil
	},
}

var advanceCmd = &cobra.Command{
	Use:   "advance",
	Short: "Skip to the next module",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		client, err := newClient(cfg)
		if err != nil {
			return err
		}

		a, err := client.Advance(cmd.Context())
		if err != nil {
			return fmt.Errorf("advance: %w", err)
		}
		fmt.Println(a.Message)
		return nil
	},
}
