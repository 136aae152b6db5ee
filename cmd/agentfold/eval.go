package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var evalSession string

var evalCmd = &cobra.Command{
	Use:   "eval <query>",
	Short: "Process a query and score the completed run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		engine, closer := newEngine(cfg)
		if closer != nil {
			defer func() { _ = closer() }()
		}

		query := args[0]
		result := engine.Process(context.Background(), evalSession, query)
		card := engine.Evaluate(query, result)

		heading := color.New(color.FgCyan, color.Bold)
		heading.Println("Response")
		fmt.Println(result.FinalResponse)

		heading.Println("\nScorecard")
		fmt.Printf("quality:     %5.1f\n", card.QualityScore)
		fmt.Printf("tool usage:  %5.1f\n", card.ToolUsageScore)
		fmt.Printf("performance: %5.1f\n", card.PerformanceScore)

		gradeColor := color.New(color.FgGreen, color.Bold)
		if card.Grade == "D" || card.Grade == "F" {
			gradeColor = color.New(color.FgRed, color.Bold)
		}
		fmt.Printf("overall:     %5.1f  grade ", card.Overall)
		gradeColor.Println(card.Grade)
		return nil
	},
}

func init() {
	evalCmd.Flags().StringVar(&evalSession, "session", "default", "session id for conversation memory")
}
