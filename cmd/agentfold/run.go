package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	runSession  string
	runEvaluate bool
)

var runCmd = &cobra.Command{
	Use:   "run <query>",
	Short: "Process a query through the specialist pipeline",
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

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		query := args[0]
		result := engine.Process(ctx, runSession, query)

		heading := color.New(color.FgCyan, color.Bold)
		dim := color.New(color.Faint)

		heading.Println("Response")
		fmt.Println(result.FinalResponse)
		fmt.Println()

		dim.Printf("run: %s  specialists: %v  tools: %v  took: %s\n",
			result.RunID, result.AgentsUsed, result.ToolsUsed(), result.ProcessingTime.Round(time.Millisecond))

		if result.Degraded() {
			warn := color.New(color.FgYellow)
			for _, runErr := range result.Errors {
				warn.Printf("warning: %s\n", runErr.Error())
			}
		}

		if runEvaluate {
			card := engine.Evaluate(query, result)
			heading.Println("\nEvaluation")
			fmt.Printf("quality: %.1f  tool usage: %.1f  performance: %.1f\n",
				card.QualityScore, card.ToolUsageScore, card.PerformanceScore)
			fmt.Printf("overall: %.1f (grade %s)\n", card.Overall, card.Grade)
		}
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&runSession, "session", "default", "session id for conversation memory")
	runCmd.Flags().BoolVar(&runEvaluate, "evaluate", false, "score the run after completion")
}
