package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "agentfold",
	Short: "Multi-agent orchestration engine",
	Long: `agentfold routes queries through role-scoped specialist agents that
reason, call tools (calculator, web search, weather, time) and synthesize
responses, coordinated into a single final answer.

Without a configured model provider it runs fully offline in deterministic
fallback mode; configure a provider in ~/.config/agentfold/config.yaml or via
environment variables for model-assisted runs.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a config file (defaults to the standard lookup)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging and span traces")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(evalCmd)
	rootCmd.AddCommand(toolsCmd)
	rootCmd.AddCommand(versionCmd)
}
