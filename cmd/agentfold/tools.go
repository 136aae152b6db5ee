package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the registered tools",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		engine, closer := newEngine(cfg)
		if closer != nil {
			defer func() { _ = closer() }()
		}

		name := color.New(color.FgGreen, color.Bold)
		for _, desc := range engine.Tools() {
			name.Printf("%s\n", desc.Name)
			fmt.Printf("  %s\n", desc.Description)
		}
		return nil
	},
}
