// Package cmd implements the sessmeter CLI commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/sessmeter/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	fmt.Printf("  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Claude directory:  %s\n", config.ClaudeDir(cfg))
	fmt.Printf("    Results directory: %s", config.ResultsDir(cfg))
	if os.Getenv(config.ResultsDirEnv) != "" {
		fmt.Printf(" (from %s)", config.ResultsDirEnv)
	}
	fmt.Println()
	fmt.Printf("    Default format:    %s\n", cfg.General.DefaultFormat)
	fmt.Println()

	fmt.Println("  [History]")
	fmt.Printf("    Enabled:  %v\n", cfg.History.Enabled)
	fmt.Printf("    Database: %s\n", config.HistoryPath(cfg))
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  Run `sessmeter setup` to reconfigure.")
	return nil
}
