package cmd

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/sessmeter/internal/config"
	"github.com/theirongolddev/sessmeter/internal/source"
	"github.com/theirongolddev/sessmeter/internal/tui"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive configuration wizard",
	Args:  cobra.NoArgs,
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	projects, _ := source.ListProjects(flagDataDir)

	fmt.Println()
	fmt.Println("  Welcome to sessmeter!")
	fmt.Println()

	vals := tui.SetupValuesFrom(cfg)
	form := tui.NewSetupForm(len(projects), &vals)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup cancelled, nothing saved.")
			return nil
		}
		return err
	}

	vals.Apply(&cfg)
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.Path())
	fmt.Println("  Run `sessmeter setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}
