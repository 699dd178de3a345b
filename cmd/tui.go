package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/sessmeter/internal/config"
	"github.com/theirongolddev/sessmeter/internal/store"
	"github.com/theirongolddev/sessmeter/internal/tui"
)

var flagTUIProject string

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse recorded analyses interactively",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

func init() {
	tuiCmd.Flags().StringVar(&flagTUIProject, "project", "", "Only runs saved under this results label")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	// Force TrueColor profile so background styling produces ANSI codes
	lipgloss.SetColorProfile(termenv.TrueColor)

	app := tui.NewApp(config.HistoryPath(cfg), store.RunFilter{Project: flagTUIProject})
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
