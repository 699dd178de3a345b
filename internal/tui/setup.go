package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/theirongolddev/sessmeter/internal/config"
	"github.com/theirongolddev/sessmeter/internal/tui/theme"
)

// SetupValues holds the answers collected by the setup form.
type SetupValues struct {
	ResultsDir     string
	ClaudeDir      string
	DefaultFormat  string
	HistoryEnabled bool
	Theme          string
}

// SetupValuesFrom seeds the form with the current configuration.
func SetupValuesFrom(cfg config.Config) SetupValues {
	return SetupValues{
		ResultsDir:     config.ResultsDir(cfg),
		ClaudeDir:      config.ClaudeDir(cfg),
		DefaultFormat:  cfg.General.DefaultFormat,
		HistoryEnabled: cfg.History.Enabled,
		Theme:          theme.ByName(cfg.Appearance.Theme).Name,
	}
}

// Apply writes the collected answers into cfg.
func (v SetupValues) Apply(cfg *config.Config) {
	cfg.General.ResultsDir = strings.TrimSpace(v.ResultsDir)
	cfg.General.ClaudeDir = strings.TrimSpace(v.ClaudeDir)
	if v.DefaultFormat != "" {
		cfg.General.DefaultFormat = v.DefaultFormat
	}
	cfg.History.Enabled = v.HistoryEnabled
	cfg.Appearance.Theme = theme.ByName(v.Theme).Name
}

// NewSetupForm builds the configuration form. Answers are written to vals.
func NewSetupForm(projectCount int, vals *SetupValues) *huh.Form {
	themeOpts := make([]huh.Option[string], len(theme.All))
	for i, t := range theme.All {
		themeOpts[i] = huh.NewOption(t.Name, t.Name)
	}

	desc := "Directory holding <label>.md results documents."
	if projectCount > 0 {
		desc = fmt.Sprintf("%d Claude projects found. %s", projectCount, desc)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Results directory").
				Description(desc).
				Value(&vals.ResultsDir),
			huh.NewInput().
				Title("Claude data directory").
				Description("Where session logs live (projects/ underneath).").
				Value(&vals.ClaudeDir).
				Validate(validateClaudeDir),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Default output format").
				Options(
					huh.NewOption("text", "text"),
					huh.NewOption("json", "json"),
					huh.NewOption("yaml", "yaml"),
				).
				Value(&vals.DefaultFormat),
			huh.NewConfirm().
				Title("Record every analysis in the history database?").
				Value(&vals.HistoryEnabled),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&vals.Theme),
		),
	)
}

func validateClaudeDir(dir string) error {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil
	}
	info, err := os.Stat(filepath.Clean(dir))
	if err != nil || !info.IsDir() {
		return fmt.Errorf("not a directory: %s", dir)
	}
	return nil
}
