package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/theirongolddev/sessmeter/internal/model"
)

// Output formats accepted by --format.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// SessionSummary is the machine-readable form of a session report.
type SessionSummary struct {
	SessionID  string               `json:"session_id" yaml:"session_id"`
	File       string               `json:"file" yaml:"file"`
	Metrics    model.SessionMetrics `json:"metrics" yaml:"metrics"`
	TotalInput int64                `json:"total_input" yaml:"total_input"`
	GrandTotal int64                `json:"grand_total" yaml:"grand_total"`
	Tools      []model.ToolCount    `json:"tools" yaml:"tools"`
}

// NewSessionSummary derives the exported totals from m.
func NewSessionSummary(sessionID, path string, m model.SessionMetrics) SessionSummary {
	return SessionSummary{
		SessionID:  sessionID,
		File:       path,
		Metrics:    m,
		TotalInput: m.TotalInput(),
		GrandTotal: m.GrandTotal(),
		Tools:      m.SortedTools(),
	}
}

// ValidFormat reports whether f is a supported output format.
func ValidFormat(f string) bool {
	switch f {
	case FormatText, FormatJSON, FormatYAML:
		return true
	}
	return false
}

// Export writes v to w as JSON or YAML.
func Export(w io.Writer, format string, v any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}
