package cli

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/sessmeter/internal/model"
)

// RenderSessionReport renders the token, activity and tool tables for one session.
func RenderSessionReport(sessionID, path string, m model.SessionMetrics) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(RenderTitle(fmt.Sprintf("Session: %s", sessionID)))
	b.WriteString("\n")
	b.WriteString(RenderMuted("  File: " + path))
	b.WriteString("\n\n")

	b.WriteString(RenderTable(Table{
		Title:   "Token Usage",
		Headers: []string{"Metric", "Tokens"},
		Rows: [][]string{
			{"Input Tokens (uncached)", FormatNumber(m.InputTokens)},
			{"Cache Creation", FormatNumber(m.CacheCreationTokens)},
			{"Cache Read", FormatNumber(m.CacheReadTokens)},
			{"---"},
			{"Total Input", FormatNumber(m.TotalInput())},
			{"Output Tokens", FormatNumber(m.OutputTokens)},
			{"---"},
			{"Grand Total", FormatNumber(m.GrandTotal())},
		},
	}))
	b.WriteString("\n")

	b.WriteString(RenderTable(Table{
		Title:   "Activity",
		Headers: []string{"Metric", "Count"},
		Rows: [][]string{
			{"API Calls", FormatInt(m.APICalls)},
			{"User Messages", FormatInt(m.UserMessages)},
			{"Assistant Messages", FormatInt(m.AssistantMessages)},
			{"Tool Calls", FormatInt(m.ToolCalls)},
		},
	}))

	tools := m.SortedTools()
	if len(tools) > 0 {
		rows := make([][]string, 0, len(tools))
		for _, tc := range tools {
			rows = append(rows, []string{tc.Name, FormatInt(tc.Count)})
		}
		b.WriteString("\n")
		b.WriteString(RenderTable(Table{
			Title:   "Tool Usage Breakdown",
			Headers: []string{"Tool", "Calls"},
			Rows:    rows,
		}))
	}

	return b.String()
}

// RenderTotals renders a results file's phase rollup.
func RenderTotals(t model.PhaseTotals) string {
	return RenderTable(Table{
		Title:   "Total Summary (phases 1-4)",
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Total Input Tokens", FormatNumber(t.InputTokens)},
			{"Total Output Tokens", FormatNumber(t.OutputTokens)},
			{"Total Tokens", FormatNumber(t.TotalTokens)},
			{"Total Tool Calls", FormatNumber(t.ToolCalls)},
			{"Total Turns", FormatNumber(t.Turns)},
		},
	})
}
