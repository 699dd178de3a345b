package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/sessmeter/internal/cli"
	"github.com/theirongolddev/sessmeter/internal/model"
)

// Row labels shared by the phase tables and the rollup parser.
const (
	RowInputTokens       = "Input Tokens"
	RowOutputTokens      = "Output Tokens"
	RowTotalTokens       = "Total Tokens"
	RowCacheCreation     = "Cache Creation"
	RowCacheRead         = "Cache Read"
	RowToolCalls         = "Tool Calls"
	RowConversationTurns = "Conversation Turns"
	RowBuildSuccess      = "Build Success"
	RowAPITestPass       = "API Test Pass"
	RowManualFix         = "Manual Fix Required"
	RowNotes             = "Notes"
)

// pending marks rows the user fills in by hand after a run.
const pending = "Y/N  "

const tableSeparator = "|---------------------|-------|"

func tableRow(label, value string) string {
	return fmt.Sprintf("| %-19s | %s |", label, value)
}

func tableHeader() []string {
	return []string{tableRow("Metric", "Value"), tableSeparator}
}

// MetricsTable renders the per-phase table for m, without a trailing newline.
func MetricsTable(m model.SessionMetrics) string {
	tools := m.SortedTools()
	pairs := make([]string, len(tools))
	for i, tc := range tools {
		pairs[i] = fmt.Sprintf("%s:%d", cellText(tc.Name), tc.Count)
	}

	rows := append(tableHeader(),
		tableRow(RowInputTokens, cli.FormatNumber(m.InputTokens)),
		tableRow(RowOutputTokens, cli.FormatNumber(m.OutputTokens)),
		tableRow(RowTotalTokens, cli.FormatNumber(m.GrandTotal())),
		tableRow(RowCacheCreation, cli.FormatNumber(m.CacheCreationTokens)),
		tableRow(RowCacheRead, cli.FormatNumber(m.CacheReadTokens)),
		tableRow(RowToolCalls, strconv.Itoa(m.ToolCalls)),
		tableRow(RowConversationTurns, strconv.Itoa(m.UserMessages)),
		tableRow(RowBuildSuccess, pending),
		tableRow(RowAPITestPass, pending),
		tableRow(RowManualFix, pending),
		tableRow(RowNotes, "tools: "+strings.Join(pairs, ", ")),
	)
	return strings.Join(rows, "\n")
}

// TotalsSection renders the full Total Summary section, heading included.
func TotalsSection(t model.PhaseTotals) string {
	lines := []string{TotalsHeading, ""}
	lines = append(lines, tableHeader()...)
	lines = append(lines,
		tableRow("Total Input Tokens", cli.FormatNumber(t.InputTokens)),
		tableRow("Total Output Tokens", cli.FormatNumber(t.OutputTokens)),
		tableRow("Total Tokens", cli.FormatNumber(t.TotalTokens)),
		tableRow("Total Tool Calls", strconv.FormatInt(t.ToolCalls, 10)),
		tableRow("Total Turns", strconv.FormatInt(t.Turns, 10)),
	)
	return strings.Join(lines, "\n") + "\n"
}

// cellText keeps a value on one table line and inside its cell.
func cellText(s string) string {
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "|", `\|`).Replace(s)
}

// parseCount reads a table value such as "12,345". Anything else is zero.
func parseCount(cell string) int64 {
	n, err := strconv.ParseInt(strings.ReplaceAll(strings.TrimSpace(cell), ",", ""), 10, 64)
	if err != nil {
		return 0
	}
	return n
}
