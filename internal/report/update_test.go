package report

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/sessmeter/internal/model"
)

const blankTable = `| Metric              | Value |
|---------------------|-------|
| Input Tokens        |       |
| Output Tokens       |       |
| Total Tokens        |       |
| Cache Creation      |       |
| Cache Read          |       |
| Tool Calls          |       |
| Conversation Turns  |       |
| Build Success       | Y/N   |
| API Test Pass       | Y/N   |
| Manual Fix Required | Y/N   |
| Notes               |       |`

func fixture() string {
	return "# Clean Code Experiment\n\nIntro text.\n\n" +
		PhaseHeading(1) + "\n\nPrompt: build CRUD.\n\n" + blankTable + "\n\nRemarks after the table.\n\n" +
		PhaseHeading(2) + "\n\n" + blankTable + "\n\n" +
		TotalsHeading + "\n\n| Metric | Value |\n|---|---|\n| Total Tokens | 0 |\n"
}

func sampleMetrics() model.SessionMetrics {
	return model.SessionMetrics{
		InputTokens:         1234,
		OutputTokens:        56,
		CacheCreationTokens: 1000,
		CacheReadTokens:     200000,
		APICalls:            3,
		UserMessages:        4,
		AssistantMessages:   5,
		ToolCalls:           5,
		ToolTypes:           map[string]int{"Edit": 1, "Read": 3, "Bash": 1},
	}
}

func TestMetricsTable(t *testing.T) {
	want := `| Metric              | Value |
|---------------------|-------|
| Input Tokens        | 1,234 |
| Output Tokens       | 56 |
| Total Tokens        | 202,290 |
| Cache Creation      | 1,000 |
| Cache Read          | 200,000 |
| Tool Calls          | 5 |
| Conversation Turns  | 4 |
| Build Success       | Y/N   |
| API Test Pass       | Y/N   |
| Manual Fix Required | Y/N   |
| Notes               | tools: Read:3, Bash:1, Edit:1 |`

	assert.Equal(t, want, MetricsTable(sampleMetrics()))
}

func TestMetricsTable_NoTools(t *testing.T) {
	table := MetricsTable(model.NewSessionMetrics())
	lines := strings.Split(table, "\n")
	require.Len(t, lines, 13)
	assert.Equal(t, "| Notes               | tools:  |", lines[12])
}

func TestUpdateSection_ReplacesOnlyTargetTable(t *testing.T) {
	doc := fixture()
	out, err := UpdateSection(doc, 1, sampleMetrics())
	require.NoError(t, err)

	table := MetricsTable(sampleMetrics())
	assert.Equal(t, strings.Replace(doc, blankTable, table, 1), out)

	// Phase 2 still has its blank table.
	assert.Contains(t, out, PhaseHeading(2)+"\n\n"+blankTable)
}

func TestUpdateSection_PreservesSurroundingText(t *testing.T) {
	doc := fixture()
	out, err := UpdateSection(doc, 2, sampleMetrics())
	require.NoError(t, err)

	start := strings.Index(doc, PhaseHeading(2))
	tableAt := start + strings.Index(doc[start:], blankTable)
	prefix := doc[:tableAt]
	suffix := doc[tableAt+len(blankTable):]

	assert.True(t, strings.HasPrefix(out, prefix))
	assert.True(t, strings.HasSuffix(out, suffix))
}

func TestUpdateSection_Idempotent(t *testing.T) {
	once, err := UpdateSection(fixture(), 1, sampleMetrics())
	require.NoError(t, err)
	twice, err := UpdateSection(once, 1, sampleMetrics())
	require.NoError(t, err)

	assert.Equal(t, once, twice)
}

func TestUpdateSection_MissingHeading(t *testing.T) {
	_, err := UpdateSection(fixture(), 3, sampleMetrics())

	var snf *SectionNotFoundError
	require.True(t, errors.As(err, &snf))
	assert.Equal(t, PhaseHeading(3), snf.Heading)
	assert.Equal(t, 3, snf.Phase)
}

func TestUpdateSection_NoTableIsNoop(t *testing.T) {
	doc := PhaseHeading(1) + "\n\nNothing measured yet.\n\n" + PhaseHeading(2) + "\n\n" + blankTable + "\n"
	out, err := UpdateSection(doc, 1, sampleMetrics())
	require.NoError(t, err)
	assert.Equal(t, doc, out)
}

func TestUpdateSection_UnregisteredPhase(t *testing.T) {
	doc := "## Phase 9: Phase 9\n\n" + blankTable
	out, err := UpdateSection(doc, 9, sampleMetrics())
	require.NoError(t, err)
	assert.Equal(t, "## Phase 9: Phase 9\n\n"+MetricsTable(sampleMetrics()), out)
}

func TestUpdateSection_CRLF(t *testing.T) {
	doc := strings.ReplaceAll(fixture(), "\n", "\r\n")
	out, err := UpdateSection(doc, 1, sampleMetrics())
	require.NoError(t, err)

	crlfBlank := strings.ReplaceAll(blankTable, "\n", "\r\n")
	assert.NotContains(t, out[:strings.Index(out, PhaseHeading(2))], crlfBlank)
	assert.Contains(t, out, strings.ReplaceAll(MetricsTable(sampleMetrics()), "\n", "\r\n")+"\r\n\r\nRemarks")
	assert.True(t, strings.HasSuffix(out, strings.ReplaceAll(TotalsHeading+"\n\n| Metric | Value |\n|---|---|\n| Total Tokens | 0 |\n", "\n", "\r\n")))
}

func phaseDoc(phase int, total, input, turns string) string {
	return PhaseHeading(phase) + "\n\n" +
		"| Metric              | Value |\n" +
		"|---------------------|-------|\n" +
		"| Input Tokens        | " + input + " |\n" +
		"| Total Tokens        | " + total + " |\n" +
		"| Tool Calls          | 2 |\n" +
		"| Conversation Turns  | " + turns + " |\n" +
		"| Notes               | tools: Read:2 |\n\n"
}

func TestRecomputeTotals_SumsPhases(t *testing.T) {
	doc := "# Results\n\n" +
		phaseDoc(1, "100", "1,000", "3") +
		phaseDoc(2, "50", "2,500", "x") +
		phaseDoc(5, "9,999", "9,999", "9") +
		TotalsHeading + "\n\nstale\n\n## Appendix\n\ngone\n"

	out := RecomputeTotals(doc)

	want := "# Results\n\n" +
		phaseDoc(1, "100", "1,000", "3") +
		phaseDoc(2, "50", "2,500", "x") +
		phaseDoc(5, "9,999", "9,999", "9") +
		TotalsSection(model.PhaseTotals{
			InputTokens: 3500,
			TotalTokens: 150,
			ToolCalls:   4,
			Turns:       3,
		})
	assert.Equal(t, want, out)
	assert.Contains(t, out, "| Total Tokens        | 150 |")
	assert.NotContains(t, out, "## Appendix")
}

func TestRecomputeTotals_NoHeadingIsNoop(t *testing.T) {
	doc := phaseDoc(1, "100", "1", "1")
	assert.Equal(t, doc, RecomputeTotals(doc))
}

func TestTotalsSection(t *testing.T) {
	want := `## Total Summary

| Metric              | Value |
|---------------------|-------|
| Total Input Tokens  | 1,234,567 |
| Total Output Tokens | 89 |
| Total Tokens        | 1,234,656 |
| Total Tool Calls    | 1200 |
| Total Turns         | 14 |
`
	got := TotalsSection(model.PhaseTotals{
		InputTokens:  1234567,
		OutputTokens: 89,
		TotalTokens:  1234656,
		ToolCalls:    1200,
		Turns:        14,
	})
	assert.Equal(t, want, got)
}

func TestParseCount(t *testing.T) {
	tests := map[string]int64{
		"1,234":  1234,
		" 42 ":   42,
		"":       0,
		"Y/N":    0,
		"12.5":   0,
		"-":      0,
		"1,0,00": 1000,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseCount(in), "parseCount(%q)", in)
	}
}

func TestMetricsTable_ToolNamesStayInCell(t *testing.T) {
	m := sampleMetrics()
	m.ToolTypes = map[string]int{"mcp\nsplit": 1, "a|b": 2}

	table := MetricsTable(m)
	lines := strings.Split(table, "\n")
	assert.Len(t, lines, 13)
	assert.Equal(t, `| Notes               | tools: a\|b:2, mcp split:1 |`, lines[len(lines)-1])

	once, err := UpdateSection(fixture(), 1, m)
	require.NoError(t, err)
	twice, err := UpdateSection(once, 1, m)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}
