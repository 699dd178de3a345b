package report

import (
	"fmt"

	"github.com/theirongolddev/sessmeter/internal/model"
)

// SectionNotFoundError is returned when a document lacks a phase heading.
type SectionNotFoundError struct {
	Phase   int
	Heading string
}

func (e *SectionNotFoundError) Error() string {
	return fmt.Sprintf("section %q not found", e.Heading)
}

// UpdatePhase replaces the metrics table in the phase's section. It returns
// false when the section exists but holds no Metric..Notes table, in which
// case the document is left untouched.
func (d *Document) UpdatePhase(phase int, m model.SessionMetrics) (bool, error) {
	heading := PhaseHeading(phase)
	sec := d.Find(heading)
	if sec == nil {
		return false, &SectionNotFoundError{Phase: phase, Heading: heading}
	}
	return sec.ReplaceMetricsTable(MetricsTable(m)), nil
}

// Totals sums the rollup rows of every phase in RollupPhases present in d.
// Each phase's Total Tokens row is summed as written, not recomputed.
func (d *Document) Totals() model.PhaseTotals {
	var t model.PhaseTotals
	for _, phase := range RollupPhases {
		sec := d.Find(PhaseHeading(phase))
		if sec == nil {
			continue
		}
		for _, cells := range sec.Rows() {
			if len(cells) < 2 {
				continue
			}
			switch cells[0] {
			case RowInputTokens:
				t.InputTokens += parseCount(cells[1])
			case RowOutputTokens:
				t.OutputTokens += parseCount(cells[1])
			case RowTotalTokens:
				t.TotalTokens += parseCount(cells[1])
			case RowToolCalls:
				t.ToolCalls += parseCount(cells[1])
			case RowConversationTurns:
				t.Turns += parseCount(cells[1])
			}
		}
	}
	return t
}

// RecomputeTotals rewrites the Total Summary section, and everything after
// it, from the phase tables. It returns false when there is no such section.
func (d *Document) RecomputeTotals() (model.PhaseTotals, bool) {
	t := d.Totals()

	i := d.index(TotalsHeading)
	if i < 0 {
		return t, false
	}
	d.Sections = append(d.Sections[:i], &Section{Lines: splitLines(TotalsSection(t))})
	return t, true
}

// UpdateSection writes m into the given phase's table of doc.
func UpdateSection(doc string, phase int, m model.SessionMetrics) (string, error) {
	d := Parse(doc)
	replaced, err := d.UpdatePhase(phase, m)
	if err != nil {
		return "", err
	}
	if !replaced {
		return doc, nil
	}
	return d.String(), nil
}

// RecomputeTotals rebuilds the Total Summary of doc. Documents without a
// Total Summary heading are returned unchanged.
func RecomputeTotals(doc string) string {
	d := Parse(doc)
	if _, ok := d.RecomputeTotals(); !ok {
		return doc
	}
	return d.String()
}
