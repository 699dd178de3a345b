package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_RoundTrip(t *testing.T) {
	tests := []string{
		"",
		"no sections at all",
		"## only heading",
		"intro\n## A\nbody\n## B\nlast line without newline",
		"## A\r\n| Metric | Value |\r\n\r\n### sub\r\n## B\r\n",
		fixture(),
	}
	for _, in := range tests {
		assert.Equal(t, in, Parse(in).String())
	}
}

func TestParse_Sections(t *testing.T) {
	doc := Parse("intro\n\n## A\nx\n### not a section\n## B\n##C\n")

	assert.Equal(t, []string{"intro\n", "\n"}, doc.Preamble)
	require.Len(t, doc.Sections, 2)
	assert.Equal(t, "## A", doc.Sections[0].Heading())
	assert.Len(t, doc.Sections[0].Lines, 3)
	assert.Equal(t, "## B", doc.Sections[1].Heading())
	assert.Equal(t, []string{"## B\n", "##C\n"}, doc.Sections[1].Lines)
}

func TestFind(t *testing.T) {
	doc := Parse(fixture())

	sec := doc.Find(PhaseHeading(2))
	require.NotNil(t, sec)
	assert.Equal(t, PhaseHeading(2), sec.Heading())
	assert.Nil(t, doc.Find(PhaseHeading(4)))
	assert.NotNil(t, doc.Find(TotalsHeading))
}

func TestRowCells(t *testing.T) {
	cells, ok := rowCells("  | Input Tokens        | 1,234 |\n")
	require.True(t, ok)
	assert.Equal(t, []string{"Input Tokens", "1,234"}, cells)

	_, ok = rowCells("plain text")
	assert.False(t, ok)
}

func TestPhaseLabel(t *testing.T) {
	assert.Equal(t, "댓글 기능", PhaseLabel(2))
	assert.Equal(t, "Phase 12", PhaseLabel(12))
	assert.Equal(t, "## Phase 12: Phase 12", PhaseHeading(12))
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7}, Phases())
	assert.True(t, IsRegistered(7))
	assert.False(t, IsRegistered(0))
}

// FuzzParseRoundTrip checks that splitting into sections never loses bytes.
func FuzzParseRoundTrip(f *testing.F) {
	f.Add(fixture())
	f.Add("## a\n## b")
	f.Add("\r\n\n## \n|")

	f.Fuzz(func(t *testing.T, in string) {
		if got := Parse(in).String(); got != in {
			t.Errorf("round trip mismatch: %q -> %q", in, got)
		}
	})
}
