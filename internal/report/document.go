package report

import "strings"

const sectionMarker = "## "

// Document is a results file split into level-2 sections. Every line keeps
// its original terminator, so String reproduces the input exactly.
type Document struct {
	Preamble []string
	Sections []*Section
}

// Section runs from a "## " heading line up to the next one.
type Section struct {
	Lines []string
}

// Parse splits text into a Document.
func Parse(text string) *Document {
	doc := &Document{}
	for _, line := range splitLines(text) {
		if strings.HasPrefix(line, sectionMarker) {
			doc.Sections = append(doc.Sections, &Section{Lines: []string{line}})
			continue
		}
		if n := len(doc.Sections); n > 0 {
			doc.Sections[n-1].Lines = append(doc.Sections[n-1].Lines, line)
		} else {
			doc.Preamble = append(doc.Preamble, line)
		}
	}
	return doc
}

// String reassembles the document.
func (d *Document) String() string {
	var b strings.Builder
	for _, l := range d.Preamble {
		b.WriteString(l)
	}
	for _, s := range d.Sections {
		for _, l := range s.Lines {
			b.WriteString(l)
		}
	}
	return b.String()
}

// Find returns the first section whose heading starts with heading.
func (d *Document) Find(heading string) *Section {
	if i := d.index(heading); i >= 0 {
		return d.Sections[i]
	}
	return nil
}

func (d *Document) index(heading string) int {
	for i, s := range d.Sections {
		if strings.HasPrefix(s.Heading(), heading) {
			return i
		}
	}
	return -1
}

// Heading returns the heading line without its terminator.
func (s *Section) Heading() string {
	if len(s.Lines) == 0 {
		return ""
	}
	return strings.TrimRight(s.Lines[0], "\r\n")
}

// metricsTable locates the first table whose header's first cell is
// "Metric" and the first "Notes" row after it. ok is false when either is
// missing.
func (s *Section) metricsTable() (start, end int, ok bool) {
	start = -1
	for i, line := range s.Lines {
		cells, isRow := rowCells(line)
		if !isRow || len(cells) == 0 {
			continue
		}
		switch {
		case start < 0 && cells[0] == "Metric":
			start = i
		case start >= 0 && cells[0] == "Notes":
			return start, i, true
		}
	}
	return 0, 0, false
}

// ReplaceMetricsTable swaps the section's Metric..Notes table for table,
// which must not end in a newline. It reports whether a table was found.
func (s *Section) ReplaceMetricsTable(table string) bool {
	start, end, ok := s.metricsTable()
	if !ok {
		return false
	}

	term := lineTerminator(s.Lines[end])
	if term == "\r\n" {
		table = strings.ReplaceAll(table, "\n", "\r\n")
	}
	replacement := splitLines(table + term)

	lines := make([]string, 0, len(s.Lines)-(end-start+1)+len(replacement))
	lines = append(lines, s.Lines[:start]...)
	lines = append(lines, replacement...)
	lines = append(lines, s.Lines[end+1:]...)
	s.Lines = lines
	return true
}

// Rows returns the cells of every pipe-table row in the section.
func (s *Section) Rows() [][]string {
	var rows [][]string
	for _, line := range s.Lines {
		if cells, ok := rowCells(line); ok {
			rows = append(rows, cells)
		}
	}
	return rows
}

// rowCells splits a "| a | b |" line into trimmed cells.
func rowCells(line string) ([]string, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "|") {
		return nil, false
	}
	trimmed = strings.TrimPrefix(trimmed, "|")
	trimmed = strings.TrimSuffix(trimmed, "|")

	parts := strings.Split(trimmed, "|")
	cells := make([]string, len(parts))
	for i, p := range parts {
		cells[i] = strings.TrimSpace(p)
	}
	return cells, true
}

// splitLines splits text after every "\n", keeping terminators.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func lineTerminator(line string) string {
	switch {
	case strings.HasSuffix(line, "\r\n"):
		return "\r\n"
	case strings.HasSuffix(line, "\n"):
		return "\n"
	default:
		return ""
	}
}
