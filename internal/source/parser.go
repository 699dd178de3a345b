// Package source reads Claude Code JSONL session files and locates them on disk.
package source

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const maxLineBytes = 16 * 1024 * 1024

// ReadResult holds the decoded entries of one session log.
type ReadResult struct {
	Entries []RawEntry
	Lines   int // non-blank lines seen
	Skipped int // lines that were not valid JSON objects
}

// ReadEntries decodes every line of r. Blank and malformed lines are skipped;
// only read errors are returned.
func ReadEntries(r io.Reader) (ReadResult, error) {
	var res ReadResult

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 256*1024), maxLineBytes)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		res.Lines++

		var entry RawEntry
		if err := json.Unmarshal(line, &entry); err != nil {
			res.Skipped++
			continue
		}
		res.Entries = append(res.Entries, entry)
	}

	if err := scanner.Err(); err != nil {
		return res, err
	}
	return res, nil
}

// ReadFile opens path, decodes it with ReadEntries and closes it.
func ReadFile(path string) (ReadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return ReadResult{}, err
	}
	defer func() { _ = f.Close() }()

	res, err := ReadEntries(f)
	if err != nil {
		return res, fmt.Errorf("reading %s: %w", path, err)
	}
	return res, nil
}

// SessionIDFromPath returns the file name without its .jsonl extension.
func SessionIDFromPath(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
