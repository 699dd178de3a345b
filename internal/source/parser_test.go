package source

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// writeSession creates a temp JSONL file and returns its path.
func writeSession(t *testing.T, lines ...string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "session.jsonl")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadFile_DecodesEntries(t *testing.T) {
	path := writeSession(t,
		`{"type":"user","timestamp":"2025-06-01T10:00:00Z","message":{"role":"user","content":"hi"}}`,
		`{"type":"assistant","message":{"id":"msg1","usage":{"input_tokens":100,"output_tokens":50}}}`,
	)

	res, err := ReadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Entries) != 2 {
		t.Fatalf("Entries = %d, want 2", len(res.Entries))
	}
	if res.Entries[1].Message.ID != "msg1" {
		t.Errorf("ID = %q, want msg1", res.Entries[1].Message.ID)
	}
	if res.Entries[1].Message.Usage.InputTokens != 100 {
		t.Errorf("InputTokens = %d, want 100", res.Entries[1].Message.Usage.InputTokens)
	}
}

func TestReadFile_MalformedLines(t *testing.T) {
	path := writeSession(t,
		`not json at all`,
		``,
		`{"type":"user"}`,
		`{"type":"assistant","broken json`,
	)

	res, err := ReadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Malformed lines should be skipped, not cause a fatal error.
	if len(res.Entries) != 1 {
		t.Errorf("Entries = %d, want 1", len(res.Entries))
	}
	if res.Skipped != 2 {
		t.Errorf("Skipped = %d, want 2", res.Skipped)
	}
	if res.Lines != 3 {
		t.Errorf("Lines = %d, want 3 (blank lines ignored)", res.Lines)
	}
}

func TestReadEntries_MalformedSubFields(t *testing.T) {
	res, err := ReadEntries(strings.NewReader(strings.Join([]string{
		`{"type":"user","message":"plain string prompt"}`,
		`{"type":"user","message":{"role":"user","id":123,"content":"hi"}}`,
		`{"type":"assistant","message":{"id":"m1","usage":{"input_tokens":10,"output_tokens":5},"content":[{"type":"tool_use","name":7}]}}`,
		`{"type":"assistant","message":{"id":"m2","usage":{"input_tokens":3,"output_tokens":2,"cache_read_input_tokens":"n/a"}}}`,
		`{"type":"assistant","message":{"id":"m3","usage":"none"}}`,
		`{"type":"assistant","message":null}`,
	}, "\n")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Skipped != 0 || len(res.Entries) != 6 {
		t.Fatalf("Entries = %d, Skipped = %d; want 6, 0", len(res.Entries), res.Skipped)
	}

	e := res.Entries
	if e[0].Type != "user" || e[0].Message != nil {
		t.Errorf("string message should be absent, got %+v", e[0].Message)
	}
	if e[1].Message == nil || e[1].Message.ID != "" || e[1].Message.Role != "user" {
		t.Errorf("numeric id should default to empty, got %+v", e[1].Message)
	}
	if tools := e[2].Message.Blocks(); len(tools) != 1 || tools[0].ToolName() != UnknownTool {
		t.Errorf("non-string tool name should be unknown, got %+v", tools)
	}
	u := e[3].Message.GetUsage()
	if u == nil || u.InputTokens != 3 || u.OutputTokens != 2 || u.CacheReadInputTokens != 0 {
		t.Errorf("usage = %+v, want input 3, output 2, cache read 0", u)
	}
	if e[4].Message.GetUsage() != nil {
		t.Error("non-object usage should be absent")
	}
	if e[5].Message != nil {
		t.Error("null message should be absent")
	}
}

func TestRawUsage_FloatCounts(t *testing.T) {
	res, err := ReadEntries(strings.NewReader(`{"type":"assistant","message":{"usage":{"input_tokens":12.0,"output_tokens":1e2}}}`))
	if err != nil {
		t.Fatal(err)
	}
	u := res.Entries[0].Message.GetUsage()
	if u.InputTokens != 12 || u.OutputTokens != 100 {
		t.Errorf("usage = %+v, want 12/100", u)
	}
}

func TestReadFile_EmptyFile(t *testing.T) {
	path := writeSession(t)
	res, err := ReadFile(path)
	if err != nil {
		t.Fatalf("unexpected error on empty file: %v", err)
	}
	if len(res.Entries) != 0 {
		t.Error("expected no entries for empty file")
	}
}

func TestReadFile_Missing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.jsonl"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want not-exist", err)
	}
}

func TestBlocks(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantTools []string
		wantLen   int
	}{
		{"string content", `"just text"`, nil, 0},
		{"empty", ``, nil, 0},
		{"tool use", `[{"type":"text","text":"x"},{"type":"tool_use","name":"Read"}]`, []string{"Read"}, 2},
		{"nameless tool", `[{"type":"tool_use"}]`, []string{UnknownTool}, 1},
		{"non-string name", `[{"type":"tool_use","name":7}]`, []string{UnknownTool}, 1},
		{"non-object elements", `["a", 3, null, {"type":"tool_use","name":"Bash"}]`, []string{"Bash"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &RawMessage{Content: []byte(tt.content)}
			blocks := m.Blocks()
			if len(blocks) != tt.wantLen {
				t.Fatalf("len(Blocks) = %d, want %d", len(blocks), tt.wantLen)
			}
			var tools []string
			for _, b := range blocks {
				if b.IsToolUse() {
					tools = append(tools, b.ToolName())
				}
			}
			if strings.Join(tools, ",") != strings.Join(tt.wantTools, ",") {
				t.Errorf("tools = %v, want %v", tools, tt.wantTools)
			}
		})
	}
}

func TestSessionIDFromPath(t *testing.T) {
	got := SessionIDFromPath("/x/y/6f1c-aa.jsonl")
	if got != "6f1c-aa" {
		t.Errorf("SessionIDFromPath = %q, want 6f1c-aa", got)
	}
}

// FuzzReadEntries checks that arbitrary input never panics and that every
// non-blank line is either decoded or counted as skipped.
func FuzzReadEntries(f *testing.F) {
	f.Add([]byte(`{"type":"user","timestamp":"2025-06-01T10:00:00Z"}`))
	f.Add([]byte(`{"type":"assistant","message":{"id":"x","usage":{},"content":[{"type":"tool_use"}]}}`))
	f.Add([]byte("not json\n\n{}"))
	f.Add([]byte(`{"type":"user`))

	f.Fuzz(func(t *testing.T, data []byte) {
		res, err := ReadEntries(strings.NewReader(string(data)))
		if err != nil {
			return
		}
		if len(res.Entries)+res.Skipped != res.Lines {
			t.Errorf("entries %d + skipped %d != lines %d", len(res.Entries), res.Skipped, res.Lines)
		}
		for _, e := range res.Entries {
			_ = e.Message.Blocks()
		}
	})
}

func touch(t *testing.T, path string, mtime time.Time) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{}\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatal(err)
	}
}
