package source

import (
	"bytes"
	"encoding/json"
)

// RawEntry represents a single line in a Claude Code JSONL session file.
type RawEntry struct {
	Type      string      `json:"type"`
	Timestamp string      `json:"timestamp,omitempty"`
	SessionID string      `json:"sessionId,omitempty"`
	Message   *RawMessage `json:"message,omitempty"`
}

// RawMessage represents the message envelope of a user or assistant entry.
type RawMessage struct {
	ID      string          `json:"id"`
	Role    string          `json:"role"`
	Model   string          `json:"model"`
	Usage   *RawUsage       `json:"usage,omitempty"`
	Content json.RawMessage `json:"content,omitempty"`
}

// RawUsage holds token counts from the API response.
type RawUsage struct {
	InputTokens              int64 `json:"input_tokens"`
	OutputTokens             int64 `json:"output_tokens"`
	CacheCreationInputTokens int64 `json:"cache_creation_input_tokens"`
	CacheReadInputTokens     int64 `json:"cache_read_input_tokens"`
}

// ContentBlock is one element of a message's content array.
type ContentBlock struct {
	Type string  `json:"type"`
	Name *string `json:"name,omitempty"`
}

// UnknownTool is reported for tool_use blocks that carry no name.
const UnknownTool = "unknown"

// IsToolUse reports whether the block is a tool invocation.
func (b ContentBlock) IsToolUse() bool {
	return b.Type == "tool_use"
}

// ToolName returns the invoked tool's name, or UnknownTool.
func (b ContentBlock) ToolName() string {
	if b.Name == nil {
		return UnknownTool
	}
	return *b.Name
}

// GetUsage returns the usage block, tolerating a nil message.
func (m *RawMessage) GetUsage() *RawUsage {
	if m == nil {
		return nil
	}
	return m.Usage
}

// Blocks decodes the content array. Plain-string content (typical for user
// prompts) and non-object elements yield nothing.
func (m *RawMessage) Blocks() []ContentBlock {
	if m == nil {
		return nil
	}
	raw := bytes.TrimSpace(m.Content)
	if len(raw) == 0 || raw[0] != '[' {
		return nil
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil
	}

	blocks := make([]ContentBlock, 0, len(elems))
	for _, e := range elems {
		e = bytes.TrimSpace(e)
		if len(e) == 0 || e[0] != '{' {
			continue
		}
		var b ContentBlock
		if err := json.Unmarshal(e, &b); err != nil {
			continue
		}
		blocks = append(blocks, b)
	}
	return blocks
}

// DiscoveredFile represents a JSONL file found during directory scanning.
type DiscoveredFile struct {
	Path       string
	Project    string // decoded display name (e.g., "CleanCode")
	ProjectDir string // raw directory name
	SessionID  string // extracted from filename
	ModTime    int64  // unix nanoseconds
}
