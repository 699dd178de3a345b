// Package model defines domain types for sessmeter metrics and runs.
package model

import "sort"

// SessionMetrics holds the aggregated counters for a single session log.
type SessionMetrics struct {
	InputTokens         int64 `json:"input_tokens" yaml:"input_tokens"`
	OutputTokens        int64 `json:"output_tokens" yaml:"output_tokens"`
	CacheCreationTokens int64 `json:"cache_creation_input_tokens" yaml:"cache_creation_input_tokens"`
	CacheReadTokens     int64 `json:"cache_read_input_tokens" yaml:"cache_read_input_tokens"`

	APICalls          int `json:"api_calls" yaml:"api_calls"`
	UserMessages      int `json:"user_messages" yaml:"user_messages"`
	AssistantMessages int `json:"assistant_messages" yaml:"assistant_messages"`
	ToolCalls         int `json:"tool_calls" yaml:"tool_calls"`

	ToolTypes map[string]int `json:"tool_types" yaml:"tool_types"`
}

// NewSessionMetrics returns zeroed metrics with an allocated tool map.
func NewSessionMetrics() SessionMetrics {
	return SessionMetrics{ToolTypes: make(map[string]int)}
}

// TotalInput is uncached input plus both cache buckets.
func (m SessionMetrics) TotalInput() int64 {
	return m.InputTokens + m.CacheCreationTokens + m.CacheReadTokens
}

// GrandTotal is every input-type counter plus output tokens.
func (m SessionMetrics) GrandTotal() int64 {
	return m.TotalInput() + m.OutputTokens
}

// ToolCount pairs a tool name with its invocation count.
type ToolCount struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

// SortedTools returns tool usage sorted by count descending.
// Equal counts are ordered by name so output is stable across runs.
func (m SessionMetrics) SortedTools() []ToolCount {
	tools := make([]ToolCount, 0, len(m.ToolTypes))
	for name, n := range m.ToolTypes {
		tools = append(tools, ToolCount{Name: name, Count: n})
	}
	sort.Slice(tools, func(i, j int) bool {
		if tools[i].Count != tools[j].Count {
			return tools[i].Count > tools[j].Count
		}
		return tools[i].Name < tools[j].Name
	})
	return tools
}
