package model

import "time"

// PhaseTotals is the rollup written to a results document's Total Summary.
type PhaseTotals struct {
	InputTokens  int64 `json:"input_tokens" yaml:"input_tokens"`
	OutputTokens int64 `json:"output_tokens" yaml:"output_tokens"`
	TotalTokens  int64 `json:"total_tokens" yaml:"total_tokens"`
	ToolCalls    int64 `json:"tool_calls" yaml:"tool_calls"`
	Turns        int64 `json:"turns" yaml:"turns"`
}

// Run is one recorded analysis of a session log.
type Run struct {
	ID         string         `json:"id" yaml:"id"`
	SessionID  string         `json:"session_id" yaml:"session_id"`
	FilePath   string         `json:"file" yaml:"file"`
	Project    string         `json:"project,omitempty" yaml:"project,omitempty"` // results label, empty when not saved
	Phase      int            `json:"phase,omitempty" yaml:"phase,omitempty"`     // 0 when not saved
	AnalyzedAt time.Time      `json:"analyzed_at" yaml:"analyzed_at"`
	Metrics    SessionMetrics `json:"metrics" yaml:"metrics"`
}
