// Package pipeline turns decoded session entries into usage metrics.
package pipeline

import (
	"github.com/theirongolddev/sessmeter/internal/model"
	"github.com/theirongolddev/sessmeter/internal/source"
)

// Aggregate computes session metrics from decoded log entries.
//
// Assistant entries sharing a message.id are streamed snapshots of one API
// call; only the last one seen is kept. Entries without an id, and all
// non-assistant entries, are kept as-is. Every counter below is a plain sum,
// so the iteration order of the deduplicated group never changes the result.
func Aggregate(entries []source.RawEntry) model.SessionMetrics {
	latest := make(map[string]source.RawEntry)
	var passthrough []source.RawEntry

	for _, e := range entries {
		if e.Type == "assistant" && e.Message != nil && e.Message.ID != "" {
			latest[e.Message.ID] = e
			continue
		}
		passthrough = append(passthrough, e)
	}

	m := model.NewSessionMetrics()
	for _, e := range passthrough {
		accumulate(&m, e)
	}
	for _, e := range latest {
		accumulate(&m, e)
	}
	return m
}

func accumulate(m *model.SessionMetrics, e source.RawEntry) {
	switch e.Type {
	case "user":
		m.UserMessages++
	case "assistant":
		m.AssistantMessages++
		if u := e.Message.GetUsage(); u != nil && (u.OutputTokens > 0 || u.InputTokens > 0) {
			m.InputTokens += u.InputTokens
			m.OutputTokens += u.OutputTokens
			m.CacheCreationTokens += u.CacheCreationInputTokens
			m.CacheReadTokens += u.CacheReadInputTokens
			m.APICalls++
		}
	}

	for _, b := range e.Message.Blocks() {
		if !b.IsToolUse() {
			continue
		}
		m.ToolCalls++
		m.ToolTypes[b.ToolName()]++
	}
}
