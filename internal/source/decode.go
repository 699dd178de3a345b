package source

import (
	"bytes"
	"encoding/json"
	"math"
)

// Session logs are decoded one field at a time: a field with the wrong JSON
// type is left at its zero value instead of discarding the whole record.
// Only a line that is not a JSON object at all fails to decode.

type fields map[string]json.RawMessage

func decodeFields(data []byte) (fields, error) {
	var f fields
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return f, nil
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

func (f fields) str(key string) string {
	var s string
	if raw, ok := f[key]; ok {
		_ = json.Unmarshal(raw, &s)
	}
	return s
}

// strPtr returns nil unless key holds a JSON string.
func (f fields) strPtr(key string) *string {
	raw, ok := f[key]
	if !ok {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	return &s
}

// int64 accepts integers and finite floats (truncated); anything else is 0.
func (f fields) int64(key string) int64 {
	raw, ok := f[key]
	if !ok {
		return 0
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0
	}
	if i, err := n.Int64(); err == nil {
		return i
	}
	fl, err := n.Float64()
	if err != nil || math.IsNaN(fl) || math.IsInf(fl, 0) || math.Abs(fl) > math.MaxInt64 {
		return 0
	}
	return int64(fl)
}

// UnmarshalJSON decodes an entry; a message that is not an object is absent.
func (e *RawEntry) UnmarshalJSON(data []byte) error {
	f, err := decodeFields(data)
	if err != nil {
		return err
	}
	*e = RawEntry{
		Type:      f.str("type"),
		Timestamp: f.str("timestamp"),
		SessionID: f.str("sessionId"),
	}
	if raw, ok := f["message"]; ok && !isNull(raw) {
		var m RawMessage
		if json.Unmarshal(raw, &m) == nil {
			e.Message = &m
		}
	}
	return nil
}

// UnmarshalJSON decodes a message; usage that is not an object is absent.
func (m *RawMessage) UnmarshalJSON(data []byte) error {
	f, err := decodeFields(data)
	if err != nil {
		return err
	}
	*m = RawMessage{
		ID:      f.str("id"),
		Role:    f.str("role"),
		Model:   f.str("model"),
		Content: f["content"],
	}
	if raw, ok := f["usage"]; ok && !isNull(raw) {
		var u RawUsage
		if json.Unmarshal(raw, &u) == nil {
			m.Usage = &u
		}
	}
	return nil
}

// UnmarshalJSON decodes token counts, zeroing any that are not numbers.
func (u *RawUsage) UnmarshalJSON(data []byte) error {
	f, err := decodeFields(data)
	if err != nil {
		return err
	}
	*u = RawUsage{
		InputTokens:              f.int64("input_tokens"),
		OutputTokens:             f.int64("output_tokens"),
		CacheCreationInputTokens: f.int64("cache_creation_input_tokens"),
		CacheReadInputTokens:     f.int64("cache_read_input_tokens"),
	}
	return nil
}

// UnmarshalJSON decodes a content block; a non-string name counts as unnamed.
func (b *ContentBlock) UnmarshalJSON(data []byte) error {
	f, err := decodeFields(data)
	if err != nil {
		return err
	}
	*b = ContentBlock{
		Type: f.str("type"),
		Name: f.strPtr("name"),
	}
	return nil
}
