package entry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ParseLine decodes one raw log line into an Entry.
//
// Blank lines and lines with an unrecognized type discriminator yield
// (nil, nil). Lines that are not valid JSON yield (nil, error) so the caller
// can emit a diagnostic; ParseLine itself never panics. Every field is
// defaulted independently on type mismatch (numbers to 0, strings to "",
// enums to a safe member) — producer schemas evolve, and a single bad field
// must not discard the rest of the entry.
func ParseLine(raw []byte) (*Entry, error) {
	line := bytes.TrimSpace(raw)
	if len(line) == 0 {
		return nil, nil
	}

	var m map[string]any
	if err := json.Unmarshal(line, &m); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}

	kind := Kind(stringField(m, "type"))
	switch kind {
	case KindSession, KindModelChange, KindThinkingLevel, KindCustom, KindCompaction, KindMessage:
	default:
		return nil, nil
	}

	e := &Entry{
		Kind:      kind,
		ID:        stringField(m, "id"),
		Timestamp: timestampField(m, "timestamp"),
	}
	if p, ok := m["parentId"].(string); ok {
		e.ParentID = &p
	}

	switch kind {
	case KindSession:
		e.Version = intField(m, "version")
		e.CWD = stringField(m, "cwd")
	case KindModelChange:
		e.Provider = stringField(m, "provider")
		e.ModelID = stringField(m, "modelId")
	case KindThinkingLevel:
		e.ThinkingLevel = stringField(m, "thinkingLevel")
	case KindCustom:
		e.CustomType = stringField(m, "customType")
		if data, ok := m["data"]; ok && data != nil {
			// Re-encode rather than slicing the source line; the raw bytes
			// are not retained past this call.
			if b, err := json.Marshal(data); err == nil {
				e.Data = b
			}
		}
	case KindMessage:
		e.Message = parseMessage(m["message"])
	}

	return e, nil
}

// parseMessage normalizes the message payload. A missing or malformed
// payload still yields a shape-consistent Message with default fields.
func parseMessage(v any) *Message {
	msg := &Message{Role: RoleUser}
	m, ok := v.(map[string]any)
	if !ok {
		return msg
	}

	switch role := stringField(m, "role"); role {
	case RoleUser, RoleAssistant, RoleToolResult:
		msg.Role = role
	}

	msg.Content = parseContent(m["content"])
	msg.Model = stringField(m, "model")
	msg.Provider = stringField(m, "provider")
	msg.Usage = parseUsage(m["usage"])
	msg.ToolCallID = stringField(m, "toolCallId")
	msg.ToolName = stringField(m, "toolName")
	msg.Details = parseDetails(m["details"])
	msg.IsError = boolField(m, "isError")
	return msg
}

// parseContent normalizes a content value into an ordered block list.
// String content (an older producer shape) becomes a single text block.
func parseContent(v any) []ContentBlock {
	if s, ok := v.(string); ok {
		return []ContentBlock{{Type: BlockText, Text: s}}
	}
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	blocks := make([]ContentBlock, 0, len(arr))
	for _, el := range arr {
		blocks = append(blocks, parseBlock(el))
	}
	return blocks
}

// parseBlock normalizes one content block. Unrecognized block types degrade
// to an empty text block instead of being dropped, preserving block indices
// for tool-call association.
func parseBlock(v any) ContentBlock {
	m, ok := v.(map[string]any)
	if !ok {
		return ContentBlock{Type: BlockText}
	}
	switch stringField(m, "type") {
	case BlockText:
		return ContentBlock{Type: BlockText, Text: stringField(m, "text")}
	case BlockThinking:
		return ContentBlock{Type: BlockThinking, Thinking: stringField(m, "thinking")}
	case BlockToolCall:
		b := ContentBlock{
			Type: BlockToolCall,
			ID:   stringField(m, "id"),
			Name: stringField(m, "name"),
		}
		if args, ok := m["arguments"]; ok && args != nil {
			if raw, err := json.Marshal(args); err == nil {
				b.Arguments = raw
			}
		}
		return b
	case BlockImage:
		return ContentBlock{Type: BlockImage}
	default:
		return ContentBlock{Type: BlockText}
	}
}

func parseUsage(v any) *Usage {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	u := &Usage{
		Input:      intField(m, "input"),
		Output:     intField(m, "output"),
		CacheRead:  intField(m, "cacheRead"),
		CacheWrite: intField(m, "cacheWrite"),
		Total:      intField(m, "totalTokens"),
	}
	if u.Total == 0 {
		u.Total = intField(m, "total")
	}
	return u
}

func parseDetails(v any) *ToolResultDetails {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	return &ToolResultDetails{
		Status:     stringField(m, "status"),
		ExitCode:   intField(m, "exitCode"),
		DurationMs: intField(m, "durationMs"),
	}
}

// --- Field coercion helpers ---

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func intField(m map[string]any, key string) int {
	f, _ := m[key].(float64)
	return int(f)
}

func boolField(m map[string]any, key string) bool {
	b, _ := m[key].(bool)
	return b
}

// timestampField keeps string timestamps as-is and renders numeric ones
// (epoch milliseconds) back to their literal form.
func timestampField(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}
