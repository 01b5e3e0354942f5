package entry

import "encoding/json"

// MarshalJSON renders the entry back into its wire shape. Round-tripping a
// parsed entry through MarshalJSON and ParseLine preserves every modeled
// field; unmodeled producer fields are not retained.
func (e *Entry) MarshalJSON() ([]byte, error) {
	m := map[string]any{
		"type": string(e.Kind),
		"id":   e.ID,
	}
	if e.ParentID != nil {
		m["parentId"] = *e.ParentID
	}
	if e.Timestamp != "" {
		m["timestamp"] = e.Timestamp
	}

	switch e.Kind {
	case KindSession:
		if e.Version != 0 {
			m["version"] = e.Version
		}
		if e.CWD != "" {
			m["cwd"] = e.CWD
		}
	case KindModelChange:
		if e.Provider != "" {
			m["provider"] = e.Provider
		}
		if e.ModelID != "" {
			m["modelId"] = e.ModelID
		}
	case KindThinkingLevel:
		if e.ThinkingLevel != "" {
			m["thinkingLevel"] = e.ThinkingLevel
		}
	case KindCustom:
		if e.CustomType != "" {
			m["customType"] = e.CustomType
		}
		if len(e.Data) > 0 {
			m["data"] = json.RawMessage(e.Data)
		}
	case KindMessage:
		if e.Message != nil {
			m["message"] = marshalMessage(e.Message)
		}
	}

	return json.Marshal(m)
}

func marshalMessage(msg *Message) map[string]any {
	m := map[string]any{"role": msg.Role}
	if msg.Content != nil {
		blocks := make([]map[string]any, len(msg.Content))
		for i := range msg.Content {
			blocks[i] = marshalBlock(&msg.Content[i])
		}
		m["content"] = blocks
	}
	if msg.Model != "" {
		m["model"] = msg.Model
	}
	if msg.Provider != "" {
		m["provider"] = msg.Provider
	}
	if msg.Usage != nil {
		m["usage"] = map[string]any{
			"input":       msg.Usage.Input,
			"output":      msg.Usage.Output,
			"cacheRead":   msg.Usage.CacheRead,
			"cacheWrite":  msg.Usage.CacheWrite,
			"totalTokens": msg.Usage.Total,
		}
	}
	if msg.ToolCallID != "" {
		m["toolCallId"] = msg.ToolCallID
	}
	if msg.ToolName != "" {
		m["toolName"] = msg.ToolName
	}
	if msg.Details != nil {
		m["details"] = map[string]any{
			"status":     msg.Details.Status,
			"exitCode":   msg.Details.ExitCode,
			"durationMs": msg.Details.DurationMs,
		}
	}
	if msg.IsError {
		m["isError"] = true
	}
	return m
}

func marshalBlock(b *ContentBlock) map[string]any {
	m := map[string]any{"type": b.Type}
	switch b.Type {
	case BlockText:
		if b.Text != "" {
			m["text"] = b.Text
		}
	case BlockThinking:
		if b.Thinking != "" {
			m["thinking"] = b.Thinking
		}
	case BlockToolCall:
		if b.ID != "" {
			m["id"] = b.ID
		}
		if b.Name != "" {
			m["name"] = b.Name
		}
		if len(b.Arguments) > 0 {
			m["arguments"] = json.RawMessage(b.Arguments)
		}
	}
	return m
}
