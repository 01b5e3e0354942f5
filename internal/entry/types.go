package entry

import "encoding/json"

// Kind discriminates the closed set of record types found in a session log.
type Kind string

const (
	KindSession       Kind = "session"
	KindModelChange   Kind = "model_change"
	KindThinkingLevel Kind = "thinking_level_change"
	KindCustom        Kind = "custom"
	KindCompaction    Kind = "compaction"
	KindMessage       Kind = "message"
)

// Message roles.
const (
	RoleUser       = "user"
	RoleAssistant  = "assistant"
	RoleToolResult = "toolResult"
)

// Content block types.
const (
	BlockText     = "text"
	BlockThinking = "thinking"
	BlockToolCall = "toolCall"
	BlockImage    = "image"
)

// Entry is one normalized record decoded from a session log line.
// Entries are produced only by ParseLine and are immutable afterwards.
// Fields beyond the base set are populated per Kind; the rest stay zero.
type Entry struct {
	Kind      Kind
	ID        string
	ParentID  *string
	Timestamp string // wire timestamp string; see IsValidTimestamp

	// Session header fields (KindSession)
	Version int
	CWD     string

	// Model change fields (KindModelChange)
	Provider string
	ModelID  string

	// Thinking level change fields (KindThinkingLevel)
	ThinkingLevel string

	// Custom event fields (KindCustom)
	CustomType string
	Data       json.RawMessage

	// Message payload (KindMessage)
	Message *Message
}

// Message holds the payload of a KindMessage entry.
type Message struct {
	Role     string // user, assistant or toolResult
	Content  []ContentBlock
	Model    string // assistant messages may carry the model that produced them
	Provider string
	Usage    *Usage // assistant messages only

	// toolResult fields
	ToolCallID string
	ToolName   string
	Details    *ToolResultDetails
	IsError    bool
}

// ContentBlock is a single block in a message's content array. Block order
// is preserved exactly as found on the wire so tool results can be
// associated with their toolCall block by index downstream.
type ContentBlock struct {
	Type      string
	Text      string          // text blocks
	Thinking  string          // thinking blocks
	ID        string          // toolCall blocks
	Name      string          // toolCall blocks
	Arguments json.RawMessage // toolCall blocks
}

// Usage tracks token counts for an assistant message.
type Usage struct {
	Input      int
	Output     int
	CacheRead  int
	CacheWrite int
	Total      int
}

// ToolResultDetails holds extra information attached to toolResult messages.
type ToolResultDetails struct {
	Status     string
	ExitCode   int
	DurationMs int
}

// ToolCallNames returns the names of all toolCall blocks of a message.
func (m *Message) ToolCallNames() []string {
	var names []string
	for _, b := range m.Content {
		if b.Type == BlockToolCall && b.Name != "" {
			names = append(names, b.Name)
		}
	}
	return names
}

// Text returns the concatenated text blocks of a message.
func (m *Message) Text() string {
	var out []byte
	for _, b := range m.Content {
		if b.Type != BlockText || b.Text == "" {
			continue
		}
		if len(out) > 0 {
			out = append(out, '\n')
		}
		out = append(out, b.Text...)
	}
	return string(out)
}
