package session

import (
	"time"

	"github.com/marcus/flightdeck/internal/entry"
)

// Stats holds the counters derived by one fold over a session's entries.
// Stats are always recomputed from the entry list, never persisted.
type Stats struct {
	Entries           int // raw entry count, valid timestamps or not
	Messages          int
	UserMessages      int
	AssistantMessages int
	ToolResults       int
	ToolCalls         int // toolCall blocks on assistant messages
	Errors            int // toolResult entries with isError

	InputTokens      int
	OutputTokens     int
	CacheReadTokens  int
	CacheWriteTokens int
	TotalTokens      int
}

// Summary is the per-file rollup handed to the presentation layer.
type Summary struct {
	ID      string
	Agent   string
	Path    string
	Topic   string
	Deleted bool
	CWD     string

	StartedAt    time.Time // earliest valid timestamp, else load time
	LastActivity time.Time // latest valid timestamp, else load time

	Model        string
	Provider     string
	ModelUnknown bool

	HasCompaction bool
	TokenPct      int

	Stats Stats
}

// Flags returns the summary's display flags.
func (s *Summary) Flags() []string {
	var flags []string
	if s.Stats.Errors > 0 {
		flags = append(flags, "err")
	}
	if s.HasCompaction {
		flags = append(flags, "compact")
	}
	if s.ModelUnknown {
		flags = append(flags, "model?")
	}
	return flags
}

// Session is the full ordered entry sequence plus its rollup.
type Session struct {
	Summary Summary
	Entries []entry.Entry
}
