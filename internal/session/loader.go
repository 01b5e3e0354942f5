// Package session loads one agent session log and derives its statistics
// and metadata. Every load recomputes from the file; there is no cache, so
// concurrent growth of the log is picked up on the next call.
package session

import (
	"bufio"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/marcus/flightdeck/internal/entry"
	"github.com/marcus/flightdeck/internal/scan"
)

const (
	// maxLineSize caps the line scanner buffer; single entries carrying
	// large tool output can run into megabytes.
	maxLineSize = 10 * 1024 * 1024

	diagnosticLimit = 160 // bytes of a malformed line kept in the diagnostic

	// DefaultContextWindow approximates the model context limit used for the
	// token percentage. One fixed constant regardless of provider/model.
	DefaultContextWindow = 200_000
)

// Loader turns session log files into Sessions and Summaries.
type Loader struct {
	contextWindow int
}

// NewLoader creates a Loader. contextWindow <= 0 selects the default.
func NewLoader(contextWindow int) *Loader {
	if contextWindow <= 0 {
		contextWindow = DefaultContextWindow
	}
	return &Loader{contextWindow: contextWindow}
}

// LoadSummary reads and folds one session file into a Summary. An I/O
// failure returns an error; the caller decides whether to skip the session.
func (l *Loader) LoadSummary(agent, path string) (*Summary, error) {
	entries, err := readEntries(path)
	if err != nil {
		return nil, err
	}
	sum := l.summarize(agent, path, entries)
	return &sum, nil
}

// Load runs the same pipeline as LoadSummary but returns the full entry
// list alongside the rollup. The two share no cache; both recompute from
// the file contents at call time.
func (l *Loader) Load(agent, path string) (*Session, error) {
	entries, err := readEntries(path)
	if err != nil {
		return nil, err
	}
	return &Session{
		Summary: l.summarize(agent, path, entries),
		Entries: entries,
	}, nil
}

// readEntries parses every line of a session file, silently discarding
// blank and unrecognized lines. Malformed JSON lines are dropped with one
// truncated diagnostic per distinct line, so a file full of the same
// garbage does not flood the log.
func readEntries(path string) ([]entry.Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	var entries []entry.Entry
	var badLines map[uint64]struct{}

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	for scanner.Scan() {
		line := scanner.Bytes()
		e, err := entry.ParseLine(line)
		if err != nil {
			h := xxhash.Sum64(line)
			if badLines == nil {
				badLines = make(map[uint64]struct{})
			}
			if _, seen := badLines[h]; !seen {
				badLines[h] = struct{}{}
				slog.Debug("dropping malformed session line",
					"path", path, "error", err, "line", truncateLine(line))
			}
			continue
		}
		if e == nil {
			continue
		}
		entries = append(entries, *e)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// summarize folds the entry list into a Summary in a single pass.
func (l *Loader) summarize(agent, path string, entries []entry.Entry) Summary {
	base := filepath.Base(path)
	sum := Summary{
		ID:      scan.SessionIDFromPath(path),
		Agent:   agent,
		Path:    path,
		Topic:   scan.TopicFromName(base),
		Deleted: scan.IsDeletedName(base),
	}

	var firstValid, lastValid time.Time
	var changeModel, changeProvider string
	var assistantModel, assistantProvider string

	for i := range entries {
		e := &entries[i]
		sum.Stats.Entries++

		if entry.IsValidTimestamp(e.Timestamp) {
			if t, ok := entry.ParseTimestamp(e.Timestamp); ok {
				if firstValid.IsZero() || t.Before(firstValid) {
					firstValid = t
				}
				if t.After(lastValid) {
					lastValid = t
				}
			}
		}

		switch e.Kind {
		case entry.KindSession:
			if e.ID != "" {
				sum.ID = e.ID
			}
			if e.CWD != "" {
				sum.CWD = e.CWD
			}

		case entry.KindModelChange:
			if e.ModelID != "" {
				changeModel = e.ModelID
				changeProvider = e.Provider
			}

		case entry.KindCompaction:
			sum.HasCompaction = true

		case entry.KindMessage:
			msg := e.Message
			if msg == nil {
				continue
			}
			sum.Stats.Messages++
			switch msg.Role {
			case entry.RoleUser:
				sum.Stats.UserMessages++
			case entry.RoleAssistant:
				sum.Stats.AssistantMessages++
				sum.Stats.ToolCalls += len(msg.ToolCallNames())
				if msg.Model != "" {
					assistantModel = msg.Model
					assistantProvider = msg.Provider
				}
				if u := msg.Usage; u != nil {
					sum.Stats.InputTokens += u.Input
					sum.Stats.OutputTokens += u.Output
					sum.Stats.CacheReadTokens += u.CacheRead
					sum.Stats.CacheWriteTokens += u.CacheWrite
					sum.Stats.TotalTokens += u.Total
				}
			case entry.RoleToolResult:
				sum.Stats.ToolResults++
				if msg.IsError {
					sum.Stats.Errors++
				}
			}
		}
	}

	now := time.Now()
	sum.StartedAt = firstValid
	sum.LastActivity = lastValid
	if sum.StartedAt.IsZero() {
		sum.StartedAt = now
	}
	if sum.LastActivity.IsZero() {
		sum.LastActivity = now
	}

	// Model resolution order: latest model_change, then latest assistant
	// message carrying the field, then unknown.
	switch {
	case changeModel != "":
		sum.Model = changeModel
		sum.Provider = changeProvider
	case assistantModel != "":
		sum.Model = assistantModel
		sum.Provider = assistantProvider
	default:
		sum.Model = "unknown"
		sum.ModelUnknown = true
	}
	if sum.Provider == "" {
		sum.Provider = "unknown"
	}

	sum.TokenPct = int(math.Round(float64(sum.Stats.TotalTokens) / float64(l.contextWindow) * 100))
	return sum
}

func truncateLine(line []byte) string {
	if len(line) <= diagnosticLimit {
		return string(line)
	}
	return string(line[:diagnosticLimit]) + "..."
}
