// Package global builds the merged cross-session event stream: every entry
// of every known session, tagged with its origin and ordered by timestamp
// descending. The stream is rebuilt wholesale on each merge pass; freshness
// is the caller's responsibility.
package global

import (
	"log/slog"
	"sort"
	"time"

	"github.com/marcus/flightdeck/internal/entry"
	"github.com/marcus/flightdeck/internal/session"
)

// Event is one entry tagged with its originating session. Events exist only
// inside a merge snapshot.
type Event struct {
	Entry entry.Entry

	Agent            string
	SessionID        string
	SessionPath      string
	SessionStartedAt time.Time

	// Time is the parsed entry timestamp. Valid by construction: entries
	// failing the timestamp predicate never enter the stream.
	Time time.Time
}

// Merge loads the full session behind every summary and merges all entries
// with a valid timestamp into one descending-time stream. A session that
// fails to load is skipped so one corrupt file cannot blank the whole view;
// entries with invalid timestamps are dropped from the stream only (they
// remain visible in the per-session view).
func Merge(loader *session.Loader, summaries []session.Summary) []Event {
	var events []Event
	for i := range summaries {
		sum := &summaries[i]
		sess, err := loader.Load(sum.Agent, sum.Path)
		if err != nil {
			slog.Warn("skipping unreadable session in merge",
				"agent", sum.Agent, "path", sum.Path, "error", err)
			continue
		}
		for j := range sess.Entries {
			e := &sess.Entries[j]
			if !entry.IsValidTimestamp(e.Timestamp) {
				continue
			}
			t, ok := entry.ParseTimestamp(e.Timestamp)
			if !ok {
				continue
			}
			events = append(events, Event{
				Entry:            *e,
				Agent:            sum.Agent,
				SessionID:        sum.ID,
				SessionPath:      sum.Path,
				SessionStartedAt: sum.StartedAt,
				Time:             t,
			})
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Time.After(events[j].Time)
	})
	return events
}

// Times extracts the event timestamps, preserving order.
func Times(events []Event) []time.Time {
	out := make([]time.Time, len(events))
	for i := range events {
		out[i] = events[i].Time
	}
	return out
}
