// Package filter evaluates a multi-facet filter specification over a
// per-session entry list or the global event stream. Facets are independent
// and combined by logical AND in a single pass, so applying them in any
// order yields the same result; filtering is stable and never mutates its
// input.
package filter

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/marcus/flightdeck/internal/entry"
	"github.com/marcus/flightdeck/internal/global"
)

// Class is the coarse entry classification facet.
type Class string

const (
	ClassAll       Class = "all"
	ClassUser      Class = "user"
	ClassAssistant Class = "assistant"
	ClassTool      Class = "tool"
	ClassSystem    Class = "system"
)

// Time window presets for the global view. WindowAll imposes no constraint.
const (
	WindowAll = time.Duration(0)
	Window15m = 15 * time.Minute
	Window1h  = time.Hour
	Window6h  = 6 * time.Hour
	Window24h = 24 * time.Hour
)

// ParseWindow resolves a window preset name.
func ParseWindow(s string) (time.Duration, bool) {
	switch s {
	case "", "all":
		return WindowAll, true
	case "15m":
		return Window15m, true
	case "1h":
		return Window1h, true
	case "6h":
		return Window6h, true
	case "24h":
		return Window24h, true
	}
	return 0, false
}

// Filter is one filter specification. Every facet is optional; the zero
// Filter matches everything.
type Filter struct {
	Class         Class         // coarse class; "" or ClassAll matches all
	Kind          entry.Kind    // explicit discriminator (global view); "" matches all
	Role          string        // exact message role; non-messages never satisfy it
	Category      Category      // tool category; "" matches all
	ToolNameQuery string        // fuzzy query against tool names
	OnlyErrors    bool          // restrict to failed toolResult entries
	Query         string        // free-text fuzzy query
	Window        time.Duration // global view only; 0 imposes no constraint
}

// MatchEntry evaluates all facets except the time window against one entry.
func (f *Filter) MatchEntry(e *entry.Entry) bool {
	return f.matchClass(e) &&
		f.matchKind(e) &&
		f.matchRole(e) &&
		f.matchCategory(e) &&
		f.matchToolName(e) &&
		f.matchErrors(e) &&
		f.matchQuery(e)
}

// MatchEvent evaluates all facets including the time window.
func (f *Filter) MatchEvent(ev *global.Event, now time.Time) bool {
	if f.Window != WindowAll && ev.Time.Before(now.Add(-f.Window)) {
		return false
	}
	return f.MatchEntry(&ev.Entry)
}

// Entries returns the entries satisfying the filter, preserving order.
func Entries(entries []entry.Entry, f Filter) []entry.Entry {
	out := make([]entry.Entry, 0, len(entries))
	for i := range entries {
		if f.MatchEntry(&entries[i]) {
			out = append(out, entries[i])
		}
	}
	return out
}

// Events returns the events satisfying the filter, preserving order. The
// time window is evaluated relative to now.
func Events(events []global.Event, f Filter, now time.Time) []global.Event {
	out := make([]global.Event, 0, len(events))
	for i := range events {
		if f.MatchEvent(&events[i], now) {
			out = append(out, events[i])
		}
	}
	return out
}

func (f *Filter) matchClass(e *entry.Entry) bool {
	switch f.Class {
	case "", ClassAll:
		return true
	case ClassUser:
		return e.Kind == entry.KindMessage && e.Message != nil && e.Message.Role == entry.RoleUser
	case ClassAssistant:
		return e.Kind == entry.KindMessage && e.Message != nil && e.Message.Role == entry.RoleAssistant
	case ClassTool:
		return e.Kind == entry.KindMessage && e.Message != nil && e.Message.Role == entry.RoleToolResult
	case ClassSystem:
		return e.Kind != entry.KindMessage
	}
	return false
}

func (f *Filter) matchKind(e *entry.Entry) bool {
	return f.Kind == "" || e.Kind == f.Kind
}

func (f *Filter) matchRole(e *entry.Entry) bool {
	if f.Role == "" {
		return true
	}
	return e.Kind == entry.KindMessage && e.Message != nil && e.Message.Role == f.Role
}

// matchCategory applies to any tool-call name on an assistant message (any
// match qualifies the whole message) or to the tool name on a toolResult.
func (f *Filter) matchCategory(e *entry.Entry) bool {
	if f.Category == "" {
		return true
	}
	msg := e.Message
	if e.Kind != entry.KindMessage || msg == nil {
		return false
	}
	switch msg.Role {
	case entry.RoleAssistant:
		for _, name := range msg.ToolCallNames() {
			if Categorize(name) == f.Category {
				return true
			}
		}
	case entry.RoleToolResult:
		return Categorize(msg.ToolName) == f.Category
	}
	return false
}

func (f *Filter) matchToolName(e *entry.Entry) bool {
	if f.ToolNameQuery == "" {
		return true
	}
	msg := e.Message
	if e.Kind != entry.KindMessage || msg == nil {
		return false
	}
	switch msg.Role {
	case entry.RoleAssistant:
		for _, name := range msg.ToolCallNames() {
			if Match(name, f.ToolNameQuery) {
				return true
			}
		}
	case entry.RoleToolResult:
		return msg.ToolName != "" && Match(msg.ToolName, f.ToolNameQuery)
	}
	return false
}

func (f *Filter) matchErrors(e *entry.Entry) bool {
	if !f.OnlyErrors {
		return true
	}
	return e.Kind == entry.KindMessage && e.Message != nil &&
		e.Message.Role == entry.RoleToolResult && e.Message.IsError
}

func (f *Filter) matchQuery(e *entry.Entry) bool {
	if f.Query == "" {
		return true
	}
	return Match(searchText(e), f.Query)
}

// searchText composes the haystack for the free-text facet. For messages:
// role, tool names, concatenated text blocks, and name+arguments of every
// tool call. Non-message entries search against their full serialized form.
func searchText(e *entry.Entry) string {
	if e.Kind != entry.KindMessage || e.Message == nil {
		raw, err := json.Marshal(e)
		if err != nil {
			return ""
		}
		return string(raw)
	}

	msg := e.Message
	var parts []string
	parts = append(parts, msg.Role)
	if msg.ToolName != "" {
		parts = append(parts, msg.ToolName)
	}
	for _, b := range msg.Content {
		switch b.Type {
		case entry.BlockText:
			if b.Text != "" {
				parts = append(parts, b.Text)
			}
		case entry.BlockToolCall:
			if b.Name != "" {
				parts = append(parts, b.Name+string(b.Arguments))
			}
		}
	}
	return strings.Join(parts, " ")
}
