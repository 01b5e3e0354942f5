package global

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/marcus/flightdeck/internal/scan"
	"github.com/marcus/flightdeck/internal/session"
)

func newTestAggregator(t *testing.T) (*Aggregator, string) {
	t.Helper()
	root := t.TempDir()
	agg := NewAggregator(scan.New(root), session.NewLoader(0))
	return agg, root
}

func mkSession(t *testing.T, root, agent, name string, lines ...string) {
	t.Helper()
	dir := filepath.Join(root, agent)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeSession(t, dir, name, lines...)
}

func TestAggregatorRefresh(t *testing.T) {
	agg, root := newTestAggregator(t)
	mkSession(t, root, "alpha", "s1.jsonl",
		`{"type":"session","id":"sess-1","timestamp":"2026-08-20T10:00:00Z","cwd":"/w"}`,
		`{"type":"message","id":"u1","timestamp":"2026-08-20T10:00:01Z","message":{"role":"user","content":[]}}`,
	)
	mkSession(t, root, "beta", "s2.jsonl",
		`{"type":"message","id":"u2","timestamp":"2026-08-20T10:00:02Z","message":{"role":"user","content":[]}}`,
	)

	if state, _ := agg.State(); state != StateIdle {
		t.Fatalf("initial state = %v, want idle", state)
	}
	if err := agg.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if state, _ := agg.State(); state != StateReady {
		t.Fatalf("state = %v, want ready", state)
	}

	snap := agg.Snapshot()
	if len(snap.Agents) != 2 || len(snap.Summaries) != 2 {
		t.Errorf("snapshot agents/summaries = %d/%d, want 2/2", len(snap.Agents), len(snap.Summaries))
	}
	if len(snap.Events) != 3 {
		t.Errorf("snapshot events = %d, want 3", len(snap.Events))
	}
	if snap.MergedAt.IsZero() {
		t.Error("MergedAt not set")
	}
}

func TestAggregatorRefreshRebuildsWholesale(t *testing.T) {
	agg, root := newTestAggregator(t)
	mkSession(t, root, "alpha", "s1.jsonl",
		`{"type":"message","id":"u1","timestamp":"2026-08-20T10:00:01Z","message":{"role":"user","content":[]}}`,
	)
	if err := agg.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	first := agg.Snapshot()

	mkSession(t, root, "alpha", "s2.jsonl",
		`{"type":"message","id":"u2","timestamp":"2026-08-20T10:00:02Z","message":{"role":"user","content":[]}}`,
	)
	if err := agg.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	second := agg.Snapshot()

	if len(first.Events) != 1 || len(second.Events) != 2 {
		t.Errorf("events = %d then %d, want 1 then 2", len(first.Events), len(second.Events))
	}
}

func TestAggregatorBadRoot(t *testing.T) {
	agg := NewAggregator(scan.New(filepath.Join(t.TempDir(), "nope")), session.NewLoader(0))

	err := agg.Refresh(context.Background())
	if err == nil {
		t.Fatal("Refresh on missing root returned nil error")
	}
	state, stateErr := agg.State()
	if state != StateFailed || stateErr == nil {
		t.Errorf("state = %v (%v), want failed with error", state, stateErr)
	}
	snap := agg.Snapshot()
	if len(snap.Summaries) != 0 || len(snap.Events) != 0 {
		t.Errorf("failed pass published non-empty snapshot: %+v", snap)
	}
}

func TestAggregatorDropsOverlappingRefresh(t *testing.T) {
	agg, _ := newTestAggregator(t)

	agg.mu.Lock()
	agg.state = StateInProgress
	agg.mu.Unlock()

	if err := agg.Refresh(context.Background()); !errors.Is(err, ErrRefreshInProgress) {
		t.Fatalf("Refresh = %v, want ErrRefreshInProgress", err)
	}
}

func TestAggregatorSkipsCorruptFile(t *testing.T) {
	agg, root := newTestAggregator(t)
	mkSession(t, root, "alpha", "ok.jsonl",
		`{"type":"message","id":"u1","timestamp":"2026-08-20T10:00:01Z","message":{"role":"user","content":[]}}`,
	)
	// A session file that enumerates but cannot be opened.
	if err := os.Symlink(filepath.Join(root, "gone"), filepath.Join(root, "alpha", "broken.jsonl")); err != nil {
		t.Fatal(err)
	}

	if err := agg.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	snap := agg.Snapshot()
	if len(snap.Summaries) != 1 {
		t.Errorf("summaries = %d, want 1 (corrupt entry skipped)", len(snap.Summaries))
	}
}
