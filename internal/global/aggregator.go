package global

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/marcus/flightdeck/internal/scan"
	"github.com/marcus/flightdeck/internal/session"
)

// State is the aggregation lifecycle of an Aggregator instance.
type State int

const (
	StateIdle State = iota
	StateInProgress
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInProgress:
		return "in-progress"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// ErrRefreshInProgress is returned when a refresh is requested while another
// pass is in flight. The request is dropped, not queued.
var ErrRefreshInProgress = errors.New("refresh already in progress")

// Snapshot is the result of one full aggregation pass. Snapshots are
// read-only once published; consumers (the filter engine included) must not
// mutate them.
type Snapshot struct {
	Agents    []scan.Agent
	Summaries []session.Summary
	Events    []Event
	MergedAt  time.Time
}

// Aggregator owns the session-summary collection and the merged global
// stream. One instance runs at most one pass at a time; sessions within a
// pass are processed sequentially to bound the I/O burst.
type Aggregator struct {
	scanner *scan.Scanner
	loader  *session.Loader

	mu    sync.Mutex
	state State
	snap  *Snapshot
	err   error
}

// NewAggregator creates an Aggregator over the given scanner and loader.
func NewAggregator(scanner *scan.Scanner, loader *session.Loader) *Aggregator {
	return &Aggregator{scanner: scanner, loader: loader, snap: &Snapshot{}}
}

// State returns the current lifecycle state and, when failed, the error.
func (a *Aggregator) State() (State, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state, a.err
}

// Snapshot returns the most recently published snapshot. Never nil; before
// the first successful pass it is empty.
func (a *Aggregator) Snapshot() *Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snap
}

// Refresh runs one full scan-summarize-merge pass and publishes the result.
// A call while another pass is in flight returns ErrRefreshInProgress. A
// root that cannot be enumerated fails the pass and publishes an empty
// snapshot; every smaller failure is recovered by skipping the session or
// agent it concerns.
func (a *Aggregator) Refresh(ctx context.Context) error {
	a.mu.Lock()
	if a.state == StateInProgress {
		a.mu.Unlock()
		return ErrRefreshInProgress
	}
	a.state = StateInProgress
	a.err = nil
	a.mu.Unlock()

	snap, err := a.run(ctx)
	a.mu.Lock()
	defer a.mu.Unlock()
	if err != nil {
		a.state = StateFailed
		a.err = err
		a.snap = &Snapshot{MergedAt: time.Now()}
		return err
	}
	a.state = StateReady
	a.snap = snap
	return nil
}

func (a *Aggregator) run(ctx context.Context) (*Snapshot, error) {
	agents, err := a.scanner.Agents()
	if err != nil {
		return nil, err
	}

	var summaries []session.Summary
	for _, agent := range agents {
		for _, f := range agent.Files {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			sum, err := a.loader.LoadSummary(agent.Name, f.Path)
			if err != nil {
				// File-scope failure: the session is omitted from both the
				// summary list and the merge.
				slog.Warn("skipping unreadable session",
					"agent", agent.Name, "path", f.Path, "error", err)
				continue
			}
			sum.Deleted = f.Deleted
			if f.Topic != "" {
				sum.Topic = f.Topic
			}
			summaries = append(summaries, *sum)
		}
	}

	return &Snapshot{
		Agents:    agents,
		Summaries: summaries,
		Events:    Merge(a.loader, summaries),
		MergedAt:  time.Now(),
	}, nil
}
