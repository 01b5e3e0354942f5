// Command flightdeck scans a log root of AI agent sessions, aggregates
// per-session statistics, merges all sessions into one global event
// timeline, and prints the result. It is the thin presentation boundary in
// front of the ingestion/aggregation/query pipeline; richer frontends
// consume the same internal packages.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/marcus/flightdeck/internal/config"
	"github.com/marcus/flightdeck/internal/entry"
	"github.com/marcus/flightdeck/internal/filter"
	"github.com/marcus/flightdeck/internal/global"
	"github.com/marcus/flightdeck/internal/histogram"
	"github.com/marcus/flightdeck/internal/log"
	"github.com/marcus/flightdeck/internal/scan"
	"github.com/marcus/flightdeck/internal/session"
)

// Version is set at build time via ldflags.
var Version = ""

var (
	configPath  = flag.String("config", "", "path to config file")
	logRoot     = flag.String("root", "", "log root directory (overrides config)")
	debugFlag   = flag.Bool("debug", false, "enable debug logging")
	watchFlag   = flag.Bool("watch", false, "keep running and refresh on file changes")
	versionFlag = flag.Bool("version", false, "print version and exit")

	queryFlag  = flag.String("q", "", "fuzzy free-text query over the global stream")
	errorsFlag = flag.Bool("errors", false, "only failed tool results")
	windowFlag = flag.String("window", "all", "time window: 15m, 1h, 6h, 24h or all")
	eventCount = flag.Int("n", 20, "number of global events to print")
)

func main() {
	flag.Parse()

	if *versionFlag {
		fmt.Printf("flightdeck version %s\n", effectiveVersion())
		os.Exit(0)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *logRoot != "" {
		cfg.LogRoot = *logRoot
	}
	log.Setup(cfg.LogFile, *debugFlag)

	window, ok := filter.ParseWindow(*windowFlag)
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown window %q\n", *windowFlag)
		os.Exit(1)
	}
	f := filter.Filter{
		Query:      *queryFlag,
		OnlyErrors: *errorsFlag,
		Window:     window,
	}

	scanner := scan.New(cfg.LogRoot)
	loader := session.NewLoader(cfg.ContextWindow)
	agg := global.NewAggregator(scanner, loader)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := refreshAndPrint(ctx, agg, f); err != nil {
		fmt.Fprintf(os.Stderr, "aggregation failed: %v\n", err)
		os.Exit(1)
	}
	if !*watchFlag {
		return
	}

	triggers := make(chan global.RefreshTrigger, 1)
	coalescer := global.NewCoalescer(cfg.CoalesceWindow, triggers)
	defer coalescer.Stop()

	watcher, err := global.NewWatcher(cfg.LogRoot, coalescer)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to watch %s: %v\n", cfg.LogRoot, err)
		os.Exit(1)
	}
	defer func() { _ = watcher.Close() }()

	for {
		select {
		case <-ctx.Done():
			return
		case <-triggers:
			// A trigger landing while a pass runs is dropped by the
			// aggregator guard; the next file change re-triggers.
			if err := refreshAndPrint(ctx, agg, f); err != nil && err != global.ErrRefreshInProgress {
				fmt.Fprintf(os.Stderr, "refresh failed: %v\n", err)
			}
		}
	}
}

func refreshAndPrint(ctx context.Context, agg *global.Aggregator, f filter.Filter) error {
	if err := agg.Refresh(ctx); err != nil {
		return err
	}
	printSnapshot(agg.Snapshot(), f)
	return nil
}

func printSnapshot(snap *global.Snapshot, f filter.Filter) {
	fmt.Printf("\n%d agents, %d sessions, %d global events (merged %s)\n",
		len(snap.Agents), len(snap.Summaries), len(snap.Events),
		snap.MergedAt.Format("15:04:05"))

	for i := range snap.Summaries {
		s := &snap.Summaries[i]
		flags := strings.Join(s.Flags(), ",")
		if flags != "" {
			flags = " [" + flags + "]"
		}
		fmt.Printf("  %-12s %-24s %4d msgs  %3d%% ctx  %s  %s%s\n",
			s.Agent, s.ID, s.Stats.Messages, s.TokenPct,
			s.Model, s.LastActivity.Format("Jan 2 15:04"), flags)
	}

	now := snap.MergedAt
	events := filter.Events(snap.Events, f, now)
	if len(events) == 0 {
		return
	}

	h := histogram.Build(global.Times(events), 96)
	cols := histogram.ExpandForDisplay(h.Counts, 48)
	fmt.Printf("\n  %s %s %s  (peak %d)\n",
		h.StartLabel, renderBar(cols, h.MaxCount), h.EndLabel, h.MaxCount)

	n := *eventCount
	if n > len(events) {
		n = len(events)
	}
	for i := 0; i < n; i++ {
		ev := &events[i]
		fmt.Printf("  %s  %-12s %-10s %s\n",
			ev.Time.Format("15:04:05"), ev.Agent, ev.Entry.Kind, describe(ev))
	}
}

// renderBar draws the histogram as one line of block characters.
var barRunes = []rune(" ▁▂▃▄▅▆▇█")

func renderBar(counts []int, maxCount int) string {
	if maxCount == 0 {
		return strings.Repeat(" ", len(counts))
	}
	var b strings.Builder
	for _, c := range counts {
		idx := c * (len(barRunes) - 1) / maxCount
		b.WriteRune(barRunes[idx])
	}
	return b.String()
}

func describe(ev *global.Event) string {
	e := &ev.Entry
	if e.Kind != entry.KindMessage || e.Message == nil {
		return string(e.Kind)
	}
	msg := e.Message
	text := msg.Text()
	if text == "" && msg.ToolName != "" {
		text = msg.ToolName
	}
	if names := msg.ToolCallNames(); len(names) > 0 {
		text = strings.Join(names, ",") + " " + text
	}
	text = strings.ReplaceAll(text, "\n", " ")
	if len(text) > 80 {
		text = text[:77] + "..."
	}
	return msg.Role + ": " + text
}

func effectiveVersion() string {
	if Version != "" {
		return Version
	}
	return "dev"
}
