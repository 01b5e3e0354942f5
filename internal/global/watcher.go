package global

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// NewWatcher watches the log root and its agent subdirectories for session
// file changes and feeds them to the coalescer. fsnotify does not recurse,
// so agent directories (and their sessions/ subdirectories) are added
// individually; directories created later are picked up from create events.
func NewWatcher(root string, c *Coalescer) (io.Closer, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(root); err != nil {
		_ = watcher.Close()
		return nil, err
	}
	addAgentDirs(watcher, root)

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&fsnotify.Create != 0 {
					if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
						_ = watcher.Add(event.Name)
						continue
					}
				}
				if strings.HasSuffix(event.Name, ".jsonl") {
					c.Note()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Debug("log watcher error", "error", err)
			}
		}
	}()

	return watcher, nil
}

func addAgentDirs(watcher *fsnotify.Watcher, root string) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dir := filepath.Join(root, e.Name())
		_ = watcher.Add(dir)
		sessions := filepath.Join(dir, "sessions")
		if info, err := os.Stat(sessions); err == nil && info.IsDir() {
			_ = watcher.Add(sessions)
		}
	}
}
