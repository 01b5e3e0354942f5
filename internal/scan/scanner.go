// Package scan enumerates agents and their session log files under a
// configured log root. Each agent is one subdirectory of the root; each
// session is a .jsonl file either directly in the agent directory or in its
// sessions/ subdirectory.
package scan

import (
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// deletedMarker in a filename flags the session as soft-deleted. The file is
// still read and enumerated.
const deletedMarker = ".deleted."

// topicPattern extracts a topic identifier from a filename segment of the
// form -topic-<lowercase-hex-and-dashes>.
var topicPattern = regexp.MustCompile(`-topic-([0-9a-f]+(?:-[0-9a-f]+)*)`)

// File is one enumerated session log file.
type File struct {
	Path    string
	Name    string
	Deleted bool
	Topic   string
}

// Agent is a named collection of session files.
type Agent struct {
	Name  string
	Files []File
}

// Scanner enumerates agents and sessions under a log root.
type Scanner struct {
	root string
}

// New creates a Scanner for the given log root.
func New(root string) *Scanner {
	return &Scanner{root: root}
}

// Root returns the configured log root.
func (s *Scanner) Root() string { return s.root }

// Agents enumerates all agents with at least one session file, ordered by
// descending session count (name ascending on ties). An agent directory that
// cannot be listed is skipped; only a root that cannot be listed is an error.
func (s *Scanner) Agents() ([]Agent, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, err
	}

	var agents []Agent
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dir := filepath.Join(s.root, e.Name())
		files := sessionFiles(dir)
		if len(files) == 0 {
			continue
		}
		agents = append(agents, Agent{Name: e.Name(), Files: files})
	}

	sort.SliceStable(agents, func(i, j int) bool {
		if len(agents[i].Files) != len(agents[j].Files) {
			return len(agents[i].Files) > len(agents[j].Files)
		}
		return agents[i].Name < agents[j].Name
	})
	return agents, nil
}

// sessionFiles lists the .jsonl files for one agent directory, falling back
// to a sessions/ subdirectory when the directory itself holds none.
func sessionFiles(dir string) []File {
	files := listJSONL(dir)
	if len(files) == 0 {
		files = listJSONL(filepath.Join(dir, "sessions"))
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files
}

func listJSONL(dir string) []File {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Debug("skipping unlistable agent directory", "dir", dir, "error", err)
		}
		return nil
	}
	var files []File
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".jsonl") {
			continue
		}
		files = append(files, File{
			Path:    filepath.Join(dir, name),
			Name:    name,
			Deleted: IsDeletedName(name),
			Topic:   TopicFromName(name),
		})
	}
	return files
}

// IsDeletedName reports whether a filename carries the soft-delete marker.
func IsDeletedName(name string) bool {
	return strings.Contains(name, deletedMarker)
}

// TopicFromName extracts the topic identifier from a filename, or "".
func TopicFromName(name string) string {
	m := topicPattern.FindStringSubmatch(name)
	if m == nil {
		return ""
	}
	return m[1]
}

// SessionIDFromPath derives the fallback session id from a file path, used
// when the file carries no session header entry.
func SessionIDFromPath(path string) string {
	return strings.TrimSuffix(filepath.Base(path), ".jsonl")
}
