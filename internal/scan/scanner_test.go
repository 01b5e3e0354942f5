package scan

import (
	"os"
	"path/filepath"
	"testing"
)

func mkAgent(t *testing.T, root, name string, files ...string) {
	t.Helper()
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", name, err)
	}
	for _, f := range files {
		if err := os.WriteFile(filepath.Join(dir, f), []byte("{}\n"), 0o644); err != nil {
			t.Fatalf("write %s: %v", f, err)
		}
	}
}

func TestAgents(t *testing.T) {
	root := t.TempDir()
	mkAgent(t, root, "beta", "one.jsonl")
	mkAgent(t, root, "alpha", "one.jsonl", "two.jsonl", "notes.txt")
	mkAgent(t, root, "empty")
	if err := os.WriteFile(filepath.Join(root, "stray.jsonl"), []byte("{}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	agents, err := New(root).Agents()
	if err != nil {
		t.Fatalf("Agents: %v", err)
	}

	if len(agents) != 2 {
		t.Fatalf("agents = %d, want 2 (empty agent and stray file omitted)", len(agents))
	}
	if agents[0].Name != "alpha" || agents[1].Name != "beta" {
		t.Errorf("order = %s, %s; want descending session count", agents[0].Name, agents[1].Name)
	}
	if len(agents[0].Files) != 2 {
		t.Errorf("alpha files = %d, want 2 (non-jsonl skipped)", len(agents[0].Files))
	}
}

func TestAgentsSessionsSubdir(t *testing.T) {
	root := t.TempDir()
	mkAgent(t, root, "main")
	mkAgent(t, root, filepath.Join("main", "sessions"), "s1.jsonl")

	agents, err := New(root).Agents()
	if err != nil {
		t.Fatalf("Agents: %v", err)
	}
	if len(agents) != 1 || len(agents[0].Files) != 1 {
		t.Fatalf("agents = %+v, want main with one file from sessions/", agents)
	}
	if agents[0].Name != "main" {
		t.Errorf("Name = %q, want main", agents[0].Name)
	}
}

func TestAgentsMissingRoot(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "nope")).Agents()
	if err == nil {
		t.Fatal("Agents on missing root returned nil error")
	}
}

func TestFileMetadata(t *testing.T) {
	root := t.TempDir()
	mkAgent(t, root, "alpha",
		"plain.jsonl",
		"gone.deleted.jsonl",
		"chat-topic-0a1b-2c3d.jsonl",
	)

	agents, err := New(root).Agents()
	if err != nil {
		t.Fatalf("Agents: %v", err)
	}
	byName := map[string]File{}
	for _, f := range agents[0].Files {
		byName[f.Name] = f
	}

	if byName["plain.jsonl"].Deleted || byName["plain.jsonl"].Topic != "" {
		t.Errorf("plain file flagged: %+v", byName["plain.jsonl"])
	}
	if !byName["gone.deleted.jsonl"].Deleted {
		t.Error("soft-delete marker not detected")
	}
	if got := byName["chat-topic-0a1b-2c3d.jsonl"].Topic; got != "0a1b-2c3d" {
		t.Errorf("Topic = %q, want 0a1b-2c3d", got)
	}
}

func TestTopicFromName(t *testing.T) {
	tests := []struct {
		name  string
		topic string
	}{
		{"x-topic-deadbeef.jsonl", "deadbeef"},
		{"x-topic-0a-1b-2c.jsonl", "0a-1b-2c"},
		{"x-topic-XYZ.jsonl", ""},   // uppercase is not a topic id
		{"x-subject-0a.jsonl", ""},  // wrong marker
		{"plain.jsonl", ""},
	}
	for _, tt := range tests {
		if got := TopicFromName(tt.name); got != tt.topic {
			t.Errorf("TopicFromName(%q) = %q, want %q", tt.name, got, tt.topic)
		}
	}
}

func TestSessionIDFromPath(t *testing.T) {
	if got := SessionIDFromPath("/tmp/agents/alpha/sess-1.jsonl"); got != "sess-1" {
		t.Errorf("SessionIDFromPath = %q, want sess-1", got)
	}
}
