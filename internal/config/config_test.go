package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/marcus/flightdeck/internal/session"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogRoot == "" {
		t.Error("LogRoot not defaulted")
	}
	if cfg.ContextWindow != session.DefaultContextWindow {
		t.Errorf("ContextWindow = %d", cfg.ContextWindow)
	}
	if cfg.CoalesceWindow != 250*time.Millisecond {
		t.Errorf("CoalesceWindow = %v", cfg.CoalesceWindow)
	}
}

func TestLoadOverridesAndDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"logRoot":"~/logs","contextWindow":100000}`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ContextWindow != 100000 {
		t.Errorf("ContextWindow = %d, want file value", cfg.ContextWindow)
	}
	home, _ := os.UserHomeDir()
	if cfg.LogRoot != filepath.Join(home, "logs") {
		t.Errorf("LogRoot = %q, want tilde expanded", cfg.LogRoot)
	}
	if cfg.CoalesceWindow != 250*time.Millisecond {
		t.Errorf("CoalesceWindow = %v, want defaulted", cfg.CoalesceWindow)
	}
}

func TestLoadBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("Load on malformed config returned nil error")
	}
}
