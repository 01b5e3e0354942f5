// Package config holds the runtime configuration, loaded from a JSON file
// with defaults applied for anything unset.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/marcus/flightdeck/internal/session"
)

// Config is the root configuration structure.
type Config struct {
	// LogRoot is the directory tree holding one subdirectory per agent.
	LogRoot string `json:"logRoot"`

	// ContextWindow is the fixed context-window constant used for the token
	// percentage. One value regardless of provider/model.
	ContextWindow int `json:"contextWindow"`

	// CoalesceWindow is the quiet period before file changes trigger a
	// refresh in watch mode.
	CoalesceWindow time.Duration `json:"coalesceWindow"`

	// LogFile, when set, routes diagnostics to a rotating file instead of
	// stderr.
	LogFile string `json:"logFile"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		LogRoot:        filepath.Join(home, ".openclaw", "agents"),
		ContextWindow:  session.DefaultContextWindow,
		CoalesceWindow: 250 * time.Millisecond,
	}
}

// Path returns the config file location (~/.config/flightdeck/config.json).
func Path() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "flightdeck", "config.json")
}

// Load reads the config file at path, or Path() when path is empty. A
// missing file yields the defaults; unset fields are defaulted
// individually.
func Load(path string) (*Config, error) {
	if path == "" {
		path = Path()
	}
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.LogRoot == "" {
		cfg.LogRoot = def.LogRoot
	}
	cfg.LogRoot = expandTilde(cfg.LogRoot)
	cfg.LogFile = expandTilde(cfg.LogFile)
	if cfg.ContextWindow <= 0 {
		cfg.ContextWindow = def.ContextWindow
	}
	if cfg.CoalesceWindow <= 0 {
		cfg.CoalesceWindow = def.CoalesceWindow
	}
}

func expandTilde(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
