// Package log configures the process-wide slog default.
package log

import (
	"log/slog"
	"os"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

var setupOnce sync.Once

// Setup installs the default logger. With a logFile, diagnostics go to a
// rotating JSON log; otherwise to a text handler on stderr.
func Setup(logFile string, debug bool) {
	setupOnce.Do(func() {
		level := slog.LevelInfo
		if debug {
			level = slog.LevelDebug
		}

		var handler slog.Handler
		if logFile != "" {
			rotator := &lumberjack.Logger{
				Filename:   logFile,
				MaxSize:    10, // MB
				MaxBackups: 3,
				MaxAge:     30, // days
			}
			handler = slog.NewJSONHandler(rotator, &slog.HandlerOptions{Level: level})
		} else {
			handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
		}
		slog.SetDefault(slog.New(handler))
	})
}
