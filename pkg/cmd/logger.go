package cmd

import (
	"log/slog"
	"os"
)

// initLogger installs the process-wide slog default handler: text by
// default, JSON behind -log-json, level selectable via -log-level. An
// unrecognized level falls back to info rather than failing the run.
func initLogger(flags *cmdFlags) {
	level := parseLevel(flags.LogLevel)

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if flags.LogJSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}

	return level
}
