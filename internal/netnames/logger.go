package netnames

import (
	"log/slog"
	"os"
)

// levelOff sits above every slog level, silencing the handler entirely.
const levelOff = slog.Level(100)

var slogLevels = map[string]slog.Level{
	"disabled": levelOff,
	"trace":    slog.LevelDebug,
	"debug":    slog.LevelDebug,
	"info":     slog.LevelInfo,
	"warn":     slog.LevelWarn,
	"error":    slog.LevelError,
}

// NewLogger builds the decorator's debug logger from a config log level.
// Output goes to stderr; stdout belongs to the MCP transport. Unknown levels
// fall back to error.
func NewLogger(logLevel string) *slog.Logger {
	level, ok := slogLevels[logLevel]
	if !ok {
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
