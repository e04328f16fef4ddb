package logger

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fatih/color"
)

type SourceFileMode int

const (
	// Nop does nothing.
	Nop SourceFileMode = iota

	// ShortFile produces only the filename (for example main.go:69).
	ShortFile

	// LongFile produces the full file path.
	LongFile
)

type Options struct {
	// Level reports the minimum level to log.
	Level slog.Leveler

	TimeFormat string

	SrcFileMode SourceFileMode

	// SrcFileLength pads the source location to a fixed width, 0 disables padding.
	SrcFileLength int

	MsgPrefix string

	MsgColor *color.Color

	// MsgLength pads the message to a fixed width when attributes follow, 0 disables padding.
	MsgLength int

	NoColor bool
}

var DefaultOptions = &Options{
	Level:       slog.LevelDebug,
	TimeFormat:  time.DateTime,
	SrcFileMode: ShortFile,
	MsgPrefix:   color.HiWhiteString("| "),
	MsgColor:    color.New(),
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}
