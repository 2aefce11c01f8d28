package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

const consoleTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// New builds the process logger. Development gets a human readable console
// writer, every other environment gets JSON lines on stdout.
func New(level, environment string) zerolog.Logger {
	return NewWithWriter(os.Stdout, level, environment)
}

func NewWithWriter(out io.Writer, level, environment string) zerolog.Logger {
	w := out
	if strings.EqualFold(environment, "development") {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: consoleTimeFormat}
	}
	return zerolog.New(w).Level(ParseLevel(level)).With().Timestamp().Logger()
}

// ParseLevel falls back to info for empty or unknown levels.
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
