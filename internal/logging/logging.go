// Package logging builds the zerolog loggers used by the CLI and the TUI.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

const timeFormat = "15:04:05"

// New returns a console logger writing to w at the given level.
func New(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: timeFormat,
	}).Level(level).With().Timestamp().Logger()
}

// NewCLI logs to stderr so stdout stays clean for command output.
func NewCLI(level zerolog.Level) zerolog.Logger {
	return New(os.Stderr, level)
}

// OpenFile returns a logger appending to path, for when the TUI owns the
// terminal. The caller closes the returned file.
func OpenFile(path string, level zerolog.Level) (zerolog.Logger, *os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("creating log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("opening log file: %w", err)
	}
	logger := zerolog.New(zerolog.ConsoleWriter{
		Out:        f,
		TimeFormat: timeFormat,
		NoColor:    true,
	}).Level(level).With().Timestamp().Logger()
	return logger, f, nil
}
