// Package logger builds the zerolog logger shared by all organizer components.
package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// Options controls where and how log events are written.
type Options struct {
	// Level is one of trace, debug, info, warn, error. Empty means info.
	Level string
	// File appends JSON events to the given path when set.
	File string
	// Console enables human-readable output on stdout.
	Console bool
	// JSON switches console output from pretty to raw JSON.
	JSON bool
}

// New builds a logger from opts. The returned close function releases the
// log file, if one was opened, and is never nil.
func New(opts Options) (zerolog.Logger, func() error, error) {
	noop := func() error { return nil }

	level, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
	if err != nil || opts.Level == "" {
		level = zerolog.InfoLevel
	}

	var writers []io.Writer
	if opts.Console {
		if opts.JSON {
			writers = append(writers, os.Stdout)
		} else {
			writers = append(writers, zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"})
		}
	}

	closeFn := noop
	if opts.File != "" {
		if dir := filepath.Dir(opts.File); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return zerolog.Nop(), noop, err
			}
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return zerolog.Nop(), noop, err
		}
		writers = append(writers, f)
		closeFn = f.Close
	}

	if len(writers) == 0 {
		return zerolog.Nop(), noop, nil
	}

	log := zerolog.New(io.MultiWriter(writers...)).Level(level).With().Timestamp().Logger()
	return log, closeFn, nil
}
