// Package logging builds the application logger. The TUI owns the
// terminal, so output goes to a file unless stderr is requested.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	clog "github.com/charmbracelet/log"
)

const defaultFile = "engage/engage.log"

// Options configures New.
type Options struct {
	Level  string // debug, info, warn, error
	File   string // empty means the XDG state dir
	Stderr bool   // also write to stderr
	Prefix string
}

// New opens the log file and returns a logger writing to it. The returned
// closer releases the file.
func New(opts Options) (*clog.Logger, io.Closer, error) {
	level, err := clog.ParseLevel(opts.Level)
	if err != nil {
		level = clog.InfoLevel
	}

	path := opts.File
	if path == "" {
		path, err = xdg.StateFile(defaultFile)
		if err != nil {
			return nil, nil, fmt.Errorf("log path: %w", err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log: %w", err)
	}

	var w io.Writer = f
	if opts.Stderr {
		w = io.MultiWriter(f, os.Stderr)
	}

	logger := clog.NewWithOptions(w, clog.Options{
		Prefix:          opts.Prefix,
		Level:           level,
		ReportTimestamp: true,
	})
	return logger, f, nil
}

// Discard returns a logger that drops everything.
func Discard() *clog.Logger {
	return clog.New(io.Discard)
}
