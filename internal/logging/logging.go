// Package logging builds the charmbracelet/log logger shared by the store,
// the controller and the command runner.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

const DefaultPrefix = "taskflow"

type Options struct {
	Level  string // debug, info, warn, error
	Format string // text, json, logfmt
	File   string // appended to; empty means the fallback writer
	Prefix string
}

// ParseLevel is log.ParseLevel with "warning" accepted and empty meaning info.
func ParseLevel(s string) (log.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return log.InfoLevel, nil
	case "warning":
		return log.WarnLevel, nil
	}
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return log.InfoLevel, fmt.Errorf("unknown log level %q", s)
	}
	return lvl, nil
}

func ParseFormatter(s string) (log.Formatter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return log.TextFormatter, nil
	case "json":
		return log.JSONFormatter, nil
	case "logfmt":
		return log.LogfmtFormatter, nil
	}
	return log.TextFormatter, fmt.Errorf("unknown log format %q (want text, json or logfmt)", s)
}

// New returns a logger writing to opts.File, or to fallback when no file
// is set. The closer releases the file and is a no-op otherwise.
func New(opts Options, fallback io.Writer) (*log.Logger, io.Closer, error) {
	lvl, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}
	fmtr, err := ParseFormatter(opts.Format)
	if err != nil {
		return nil, nil, err
	}
	prefix := opts.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}

	out := fallback
	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, nil, fmt.Errorf("mkdir: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out, closer = f, f
	}
	if out == nil {
		out = io.Discard
	}

	logger := log.NewWithOptions(out, log.Options{
		Level:           lvl,
		Formatter:       fmtr,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          prefix,
	})
	return logger, closer, nil
}

// Discard is a logger that drops everything.
func Discard() *log.Logger { return log.New(io.Discard) }

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
