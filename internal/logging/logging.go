// Package logging builds the daemon's structured logger: log/slog on top of
// a charmbracelet/log handler, optionally teeing into a rotated file.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	DefaultMaxSizeMB = 10
	DefaultMaxFiles  = 3
)

// Options configures New.
type Options struct {
	// Level is one of debug, info, warning, error.
	Level string
	// File, when set, receives a copy of every record.
	File      string
	MaxSizeMB int
	MaxFiles  int
	// Output defaults to os.Stderr.
	Output io.Writer
	Prefix string
}

// Logger is an *slog.Logger whose level can change at runtime.
type Logger struct {
	*slog.Logger
	handler *log.Logger
	file    *lumberjack.Logger
}

// New builds a logger from opts.
func New(opts Options) (*Logger, error) {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	var file *lumberjack.Logger
	if opts.File != "" {
		maxSize := opts.MaxSizeMB
		if maxSize <= 0 {
			maxSize = DefaultMaxSizeMB
		}
		maxFiles := opts.MaxFiles
		if maxFiles <= 0 {
			maxFiles = DefaultMaxFiles
		}
		file = &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    maxSize,
			MaxBackups: maxFiles,
		}
		out = io.MultiWriter(out, file)
	}

	prefix := opts.Prefix
	if prefix == "" {
		prefix = "bsptile"
	}
	handler := log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           ParseLevel(opts.Level),
	})

	return &Logger{
		Logger:  slog.New(handler),
		handler: handler,
		file:    file,
	}, nil
}

// SetLevel changes the minimum level.
func (l *Logger) SetLevel(level string) {
	l.handler.SetLevel(ParseLevel(level))
}

// Rotate starts a new log file, keeping the old one as a backup.
func (l *Logger) Rotate() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Rotate()
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}

// ParseLevel maps the configuration vocabulary onto log levels. Unknown
// values mean info.
func ParseLevel(s string) log.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func levelName(l log.Level) string {
	switch l {
	case log.DebugLevel:
		return "debug"
	case log.WarnLevel:
		return "warning"
	case log.ErrorLevel:
		return "error"
	}
	return "info"
}

// Level returns the current level in configuration form.
func (l *Logger) Level() string {
	return levelName(l.handler.GetLevel())
}
