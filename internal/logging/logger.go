// Package logging provides structured console and file logging.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// Config holds logger configuration
type Config struct {
	Level   string // debug, info, warn, error (default: info)
	File    string // optional log file, appended to
	Console bool   // write human-readable output to stdout
}

// DefaultConfig returns console-only logging at info level.
func DefaultConfig() Config {
	return Config{
		Level:   "info",
		Console: true,
	}
}

// Logger wraps zerolog with an optional file sink.
type Logger struct {
	zlog zerolog.Logger
	file *os.File
}

// New creates a Logger writing to the console and, if cfg.File is set, a file.
func New(cfg Config) (*Logger, error) {
	var writers []io.Writer
	var file *os.File

	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		file = f
		writers = append(writers, f)
	}
	if cfg.Console || len(writers) == 0 {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: "15:04:05",
		})
	}

	level, err := ParseLevel(cfg.Level)
	if err != nil {
		if file != nil {
			file.Close()
		}
		return nil, err
	}

	zlog := zerolog.New(io.MultiWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Str("app", "bloodmoon").
		Logger()

	return &Logger{zlog: zlog, file: file}, nil
}

// NewWithWriter builds a Logger over an arbitrary writer (used by tests).
func NewWithWriter(w io.Writer, level zerolog.Level) *Logger {
	return &Logger{zlog: zerolog.New(w).Level(level).With().Timestamp().Logger()}
}

// ParseLevel maps a config level name to a zerolog level. Empty means info.
func ParseLevel(name string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "info":
		return zerolog.InfoLevel, nil
	case "debug":
		return zerolog.DebugLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	default:
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q", name)
	}
}

// Component returns a zerolog.Logger with the component field set
func (l *Logger) Component(name string) zerolog.Logger {
	return l.zlog.With().Str("component", name).Logger()
}

// Zerolog returns the underlying zerolog.Logger
func (l *Logger) Zerolog() zerolog.Logger {
	return l.zlog
}

// Close closes the log file, if any.
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// OnOff renders a toggle state the way status lines print it.
func OnOff(b bool) string {
	if b {
		return "ON"
	}
	return "OFF"
}
