// Package logging provides structured logging for ecotrack using zerolog.
//
// Loggers travel on the context: commands attach a configured logger with
// zerolog's WithContext, and packages retrieve it with FromContext. Subsystems
// tag their events with a component field via ComponentLogger so log output
// can be filtered per concern (cli, engine, forecast, storage).
package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Output format names accepted in Config.Format.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Output destination names accepted in Config.Output.
const (
	OutputStderr = "stderr"
	OutputStdout = "stdout"
	OutputFile   = "file"
)

// Config describes how the root logger should be constructed.
type Config struct {
	// Level is a zerolog level name (trace, debug, info, warn, error).
	// Unparsable values fall back to info.
	Level string
	// Format selects console (human-readable) or json output.
	Format string
	// Output selects the destination: stderr, stdout, or file.
	Output string
	// File is the log file path when Output is "file".
	File string
	// Caller enables file:line annotation on every event.
	Caller bool
}

// LogPathResult reports how the logger was actually constructed, including
// whether file output succeeded or fell back to stderr.
type LogPathResult struct {
	Logger         zerolog.Logger
	FilePath       string
	UsingFile      bool
	FallbackUsed   bool
	FallbackReason string

	file *os.File
}

// Close releases the log file handle, if one was opened.
func (r *LogPathResult) Close() error {
	if r == nil || r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// New builds a logger from cfg, silently falling back to stderr when file
// output cannot be opened. Use NewLoggerWithPath when the caller needs to
// know whether the fallback occurred.
func New(cfg Config) zerolog.Logger {
	result := NewLoggerWithPath(cfg)
	return result.Logger
}

// NewLoggerWithPath builds a logger from cfg and reports the resolved output
// path. When cfg requests file output and the file cannot be opened, the
// logger falls back to stderr and the result carries the fallback reason so
// the CLI can warn the user once instead of dying.
func NewLoggerWithPath(cfg Config) LogPathResult {
	lvl, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		lvl = zerolog.InfoLevel
	}

	result := LogPathResult{}

	var out io.Writer
	switch cfg.Output {
	case OutputFile:
		f, openErr := os.OpenFile(cfg.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
		if openErr != nil {
			result.FallbackUsed = true
			result.FallbackReason = openErr.Error()
			out = os.Stderr
		} else {
			result.file = f
			result.FilePath = cfg.File
			result.UsingFile = true
			out = f
		}
	case OutputStdout:
		out = os.Stdout
	default:
		out = os.Stderr
	}

	// File output is always JSON: console escape sequences in a log file
	// defeat grep and log shippers.
	if cfg.Format != FormatJSON && !result.UsingFile {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	logCtx := zerolog.New(out).Level(lvl).With().Timestamp()
	if cfg.Caller {
		logCtx = logCtx.Caller()
	}
	result.Logger = logCtx.Logger()
	return result
}

// defaultLogger is returned by FromContext when the context carries no
// logger, so library code can always log without nil checks.
//
//nolint:gochecknoglobals // fallback logger for contexts without one attached
var defaultLogger = func() zerolog.Logger {
	w := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(w).Level(zerolog.InfoLevel).With().Timestamp().Logger()
}()

// FromContext returns the logger attached to ctx, or a stderr console logger
// at info level when none is attached. The returned pointer is never nil.
func FromContext(ctx context.Context) *zerolog.Logger {
	logger := zerolog.Ctx(ctx)
	if logger.GetLevel() == zerolog.Disabled {
		return &defaultLogger
	}
	return logger
}

// ComponentLogger returns a child logger tagged with a component field.
// Subsystems use this once at construction so every event they emit is
// attributable.
func ComponentLogger(logger zerolog.Logger, component string) zerolog.Logger {
	return logger.With().Str("component", component).Logger()
}

// PrintLogPathMessage tells the user where logs are going when file output
// is active. Written to w (normally stderr) so it never pollutes stdout.
func PrintLogPathMessage(w io.Writer, path string) {
	_, _ = fmt.Fprintf(w, "Logs: %s\n", path)
}

// PrintFallbackWarning warns the user that file logging failed and output
// reverted to stderr.
func PrintFallbackWarning(w io.Writer, reason string) {
	_, _ = fmt.Fprintf(w, "Warning: file logging unavailable (%s), logging to stderr\n", reason)
}
