// Package logger provides leveled logging for rproxy.
//
// Log output goes to stderr, separate from the user-facing output on stdout,
// so a reconciliation run can be traced with --verbose without disturbing
// --json output. The package keeps a small printf-style API on top of
// zerolog.
//
// # Log Levels
//
// Four log levels are supported, in order of severity:
//   - Debug: every filesystem operation and resolved path
//   - Info: per-event progress
//   - Warn: degraded behaviour (missing certificate material, skipped links)
//   - Error: failures surfaced to the caller
//
// By default only Warn and Error are shown. Init(true) enables all levels.
//
// # Usage
//
//	logger.Debug("Creating vhost symlink %s", link)
//	logger.WarnFields("Let's Encrypt key missing", map[string]interface{}{
//	    "domain": "example.com",
//	    "run_id": runID,
//	})
//
// # Output Format
//
// The console format mirrors the classic one-line layout:
//
//	[DEBUG] 2026-02-03 10:30:45 Creating vhost file domain=example.com
//
// SetFormat("json") switches to zerolog's JSON lines for log shippers.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Level represents a logging severity level.
type Level int

// Log levels from least to most severe.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l Level) zerolog() zerolog.Level {
	switch l {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelInfo:
		return zerolog.InfoLevel
	case LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

// ParseLevel converts a config string into a Level. Unknown values map to warn.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "error":
		return LevelError
	default:
		return LevelWarn
	}
}

// Output formats
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Logger handles leveled logging with thread-safe output.
type Logger struct {
	level  Level
	format string
	output io.Writer
	zl     zerolog.Logger
	mu     sync.Mutex
}

// Global logger instance.
var std = newLogger(LevelWarn, FormatConsole, os.Stderr)

func newLogger(level Level, format string, w io.Writer) *Logger {
	l := &Logger{level: level, format: format, output: w}
	l.rebuild()
	return l
}

// rebuild recreates the zerolog logger; callers hold l.mu (or own l).
func (l *Logger) rebuild() {
	out := l.output
	if out == nil {
		out = os.Stderr
	}

	var w io.Writer = zerolog.SyncWriter(out)
	if l.format != FormatJSON {
		w = zerolog.ConsoleWriter{
			Out:        w,
			NoColor:    true,
			TimeFormat: "2006-01-02 15:04:05",
			PartsOrder: []string{
				zerolog.LevelFieldName,
				zerolog.TimestampFieldName,
				zerolog.MessageFieldName,
			},
			FormatLevel: func(i interface{}) string {
				return fmt.Sprintf("[%s]", strings.ToUpper(fmt.Sprint(i)))
			},
		}
	}

	l.zl = zerolog.New(w).Level(l.level.zerolog()).With().Timestamp().Logger()
}

// Init initializes the global logger with the specified verbosity.
// When verbose is true, Debug and Info levels are enabled.
// When verbose is false, only Warn and Error are shown.
func Init(verbose bool) {
	if verbose {
		SetLevel(LevelDebug)
	} else {
		SetLevel(LevelWarn)
	}
}

// SetLevel sets the minimum log level for the global logger.
func SetLevel(level Level) {
	std.mu.Lock()
	defer std.mu.Unlock()
	std.level = level
	std.rebuild()
}

// SetFormat selects console or json output.
func SetFormat(format string) {
	std.mu.Lock()
	defer std.mu.Unlock()
	std.format = format
	std.rebuild()
}

// SetOutput sets the output destination for the global logger.
// Passing nil restores os.Stderr.
func SetOutput(w io.Writer) {
	std.mu.Lock()
	defer std.mu.Unlock()
	std.output = w
	std.rebuild()
}

// GetLevel returns the current log level.
func GetLevel() Level {
	std.mu.Lock()
	defer std.mu.Unlock()
	return std.level
}

func (l *Logger) current() zerolog.Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.zl
}

func (l *Logger) log(level Level, format string, args ...interface{}) {
	zl := l.current()
	zl.WithLevel(level.zerolog()).Msg(fmt.Sprintf(format, args...))
}

func (l *Logger) logFields(level Level, msg string, fields map[string]interface{}) {
	zl := l.current()
	evt := zl.WithLevel(level.zerolog())
	if len(fields) > 0 {
		evt = evt.Fields(fields)
	}
	evt.Msg(msg)
}

// Debug logs a debug message.
func Debug(format string, args ...interface{}) {
	std.log(LevelDebug, format, args...)
}

// Info logs an informational message.
func Info(format string, args ...interface{}) {
	std.log(LevelInfo, format, args...)
}

// Warn logs a warning message.
func Warn(format string, args ...interface{}) {
	std.log(LevelWarn, format, args...)
}

// Error logs an error message.
func Error(format string, args ...interface{}) {
	std.log(LevelError, format, args...)
}

// DebugFields logs a debug message with structured fields.
func DebugFields(msg string, fields map[string]interface{}) {
	std.logFields(LevelDebug, msg, fields)
}

// InfoFields logs an informational message with structured fields.
func InfoFields(msg string, fields map[string]interface{}) {
	std.logFields(LevelInfo, msg, fields)
}

// WarnFields logs a warning message with structured fields.
func WarnFields(msg string, fields map[string]interface{}) {
	std.logFields(LevelWarn, msg, fields)
}

// ErrorFields logs an error message with structured fields.
func ErrorFields(msg string, fields map[string]interface{}) {
	std.logFields(LevelError, msg, fields)
}

// LogError logs an error with additional context message.
func LogError(err error, msg string) {
	if err == nil {
		return
	}
	std.log(LevelError, "%s: %v", msg, err)
}
