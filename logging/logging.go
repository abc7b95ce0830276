/*
Copyright © 2026 Jayson Grace <jayson.e.grace@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/

// Package logging provides the adapter's console logger with plain, color and
// JSON output. Components log through the context-based helpers
// (InfoContext, DebugContext, ...) so the logger configured by the CLI or the
// Pulumi program propagates to every declaration.
package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// LogLevel represents the severity level of a log message.
// Ordered from least to most severe for numeric comparison.
type LogLevel int

const (
	DebugLevel LogLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "INFO"
	}
}

// OutputType represents the output format for logs
type OutputType int

const (
	PlainOutput OutputType = iota
	ColorOutput
	JSONOutput
)

// ParseOutputType maps a format name to an OutputType. Unknown names yield PlainOutput.
func ParseOutputType(format string) OutputType {
	switch strings.ToLower(format) {
	case "json":
		return JSONOutput
	case "color":
		return ColorOutput
	default:
		return PlainOutput
	}
}

// CustomLogger writes leveled messages to a console writer and command
// results to an output writer.
type CustomLogger struct {
	mu            sync.Mutex
	LogLevel      slog.Level
	OutputType    OutputType
	Quiet         bool
	Verbose       bool
	ConsoleWriter io.Writer
	OutputWriter  io.Writer
}

// NewCustomLogger creates a logger writing diagnostics to stderr and results to stdout.
func NewCustomLogger(level slog.Level) *CustomLogger {
	return &CustomLogger{
		LogLevel:      level,
		OutputType:    PlainOutput,
		ConsoleWriter: os.Stderr,
		OutputWriter:  os.Stdout,
	}
}

// NewCustomLoggerWithOptions creates a logger from CLI-style settings.
// Verbose forces the level down to debug.
func NewCustomLoggerWithOptions(levelStr, format string, quiet, verbose bool) *CustomLogger {
	l := NewCustomLogger(DetermineLogLevel(levelStr))
	l.OutputType = ParseOutputType(format)
	l.Quiet = quiet
	l.Verbose = verbose
	if verbose && l.LogLevel > slog.LevelDebug {
		l.LogLevel = slog.LevelDebug
	}
	return l
}

// SetQuiet enables or disables quiet mode, in which only errors are shown.
func (l *CustomLogger) SetQuiet(quiet bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Quiet = quiet
}

// SetVerbose enables or disables verbose mode, in which debug messages are shown.
func (l *CustomLogger) SetVerbose(verbose bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Verbose = verbose
}

// IsQuiet returns whether the logger is in quiet mode.
func (l *CustomLogger) IsQuiet() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.Quiet
}

// enabledLocked must be called while holding l.mu.
func (l *CustomLogger) enabledLocked(level LogLevel) bool {
	if l.Quiet {
		return level == ErrorLevel
	}
	if l.Verbose {
		return true
	}
	return toSlog(level) >= l.LogLevel
}

func toSlog(level LogLevel) slog.Level {
	switch level {
	case DebugLevel:
		return slog.LevelDebug
	case WarnLevel:
		return slog.LevelWarn
	case ErrorLevel:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *CustomLogger) render(level LogLevel, msg string, ts time.Time) string {
	switch l.OutputType {
	case JSONOutput:
		line, err := json.Marshal(struct {
			Time    string `json:"time"`
			Level   string `json:"level"`
			Message string `json:"msg"`
		}{ts.Format(time.RFC3339), level.String(), msg})
		if err != nil {
			return msg
		}
		return string(line)
	case ColorOutput:
		stamp := ts.Format("2006-01-02 15:04:05")
		switch level {
		case DebugLevel:
			return fmt.Sprintf("[%s] %s", stamp, color.HiBlackString("[DEBUG] %s", msg))
		case WarnLevel:
			return fmt.Sprintf("[%s] %s", stamp, color.HiYellowString("[WARN] %s", msg))
		case ErrorLevel:
			return fmt.Sprintf("[%s] %s", stamp, color.HiRedString("[ERROR] %s", msg))
		default:
			return fmt.Sprintf("[%s] %s", stamp, color.HiGreenString("[INFO] %s", msg))
		}
	default:
		return fmt.Sprintf("[%s] %s", ts.Format("2006-01-02 15:04:05"), msg)
	}
}

func (l *CustomLogger) log(level LogLevel, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)

	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.enabledLocked(level) || l.ConsoleWriter == nil {
		return
	}
	line := l.render(level, msg, time.Now())
	if _, err := fmt.Fprintln(l.ConsoleWriter, line); err != nil {
		fmt.Fprintln(os.Stderr, line)
	}
}

// Debug logs a debug message.
func (l *CustomLogger) Debug(format string, args ...interface{}) {
	l.log(DebugLevel, format, args...)
}

// Info logs an informational message.
func (l *CustomLogger) Info(format string, args ...interface{}) {
	l.log(InfoLevel, format, args...)
}

// Warn logs a warning message.
func (l *CustomLogger) Warn(format string, args ...interface{}) {
	l.log(WarnLevel, format, args...)
}

// Error logs an error message. The first argument may be an error, a format
// string or any other value.
func (l *CustomLogger) Error(firstArg interface{}, args ...interface{}) {
	switch v := firstArg.(type) {
	case error:
		l.log(ErrorLevel, "%s", v.Error())
	case string:
		l.log(ErrorLevel, v, args...)
	default:
		l.log(ErrorLevel, "%v", v)
	}
}

// Errorf logs a formatted error message.
func (l *CustomLogger) Errorf(format string, args ...interface{}) {
	l.log(ErrorLevel, format, args...)
}

// Output writes a command result. JSON output encodes data as indented JSON,
// strings are written verbatim and other values with fmt.
func (l *CustomLogger) Output(data interface{}) error {
	l.mu.Lock()
	w := l.OutputWriter
	jsonOut := l.OutputType == JSONOutput
	l.mu.Unlock()

	if w == nil {
		w = os.Stdout
	}

	if s, ok := data.(string); ok {
		_, err := io.WriteString(w, s)
		return err
	}
	if jsonOut {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	}
	_, err := fmt.Fprintln(w, data)
	return err
}

// DetermineLogLevel converts a level name to an slog.Level, defaulting to info.
func DetermineLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

var (
	defaultMu     sync.RWMutex
	defaultLogger = NewCustomLogger(slog.LevelInfo)
)

// Initialize configures the process-wide default logger.
func Initialize(level, format string, quiet, verbose bool) error {
	switch strings.ToLower(format) {
	case "", "text", "plain", "color", "json":
	default:
		return fmt.Errorf("unknown log format %q (expected text, color or json)", format)
	}

	l := NewCustomLoggerWithOptions(level, format, quiet, verbose)
	defaultMu.Lock()
	defaultLogger = l
	defaultMu.Unlock()
	return nil
}

// Default returns the process-wide default logger.
func Default() *CustomLogger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// Warn logs a warning through the default logger.
func Warn(format string, args ...interface{}) {
	Default().Warn(format, args...)
}

// Info logs an informational message through the default logger.
func Info(format string, args ...interface{}) {
	Default().Info(format, args...)
}

type loggerKeyType struct{}

var loggerKey = loggerKeyType{}

// WithLogger returns a new context carrying l.
func WithLogger(ctx context.Context, l *CustomLogger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext returns the logger stored in ctx, or the default logger.
func FromContext(ctx context.Context) *CustomLogger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey).(*CustomLogger); ok && l != nil {
			return l
		}
	}
	return Default()
}

// DebugContext logs a debug message using the logger from context.
func DebugContext(ctx context.Context, format string, args ...interface{}) {
	FromContext(ctx).Debug(format, args...)
}

// InfoContext logs an informational message using the logger from context.
func InfoContext(ctx context.Context, format string, args ...interface{}) {
	FromContext(ctx).Info(format, args...)
}

// WarnContext logs a warning message using the logger from context.
func WarnContext(ctx context.Context, format string, args ...interface{}) {
	FromContext(ctx).Warn(format, args...)
}

// ErrorContext logs an error message using the logger from context.
func ErrorContext(ctx context.Context, firstArg interface{}, args ...interface{}) {
	FromContext(ctx).Error(firstArg, args...)
}

// OutputContext writes a command result using the logger from context.
func OutputContext(ctx context.Context, data interface{}) error {
	return FromContext(ctx).Output(data)
}
