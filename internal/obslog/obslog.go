// Package obslog provides the leveled, file-backed logger used
// throughout the wallet core. It is deliberately the only thing
// allowed to write secrets' absence to disk: secure.Bytes
// (internal/secure) formats as a redacted placeholder under every fmt
// verb, so there is no printf verb that can leak a seed, private key, password, or
// mnemonic through this logger even by accident.
//
// Adapted from the teacher's internal/config/logging.go, split into
// its own package per this repo's ambient-stack layout so logging
// doesn't pull in the rest of internal/config's YAML schema.
package obslog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Level represents logging verbosity.
type Level int

// Log level constants.
const (
	LevelOff Level = iota
	LevelError
	LevelDebug
)

// ParseLevel parses a log level string, defaulting to LevelError on an
// unrecognized value.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "none":
		return LevelOff
	case "error":
		return LevelError
	case "debug":
		return LevelDebug
	default:
		return LevelError
	}
}

// String returns the string representation of a log level.
func (l Level) String() string {
	switch l {
	case LevelOff:
		return "off"
	case LevelDebug:
		return "debug"
	case LevelError:
		return "error"
	default:
		return "error"
	}
}

// Logger writes to a single rotated-by-the-OS log file. It supports
// both printf-style logging (Debug, Error) and structured logging via
// Structured().
type Logger struct {
	mu         sync.Mutex
	level      Level
	file       *os.File
	filePath   string
	slogger    *slog.Logger
	jsonOutput bool
}

// New creates a new Logger. filePath == "" or level == LevelOff
// produces a logger that silently discards everything.
func New(level Level, filePath string) (*Logger, error) {
	logger := &Logger{level: level, filePath: filePath}

	if level == LevelOff || filePath == "" {
		return logger, nil
	}

	if strings.HasPrefix(filePath, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		filePath = filepath.Join(home, filePath[2:])
	}

	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, err
	}

	// #nosec G304 -- log file path is from validated config
	f, err := os.OpenFile(filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, err
	}

	logger.file = f
	logger.filePath = filePath
	logger.initSlogger()

	return logger, nil
}

// NewJSON creates a logger that emits structured JSON lines instead of
// the default text format.
func NewJSON(level Level, filePath string) (*Logger, error) {
	logger, err := New(level, filePath)
	if err != nil {
		return nil, err
	}
	logger.SetJSONOutput(true)
	return logger, nil
}

// Null returns a logger that discards all output.
func Null() *Logger {
	return &Logger{level: LevelOff}
}

func (l *Logger) initSlogger() {
	if l.file == nil {
		return
	}

	opts := &slog.HandlerOptions{Level: l.slogLevel()}

	var handler slog.Handler
	if l.jsonOutput {
		handler = slog.NewJSONHandler(l.file, opts)
	} else {
		handler = slog.NewTextHandler(l.file, opts)
	}

	l.slogger = slog.New(handler)
}

func (l *Logger) slogLevel() slog.Level {
	switch l.level {
	case LevelDebug:
		return slog.LevelDebug
	case LevelOff, LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SetJSONOutput switches between text and JSON handlers. Must be
// called before logging starts for full effect.
func (l *Logger) SetJSONOutput(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.jsonOutput = enabled
	l.initSlogger()
}

// Structured returns the underlying *slog.Logger, or nil if logging is
// disabled.
func (l *Logger) Structured() *slog.Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.slogger
}

// DebugAttrs logs a debug message with structured attributes.
func (l *Logger) DebugAttrs(msg string, attrs ...slog.Attr) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.level == LevelOff || l.level < LevelDebug || l.slogger == nil {
		return
	}
	l.slogger.LogAttrs(context.Background(), slog.LevelDebug, msg, attrs...)
}

// ErrorAttrs logs an error message with structured attributes.
func (l *Logger) ErrorAttrs(msg string, attrs ...slog.Attr) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.level == LevelOff || l.slogger == nil {
		return
	}
	l.slogger.LogAttrs(context.Background(), slog.LevelError, msg, attrs...)
}

// Close closes the underlying log file, if any.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// SetLevel changes the log level.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// Level returns the current log level.
func (l *Logger) Level() Level {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// Debug logs a printf-style debug message.
func (l *Logger) Debug(format string, args ...any) {
	l.log(LevelDebug, format, args...)
}

// Error logs a printf-style error message.
func (l *Logger) Error(format string, args ...any) {
	l.log(LevelError, format, args...)
}

// Writer returns an io.Writer that writes to the logger at level.
func (l *Logger) Writer(level Level) io.Writer {
	return &logWriter{logger: l, level: level}
}

func (l *Logger) log(level Level, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.level == LevelOff || level > l.level || l.file == nil {
		return
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05.000")
	msg := fmt.Sprintf(format, args...)
	_, _ = fmt.Fprintf(l.file, "%s [%s] %s\n", timestamp, strings.ToUpper(level.String()), msg)
}

type logWriter struct {
	logger *Logger
	level  Level
}

func (w *logWriter) Write(p []byte) (int, error) {
	w.logger.log(w.level, "%s", strings.TrimSpace(string(p)))
	return len(p), nil
}
