// Package logging is the process-wide charmbracelet/log logger.
//
// The TUI owns the terminal, so it logs to a dated file under the data
// directory. CLI commands log to stderr instead.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

// Version is reported in the startup line.
const Version = "0.1.0"

var (
	// Logger is the global logger instance. Nil until Init or InitWriter.
	Logger *log.Logger

	logFile *os.File
)

// Init opens dir/booksearch-YYYY-MM-DD.log for appending and routes the global
// logger to it. level is a charmbracelet/log level name; empty means debug.
func Init(dir, level string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	name := fmt.Sprintf("booksearch-%s.log", time.Now().Format("2006-01-02"))
	f, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	if err := InitWriter(f, level); err != nil {
		f.Close()
		return err
	}
	logFile = f

	Logger.Info("booksearch started", "version", Version)
	return nil
}

// InitWriter routes the global logger to w.
func InitWriter(w io.Writer, level string) error {
	lvl := log.DebugLevel
	if level != "" {
		parsed, err := log.ParseLevel(level)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", level, err)
		}
		lvl = parsed
	}

	Logger = log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Level:           lvl,
	})
	return nil
}

// Close closes the log file, if one is open.
func Close() {
	if Logger != nil && logFile != nil {
		Logger.Info("booksearch shutting down")
	}
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}

// Info logs an info message
func Info(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

// Debug logs a debug message
func Debug(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

// Warn logs a warning message
func Warn(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

// Error logs an error message
func Error(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}

// WithPrefix returns a child logger, or a discarding one before Init.
func WithPrefix(prefix string) *log.Logger {
	if Logger != nil {
		return Logger.WithPrefix(prefix)
	}
	return log.New(io.Discard)
}
