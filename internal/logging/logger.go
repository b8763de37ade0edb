// Package logging wraps charmbracelet/log with the defaults used across
// piecetree.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// Field names shared by log call sites.
const (
	FieldLength    = "length"
	FieldLines     = "lines"
	FieldPieces    = "pieces"
	FieldEOL       = "eol"
	FieldRevision  = "revision"
	FieldFile      = "file"
	FieldError     = "err"
	FieldPattern   = "pattern"
	FieldMatches   = "matches"
	FieldVersion   = "version"
	FieldCommit    = "commit"
	FieldBuilt     = "built"
)

var (
	defaultMu     sync.Mutex
	defaultLogger *log.Logger
)

// New creates a stderr logger at level. Valid levels are "debug",
// "info", "warn" and "error"; anything else means info.
func New(level string) *log.Logger {
	return NewWithWriter(os.Stderr, level)
}

// NewWithWriter creates a logger writing to w.
func NewWithWriter(w io.Writer, level string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: false,
		ReportCaller:    false,
	})
	logger.SetLevel(ParseLevel(level))
	return logger
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return NewWithWriter(io.Discard, "error")
}

// ParseLevel maps a level name to a log.Level.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

// Default returns the package-level logger.
func Default() *log.Logger {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultLogger == nil {
		defaultLogger = New("info")
	}
	return defaultLogger
}

// SetDefault replaces the package-level logger.
func SetDefault(logger *log.Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = logger
}

// SetLevel updates the level of the package-level logger.
func SetLevel(level string) {
	Default().SetLevel(ParseLevel(level))
}
