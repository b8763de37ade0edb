package buffer

import "github.com/charmbracelet/log"

// Option is a functional option for configuring a Buffer.
type Option func(*Buffer)

// WithLineEnding sets the line ending used when the content has none.
// Content with line breaks keeps its majority style.
func WithLineEnding(le LineEnding) Option {
	return func(b *Buffer) {
		b.lineEnding = le
	}
}

// WithLF configures the buffer to default to Unix line endings (\n).
func WithLF() Option {
	return WithLineEnding(LineEndingLF)
}

// WithCRLF configures the buffer to default to Windows line endings (\r\n).
func WithCRLF() Option {
	return WithLineEnding(LineEndingCRLF)
}

// WithNormalizeEOL controls whether loaded and inserted text has its
// line breaks rewritten to the buffer's style. It defaults to true.
func WithNormalizeEOL(normalize bool) Option {
	return func(b *Buffer) {
		b.normalizeEOL = normalize
	}
}

// WithReadOnly makes every edit fail with ErrReadOnly.
func WithReadOnly() Option {
	return func(b *Buffer) {
		b.readOnly = true
	}
}

// WithIntegrityChecks verifies the tree after every mutation and panics
// on the first violation.
func WithIntegrityChecks(enabled bool) Option {
	return func(b *Buffer) {
		b.debugChecks = enabled
	}
}

// WithSearchLimit caps the number of matches FindMatches returns when
// the caller passes no limit. Zero means unlimited.
func WithSearchLimit(limit int) Option {
	return func(b *Buffer) {
		if limit >= 0 {
			b.searchLimit = limit
		}
	}
}

// WithLogger sets the logger for debug events and integrity failures.
func WithLogger(logger *log.Logger) Option {
	return func(b *Buffer) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// DetectLineEnding returns the most common line ending in the text.
// A lone '\r' counts towards CRLF. Returns LineEndingLF if no line
// endings are found.
func DetectLineEnding(text string) LineEnding {
	var lfCount, crCount int

	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\r':
			crCount++
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
		case '\n':
			lfCount++
		}
	}

	if crCount > lfCount {
		return LineEndingCRLF
	}
	return LineEndingLF
}
