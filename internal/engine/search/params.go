package search

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrBadPattern is returned when a regular expression does not compile.
var ErrBadPattern = errors.New("bad search pattern")

// Params describes a find request.
type Params struct {
	Pattern   string
	IsRegex   bool
	MatchCase bool

	// WordSeparators enables whole-word matching when non-empty.
	WordSeparators string
}

// Data is a compiled search.
type Data struct {
	// Regexp is nil when Literal is used.
	Regexp *regexp.Regexp

	// Literal is set for case-sensitive plain-text patterns.
	Literal string

	// Words is nil unless whole-word matching is enabled.
	Words *WordClassifier

	// Multiline is set when the pattern can match across a line break.
	Multiline bool

	// after matches one code point followed by the pattern as group 1.
	// FindFrom runs it from the code point before its start offset so
	// anchors see the preceding text.
	after *regexp.Regexp
}

// Compile turns p into a Data. A nil Data with a nil error means the
// pattern is empty and there is nothing to search for.
func (p Params) Compile() (*Data, error) {
	if p.Pattern == "" {
		return nil, nil
	}

	d := &Data{Multiline: p.isMultiline()}
	if p.WordSeparators != "" {
		d.Words = NewWordClassifier(p.WordSeparators)
	}

	if !p.IsRegex && p.MatchCase {
		d.Literal = p.Pattern
		return d, nil
	}

	src := p.Pattern
	if !p.IsRegex {
		src = regexp.QuoteMeta(src)
	}
	flags := "(?m)"
	if !p.MatchCase {
		flags = "(?mi)"
	}
	re, err := regexp.Compile(flags + src)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrBadPattern, p.Pattern, err)
	}
	after, err := regexp.Compile(flags + "(?s:.)(" + src + ")")
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrBadPattern, p.Pattern, err)
	}
	d.Regexp = re
	d.after = after
	return d, nil
}

// isMultiline reports whether the pattern may span a line break: a
// literal containing '\n', or a regex containing '\n' or one of the
// escapes \n, \r and \W.
func (p Params) isMultiline() bool {
	if !p.IsRegex {
		return strings.Contains(p.Pattern, "\n")
	}
	src := p.Pattern
	for i := 0; i < len(src); i++ {
		switch src[i] {
		case '\n':
			return true
		case '\\':
			i++
			if i >= len(src) {
				return false
			}
			switch src[i] {
			case 'n', 'r', 'W':
				return true
			}
		}
	}
	return false
}
