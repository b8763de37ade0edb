package search

import (
	"unicode"
	"unicode/utf8"
)

// DefaultWordSeparators is the separator set used for whole-word search
// when the caller has no language-specific one.
const DefaultWordSeparators = "`~!@#$%^&*()-=+[{]}\\|;:'\",.<>/?"

// WordClassifier decides which code points separate words.
type WordClassifier struct {
	ascii [utf8.RuneSelf]bool
	other map[rune]struct{}
}

// NewWordClassifier builds a classifier from a separator set.
func NewWordClassifier(separators string) *WordClassifier {
	c := &WordClassifier{}
	for _, r := range separators {
		if r < utf8.RuneSelf {
			c.ascii[r] = true
			continue
		}
		if c.other == nil {
			c.other = make(map[rune]struct{})
		}
		c.other[r] = struct{}{}
	}
	return c
}

// IsSeparator reports whether r ends a word.
func (c *WordClassifier) IsSeparator(r rune) bool {
	if r >= 0 && r < utf8.RuneSelf && c.ascii[r] {
		return true
	}
	if _, ok := c.other[r]; ok {
		return true
	}
	return unicode.IsSpace(r)
}

// IsValidMatch reports whether text[start:end] is bounded by word
// boundaries on both sides.
func (c *WordClassifier) IsValidMatch(text string, start, end int) bool {
	return c.leftIsBoundary(text, start, end) && c.rightIsBoundary(text, start, end)
}

func (c *WordClassifier) leftIsBoundary(text string, start, end int) bool {
	if start == 0 {
		return true
	}
	before, _ := utf8.DecodeLastRuneInString(text[:start])
	if c.IsSeparator(before) {
		return true
	}
	if end > start {
		first, _ := utf8.DecodeRuneInString(text[start:end])
		if c.IsSeparator(first) {
			return true
		}
	}
	return false
}

func (c *WordClassifier) rightIsBoundary(text string, start, end int) bool {
	if end == len(text) {
		return true
	}
	after, _ := utf8.DecodeRuneInString(text[end:])
	if c.IsSeparator(after) {
		return true
	}
	if end > start {
		last, _ := utf8.DecodeLastRuneInString(text[start:end])
		if c.IsSeparator(last) {
			return true
		}
	}
	return false
}
