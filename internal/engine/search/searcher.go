package search

import (
	"strings"
	"unicode/utf8"
)

// Match is one match inside a searched text. Offsets are bytes.
type Match struct {
	Start int
	End   int

	// Groups holds the whole match followed by capture groups. It is
	// only filled when capture groups are requested.
	Groups []string
}

// FindAll returns the non-overlapping matches in text, leftmost first.
// A zero-width match advances the scan by one code point. limit <= 0
// means no limit.
func (d *Data) FindAll(text string, limit int, captureGroups bool) []Match {
	if d == nil {
		return nil
	}
	if d.Regexp == nil {
		return d.findLiteral(text, limit, captureGroups)
	}

	var out []Match
	for _, loc := range d.Regexp.FindAllStringSubmatchIndex(text, -1) {
		if d.Words != nil && !d.Words.IsValidMatch(text, loc[0], loc[1]) {
			continue
		}
		m := Match{Start: loc[0], End: loc[1]}
		if captureGroups {
			m.Groups = groups(text, loc)
		}
		out = append(out, m)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

func (d *Data) findLiteral(text string, limit int, captureGroups bool) []Match {
	var out []Match
	for pos := 0; pos < len(text); {
		i := strings.Index(text[pos:], d.Literal)
		if i < 0 {
			break
		}
		start := pos + i
		end := start + len(d.Literal)
		pos = end

		if d.Words != nil && !d.Words.IsValidMatch(text, start, end) {
			continue
		}
		m := Match{Start: start, End: end}
		if captureGroups {
			m.Groups = []string{text[start:end]}
		}
		out = append(out, m)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

// FindFrom returns the first match in text that starts at or after
// from. Matches may overlap text before from, which still counts as
// context for anchors and whole-word checks.
func (d *Data) FindFrom(text string, from int, captureGroups bool) (Match, bool) {
	if d == nil || from < 0 || from > len(text) {
		return Match{}, false
	}
	for {
		var (
			m  Match
			ok bool
		)
		if d.Regexp == nil {
			m, ok = d.literalFrom(text, from, captureGroups)
		} else {
			m, ok = d.regexpFrom(text, from, captureGroups)
		}
		if !ok {
			return Match{}, false
		}
		if d.Words == nil || d.Words.IsValidMatch(text, m.Start, m.End) {
			return m, true
		}
		if m.Start >= len(text) {
			return Match{}, false
		}
		_, size := utf8.DecodeRuneInString(text[m.Start:])
		from = m.Start + size
	}
}

func (d *Data) literalFrom(text string, from int, captureGroups bool) (Match, bool) {
	i := strings.Index(text[from:], d.Literal)
	if i < 0 {
		return Match{}, false
	}
	m := Match{Start: from + i, End: from + i + len(d.Literal)}
	if captureGroups {
		m.Groups = []string{text[m.Start:m.End]}
	}
	return m, true
}

func (d *Data) regexpFrom(text string, from int, captureGroups bool) (Match, bool) {
	var (
		loc  []int
		base int
	)
	switch {
	case from == 0:
		loc = d.Regexp.FindStringSubmatchIndex(text)
	case d.after != nil:
		_, size := utf8.DecodeLastRuneInString(text[:from])
		base = from - size
		if loc = d.after.FindStringSubmatchIndex(text[base:]); loc != nil {
			loc = loc[2:]
		}
	default:
		base = from
		loc = d.Regexp.FindStringSubmatchIndex(text[from:])
	}
	if loc == nil {
		return Match{}, false
	}
	for i := range loc {
		if loc[i] >= 0 {
			loc[i] += base
		}
	}
	m := Match{Start: loc[0], End: loc[1]}
	if captureGroups {
		m.Groups = groups(text, loc)
	}
	return m, true
}

func groups(text string, loc []int) []string {
	out := make([]string, len(loc)/2)
	for i := range out {
		if loc[2*i] >= 0 {
			out[i] = text[loc[2*i]:loc[2*i+1]]
		}
	}
	return out
}
