package piecetree

import (
	"sort"

	"github.com/dshills/piecetree/internal/engine/search"
)

// Multi-line patterns are matched over windows of lines joined with
// "\n". Each window owns windowLines lines and reads lookaheadLines
// further so a match may run past the end of its window.
const (
	windowLines    = 256
	lookaheadLines = 64
)

// FindMatch is a match in document coordinates.
type FindMatch struct {
	Range Range

	// Matches holds the matched text followed by capture groups when
	// capture groups were requested.
	Matches []string
}

// FindMatches returns matches of data inside r in document order.
// limit <= 0 means no limit. Multi-line patterns see every line
// terminator as "\n".
func (t *Tree) FindMatches(r Range, data *search.Data, captureGroups bool, limit int) []FindMatch {
	if data == nil {
		return nil
	}
	r = t.clampRange(r)
	if data.Multiline {
		return t.findMatchesMultiline(r, data, captureGroups, limit)
	}
	return t.findMatchesLineByLine(r, data, captureGroups, limit)
}

// FindNextMatch returns the first match starting at or after start,
// wrapping around to the beginning of the document.
func (t *Tree) FindNextMatch(start Position, data *search.Data, captureGroups bool) (FindMatch, bool) {
	if data == nil {
		return FindMatch{}, false
	}
	start = t.PositionAt(t.OffsetAt(start))

	if data.Multiline {
		if m := t.findMatchesMultiline(Range{Start: start, End: t.endPosition()}, data, captureGroups, 1); len(m) > 0 {
			return m[0], true
		}
		if m := t.findMatchesMultiline(t.fullRange(), data, captureGroups, 1); len(m) > 0 {
			return m[0], true
		}
		return FindMatch{}, false
	}

	if m, ok := data.FindFrom(t.LineContent(start.Line), start.Column-1, captureGroups); ok {
		return lineMatch(start.Line, m), true
	}
	for line := start.Line + 1; line <= t.lineCnt; line++ {
		if m := data.FindAll(t.LineContent(line), 1, captureGroups); len(m) > 0 {
			return lineMatch(line, m[0]), true
		}
	}
	for line := 1; line <= start.Line; line++ {
		if m := data.FindAll(t.LineContent(line), 1, captureGroups); len(m) > 0 {
			return lineMatch(line, m[0]), true
		}
	}
	return FindMatch{}, false
}

// FindPreviousMatch returns the last match ending at or before start,
// wrapping around to the end of the document.
func (t *Tree) FindPreviousMatch(start Position, data *search.Data, captureGroups bool) (FindMatch, bool) {
	if data == nil {
		return FindMatch{}, false
	}
	start = t.PositionAt(t.OffsetAt(start))

	if data.Multiline {
		if m := t.findMatchesMultiline(Range{Start: Position{Line: 1, Column: 1}, End: start}, data, captureGroups, 0); len(m) > 0 {
			return m[len(m)-1], true
		}
		if m := t.findMatchesMultiline(t.fullRange(), data, captureGroups, 0); len(m) > 0 {
			return m[len(m)-1], true
		}
		return FindMatch{}, false
	}

	matches := data.FindAll(t.LineContent(start.Line), 0, captureGroups)
	for i := len(matches) - 1; i >= 0; i-- {
		if matches[i].End <= start.Column-1 {
			return lineMatch(start.Line, matches[i]), true
		}
	}
	for line := start.Line - 1; line >= 1; line-- {
		if m := data.FindAll(t.LineContent(line), 0, captureGroups); len(m) > 0 {
			return lineMatch(line, m[len(m)-1]), true
		}
	}
	for line := t.lineCnt; line >= start.Line; line-- {
		if m := data.FindAll(t.LineContent(line), 0, captureGroups); len(m) > 0 {
			return lineMatch(line, m[len(m)-1]), true
		}
	}
	return FindMatch{}, false
}

func (t *Tree) findMatchesLineByLine(r Range, data *search.Data, captureGroups bool, limit int) []FindMatch {
	var out []FindMatch
	for line := r.Start.Line; line <= r.End.Line; line++ {
		text := t.LineContent(line)
		from, to := 0, len(text)
		if line == r.Start.Line {
			from = min(r.Start.Column-1, len(text))
		}
		if line == r.End.Line {
			to = min(r.End.Column-1, len(text))
		}
		if from > to {
			continue
		}

		remaining := 0
		if limit > 0 {
			remaining = limit - len(out)
		}
		for _, m := range data.FindAll(text[from:to], remaining, captureGroups) {
			m.Start += from
			m.End += from
			out = append(out, lineMatch(line, m))
		}
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

// findMatchesMultiline slides a window of lines over r. A match belongs
// to the window whose own lines contain its start; matches overlapping
// one already reported are dropped.
func (t *Tree) findMatchesMultiline(r Range, data *search.Data, captureGroups bool, limit int) []FindMatch {
	var out []FindMatch
	buf := getScratch()
	defer putScratch(buf)

	var last Position
	for first := r.Start.Line; first <= r.End.Line; first += windowLines {
		lastLine := min(first+windowLines+lookaheadLines-1, r.End.Line)
		ownLast := min(first+windowLines-1, r.End.Line)

		// lineOffsets[i] is where line first+i starts in the window;
		// the first line may begin mid-line at column base.
		*buf = (*buf)[:0]
		lineOffsets := make([]int, 0, lastLine-first+1)
		base := 0
		for line := first; line <= lastLine; line++ {
			text := t.LineContent(line)
			to := len(text)
			if line == r.End.Line {
				to = min(r.End.Column-1, len(text))
			}
			from := 0
			if line == r.Start.Line {
				from = min(r.Start.Column-1, to)
				base = from
			}
			if line > first {
				*buf = append(*buf, '\n')
			}
			lineOffsets = append(lineOffsets, len(*buf))
			*buf = append(*buf, text[from:to]...)
		}

		window := string(*buf)
		toPosition := func(offset int) Position {
			i := sort.Search(len(lineOffsets), func(i int) bool { return lineOffsets[i] > offset }) - 1
			col := offset - lineOffsets[i] + 1
			if first+i == r.Start.Line {
				col += base
			}
			return Position{Line: first + i, Column: col}
		}

		for _, m := range data.FindAll(window, 0, captureGroups) {
			start := toPosition(m.Start)
			if start.Line > ownLast {
				break
			}
			if start.Before(last) {
				continue
			}
			end := toPosition(m.End)
			out = append(out, FindMatch{Range: Range{Start: start, End: end}, Matches: m.Groups})
			last = end
			if limit > 0 && len(out) >= limit {
				return out
			}
		}
	}
	return out
}

func lineMatch(line int, m search.Match) FindMatch {
	return FindMatch{
		Range: Range{
			Start: Position{Line: line, Column: m.Start + 1},
			End:   Position{Line: line, Column: m.End + 1},
		},
		Matches: m.Groups,
	}
}

func (t *Tree) clampRange(r Range) Range {
	r = NewRange(r.Start, r.End)
	return Range{
		Start: t.PositionAt(t.OffsetAt(r.Start)),
		End:   t.PositionAt(t.OffsetAt(r.End)),
	}
}

func (t *Tree) endPosition() Position {
	return t.PositionAt(t.length)
}

func (t *Tree) fullRange() Range {
	return Range{Start: Position{Line: 1, Column: 1}, End: t.endPosition()}
}
