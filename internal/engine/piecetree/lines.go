package piecetree

import (
	"strings"
	"unicode/utf8"
)

// OffsetAt converts a position to a byte offset. Lines are clamped to
// the document and columns to the line's content. A column landing
// inside a multi-byte sequence snaps back to the start of that sequence.
func (t *Tree) OffsetAt(pos Position) int {
	if pos.Line < 1 {
		return 0
	}
	if pos.Line > t.lineCnt {
		return t.length
	}
	start := t.lineStartOffset(pos.Line)
	col := clamp(pos.Column-1, 0, t.lineLength(pos.Line, start))
	return t.runeStart(start+col, start)
}

// PositionAt converts a byte offset to a position. The offset is
// clamped to the document and snapped back to a code point boundary.
func (t *Tree) PositionAt(offset int) Position {
	offset = t.runeStart(clamp(offset, 0, t.length), 0)
	original := offset

	lfCnt := 0
	x := t.root
	for x != sentinel {
		switch {
		case x.sizeLeft != 0 && x.sizeLeft >= offset:
			x = x.left
		case x.sizeLeft+x.piece.length >= offset:
			index, rem := t.indexOf(x, offset-x.sizeLeft)
			lfCnt += x.lfLeft + index
			if index == 0 {
				lineStart := t.lineStartOffset(lfCnt + 1)
				return Position{Line: lfCnt + 1, Column: original - lineStart + 1}
			}
			return Position{Line: lfCnt + 1, Column: rem + 1}
		default:
			offset -= x.sizeLeft + x.piece.length
			lfCnt += x.lfLeft + x.piece.lineFeedCnt
			if x.right == sentinel {
				lineStart := t.lineStartOffset(lfCnt + 1)
				return Position{Line: lfCnt + 1, Column: original - offset - lineStart + 1}
			}
			x = x.right
		}
	}
	return Position{Line: 1, Column: 1}
}

// LineContent returns line n without its terminator.
func (t *Tree) LineContent(n int) string {
	return trimEOL(t.LineRawContent(n))
}

// LineRawContent returns line n including its terminator, or "" when n
// is out of range.
func (t *Tree) LineRawContent(n int) string {
	if n < 1 || n > t.lineCnt {
		return ""
	}
	if raw, ok := t.cache.lastVisited(t.version, n); ok {
		return raw
	}
	raw := t.lineRawContent(n)
	t.cache.setLastVisited(t.version, n, raw)
	return raw
}

// LineLength returns the byte length of line n without its terminator.
func (t *Tree) LineLength(n int) int {
	if n < 1 || n > t.lineCnt {
		return 0
	}
	return t.lineLength(n, t.lineStartOffset(n))
}

// LinesContent returns every line without terminators.
func (t *Tree) LinesContent() []string {
	text := t.Text()
	lines := make([]string, 0, t.lineCnt)
	start := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\r':
			lines = append(lines, text[start:i])
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			start = i + 1
		case '\n':
			lines = append(lines, text[start:i])
			start = i + 1
		}
	}
	return append(lines, text[start:])
}

// ValueInRange returns the text covered by r. A non-empty eol rewrites
// every line terminator in the result.
func (t *Tree) ValueInRange(r Range, eol string) string {
	r = NewRange(r.Start, r.End)
	value := t.TextRange(t.OffsetAt(r.Start), t.OffsetAt(r.End))
	if eol == "" || (eol == t.eol && t.eolNormalized) {
		return value
	}
	return string(normalizeEOL([]byte(value), eol))
}

func (t *Tree) lineLength(n, start int) int {
	if n == t.lineCnt {
		return t.length - start
	}
	next := t.lineStartOffset(n + 1)
	if t.ByteAt(next-1) == '\n' && next-2 >= start && t.ByteAt(next-2) == '\r' {
		return next - start - 2
	}
	return next - start - 1
}

// runeStart moves offset back to the start of its UTF-8 sequence
// without crossing floor.
func (t *Tree) runeStart(offset, floor int) int {
	for i := 0; i < utf8.UTFMax-1 && offset > floor && !utf8.RuneStart(t.ByteAt(offset)); i++ {
		offset--
	}
	return offset
}

// lineStartOffset returns the offset of the first byte of line n.
func (t *Tree) lineStartOffset(n int) int {
	leftLen := 0
	x := t.root
	for x != sentinel {
		switch {
		case x.left != sentinel && x.lfLeft+1 >= n:
			x = x.left
		case x.lfLeft+x.piece.lineFeedCnt+1 >= n:
			return leftLen + x.sizeLeft + t.accumulatedValue(x, n-x.lfLeft-2)
		default:
			n -= x.lfLeft + x.piece.lineFeedCnt
			leftLen += x.sizeLeft + x.piece.length
			x = x.right
		}
	}
	return leftLen
}

// accumulatedValue returns the offset, relative to the start of n's
// piece, just past the piece's index-th line break. Negative indexes
// yield 0 and indexes past the last break yield the piece length.
func (t *Tree) accumulatedValue(n *node, index int) int {
	if index < 0 {
		return 0
	}
	p := n.piece
	starts := t.pool.chunks[p.bufferIndex].lineStarts
	base := starts[p.start.line] + p.start.column
	expected := p.start.line + index + 1
	if expected > p.end.line {
		return starts[p.end.line] + p.end.column - base
	}
	return starts[expected] - base
}

// indexOf maps an offset inside n's piece to the number of line breaks
// before it in the piece and its column on that line.
func (t *Tree) indexOf(n *node, offset int) (index, rem int) {
	p := n.piece
	pos := t.positionInBuffer(n, offset)
	lineCnt := pos.line - p.start.line

	if offset == p.length {
		// A piece may end on a '\r' whose line start lies beyond it.
		if real := t.lineFeedCount(p.bufferIndex, p.start, pos); real != lineCnt {
			return real, 0
		}
	}
	return lineCnt, pos.column
}

// nodeAtCached is nodeAt backed by the search cache.
func (t *Tree) nodeAtCached(offset int) (*node, int, int) {
	if e, ok := t.cache.get(t.version, offset); ok {
		return e.node, offset - e.nodeStartOffset, e.nodeStartOffset
	}

	nodeStart, lf := 0, 0
	x := t.root
	for x != sentinel {
		switch {
		case x.sizeLeft > offset:
			x = x.left
		case x.sizeLeft+x.piece.length >= offset:
			// offset is relative to x's subtree here; nodeStart is absolute.
			rem := offset - x.sizeLeft
			nodeStart += x.sizeLeft
			lf += x.lfLeft
			t.cache.set(t.version, cacheEntry{node: x, nodeStartOffset: nodeStart, nodeStartLine: lf + 1})
			return x, rem, nodeStart
		default:
			offset -= x.sizeLeft + x.piece.length
			nodeStart += x.sizeLeft + x.piece.length
			lf += x.lfLeft + x.piece.lineFeedCnt
			x = x.right
		}
	}
	return sentinel, 0, 0
}

func (t *Tree) lineRawContent(lineNumber int) string {
	var sb strings.Builder
	var x *node
	nodeStart := 0

	if e, ok := t.cache.getLine(t.version, lineNumber); ok {
		x, nodeStart = e.node, e.nodeStartOffset
		data := t.pool.bytes(x.piece)
		from := t.accumulatedValue(x, lineNumber-e.nodeStartLine-1)
		if e.nodeStartLine+x.piece.lineFeedCnt > lineNumber {
			return string(data[from:t.accumulatedValue(x, lineNumber-e.nodeStartLine)])
		}
		sb.Write(data[from:])
	} else {
		ln := lineNumber
		x = t.root
	descend:
		for x != sentinel {
			switch {
			case x.left != sentinel && x.lfLeft >= ln-1:
				x = x.left
			case x.lfLeft+x.piece.lineFeedCnt > ln-1:
				data := t.pool.bytes(x.piece)
				from := t.accumulatedValue(x, ln-x.lfLeft-2)
				to := t.accumulatedValue(x, ln-x.lfLeft-1)
				nodeStart += x.sizeLeft
				t.cache.set(t.version, cacheEntry{
					node:            x,
					nodeStartOffset: nodeStart,
					nodeStartLine:   lineNumber - (ln - 1 - x.lfLeft),
				})
				return string(data[from:to])
			case x.lfLeft+x.piece.lineFeedCnt == ln-1:
				data := t.pool.bytes(x.piece)
				sb.Write(data[t.accumulatedValue(x, ln-x.lfLeft-2):])
				nodeStart += x.sizeLeft
				break descend
			default:
				ln -= x.lfLeft + x.piece.lineFeedCnt
				nodeStart += x.sizeLeft + x.piece.length
				x = x.right
			}
		}
		if x == sentinel {
			return sb.String()
		}
	}

	// The line continues into following pieces; remember the piece
	// holding its terminator so line+1 starts from there.
	nodeStart += x.piece.length
	for x = x.next(); x != sentinel; x = x.next() {
		data := t.pool.bytes(x.piece)
		if x.piece.lineFeedCnt > 0 {
			sb.Write(data[:t.accumulatedValue(x, 0)])
			t.cache.set(t.version, cacheEntry{node: x, nodeStartOffset: nodeStart, nodeStartLine: lineNumber})
			return sb.String()
		}
		sb.Write(data)
		nodeStart += x.piece.length
	}
	return sb.String()
}

func trimEOL(s string) string {
	switch {
	case strings.HasSuffix(s, "\r\n"):
		return s[:len(s)-2]
	case strings.HasSuffix(s, "\n"), strings.HasSuffix(s, "\r"):
		return s[:len(s)-1]
	}
	return s
}
