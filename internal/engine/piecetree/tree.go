package piecetree

import (
	"errors"
	"fmt"
	"strings"
)

// Line terminators a tree can be normalized to.
const (
	LF   = "\n"
	CRLF = "\r\n"
)

// Errors returned by tree operations.
var (
	ErrOffsetOutOfRange = errors.New("offset out of range")
	ErrNegativeLength   = errors.New("negative length")
	ErrIntegrity        = errors.New("piece tree integrity violated")
)

// Tree is a piece table ordered by a red-black tree.
//
// A Tree supports one writer at a time and performs no locking of its
// own. Read methods may run concurrently with each other between
// mutations.
type Tree struct {
	root *node
	pool *bufferPool

	length  int
	lineCnt int

	eol           string
	eolNormalized bool

	// version is bumped by every mutation and tags cache entries.
	version uint64
	cache   *searchCache
}

// newTree builds a tree whose pieces are the given chunks in order.
func newTree(chunks []*chunk, eol string, eolNormalized bool) *Tree {
	t := &Tree{
		root:          sentinel,
		pool:          newBufferPool(DefaultChunkSize),
		lineCnt:       1,
		eol:           eol,
		eolNormalized: eolNormalized,
		cache:         newSearchCache(searchCacheLimit),
	}
	t.load(chunks)
	return t
}

func (t *Tree) load(chunks []*chunk) {
	last := sentinel
	for _, c := range chunks {
		if len(c.data) == 0 {
			continue
		}
		idx := t.pool.appendOriginal(c)
		end := c.cursorAtEnd()
		last = t.insertRight(last, piece{
			bufferIndex: idx,
			end:         end,
			length:      len(c.data),
			lineFeedCnt: end.line,
		})
	}
	t.computeBufferMetadata()
}

// Length returns the document length in bytes.
func (t *Tree) Length() int { return t.length }

// LineCount returns the number of lines, which is always at least 1.
func (t *Tree) LineCount() int { return t.lineCnt }

// LineFeedCount returns the number of line breaks in the document.
// "\r\n" counts once.
func (t *Tree) LineFeedCount() int { return t.lineCnt - 1 }

// EOL returns the tree's preferred line terminator.
func (t *Tree) EOL() string { return t.eol }

// EOLNormalized reports whether every terminator is known to equal EOL.
func (t *Tree) EOLNormalized() bool { return t.eolNormalized }

// PieceCount returns the number of pieces in the tree.
func (t *Tree) PieceCount() int {
	count := 0
	t.forEachNode(func(*node) bool {
		count++
		return true
	})
	return count
}

// Insert inserts text at offset. eolNormalized states whether text only
// contains the tree's EOL as line terminator.
func (t *Tree) Insert(offset int, text string, eolNormalized bool) error {
	if offset < 0 || offset > t.length {
		return fmt.Errorf("%w: insert at %d in document of length %d", ErrOffsetOutOfRange, offset, t.length)
	}
	if text == "" {
		return nil
	}
	t.eolNormalized = t.eolNormalized && eolNormalized
	t.invalidate()

	data := []byte(text)
	if t.root == sentinel {
		t.insertPiecesAfter(sentinel, t.createPieces(data))
	} else {
		n, rem, _ := t.nodeAt(offset)
		if rem == 0 {
			if p := n.prev(); p != sentinel {
				n, rem = p, p.piece.length
			}
		}
		switch {
		case rem == n.piece.length && t.canAppendToNode(n, data):
			t.appendToNode(n, data)
		case rem == n.piece.length:
			t.insertPiecesAfter(n, t.createPieces(data))
		case rem == 0:
			pieces := t.createPieces(data)
			first := t.insertLeft(n, pieces[0])
			t.insertPiecesAfter(first, pieces[1:])
		default:
			t.splitAndInsert(n, rem, data)
		}
	}
	t.computeBufferMetadata()

	if t.shouldCheckCRLF() {
		t.repairAt(offset)
		t.repairAt(offset + len(data))
		t.computeBufferMetadata()
	}
	t.checkNormalizedAt(offset, offset+len(data))
	return nil
}

// Delete removes length bytes starting at offset. The range is clamped
// to the end of the document.
func (t *Tree) Delete(offset, length int) error {
	if offset < 0 || offset > t.length {
		return fmt.Errorf("%w: delete at %d in document of length %d", ErrOffsetOutOfRange, offset, t.length)
	}
	if length < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeLength, length)
	}
	length = min(length, t.length-offset)
	if length == 0 || t.root == sentinel {
		return nil
	}
	t.invalidate()

	startNode, startRem, startOffset := t.nodeAt(offset)
	endNode, endRem, _ := t.nodeAt(offset + length)

	if startNode == endNode {
		t.deleteWithinNode(startNode, startRem, endRem, startOffset, offset, length)
	} else {
		var doomed []*node

		t.deleteNodeTail(startNode, t.positionInBuffer(startNode, startRem))
		if startNode.piece.length == 0 {
			doomed = append(doomed, startNode)
		}
		t.deleteNodeHead(endNode, t.positionInBuffer(endNode, endRem))
		if endNode.piece.length == 0 {
			doomed = append(doomed, endNode)
		}
		for n := startNode.next(); n != sentinel && n != endNode; n = n.next() {
			doomed = append(doomed, n)
		}
		for _, n := range doomed {
			t.deleteNode(n)
		}
	}
	t.computeBufferMetadata()

	if t.shouldCheckCRLF() {
		t.repairAt(offset)
		t.computeBufferMetadata()
	}
	t.checkNormalizedAt(offset)
	return nil
}

func (t *Tree) deleteWithinNode(n *node, startRem, endRem, nodeStart, offset, length int) {
	switch {
	case nodeStart == offset && length == n.piece.length:
		t.deleteNode(n)
	case nodeStart == offset:
		t.deleteNodeHead(n, t.positionInBuffer(n, endRem))
	case nodeStart+n.piece.length == offset+length:
		t.deleteNodeTail(n, t.positionInBuffer(n, startRem))
	default:
		t.shrinkNode(n, t.positionInBuffer(n, startRem), t.positionInBuffer(n, endRem))
	}
}

// Text returns the whole document.
func (t *Tree) Text() string {
	var sb strings.Builder
	sb.Grow(t.length)
	t.forEachNode(func(n *node) bool {
		sb.Write(t.pool.bytes(n.piece))
		return true
	})
	return sb.String()
}

// TextRange returns the bytes in [start, end), clamped to the document.
func (t *Tree) TextRange(start, end int) string {
	start = clamp(start, 0, t.length)
	end = clamp(end, 0, t.length)
	if start >= end {
		return ""
	}
	n, rem, _ := t.nodeAtCached(start)

	var sb strings.Builder
	sb.Grow(end - start)
	remaining := end - start
	for n != sentinel && remaining > 0 {
		data := t.pool.bytes(n.piece)[rem:]
		if len(data) > remaining {
			data = data[:remaining]
		}
		sb.Write(data)
		remaining -= len(data)
		rem = 0
		n = n.next()
	}
	return sb.String()
}

// ByteAt returns the byte at offset, or 0 when offset is out of range.
func (t *Tree) ByteAt(offset int) byte {
	if offset < 0 || offset >= t.length {
		return 0
	}
	n, rem, _ := t.nodeAtCached(offset)
	if rem == n.piece.length {
		n, rem = n.next(), 0
	}
	return t.pool.bytes(n.piece)[rem]
}

// Equal reports whether both trees hold the same text.
func (t *Tree) Equal(other *Tree) bool {
	if t.length != other.length || t.lineCnt != other.lineCnt {
		return false
	}
	offset := 0
	equal := true
	t.forEachNode(func(n *node) bool {
		data := t.pool.bytes(n.piece)
		if other.TextRange(offset, offset+len(data)) != string(data) {
			equal = false
			return false
		}
		offset += len(data)
		return true
	})
	return equal
}

// SetEOL rewrites every line terminator as eol and rebuilds the tree
// from fresh chunks. Existing snapshots are unaffected.
func (t *Tree) SetEOL(eol string) {
	var chunks []*chunk
	buf := make([]byte, 0, t.pool.maxChunk)
	threshold := t.pool.maxChunk - t.pool.maxChunk/3

	flush := func(final bool) {
		cut := len(buf)
		if !final {
			cut -= holdBack(buf)
		}
		if cut == 0 {
			return
		}
		for _, part := range splitText(normalizeEOL(buf[:cut], eol), t.pool.maxChunk) {
			chunks = append(chunks, newChunk(part))
		}
		buf = append(buf[:0:0], buf[cut:]...)
	}

	t.forEachNode(func(n *node) bool {
		buf = append(buf, t.pool.bytes(n.piece)...)
		if len(buf) >= threshold {
			flush(false)
		}
		return true
	})
	flush(true)

	t.invalidate()
	t.root = sentinel
	t.pool = newBufferPool(t.pool.maxChunk)
	t.eol = eol
	t.eolNormalized = true
	t.load(chunks)
}

// forEachNode visits nodes in document order until fn returns false.
func (t *Tree) forEachNode(fn func(*node) bool) {
	if t.root == sentinel {
		return
	}
	for n := leftest(t.root); n != sentinel; n = n.next() {
		if !fn(n) {
			return
		}
	}
}

func (t *Tree) invalidate() {
	t.version++
}

func (t *Tree) shouldCheckCRLF() bool {
	return !(t.eolNormalized && t.eol == LF)
}

// checkNormalizedAt clears eolNormalized when an edit left half of a
// "\r\n" at one of the offsets. Only CRLF trees can be split that way.
func (t *Tree) checkNormalizedAt(offsets ...int) {
	if !t.eolNormalized || t.eol != CRLF {
		return
	}
	for _, off := range offsets {
		if t.loneBreakAt(off) {
			t.eolNormalized = false
			return
		}
	}
}

// loneBreakAt reports whether a '\r' ends just before offset without
// its '\n', or a '\n' starts at offset without its '\r'.
func (t *Tree) loneBreakAt(offset int) bool {
	if offset > 0 && t.ByteAt(offset-1) == '\r' && (offset == t.length || t.ByteAt(offset) != '\n') {
		return true
	}
	return offset < t.length && t.ByteAt(offset) == '\n' && (offset == 0 || t.ByteAt(offset-1) != '\r')
}

func (t *Tree) computeBufferMetadata() {
	length, lf := subtreeSize(t.root)
	t.length = length
	t.lineCnt = lf + 1
}

// canAppendToNode reports whether text typed at the end of n can extend
// n's piece in the tail chunk instead of creating a new node.
func (t *Tree) canAppendToNode(n *node, text []byte) bool {
	return n.piece.bufferIndex == t.pool.tail &&
		n.piece.end == t.pool.lastChange &&
		t.pool.canAppend(text)
}

func (t *Tree) appendToNode(n *node, text []byte) {
	_, _, end := t.pool.appendToTail(text)
	old := n.piece
	t.setPiece(n, piece{
		bufferIndex: old.bufferIndex,
		start:       old.start,
		end:         end,
		length:      old.length + len(text),
		lineFeedCnt: t.lineFeedCount(old.bufferIndex, old.start, end),
	})
}

// createPieces stores text in the pool. Small texts go to the tail
// chunk; larger ones become write-once chunks of bounded size.
func (t *Tree) createPieces(text []byte) []piece {
	if len(text) <= t.pool.maxChunk {
		idx, start, end := t.pool.appendToTail(text)
		return []piece{{
			bufferIndex: idx,
			start:       start,
			end:         end,
			length:      len(text),
			lineFeedCnt: t.lineFeedCount(idx, start, end),
		}}
	}

	parts := splitText(text, t.pool.maxChunk)
	pieces := make([]piece, 0, len(parts))
	for _, part := range parts {
		c := newChunk(append([]byte(nil), part...))
		idx := t.pool.appendOriginal(c)
		end := c.cursorAtEnd()
		pieces = append(pieces, piece{
			bufferIndex: idx,
			end:         end,
			length:      len(c.data),
			lineFeedCnt: end.line,
		})
	}
	return pieces
}

func (t *Tree) insertPiecesAfter(n *node, pieces []piece) *node {
	for _, p := range pieces {
		n = t.insertRight(n, p)
	}
	return n
}

// splitAndInsert cuts n at rem and inserts text between the halves.
func (t *Tree) splitAndInsert(n *node, rem int, text []byte) {
	old := n.piece
	pos := t.positionInBuffer(n, rem)
	right := piece{
		bufferIndex: old.bufferIndex,
		start:       pos,
		end:         old.end,
		length:      old.length - rem,
		lineFeedCnt: t.lineFeedCount(old.bufferIndex, pos, old.end),
	}

	t.deleteNodeTail(n, pos)
	last := t.insertPiecesAfter(n, t.createPieces(text))
	t.insertRight(last, right)
}

// deleteNodeHead drops the part of n's piece before pos.
func (t *Tree) deleteNodeHead(n *node, pos bufferCursor) {
	old := n.piece
	t.setPiece(n, piece{
		bufferIndex: old.bufferIndex,
		start:       pos,
		end:         old.end,
		length:      t.pool.offset(old.bufferIndex, old.end) - t.pool.offset(old.bufferIndex, pos),
		lineFeedCnt: t.lineFeedCount(old.bufferIndex, pos, old.end),
	})
}

// deleteNodeTail drops the part of n's piece from pos on.
func (t *Tree) deleteNodeTail(n *node, pos bufferCursor) {
	old := n.piece
	t.setPiece(n, piece{
		bufferIndex: old.bufferIndex,
		start:       old.start,
		end:         pos,
		length:      t.pool.offset(old.bufferIndex, pos) - t.pool.offset(old.bufferIndex, old.start),
		lineFeedCnt: t.lineFeedCount(old.bufferIndex, old.start, pos),
	})
}

// shrinkNode removes [start, end) from the middle of n, leaving the tail
// in a new node after it.
func (t *Tree) shrinkNode(n *node, start, end bufferCursor) {
	old := n.piece
	t.deleteNodeTail(n, start)
	t.insertRight(n, piece{
		bufferIndex: old.bufferIndex,
		start:       end,
		end:         old.end,
		length:      t.pool.offset(old.bufferIndex, old.end) - t.pool.offset(old.bufferIndex, end),
		lineFeedCnt: t.lineFeedCount(old.bufferIndex, end, old.end),
	})
}

// lineFeedCount counts line breaks between two cursors of a chunk. A
// range ending between '\r' and '\n' counts the '\r' as a break.
func (t *Tree) lineFeedCount(idx int, start, end bufferCursor) int {
	count := end.line - start.line
	if end.column == 0 {
		return count
	}
	c := t.pool.chunks[idx]
	if end.line == len(c.lineStarts)-1 {
		return count
	}
	endOffset := c.lineStarts[end.line] + end.column
	if c.lineStarts[end.line+1] > endOffset+1 {
		return count
	}
	if c.data[endOffset-1] == '\r' {
		return count + 1
	}
	return count
}

// positionInBuffer converts a byte offset inside n's piece to a cursor.
func (t *Tree) positionInBuffer(n *node, rem int) bufferCursor {
	p := n.piece
	starts := t.pool.chunks[p.bufferIndex].lineStarts
	offset := starts[p.start.line] + p.start.column + rem

	low, high := p.start.line, p.end.line
	for low < high {
		mid := (low + high + 1) / 2
		if starts[mid] <= offset {
			low = mid
		} else {
			high = mid - 1
		}
	}
	return bufferCursor{line: low, column: offset - starts[low]}
}

// nodeAt finds the node containing offset by descending on sizeLeft.
// At a boundary between two nodes either one may be returned.
func (t *Tree) nodeAt(offset int) (n *node, rem, nodeStart int) {
	x := t.root
	for x != sentinel {
		switch {
		case x.sizeLeft > offset:
			x = x.left
		case x.sizeLeft+x.piece.length >= offset:
			nodeStart += x.sizeLeft
			return x, offset - x.sizeLeft, nodeStart
		default:
			offset -= x.sizeLeft + x.piece.length
			nodeStart += x.sizeLeft + x.piece.length
			x = x.right
		}
	}
	return sentinel, 0, 0
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
