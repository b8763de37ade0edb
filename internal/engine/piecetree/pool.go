package piecetree

import "sync"

// bufferPool owns every chunk referenced by the tree's pieces.
//
// All chunks are write-once except the tail chunk, which absorbs small
// inserts by appending. Appending never rewrites existing bytes or line
// starts, so pieces and snapshots that reference the tail stay valid.
type bufferPool struct {
	chunks []*chunk

	// tail is the index of the chunk receiving appends, or -1.
	tail int

	// lastChange is the tail cursor just past the most recent append.
	lastChange bufferCursor

	maxChunk int
}

func newBufferPool(maxChunk int) *bufferPool {
	if maxChunk <= 0 {
		maxChunk = DefaultChunkSize
	}
	return &bufferPool{tail: -1, maxChunk: maxChunk}
}

// appendOriginal stores a write-once chunk and returns its index.
func (p *bufferPool) appendOriginal(c *chunk) int {
	p.chunks = append(p.chunks, c)
	return len(p.chunks) - 1
}

// canAppend reports whether text can extend the current tail in place.
// A tail ending in '\r' never receives text starting with '\n': the
// lone '\r' already has a line start recorded after it.
func (p *bufferPool) canAppend(text []byte) bool {
	if p.tail < 0 || len(text) == 0 {
		return false
	}
	c := p.chunks[p.tail]
	if len(c.data)+len(text) > p.maxChunk {
		return false
	}
	if n := len(c.data); n > 0 && c.data[n-1] == '\r' && text[0] == '\n' {
		return false
	}
	return true
}

// appendToTail appends text to the tail chunk, starting a new tail when
// it cannot be extended, and returns the cursors delimiting the text.
func (p *bufferPool) appendToTail(text []byte) (int, bufferCursor, bufferCursor) {
	if !p.canAppend(text) {
		p.tail = p.appendOriginal(&chunk{lineStarts: []int{0}})
	}
	c := p.chunks[p.tail]
	start := c.cursorAtEnd()
	base := len(c.data)
	c.data = append(c.data, text...)
	for _, s := range computeLineStarts(text)[1:] {
		c.lineStarts = append(c.lineStarts, base+s)
	}
	p.lastChange = c.cursorAtEnd()
	return p.tail, start, p.lastChange
}

// offset converts a cursor in chunk idx to a byte offset in that chunk.
func (p *bufferPool) offset(idx int, cur bufferCursor) int {
	return p.chunks[idx].lineStarts[cur.line] + cur.column
}

// bytes returns the text a piece covers. The result is capped so that
// appends to the tail can never show through it.
func (p *bufferPool) bytes(pc piece) []byte {
	c := p.chunks[pc.bufferIndex]
	start := c.lineStarts[pc.start.line] + pc.start.column
	end := c.lineStarts[pc.end.line] + pc.end.column
	return c.data[start:end:end]
}

// scratchPool recycles byte buffers used to assemble multi-line search
// windows and comparison slices.
var scratchPool = sync.Pool{
	New: func() any {
		buf := make([]byte, 0, 4096)
		return &buf
	},
}

func getScratch() *[]byte {
	buf := scratchPool.Get().(*[]byte)
	*buf = (*buf)[:0]
	return buf
}

func putScratch(buf *[]byte) {
	if buf == nil {
		return
	}
	// Only keep reasonably sized buffers
	if cap(*buf) <= 1<<20 {
		*buf = (*buf)[:0]
		scratchPool.Put(buf)
	}
}
