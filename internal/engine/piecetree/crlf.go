package piecetree

// repairAt restores "\r\n" atomicity at a piece boundary. When the piece
// ending at offset ends with '\r' and the piece starting there begins
// with '\n', the pair is rejoined into a single piece.
func (t *Tree) repairAt(offset int) {
	if offset <= 0 || offset >= t.length {
		return
	}
	n, rem, _ := t.nodeAt(offset)

	var prev, next *node
	switch rem {
	case 0:
		prev, next = n.prev(), n
	case n.piece.length:
		prev, next = n, n.next()
	default:
		return
	}
	if prev == sentinel || next == sentinel {
		return
	}
	if t.endsWithCR(prev) && t.startsWithLF(next) {
		t.fixCRLF(prev, next)
	}
}

func (t *Tree) endsWithCR(n *node) bool {
	data := t.pool.bytes(n.piece)
	return len(data) > 0 && data[len(data)-1] == '\r'
}

func (t *Tree) startsWithLF(n *node) bool {
	data := t.pool.bytes(n.piece)
	return len(data) > 0 && data[0] == '\n'
}

// fixCRLF joins the '\r' ending prev with the '\n' starting next. When
// both pieces are adjacent in one chunk, prev absorbs the '\n'.
// Otherwise both are trimmed and a fresh "\r\n" piece goes between them.
func (t *Tree) fixCRLF(prev, next *node) {
	p, q := prev.piece, next.piece

	if p.bufferIndex == q.bufferIndex &&
		t.pool.offset(p.bufferIndex, p.end) == t.pool.offset(q.bufferIndex, q.start) {
		// q.start sits between '\r' and '\n', so the next line starts
		// right after the '\n'.
		end := bufferCursor{line: q.start.line + 1}
		t.setPiece(prev, piece{
			bufferIndex: p.bufferIndex,
			start:       p.start,
			end:         end,
			length:      p.length + 1,
			lineFeedCnt: t.lineFeedCount(p.bufferIndex, p.start, end),
		})
		if q.length == 1 {
			t.deleteNode(next)
		} else {
			t.deleteNodeHead(next, end)
		}
		return
	}

	t.deleteNodeTail(prev, t.positionInBuffer(prev, p.length-1))
	t.deleteNodeHead(next, t.positionInBuffer(next, 1))
	t.insertPiecesAfter(prev, t.createPieces([]byte("\r\n")))

	if prev.piece.length == 0 {
		t.deleteNode(prev)
	}
	if next.piece.length == 0 {
		t.deleteNode(next)
	}
}
