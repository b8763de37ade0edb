package piecetree

import "fmt"

// AssertIntegrity walks the whole tree and verifies every structural
// invariant: red-black rules, parent links, exact left-subtree
// aggregates, per-piece line-feed counts, no empty pieces, no "\r\n"
// split across pieces, and document totals. It returns an error
// wrapping ErrIntegrity describing the first violation found.
//
// It is O(n) and meant for tests and debug builds.
func (t *Tree) AssertIntegrity() error {
	if sentinel.color != black || sentinel.left != sentinel || sentinel.right != sentinel ||
		sentinel.parent != sentinel || sentinel.sizeLeft != 0 || sentinel.lfLeft != 0 ||
		sentinel.piece != (piece{}) {
		return fmt.Errorf("%w: sentinel was modified", ErrIntegrity)
	}
	if t.root != sentinel {
		if t.root.parent != sentinel {
			return fmt.Errorf("%w: root has a parent", ErrIntegrity)
		}
		if t.root.color != black {
			return fmt.Errorf("%w: root is red", ErrIntegrity)
		}
	}

	length, lf, _, err := t.checkNode(t.root)
	if err != nil {
		return err
	}
	if length != t.length {
		return fmt.Errorf("%w: length is %d, pieces sum to %d", ErrIntegrity, t.length, length)
	}
	if lf+1 != t.lineCnt {
		return fmt.Errorf("%w: line count is %d, pieces hold %d line feeds", ErrIntegrity, t.lineCnt, lf)
	}

	offset := 0
	prev := sentinel
	t.forEachNode(func(n *node) bool {
		if prev != sentinel && t.endsWithCR(prev) && t.startsWithLF(n) {
			err = fmt.Errorf("%w: \"\\r\\n\" split across pieces at offset %d", ErrIntegrity, offset)
			return false
		}
		offset += n.piece.length
		prev = n
		return true
	})
	return err
}

// checkNode verifies the subtree rooted at n and returns its length,
// line-feed count and black height.
func (t *Tree) checkNode(n *node) (length, lf, blackHeight int, err error) {
	if n == sentinel {
		return 0, 0, 1, nil
	}
	if n.left != sentinel && n.left.parent != n {
		return 0, 0, 0, fmt.Errorf("%w: broken parent link on left child", ErrIntegrity)
	}
	if n.right != sentinel && n.right.parent != n {
		return 0, 0, 0, fmt.Errorf("%w: broken parent link on right child", ErrIntegrity)
	}
	if n.color == red && (n.left.color == red || n.right.color == red) {
		return 0, 0, 0, fmt.Errorf("%w: red node has a red child", ErrIntegrity)
	}
	if err := t.checkPiece(n.piece); err != nil {
		return 0, 0, 0, err
	}

	leftLen, leftLF, leftBH, err := t.checkNode(n.left)
	if err != nil {
		return 0, 0, 0, err
	}
	rightLen, rightLF, rightBH, err := t.checkNode(n.right)
	if err != nil {
		return 0, 0, 0, err
	}
	if leftBH != rightBH {
		return 0, 0, 0, fmt.Errorf("%w: black heights differ (%d vs %d)", ErrIntegrity, leftBH, rightBH)
	}
	if n.sizeLeft != leftLen {
		return 0, 0, 0, fmt.Errorf("%w: sizeLeft is %d, left subtree holds %d", ErrIntegrity, n.sizeLeft, leftLen)
	}
	if n.lfLeft != leftLF {
		return 0, 0, 0, fmt.Errorf("%w: lfLeft is %d, left subtree holds %d", ErrIntegrity, n.lfLeft, leftLF)
	}

	if n.color == black {
		leftBH++
	}
	return leftLen + n.piece.length + rightLen, leftLF + n.piece.lineFeedCnt + rightLF, leftBH, nil
}

func (t *Tree) checkPiece(p piece) error {
	if p.length == 0 {
		return fmt.Errorf("%w: empty piece in chunk %d", ErrIntegrity, p.bufferIndex)
	}
	if p.bufferIndex < 0 || p.bufferIndex >= len(t.pool.chunks) {
		return fmt.Errorf("%w: piece references missing chunk %d", ErrIntegrity, p.bufferIndex)
	}
	if got := t.pool.offset(p.bufferIndex, p.end) - t.pool.offset(p.bufferIndex, p.start); got != p.length {
		return fmt.Errorf("%w: piece length is %d, cursors span %d", ErrIntegrity, p.length, got)
	}
	cr, lf, crlf := lineBreaks(t.pool.bytes(p))
	if cr+lf+crlf != p.lineFeedCnt {
		return fmt.Errorf("%w: piece line-feed count is %d, text holds %d", ErrIntegrity, p.lineFeedCnt, cr+lf+crlf)
	}
	return nil
}
