package piecetree

type nodeColor uint8

const (
	black nodeColor = iota
	red
)

// node is a red-black tree node holding one piece. sizeLeft and lfLeft
// aggregate the byte length and line-feed count of the left subtree.
// parent is a back-reference used for traversal and rotation only.
type node struct {
	piece  piece
	parent *node
	left   *node
	right  *node
	color  nodeColor

	sizeLeft int
	lfLeft   int
}

// sentinel stands in for every missing child and for the root's parent.
// It is shared by all trees and never written after initialization.
var sentinel = newSentinel()

func newSentinel() *node {
	n := &node{color: black}
	n.parent, n.left, n.right = n, n, n
	return n
}

func newNode(p piece) *node {
	return &node{
		piece:  p,
		parent: sentinel,
		left:   sentinel,
		right:  sentinel,
		color:  red,
	}
}

func leftest(n *node) *node {
	for n.left != sentinel {
		n = n.left
	}
	return n
}

func rightest(n *node) *node {
	for n.right != sentinel {
		n = n.right
	}
	return n
}

// next returns the in-order successor of n, or sentinel.
func (n *node) next() *node {
	if n.right != sentinel {
		return leftest(n.right)
	}
	for n.parent != sentinel && n.parent.right == n {
		n = n.parent
	}
	return n.parent
}

// prev returns the in-order predecessor of n, or sentinel.
func (n *node) prev() *node {
	if n.left != sentinel {
		return rightest(n.left)
	}
	for n.parent != sentinel && n.parent.left == n {
		n = n.parent
	}
	return n.parent
}

// subtreeSize walks the right spine summing lengths and line feeds.
func subtreeSize(n *node) (length, lineFeeds int) {
	for n != sentinel {
		length += n.sizeLeft + n.piece.length
		lineFeeds += n.lfLeft + n.piece.lineFeedCnt
		n = n.right
	}
	return length, lineFeeds
}

// updateTreeMetadata propagates a change in n's own length and line-feed
// count to every ancestor holding n in its left subtree.
func (t *Tree) updateTreeMetadata(n *node, delta, lfDelta int) {
	if delta == 0 && lfDelta == 0 {
		return
	}
	for n != t.root && n != sentinel {
		if n.parent.left == n {
			n.parent.sizeLeft += delta
			n.parent.lfLeft += lfDelta
		}
		n = n.parent
	}
}

// setPiece replaces n's piece and fixes ancestor aggregates.
func (t *Tree) setPiece(n *node, p piece) {
	delta := p.length - n.piece.length
	lfDelta := p.lineFeedCnt - n.piece.lineFeedCnt
	n.piece = p
	t.updateTreeMetadata(n, delta, lfDelta)
}

func (t *Tree) leftRotate(x *node) {
	y := x.right

	y.sizeLeft += x.sizeLeft + x.piece.length
	y.lfLeft += x.lfLeft + x.piece.lineFeedCnt

	x.right = y.left
	if y.left != sentinel {
		y.left.parent = x
	}
	y.parent = x.parent
	switch {
	case x.parent == sentinel:
		t.root = y
	case x.parent.left == x:
		x.parent.left = y
	default:
		x.parent.right = y
	}
	y.left = x
	x.parent = y
}

func (t *Tree) rightRotate(y *node) {
	x := y.left

	y.left = x.right
	if x.right != sentinel {
		x.right.parent = y
	}
	x.parent = y.parent

	y.sizeLeft -= x.sizeLeft + x.piece.length
	y.lfLeft -= x.lfLeft + x.piece.lineFeedCnt

	switch {
	case y.parent == sentinel:
		t.root = x
	case y.parent.right == y:
		y.parent.right = x
	default:
		y.parent.left = x
	}
	x.right = y
	y.parent = x
}

// insertRight links a new node for p immediately after n in document
// order. A sentinel n on an empty tree creates the root.
func (t *Tree) insertRight(n *node, p piece) *node {
	z := newNode(p)
	switch {
	case t.root == sentinel:
		t.root = z
		z.color = black
		return z
	case n.right == sentinel:
		n.right = z
		z.parent = n
	default:
		succ := leftest(n.right)
		succ.left = z
		z.parent = succ
	}
	t.fixInsert(z)
	return z
}

// insertLeft links a new node for p immediately before n.
func (t *Tree) insertLeft(n *node, p piece) *node {
	z := newNode(p)
	switch {
	case t.root == sentinel:
		t.root = z
		z.color = black
		return z
	case n.left == sentinel:
		n.left = z
		z.parent = n
	default:
		pred := rightest(n.left)
		pred.right = z
		z.parent = pred
	}
	t.fixInsert(z)
	return z
}

func (t *Tree) fixInsert(x *node) {
	t.updateTreeMetadata(x, x.piece.length, x.piece.lineFeedCnt)

	for x != t.root && x.parent.color == red {
		gp := x.parent.parent
		if x.parent == gp.left {
			y := gp.right
			if y.color == red {
				x.parent.color = black
				y.color = black
				gp.color = red
				x = gp
				continue
			}
			if x == x.parent.right {
				x = x.parent
				t.leftRotate(x)
			}
			x.parent.color = black
			x.parent.parent.color = red
			t.rightRotate(x.parent.parent)
		} else {
			y := gp.left
			if y.color == red {
				x.parent.color = black
				y.color = black
				gp.color = red
				x = gp
				continue
			}
			if x == x.parent.left {
				x = x.parent
				t.rightRotate(x)
			}
			x.parent.color = black
			x.parent.parent.color = red
			t.leftRotate(x.parent.parent)
		}
	}
	t.root.color = black
}

// transplant replaces the subtree rooted at u with the one rooted at v.
func (t *Tree) transplant(u, v *node) {
	switch {
	case u.parent == sentinel:
		t.root = v
	case u == u.parent.left:
		u.parent.left = v
	default:
		u.parent.right = v
	}
	if v != sentinel {
		v.parent = u.parent
	}
}

// deleteNode unlinks z and rebalances. The parent of the spliced-in
// child is tracked explicitly so the sentinel is never written.
func (t *Tree) deleteNode(z *node) {
	t.updateTreeMetadata(z, -z.piece.length, -z.piece.lineFeedCnt)

	var x, xParent *node
	removedColor := z.color

	switch {
	case z.left == sentinel:
		x = z.right
		xParent = z.parent
		t.transplant(z, z.right)
	case z.right == sentinel:
		x = z.left
		xParent = z.parent
		t.transplant(z, z.left)
	default:
		y := leftest(z.right)
		removedColor = y.color
		x = y.right

		// y leaves the left subtree of every node between it and z.right.
		for n := y.parent; n != z; n = n.parent {
			n.sizeLeft -= y.piece.length
			n.lfLeft -= y.piece.lineFeedCnt
		}

		if y.parent == z {
			xParent = y
		} else {
			xParent = y.parent
			t.transplant(y, y.right)
			y.right = z.right
			y.right.parent = y
		}
		t.transplant(z, y)
		y.left = z.left
		y.left.parent = y
		y.color = z.color
		y.sizeLeft = z.sizeLeft
		y.lfLeft = z.lfLeft
	}

	if removedColor == black {
		t.fixDelete(x, xParent)
	}
	if t.root != sentinel {
		t.root.color = black
	}

	z.parent, z.left, z.right = nil, nil, nil
}

func (t *Tree) fixDelete(x, parent *node) {
	for x != t.root && x.color == black {
		if x == parent.left {
			w := parent.right
			if w.color == red {
				w.color = black
				parent.color = red
				t.leftRotate(parent)
				w = parent.right
			}
			if w.left.color == black && w.right.color == black {
				w.color = red
				x = parent
				parent = x.parent
				continue
			}
			if w.right.color == black {
				w.left.color = black
				w.color = red
				t.rightRotate(w)
				w = parent.right
			}
			w.color = parent.color
			parent.color = black
			w.right.color = black
			t.leftRotate(parent)
			x = t.root
		} else {
			w := parent.left
			if w.color == red {
				w.color = black
				parent.color = red
				t.rightRotate(parent)
				w = parent.left
			}
			if w.left.color == black && w.right.color == black {
				w.color = red
				x = parent
				parent = x.parent
				continue
			}
			if w.left.color == black {
				w.right.color = black
				w.color = red
				t.leftRotate(w)
				w = parent.left
			}
			w.color = parent.color
			parent.color = black
			w.left.color = black
			t.rightRotate(parent)
			x = t.root
		}
	}
	if x != sentinel {
		x.color = black
	}
}
