package buffer

import (
	"io"

	"github.com/dshills/piecetree/internal/engine/piecetree"
)

// Snapshot returns a reader over the buffer as it is now, BOM first.
// It may be drained on another goroutine while editing continues.
func (b *Buffer) Snapshot() *piecetree.Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tree.CreateSnapshot(b.bom)
}

// WriteTo writes the current content, BOM included, to w. The buffer
// lock is held only while the snapshot is taken.
func (b *Buffer) WriteTo(w io.Writer) (int64, error) {
	return b.Snapshot().WriteTo(w)
}
