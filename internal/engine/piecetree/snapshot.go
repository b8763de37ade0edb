package piecetree

import (
	"io"
	"strings"
)

// SnapshotChunkSize bounds the text returned by one Snapshot.Next call,
// unless a single piece is larger.
const SnapshotChunkSize = 64 * 1024

// Snapshot is a forward-only reader over the document as it was when
// the snapshot was taken. It holds length-capped views of the chunks,
// so later edits to the tree never show through.
//
// A Snapshot may be drained on another goroutine while the tree keeps
// changing. A single Snapshot is not safe for concurrent use.
type Snapshot struct {
	pieces  [][]byte
	bom     string
	index   int
	started bool
}

// CreateSnapshot captures the current pieces. bom is prepended to the
// first chunk read.
func (t *Tree) CreateSnapshot(bom string) *Snapshot {
	pieces := make([][]byte, 0, 16)
	t.forEachNode(func(n *node) bool {
		pieces = append(pieces, t.pool.bytes(n.piece))
		return true
	})
	return &Snapshot{pieces: pieces, bom: bom}
}

// Next returns the next run of text, or io.EOF once drained.
func (s *Snapshot) Next() (string, error) {
	var sb strings.Builder
	if !s.started {
		s.started = true
		sb.WriteString(s.bom)
	}
	for s.index < len(s.pieces) {
		p := s.pieces[s.index]
		if sb.Len() > 0 && sb.Len()+len(p) > SnapshotChunkSize {
			break
		}
		sb.Write(p)
		s.index++
	}
	if sb.Len() == 0 {
		return "", io.EOF
	}
	return sb.String(), nil
}

// WriteTo drains the snapshot into w. It implements io.WriterTo.
func (s *Snapshot) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for {
		chunk, err := s.Next()
		if err == io.EOF {
			return total, nil
		}
		n, err := io.WriteString(w, chunk)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
}
