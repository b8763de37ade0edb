// Package piecetree implements a piece-table text store backed by a
// red-black tree.
//
// Document text lives in append-only chunks owned by a buffer pool. The
// document itself is an in-order sequence of pieces, each describing a
// contiguous range of one chunk. Pieces are kept in a red-black tree where
// every node caches the byte length and line-feed count of its left
// subtree, so offset and line lookups are O(log n).
//
// Key properties:
//   - Insert and Delete are O(log n) in the number of pieces
//   - A "\r\n" pair is never split across two pieces
//   - Line starts are indexed per chunk and never rescanned
//   - Snapshots are immune to later edits
//   - Reads are cached with a version counter bumped on every mutation
//
// Basic usage:
//
//	b := piecetree.NewBuilder()
//	b.AcceptChunk("hello\r\n")
//	b.AcceptChunk("world")
//	t := b.Finish(false).Create(piecetree.LF)
//
//	_ = t.Insert(5, ",", false)        // "hello,\r\nworld"
//	line := t.LineContent(1)           // "hello,"
//	pos := t.PositionAt(9)             // {Line: 2, Column: 2}
//
// A Tree has no internal locking for writers. Concurrent readers are safe
// between mutations; the buffer package provides a locked facade.
package piecetree
