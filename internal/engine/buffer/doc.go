// Package buffer provides a thread-safe text buffer built on top of the
// piece tree. It is the interface editor code talks to.
//
// The buffer package provides:
//
//   - Thread-safe read/write access via sync.RWMutex
//   - Byte-offset edits, batched edits and change events
//   - Coordinate conversion between offsets, 1-based positions and
//     LSP-style UTF-16 points
//   - Line ending detection, normalization and conversion
//   - Find with literal, regex and whole-word patterns
//   - Snapshots that stay valid while the buffer changes
//
// Basic usage:
//
//	buf := buffer.NewBufferFromString("Hello, World!")
//
//	buf.Insert(7, "Beautiful ")  // "Hello, Beautiful World!"
//	buf.Delete(0, 7)             // "Beautiful World!"
//
//	stop := buf.OnChange(func(events []buffer.ChangeEvent) {
//	    for _, ev := range events {
//	        fmt.Println(ev.Type, ev.Range)
//	    }
//	})
//	defer stop()
//
//	snap := buf.Snapshot()
//	go snap.WriteTo(os.Stdout)
//
// Positions:
//
// Lines and columns in piecetree.Position are 1-based and columns count
// bytes. PointUTF16 is 0-based with a UTF-16 column, for LSP.
//
// Thread Safety:
//
// All Buffer methods are thread-safe. Read operations acquire a read lock,
// while write operations acquire an exclusive write lock. Change listeners
// run after the write lock is released.
package buffer
