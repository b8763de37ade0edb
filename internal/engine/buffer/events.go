package buffer

import (
	"slices"

	"github.com/dshills/piecetree/internal/engine/piecetree"
)

// ChangeEvent describes one primitive change, in coordinates of the
// document as it was just before that change. Events from one
// ApplyEdits call are delivered in application order, so each event's
// coordinates account for the ones before it.
type ChangeEvent struct {
	Type ChangeType

	// Range is the replaced span as 1-based positions.
	Range piecetree.Range

	// RangeOffset and RangeLength are the replaced span in bytes.
	RangeOffset ByteOffset
	RangeLength int

	Text    string // inserted text, after line ending normalization
	OldText string // removed text

	RevisionID RevisionID
}

// ChangeListener receives the events of one mutation.
type ChangeListener func(events []ChangeEvent)

// OnChange registers fn and returns a function that removes it.
// Listeners run after the buffer lock is released, on the goroutine
// that made the change, and may read the buffer.
func (b *Buffer) OnChange(fn ChangeListener) (unsubscribe func()) {
	b.listenerMu.Lock()
	id := b.nextID
	b.nextID++
	b.listeners[id] = fn
	b.listenerMu.Unlock()

	return func() {
		b.listenerMu.Lock()
		delete(b.listeners, id)
		b.listenerMu.Unlock()
	}
}

func (b *Buffer) notify(events []ChangeEvent) {
	if len(events) == 0 {
		return
	}
	b.listenerMu.Lock()
	ids := make([]int, 0, len(b.listeners))
	for id := range b.listeners {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	fns := make([]ChangeListener, 0, len(ids))
	for _, id := range ids {
		fns = append(fns, b.listeners[id])
	}
	b.listenerMu.Unlock()

	for _, fn := range fns {
		fn(events)
	}
}

func stamp(events []ChangeEvent, rev RevisionID) []ChangeEvent {
	for i := range events {
		events[i].RevisionID = rev
	}
	return events
}
