package history

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dshills/piecetree/internal/engine/buffer"
)

// DefaultMaxEntries is used when NewHistory is given a non-positive limit.
const DefaultMaxEntries = 1000

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// entry is one undo unit.
type entry struct {
	name      string
	ops       []Operation
	timestamp time.Time
}

func (e *entry) info() OperationInfo {
	info := OperationInfo{Name: e.name, Timestamp: e.timestamp, Operations: len(e.ops)}
	for _, op := range e.ops {
		info.BytesDelta += op.BytesDelta()
	}
	return info
}

// History manages undo/redo state for a buffer.
type History struct {
	mu sync.Mutex

	undoStack []*entry
	redoStack []*entry

	// Grouping state
	grouping  bool
	groupName string
	groupOps  []Operation

	maxEntries int
}

// NewHistory creates a new history manager.
func NewHistory(maxEntries int) *History {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &History{maxEntries: maxEntries}
}

// Apply applies edit to buf and records it. Edits that change nothing
// are applied but not recorded.
func (h *History) Apply(buf *buffer.Buffer, edit buffer.Edit) (buffer.EditResult, error) {
	res, err := buf.ApplyEdit(edit)
	if err != nil {
		return res, err
	}
	op := operationFor(res)
	if op.IsNoop() {
		return res, nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.grouping {
		h.groupOps = append(h.groupOps, op)
		return res, nil
	}
	h.pushLocked(&entry{name: edit.String(), ops: []Operation{op}, timestamp: op.Timestamp})
	return res, nil
}

// pushLocked adds an undo unit and clears the redo stack.
func (h *History) pushLocked(e *entry) {
	h.undoStack = append(h.undoStack, e)
	h.redoStack = nil

	if len(h.undoStack) > h.maxEntries {
		excess := len(h.undoStack) - h.maxEntries
		h.undoStack = h.undoStack[excess:]
	}
}

// Undo reverts the most recent undo unit.
// The lock is released while the buffer is edited.
func (h *History) Undo(buf *buffer.Buffer) error {
	h.mu.Lock()
	if len(h.undoStack) == 0 {
		h.mu.Unlock()
		return ErrNothingToUndo
	}
	e := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.mu.Unlock()

	for i := len(e.ops) - 1; i >= 0; i-- {
		if err := replay(buf, e.ops[i].Invert(), e.ops[i+1:], true); err != nil {
			h.mu.Lock()
			h.undoStack = append(h.undoStack, e)
			h.mu.Unlock()
			return fmt.Errorf("undo %s: %w", e.name, err)
		}
	}

	h.mu.Lock()
	h.redoStack = append(h.redoStack, e)
	h.mu.Unlock()
	return nil
}

// Redo reapplies the most recently undone unit.
func (h *History) Redo(buf *buffer.Buffer) error {
	h.mu.Lock()
	if len(h.redoStack) == 0 {
		h.mu.Unlock()
		return ErrNothingToRedo
	}
	e := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.mu.Unlock()

	for i, op := range e.ops {
		if err := replay(buf, op, e.ops[:i], false); err != nil {
			h.mu.Lock()
			h.redoStack = append(h.redoStack, e)
			h.mu.Unlock()
			return fmt.Errorf("redo %s: %w", e.name, err)
		}
	}

	h.mu.Lock()
	h.undoStack = append(h.undoStack, e)
	h.mu.Unlock()
	return nil
}

// replay applies op verbatim. If it fails part way through a unit, the ops
// already replayed are rolled back so the buffer is left as it was.
func replay(buf *buffer.Buffer, op Operation, done []Operation, undoing bool) error {
	_, err := buf.ApplyRawEdit(op.Edit())
	if err == nil {
		return nil
	}
	if undoing {
		for _, d := range done {
			_, _ = buf.ApplyRawEdit(d.Edit())
		}
	} else {
		for i := len(done) - 1; i >= 0; i-- {
			_, _ = buf.ApplyRawEdit(done[i].Invert().Edit())
		}
	}
	return err
}

// CanUndo returns true if undo is available.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack) > 0
}

// CanRedo returns true if redo is available.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack) > 0
}

// UndoCount returns the number of undo units available.
func (h *History) UndoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack)
}

// RedoCount returns the number of redo units available.
func (h *History) RedoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack)
}

// BeginGroup starts a group. Edits applied while grouping are combined
// into a single undo unit. Nested calls are ignored.
func (h *History) BeginGroup(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.grouping {
		return
	}
	h.grouping = true
	h.groupName = name
	h.groupOps = nil
}

// EndGroup finishes a group and records it if it changed anything.
func (h *History) EndGroup() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.grouping {
		return
	}
	h.grouping = false
	if len(h.groupOps) > 0 {
		h.pushLocked(&entry{name: h.groupName, ops: h.groupOps, timestamp: time.Now()})
	}
	h.groupOps = nil
}

// CancelGroup ends a group without recording it.
// Edits already applied still affect the buffer.
func (h *History) CancelGroup() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.grouping = false
	h.groupOps = nil
}

// IsGrouping returns true if currently in a group.
func (h *History) IsGrouping() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.grouping
}

// Transaction runs fn inside a group. If fn fails, the edits it made
// are reverted and nothing is recorded.
func (h *History) Transaction(buf *buffer.Buffer, name string, fn func() error) error {
	h.BeginGroup(name)

	if err := fn(); err != nil {
		h.mu.Lock()
		ops := h.groupOps
		h.grouping = false
		h.groupOps = nil
		h.mu.Unlock()

		for i := len(ops) - 1; i >= 0; i-- {
			_, _ = buf.ApplyRawEdit(ops[i].Invert().Edit())
		}
		return err
	}

	h.EndGroup()
	return nil
}

// Clear removes all undo/redo history.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.undoStack = nil
	h.redoStack = nil
	h.grouping = false
	h.groupOps = nil
}

// PeekUndo returns info about the next undo unit without removing it.
func (h *History) PeekUndo() (OperationInfo, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.undoStack) == 0 {
		return OperationInfo{}, false
	}
	return h.undoStack[len(h.undoStack)-1].info(), true
}

// PeekRedo returns info about the next redo unit without removing it.
func (h *History) PeekRedo() (OperationInfo, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.redoStack) == 0 {
		return OperationInfo{}, false
	}
	return h.redoStack[len(h.redoStack)-1].info(), true
}

// SetMaxEntries changes the maximum number of undo units.
// If the current stack is larger, oldest units are removed.
func (h *History) SetMaxEntries(max int) {
	if max <= 0 {
		max = DefaultMaxEntries
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.maxEntries = max
	if len(h.undoStack) > max {
		h.undoStack = h.undoStack[len(h.undoStack)-max:]
	}
}
