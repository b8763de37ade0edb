package history

import (
	"time"

	"github.com/dshills/piecetree/internal/engine/buffer"
)

// Operation represents a single applied edit with enough state to
// reverse it.
type Operation struct {
	Range     buffer.Range // Range replaced, in the document before the edit
	OldText   string       // Text that was replaced (for undo)
	NewText   string       // Text as stored after the edit (for redo)
	Timestamp time.Time    // When the operation occurred
}

// operationFor records the edit that produced res.
func operationFor(res buffer.EditResult) Operation {
	return Operation{
		Range:     res.OldRange,
		OldText:   res.OldText,
		NewText:   res.NewText,
		Timestamp: time.Now(),
	}
}

// IsNoop returns true if this operation makes no changes.
func (op Operation) IsNoop() bool {
	return op.Range.IsEmpty() && op.NewText == ""
}

// BytesDelta returns the change in document length.
func (op Operation) BytesDelta() int {
	return len(op.NewText) - op.Range.Len()
}

// NewRange returns the range of the text after the operation.
func (op Operation) NewRange() buffer.Range {
	return buffer.Range{Start: op.Range.Start, End: op.Range.Start + len(op.NewText)}
}

// Edit returns the buffer edit that performs the operation. Apply it
// with Buffer.ApplyRawEdit so the stored text is reproduced exactly.
func (op Operation) Edit() buffer.Edit {
	return buffer.NewEdit(op.Range, op.NewText)
}

// Invert returns an operation that undoes this one.
func (op Operation) Invert() Operation {
	return Operation{
		Range:     op.NewRange(),
		OldText:   op.NewText,
		NewText:   op.OldText,
		Timestamp: time.Now(),
	}
}

// OperationInfo provides read-only info about an undo unit.
type OperationInfo struct {
	Name       string    // Group name, or the edit description for single edits
	Timestamp  time.Time // When the unit was recorded
	Operations int       // Number of edits in the unit
	BytesDelta int       // Positive for insertions, negative for deletions
}
