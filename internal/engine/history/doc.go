// Package history provides undo and redo for buffer edits.
//
// Every edit applied through a History is recorded as an Operation that
// keeps the replaced text and the text actually stored, after line-ending
// normalization. Undo applies the inverse operations; redo replays them.
//
//	h := history.NewHistory(1000)
//	h.Apply(buf, buffer.NewInsert(0, "hello"))
//	h.Undo(buf)
//	h.Redo(buf)
//
// # Grouping
//
// Edits applied between BeginGroup and EndGroup undo as one unit:
//
//	err := h.Transaction("rename", func() error {
//	    if _, err := h.Apply(buf, first); err != nil {
//	        return err
//	    }
//	    _, err := h.Apply(buf, second)
//	    return err
//	})
//
// A History assumes it sees every edit made to its buffer. Edits made
// around it shift offsets under the recorded operations and make undo
// fail or misplace text. Line-ending conversions are not recorded.
package history
