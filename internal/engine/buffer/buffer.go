package buffer

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/dshills/piecetree/internal/engine/piecetree"
	"github.com/dshills/piecetree/internal/logging"
)

// Errors returned by buffer operations.
var (
	ErrOffsetOutOfRange = piecetree.ErrOffsetOutOfRange
	ErrRangeInvalid     = errors.New("invalid range")
	ErrEditsOverlap     = errors.New("edits overlap")
	ErrEditsUnordered   = errors.New("edits are not in reverse order")
	ErrReadOnly         = errors.New("buffer is read-only")
)

// LineEnding specifies the line ending style.
type LineEnding uint8

const (
	LineEndingLF   LineEnding = iota // Unix: \n
	LineEndingCRLF                   // Windows: \r\n
)

// String returns the string representation of the line ending.
func (le LineEnding) String() string {
	if le == LineEndingCRLF {
		return "\\r\\n"
	}
	return "\\n"
}

// Sequence returns the actual line ending characters.
func (le LineEnding) Sequence() string {
	if le == LineEndingCRLF {
		return piecetree.CRLF
	}
	return piecetree.LF
}

// ParseLineEnding maps "lf" or "crlf" (any case) to a LineEnding.
func ParseLineEnding(name string) (LineEnding, error) {
	switch strings.ToLower(name) {
	case "lf", "\\n", "\n":
		return LineEndingLF, nil
	case "crlf", "\\r\\n", "\r\n":
		return LineEndingCRLF, nil
	default:
		return LineEndingLF, fmt.Errorf("unknown line ending %q", name)
	}
}

func lineEndingOf(eol string) LineEnding {
	if eol == piecetree.CRLF {
		return LineEndingCRLF
	}
	return LineEndingLF
}

// Buffer wraps a piece tree with locking, edit batching and change
// notification. All methods are thread-safe.
type Buffer struct {
	mu         sync.RWMutex
	tree       *piecetree.Tree
	bom        string
	revisionID RevisionID

	lineEnding   LineEnding
	normalizeEOL bool
	readOnly     bool
	debugChecks  bool
	searchLimit  int
	logger       *log.Logger

	listenerMu sync.Mutex
	listeners  map[int]ChangeListener
	nextID     int
}

// NewBuffer creates a new empty buffer.
func NewBuffer(opts ...Option) *Buffer {
	b := newBuffer(opts)
	b.load(piecetree.NewBuilder())
	return b
}

// NewBufferFromString creates a buffer with initial content.
func NewBufferFromString(s string, opts ...Option) *Buffer {
	b := newBuffer(opts)
	builder := piecetree.NewBuilder()
	builder.AcceptChunk(s)
	b.load(builder)
	return b
}

// NewBufferFromReader creates a buffer from an io.Reader. Input is fed
// to the builder as it arrives; a "\r\n" or a code point split across
// reads is handled by the builder.
func NewBufferFromReader(r io.Reader, opts ...Option) (*Buffer, error) {
	b := newBuffer(opts)
	builder := piecetree.NewBuilder()
	if _, err := builder.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("read buffer content: %w", err)
	}
	b.load(builder)
	return b, nil
}

func newBuffer(opts []Option) *Buffer {
	b := &Buffer{
		revisionID:   NewRevisionID(),
		lineEnding:   LineEndingLF,
		normalizeEOL: true,
		logger:       logging.Default(),
		listeners:    make(map[int]ChangeListener),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Buffer) load(builder *piecetree.Builder) {
	f := builder.Finish(b.normalizeEOL)
	b.tree = f.Create(b.lineEnding.Sequence())
	b.bom = f.BOM()
	b.lineEnding = lineEndingOf(b.tree.EOL())

	b.logger.Debug("buffer loaded",
		logging.FieldLength, b.tree.Length(),
		logging.FieldLines, b.tree.LineCount(),
		logging.FieldPieces, b.tree.PieceCount(),
		logging.FieldEOL, b.lineEnding,
		"bom", f.BOM() != "",
		"rtl", f.ContainsRTL(),
		"unusual_terminators", f.ContainsUnusualLineTerminators(),
	)
	b.checkIntegrity("load")
}

// normalizeLineEndings converts all line endings to the buffer's style.
func (b *Buffer) normalizeLineEndings(s string) string {
	if !strings.ContainsRune(s, '\r') && (b.lineEnding == LineEndingLF || !strings.Contains(s, "\n")) {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	if b.lineEnding == LineEndingCRLF {
		s = strings.ReplaceAll(s, "\n", "\r\n")
	}
	return s
}

// prepareText normalizes text when the buffer does so and reports
// whether text only uses the buffer's line ending. Raw text is never
// rewritten.
func (b *Buffer) prepareText(text string, raw bool) (string, bool) {
	if b.normalizeEOL && !raw {
		return b.normalizeLineEndings(text), true
	}
	return text, b.normalizeLineEndings(text) == text
}

// checkIntegrity verifies the tree in debug mode. A violation is a bug
// in the tree, so it is logged and then panics.
func (b *Buffer) checkIntegrity(op string) {
	if !b.debugChecks {
		return
	}
	if err := b.tree.AssertIntegrity(); err != nil {
		b.logger.Error("piece tree integrity check failed",
			"op", op,
			logging.FieldRevision, b.revisionID,
			logging.FieldError, err,
		)
		panic(err)
	}
}

// Read Operations

// Text returns the full buffer content as a string, without the BOM.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tree.Text()
}

// TextRange returns text in the given byte range, clamped to the buffer.
func (b *Buffer) TextRange(start, end ByteOffset) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tree.TextRange(start, end)
}

// ValueInRange returns the text between two positions with every line
// break rewritten as le.
func (b *Buffer) ValueInRange(r piecetree.Range, le LineEnding) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tree.ValueInRange(r, le.Sequence())
}

// Len returns the total byte length of the buffer.
func (b *Buffer) Len() ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tree.Length()
}

// LineCount returns the number of lines.
func (b *Buffer) LineCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tree.LineCount()
}

// LineText returns the text of a 1-based line without its terminator.
func (b *Buffer) LineText(line int) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tree.LineContent(line)
}

// LineRawText returns the text of a 1-based line including its terminator.
func (b *Buffer) LineRawText(line int) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tree.LineRawContent(line)
}

// LineLen returns the length of a 1-based line in bytes (without newline).
func (b *Buffer) LineLen(line int) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tree.LineLength(line)
}

// Lines returns every line without terminators.
func (b *Buffer) Lines() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tree.LinesContent()
}

// ByteAt returns the byte at the given offset.
func (b *Buffer) ByteAt(offset ByteOffset) (byte, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if offset < 0 || offset >= b.tree.Length() {
		return 0, false
	}
	return b.tree.ByteAt(offset), true
}

// RuneAt returns the rune at the given byte offset.
// Returns utf8.RuneError and size 0 if offset is out of range.
func (b *Buffer) RuneAt(offset ByteOffset) (rune, int) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if offset < 0 || offset >= b.tree.Length() {
		return utf8.RuneError, 0
	}
	return utf8.DecodeRuneInString(b.tree.TextRange(offset, offset+utf8.UTFMax))
}

// Coordinate Conversion

// PositionAt converts a byte offset to a 1-based line/column position.
func (b *Buffer) PositionAt(offset ByteOffset) piecetree.Position {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tree.PositionAt(offset)
}

// OffsetAt converts a 1-based position to a byte offset.
func (b *Buffer) OffsetAt(pos piecetree.Position) ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tree.OffsetAt(pos)
}

// OffsetToPointUTF16 converts a byte offset to a 0-based line and
// UTF-16 column, as used by LSP.
func (b *Buffer) OffsetToPointUTF16(offset ByteOffset) PointUTF16 {
	b.mu.RLock()
	defer b.mu.RUnlock()

	pos := b.tree.PositionAt(offset)
	lineStart := b.tree.OffsetAt(piecetree.Position{Line: pos.Line, Column: 1})
	lineText := b.tree.TextRange(lineStart, lineStart+pos.Column-1)

	return PointUTF16{Line: pos.Line - 1, Column: utf16ColumnFromString(lineText)}
}

// PointUTF16ToOffset converts a 0-based line and UTF-16 column to a
// byte offset.
func (b *Buffer) PointUTF16ToOffset(point PointUTF16) ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()

	line := min(max(point.Line+1, 1), b.tree.LineCount())
	lineStart := b.tree.OffsetAt(piecetree.Position{Line: line, Column: 1})
	lineText := b.tree.LineContent(line)

	return lineStart + byteOffsetFromUTF16Column(lineText, point.Column)
}

// Write Operations

// Insert inserts text at the given offset.
// Returns the end offset of the inserted text.
func (b *Buffer) Insert(offset ByteOffset, text string) (ByteOffset, error) {
	res, err := b.ApplyEdit(NewInsert(offset, text))
	if err != nil {
		return 0, err
	}
	return res.NewRange.End, nil
}

// Delete removes text in the given range.
func (b *Buffer) Delete(start, end ByteOffset) error {
	_, err := b.ApplyEdit(NewDelete(start, end))
	return err
}

// Replace replaces text in the given range with new text.
// Returns the end offset of the replacement text.
func (b *Buffer) Replace(start, end ByteOffset, text string) (ByteOffset, error) {
	res, err := b.ApplyEdit(NewEdit(NewRange(start, end), text))
	if err != nil {
		return 0, err
	}
	return res.NewRange.End, nil
}

// ApplyEdit applies a single edit to the buffer.
func (b *Buffer) ApplyEdit(edit Edit) (EditResult, error) {
	return b.applyEdit(edit, false)
}

// ApplyRawEdit applies edit with its text stored exactly as given, even
// when the buffer normalizes line endings. It replays text previously
// read back from the buffer.
func (b *Buffer) ApplyRawEdit(edit Edit) (EditResult, error) {
	return b.applyEdit(edit, true)
}

func (b *Buffer) applyEdit(edit Edit, raw bool) (EditResult, error) {
	b.mu.Lock()
	if err := b.checkWritable(); err != nil {
		b.mu.Unlock()
		return EditResult{}, err
	}
	if err := b.checkRange(edit.Range); err != nil {
		b.mu.Unlock()
		return EditResult{}, err
	}

	res, ev, err := b.applyLocked(edit, raw)
	if err != nil {
		b.mu.Unlock()
		return EditResult{}, err
	}
	b.revisionID = NewRevisionID()
	b.checkIntegrity("edit")
	events := stamp(ev, b.revisionID)
	b.mu.Unlock()

	b.notify(events)
	return res, nil
}

// ApplyEdits applies multiple edits atomically.
// Edits must be in reverse order (highest offset first) to maintain validity.
func (b *Buffer) ApplyEdits(edits []Edit) error {
	if len(edits) == 0 {
		return nil
	}

	b.mu.Lock()
	if err := b.checkWritable(); err != nil {
		b.mu.Unlock()
		return err
	}

	// Validate edits are non-overlapping and in reverse order
	for i := 1; i < len(edits); i++ {
		prev, cur := edits[i-1].Range, edits[i].Range
		if cur.Overlaps(prev) {
			b.mu.Unlock()
			return fmt.Errorf("%w: %s and %s", ErrEditsOverlap, prev, cur)
		}
		if cur.End > prev.Start {
			b.mu.Unlock()
			return fmt.Errorf("%w: %s after %s", ErrEditsUnordered, cur, prev)
		}
	}
	for _, edit := range edits {
		if err := b.checkRange(edit.Range); err != nil {
			b.mu.Unlock()
			return err
		}
	}

	var changes []ChangeEvent
	for _, edit := range edits {
		_, ev, err := b.applyLocked(edit, false)
		if err != nil {
			// Ranges were validated above, so the tree cannot refuse.
			panic(fmt.Sprintf("buffer: apply validated edit %s: %v", edit, err))
		}
		changes = append(changes, ev...)
	}
	b.revisionID = NewRevisionID()
	b.checkIntegrity("edits")
	events := stamp(changes, b.revisionID)
	b.mu.Unlock()

	b.notify(events)
	return nil
}

func (b *Buffer) checkWritable() error {
	if b.readOnly {
		return ErrReadOnly
	}
	return nil
}

func (b *Buffer) checkRange(r Range) error {
	if r.Start < 0 || r.Start > r.End || r.End > b.tree.Length() {
		return fmt.Errorf("%w: %s in buffer of length %d", ErrRangeInvalid, r, b.tree.Length())
	}
	return nil
}

// applyLocked performs one edit as a delete followed by an insert and
// returns the change events describing them.
func (b *Buffer) applyLocked(edit Edit, raw bool) (EditResult, []ChangeEvent, error) {
	start, end := edit.Range.Start, edit.Range.End
	text, normalized := b.prepareText(edit.NewText, raw)
	oldText := b.tree.TextRange(start, end)

	var events []ChangeEvent
	if start < end {
		ev := ChangeEvent{
			Type:        ChangeDelete,
			Range:       piecetree.NewRange(b.tree.PositionAt(start), b.tree.PositionAt(end)),
			RangeOffset: start,
			RangeLength: end - start,
			OldText:     oldText,
		}
		if err := b.tree.Delete(start, end-start); err != nil {
			return EditResult{}, nil, err
		}
		events = append(events, ev)
	}
	if text != "" {
		pos := b.tree.PositionAt(start)
		if err := b.tree.Insert(start, text, normalized); err != nil {
			return EditResult{}, nil, err
		}
		ev := ChangeEvent{
			Type:        ChangeInsert,
			Range:       piecetree.NewRange(pos, pos),
			RangeOffset: start,
			Text:        text,
		}
		if len(events) == 1 {
			// Merge into a single replace.
			ev.Type = ChangeReplace
			ev.Range = events[0].Range
			ev.RangeLength = events[0].RangeLength
			ev.OldText = oldText
			events = events[:0]
		}
		events = append(events, ev)
	}

	res := EditResult{
		OldRange: edit.Range,
		NewRange: Range{Start: start, End: start + len(text)},
		OldText:  oldText,
		NewText:  text,
		Delta:    int64(len(text)) - int64(edit.Range.Len()),
	}
	return res, events, nil
}

// SetLineEnding rewrites every line break in the buffer as le. Existing
// snapshots keep the old text.
func (b *Buffer) SetLineEnding(le LineEnding) error {
	b.mu.Lock()
	if err := b.checkWritable(); err != nil {
		b.mu.Unlock()
		return err
	}
	old := b.lineEnding
	b.tree.SetEOL(le.Sequence())
	b.lineEnding = le
	b.revisionID = NewRevisionID()
	b.checkIntegrity("set-eol")
	b.logger.Debug("line ending changed",
		"from", old,
		logging.FieldEOL, le,
		logging.FieldRevision, b.revisionID,
	)
	events := []ChangeEvent{{Type: ChangeEOL, RevisionID: b.revisionID}}
	b.mu.Unlock()

	b.notify(events)
	return nil
}

// Buffer State

// RevisionID returns the current revision ID.
func (b *Buffer) RevisionID() RevisionID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revisionID
}

// IsEmpty returns true if the buffer is empty.
func (b *Buffer) IsEmpty() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tree.Length() == 0
}

// LineEnding returns the buffer's line ending style.
func (b *Buffer) LineEnding() LineEnding {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lineEnding
}

// Bom returns the byte order mark the content was loaded with, if any.
func (b *Buffer) Bom() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.bom
}

// ReadOnly reports whether edits are rejected.
func (b *Buffer) ReadOnly() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.readOnly
}

// SetReadOnly toggles whether edits are rejected.
func (b *Buffer) SetReadOnly(readOnly bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.readOnly = readOnly
}

// PieceCount returns the number of pieces in the underlying tree.
func (b *Buffer) PieceCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tree.PieceCount()
}

// CheckIntegrity runs the tree's structural checks.
func (b *Buffer) CheckIntegrity() error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tree.AssertIntegrity()
}

// Helper functions for UTF-16 conversion

// utf16ColumnFromString counts UTF-16 code units in a string.
func utf16ColumnFromString(s string) int {
	var col int
	for _, r := range s {
		if r >= 0x10000 {
			col += 2 // Surrogate pair (characters outside BMP)
		} else {
			col++
		}
	}
	return col
}

// byteOffsetFromUTF16Column converts a UTF-16 column to byte offset within a line.
func byteOffsetFromUTF16Column(line string, utf16Col int) int {
	var col int
	for i, r := range line {
		if col >= utf16Col {
			return i
		}
		if r >= 0x10000 {
			col += 2 // Surrogate pair
		} else {
			col++
		}
	}
	return len(line)
}
