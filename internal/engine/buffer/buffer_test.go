package buffer

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"testing/iotest"

	"github.com/dshills/piecetree/internal/engine/piecetree"
	"github.com/dshills/piecetree/internal/engine/search"
	"github.com/dshills/piecetree/internal/logging"
)

func pos(line, col int) piecetree.Position {
	return piecetree.Position{Line: line, Column: col}
}

func TestNewBuffer(t *testing.T) {
	b := NewBuffer()

	if !b.IsEmpty() {
		t.Error("new buffer should be empty")
	}
	if b.Len() != 0 {
		t.Errorf("expected length 0, got %d", b.Len())
	}
	if b.LineCount() != 1 {
		t.Errorf("expected 1 line, got %d", b.LineCount())
	}
	if b.Bom() != "" {
		t.Errorf("expected no BOM, got %q", b.Bom())
	}
}

func TestNewBufferFromStringMultiline(t *testing.T) {
	b := NewBufferFromString("line1\nline2\nline3")

	if b.LineCount() != 3 {
		t.Errorf("expected 3 lines, got %d", b.LineCount())
	}
	for i, want := range []string{"line1", "line2", "line3"} {
		if got := b.LineText(i + 1); got != want {
			t.Errorf("LineText(%d) = %q, want %q", i+1, got, want)
		}
	}
	if got := b.LineRawText(1); got != "line1\n" {
		t.Errorf("LineRawText(1) = %q", got)
	}
	if got := b.LineLen(2); got != 5 {
		t.Errorf("LineLen(2) = %d, want 5", got)
	}
	if got := b.Lines(); len(got) != 3 || got[2] != "line3" {
		t.Errorf("Lines() = %q", got)
	}
}

func TestNewBufferFromReader(t *testing.T) {
	b, err := NewBufferFromReader(iotest.OneByteReader(strings.NewReader("\uFEFFa\r\nb\r\n")))
	if err != nil {
		t.Fatalf("NewBufferFromReader: %v", err)
	}
	if b.Text() != "a\r\nb\r\n" {
		t.Errorf("unexpected text %q", b.Text())
	}
	if b.Bom() != piecetree.UTF8BOM {
		t.Errorf("expected UTF-8 BOM, got %q", b.Bom())
	}
	if b.LineCount() != 3 {
		t.Errorf("expected 3 lines, got %d", b.LineCount())
	}
	if err := b.CheckIntegrity(); err != nil {
		t.Errorf("CheckIntegrity: %v", err)
	}
}

func TestNewBufferFromReaderError(t *testing.T) {
	boom := errors.New("boom")
	_, err := NewBufferFromReader(iotest.ErrReader(boom))
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped read error, got %v", err)
	}
}

func TestBufferInsert(t *testing.T) {
	tests := []struct {
		name    string
		initial string
		offset  int
		text    string
		want    string
		wantEnd int
	}{
		{"middle", "Hello World", 5, ",", "Hello, World", 6},
		{"start", "World", 0, "Hello ", "Hello World", 6},
		{"end", "Hello", 5, " World", "Hello World", 11},
		{"empty buffer", "", 0, "abc", "abc", 3},
		{"empty text", "abc", 1, "", "abc", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBufferFromString(tt.initial, WithIntegrityChecks(true))
			end, err := b.Insert(tt.offset, tt.text)
			if err != nil {
				t.Fatalf("insert failed: %v", err)
			}
			if end != tt.wantEnd {
				t.Errorf("expected end %d, got %d", tt.wantEnd, end)
			}
			if b.Text() != tt.want {
				t.Errorf("expected %q, got %q", tt.want, b.Text())
			}
		})
	}
}

func TestBufferInsertOutOfRange(t *testing.T) {
	b := NewBufferFromString("Hello")

	for _, off := range []int{-1, 6, 100} {
		if _, err := b.Insert(off, "X"); !errors.Is(err, ErrRangeInvalid) {
			t.Errorf("Insert(%d): expected ErrRangeInvalid, got %v", off, err)
		}
	}
	if b.Text() != "Hello" {
		t.Errorf("failed insert changed text to %q", b.Text())
	}
}

func TestBufferDelete(t *testing.T) {
	b := NewBufferFromString("Hello, World", WithIntegrityChecks(true))

	if err := b.Delete(5, 7); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if b.Text() != "HelloWorld" {
		t.Errorf("expected 'HelloWorld', got %q", b.Text())
	}

	for _, r := range []Range{{-1, 2}, {3, 2}, {0, 11}} {
		if err := b.Delete(r.Start, r.End); !errors.Is(err, ErrRangeInvalid) {
			t.Errorf("Delete%s: expected ErrRangeInvalid, got %v", r, err)
		}
	}
}

func TestBufferReplace(t *testing.T) {
	b := NewBufferFromString("Hello World")

	end, err := b.Replace(6, 11, "Go")
	if err != nil {
		t.Fatalf("replace failed: %v", err)
	}
	if end != 8 {
		t.Errorf("expected end 8, got %d", end)
	}
	if b.Text() != "Hello Go" {
		t.Errorf("expected 'Hello Go', got %q", b.Text())
	}
}

func TestBufferApplyEdit(t *testing.T) {
	b := NewBufferFromString("Hello World")

	res, err := b.ApplyEdit(NewEdit(NewRange(6, 11), "Go"))
	if err != nil {
		t.Fatalf("apply edit failed: %v", err)
	}
	if res.OldText != "World" {
		t.Errorf("expected old text 'World', got %q", res.OldText)
	}
	if res.NewRange != (Range{Start: 6, End: 8}) {
		t.Errorf("unexpected new range %s", res.NewRange)
	}
	if res.Delta != -3 {
		t.Errorf("expected delta -3, got %d", res.Delta)
	}
}

func TestBufferApplyRawEdit(t *testing.T) {
	b := NewBufferFromString("a\r\nb", WithIntegrityChecks(true))

	res, err := b.ApplyEdit(NewInsert(1, "\n"))
	if err != nil {
		t.Fatalf("apply edit failed: %v", err)
	}
	if res.NewText != "\r\n" || res.NewRange != (Range{Start: 1, End: 3}) {
		t.Errorf("expected normalized text, got %q %s", res.NewText, res.NewRange)
	}

	res, err = b.ApplyRawEdit(NewInsert(0, "x\n"))
	if err != nil {
		t.Fatalf("apply raw edit failed: %v", err)
	}
	if res.NewText != "x\n" {
		t.Errorf("raw text should be stored as given, got %q", res.NewText)
	}
	if want := "x\na\r\n\r\nb"; b.Text() != want {
		t.Errorf("expected %q, got %q", want, b.Text())
	}

	// Mixed terminators are rewritten on the way out.
	whole := piecetree.NewRange(pos(1, 1), b.PositionAt(b.Len()))
	if got := b.ValueInRange(whole, LineEndingCRLF); got != "x\r\na\r\n\r\nb" {
		t.Errorf("unexpected value %q", got)
	}
}

func TestBufferInsertSplittingCRLF(t *testing.T) {
	b := NewBufferFromString("a\r\nb")
	if b.LineEnding() != LineEndingCRLF {
		t.Fatalf("expected CRLF, got %s", b.LineEnding())
	}

	if _, err := b.Insert(2, "x"); err != nil {
		t.Fatal(err)
	}
	if b.Text() != "a\rx\nb" {
		t.Errorf("unexpected text %q", b.Text())
	}
	whole := piecetree.NewRange(pos(1, 1), b.PositionAt(b.Len()))
	if got := b.ValueInRange(whole, LineEndingCRLF); got != "a\r\nx\r\nb" {
		t.Errorf("split terminators should be rewritten, got %q", got)
	}
}

func TestBufferApplyEdits(t *testing.T) {
	b := NewBufferFromString("Hello World", WithIntegrityChecks(true))

	var got [][]ChangeEvent
	b.OnChange(func(events []ChangeEvent) { got = append(got, events) })

	err := b.ApplyEdits([]Edit{
		NewEdit(NewRange(6, 11), "There"),
		NewEdit(NewRange(0, 5), "Hi"),
	})
	if err != nil {
		t.Fatalf("apply edits failed: %v", err)
	}
	if b.Text() != "Hi There" {
		t.Errorf("expected 'Hi There', got %q", b.Text())
	}

	if len(got) != 1 || len(got[0]) != 2 {
		t.Fatalf("expected one notification with two events, got %v", got)
	}
	first, second := got[0][0], got[0][1]
	if first.Type != ChangeReplace || first.RangeOffset != 6 || first.RangeLength != 5 || first.Text != "There" {
		t.Errorf("unexpected first event %+v", first)
	}
	if first.Range != piecetree.NewRange(pos(1, 7), pos(1, 12)) {
		t.Errorf("unexpected first range %s", first.Range)
	}
	if second.Range != piecetree.NewRange(pos(1, 1), pos(1, 6)) || second.OldText != "Hello" {
		t.Errorf("unexpected second event %+v", second)
	}
	if first.RevisionID != b.RevisionID() || second.RevisionID != b.RevisionID() {
		t.Error("events should carry the new revision")
	}
}

func TestBufferApplyEditsRejected(t *testing.T) {
	b := NewBufferFromString("Hello World")
	rev := b.RevisionID()

	err := b.ApplyEdits([]Edit{
		NewEdit(NewRange(0, 5), "A"),
		NewEdit(NewRange(3, 8), "B"),
	})
	if !errors.Is(err, ErrEditsOverlap) {
		t.Errorf("expected ErrEditsOverlap, got %v", err)
	}

	err = b.ApplyEdits([]Edit{
		NewEdit(NewRange(0, 1), "A"),
		NewEdit(NewRange(6, 7), "B"),
	})
	if !errors.Is(err, ErrEditsUnordered) {
		t.Errorf("expected ErrEditsUnordered, got %v", err)
	}

	err = b.ApplyEdits([]Edit{
		NewEdit(NewRange(20, 25), "A"),
		NewEdit(NewRange(0, 1), "B"),
	})
	if !errors.Is(err, ErrRangeInvalid) {
		t.Errorf("expected ErrRangeInvalid, got %v", err)
	}

	if b.Text() != "Hello World" || b.RevisionID() != rev {
		t.Error("rejected batch must leave the buffer untouched")
	}
	if err := b.ApplyEdits(nil); err != nil {
		t.Errorf("empty batch: %v", err)
	}
}

func TestBufferChangeEvents(t *testing.T) {
	b := NewBufferFromString("ab\ncd")

	var events []ChangeEvent
	stop := b.OnChange(func(evs []ChangeEvent) {
		// Listeners run unlocked and may read the buffer.
		_ = b.Text()
		events = append(events, evs...)
	})

	if _, err := b.Insert(3, "X"); err != nil {
		t.Fatal(err)
	}
	if err := b.Delete(1, 4); err != nil {
		t.Fatal(err)
	}

	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	ins := events[0]
	if ins.Type != ChangeInsert || ins.Range != piecetree.NewRange(pos(2, 1), pos(2, 1)) || ins.RangeOffset != 3 || ins.Text != "X" {
		t.Errorf("unexpected insert event %+v", ins)
	}
	del := events[1]
	if del.Type != ChangeDelete || del.Range != piecetree.NewRange(pos(1, 2), pos(2, 2)) || del.RangeLength != 3 || del.OldText != "b\nX" {
		t.Errorf("unexpected delete event %+v", del)
	}

	stop()
	if _, err := b.Insert(0, "Z"); err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 {
		t.Error("listener called after unsubscribe")
	}
}

func TestBufferReadOnly(t *testing.T) {
	b := NewBufferFromString("text", WithReadOnly())

	if _, err := b.Insert(0, "X"); !errors.Is(err, ErrReadOnly) {
		t.Errorf("Insert: expected ErrReadOnly, got %v", err)
	}
	if err := b.Delete(0, 1); !errors.Is(err, ErrReadOnly) {
		t.Errorf("Delete: expected ErrReadOnly, got %v", err)
	}
	if err := b.ApplyEdits([]Edit{NewInsert(0, "X")}); !errors.Is(err, ErrReadOnly) {
		t.Errorf("ApplyEdits: expected ErrReadOnly, got %v", err)
	}
	if err := b.SetLineEnding(LineEndingCRLF); !errors.Is(err, ErrReadOnly) {
		t.Errorf("SetLineEnding: expected ErrReadOnly, got %v", err)
	}

	b.SetReadOnly(false)
	if _, err := b.Insert(0, "X"); err != nil {
		t.Errorf("Insert after SetReadOnly(false): %v", err)
	}
	if b.ReadOnly() {
		t.Error("ReadOnly() should be false")
	}
}

func TestBufferLineEndingNormalization(t *testing.T) {
	tests := []struct {
		name    string
		initial string
		want    string
		wantEOL LineEnding
	}{
		{"crlf kept", "line1\r\nline2\r\n", "line1\r\nline2\r\n", LineEndingCRLF},
		{"lone cr counts as crlf", "line1\rline2\r", "line1\r\nline2\r\n", LineEndingCRLF},
		{"lf majority", "a\nb\r\nc\n", "a\nb\nc\n", LineEndingLF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBufferFromString(tt.initial)
			if b.Text() != tt.want {
				t.Errorf("expected %q, got %q", tt.want, b.Text())
			}
			if b.LineEnding() != tt.wantEOL {
				t.Errorf("expected %s, got %s", tt.wantEOL, b.LineEnding())
			}
		})
	}
}

func TestBufferWithCRLFLineEnding(t *testing.T) {
	b := NewBufferFromString("single", WithCRLF())
	if b.LineEnding() != LineEndingCRLF {
		t.Fatalf("expected CRLF default, got %s", b.LineEnding())
	}

	if _, err := b.Insert(b.Len(), "\nline2\rline3"); err != nil {
		t.Fatal(err)
	}
	if want := "single\r\nline2\r\nline3"; b.Text() != want {
		t.Errorf("expected %q, got %q", want, b.Text())
	}

	// Content with line breaks keeps its own style.
	b = NewBufferFromString("a\nb", WithCRLF())
	if b.LineEnding() != LineEndingLF {
		t.Errorf("expected LF from content, got %s", b.LineEnding())
	}
}

func TestBufferWithoutNormalization(t *testing.T) {
	b := NewBufferFromString("a\r\nb\nc", WithNormalizeEOL(false), WithIntegrityChecks(true))
	if b.Text() != "a\r\nb\nc" {
		t.Errorf("text changed to %q", b.Text())
	}

	if _, err := b.Insert(0, "x\ry\n"); err != nil {
		t.Fatal(err)
	}
	if b.Text() != "x\ry\na\r\nb\nc" {
		t.Errorf("inserted text was rewritten: %q", b.Text())
	}
	if b.LineCount() != 5 {
		t.Errorf("expected 5 lines, got %d", b.LineCount())
	}
}

func TestBufferSetLineEnding(t *testing.T) {
	b := NewBufferFromString("a\nb\nc")
	snap := b.Snapshot()

	var events []ChangeEvent
	b.OnChange(func(evs []ChangeEvent) { events = append(events, evs...) })

	if err := b.SetLineEnding(LineEndingCRLF); err != nil {
		t.Fatal(err)
	}
	if b.Text() != "a\r\nb\r\nc" {
		t.Errorf("expected CRLF text, got %q", b.Text())
	}
	if b.LineEnding() != LineEndingCRLF {
		t.Errorf("expected CRLF, got %s", b.LineEnding())
	}
	if len(events) != 1 || events[0].Type != ChangeEOL {
		t.Errorf("expected one eol event, got %+v", events)
	}

	var old bytes.Buffer
	if _, err := snap.WriteTo(&old); err != nil {
		t.Fatal(err)
	}
	if old.String() != "a\nb\nc" {
		t.Errorf("snapshot changed to %q", old.String())
	}
}

func TestBufferValueInRange(t *testing.T) {
	b := NewBufferFromString("one\ntwo\nthree")
	got := b.ValueInRange(piecetree.NewRange(pos(1, 2), pos(3, 3)), LineEndingCRLF)
	if got != "ne\r\ntwo\r\nth" {
		t.Errorf("unexpected value %q", got)
	}
}

func TestBufferPositions(t *testing.T) {
	b := NewBufferFromString("ab\ncd")

	if got := b.PositionAt(4); got != pos(2, 2) {
		t.Errorf("PositionAt(4) = %s", got)
	}
	if got := b.OffsetAt(pos(2, 2)); got != 4 {
		t.Errorf("OffsetAt(2:2) = %d", got)
	}
	if got := b.PositionAt(100); got != pos(2, 3) {
		t.Errorf("PositionAt clamps, got %s", got)
	}
}

func TestBufferRuneAndByteAt(t *testing.T) {
	b := NewBufferFromString("h\u00e9llo")

	if r, size := b.RuneAt(1); r != '\u00e9' || size != 2 {
		t.Errorf("RuneAt(1) = %q, %d", r, size)
	}
	if r, size := b.RuneAt(10); size != 0 || r != '\uFFFD' {
		t.Errorf("RuneAt(10) = %q, %d", r, size)
	}
	if c, ok := b.ByteAt(0); !ok || c != 'h' {
		t.Errorf("ByteAt(0) = %q, %v", c, ok)
	}
	if _, ok := b.ByteAt(-1); ok {
		t.Error("ByteAt(-1) should fail")
	}
}

func TestBufferUTF16Conversion(t *testing.T) {
	// "a" + U+1F600 (surrogate pair in UTF-16) + "b", then "xy".
	b := NewBufferFromString("a\U0001F600b\nxy")

	tests := []struct {
		offset int
		point  PointUTF16
	}{
		{0, PointUTF16{0, 0}},
		{1, PointUTF16{0, 1}},
		{5, PointUTF16{0, 3}},
		{6, PointUTF16{0, 4}},
		{8, PointUTF16{1, 1}},
	}
	for _, tt := range tests {
		if got := b.OffsetToPointUTF16(tt.offset); got != tt.point {
			t.Errorf("OffsetToPointUTF16(%d) = %s, want %s", tt.offset, got, tt.point)
		}
		if got := b.PointUTF16ToOffset(tt.point); got != tt.offset {
			t.Errorf("PointUTF16ToOffset(%s) = %d, want %d", tt.point, got, tt.offset)
		}
	}

	if got := b.PointUTF16ToOffset(PointUTF16{1, 10}); got != 9 {
		t.Errorf("column past end should clamp to line end, got %d", got)
	}
	if got := b.PointUTF16ToOffset(PointUTF16{5, 0}); got != 7 {
		t.Errorf("line past end should clamp to last line, got %d", got)
	}
}

func TestBufferFind(t *testing.T) {
	b := NewBufferFromString("foo bar foo\nFoo")

	matches, err := b.FindAll(search.Params{Pattern: "foo"}, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 3 {
		t.Errorf("expected 3 case-insensitive matches, got %d", len(matches))
	}

	limited := NewBufferFromString("foo bar foo\nFoo", WithSearchLimit(2))
	matches, err = limited.FindAll(search.Params{Pattern: "foo"}, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 2 {
		t.Errorf("expected search limit of 2, got %d", len(matches))
	}

	_, err = b.FindAll(search.Params{Pattern: "(", IsRegex: true}, false)
	if !errors.Is(err, search.ErrBadPattern) {
		t.Errorf("expected ErrBadPattern, got %v", err)
	}
}

func TestBufferFindNextPrevious(t *testing.T) {
	b := NewBufferFromString("foo bar foo\nFoo")
	p := search.Params{Pattern: "foo", MatchCase: true}

	m, ok, err := b.FindNextMatch(p, pos(1, 2), false)
	if err != nil || !ok {
		t.Fatalf("FindNextMatch: %v %v", ok, err)
	}
	if m.Range != piecetree.NewRange(pos(1, 9), pos(1, 12)) {
		t.Errorf("unexpected next match %s", m.Range)
	}

	m, ok, _ = b.FindNextMatch(p, pos(2, 1), false)
	if !ok || m.Range != piecetree.NewRange(pos(1, 1), pos(1, 4)) {
		t.Errorf("expected wrap-around to first match, got %s %v", m.Range, ok)
	}

	m, ok, _ = b.FindPreviousMatch(p, pos(1, 9), false)
	if !ok || m.Range != piecetree.NewRange(pos(1, 1), pos(1, 4)) {
		t.Errorf("unexpected previous match %s %v", m.Range, ok)
	}

	if _, _, err := b.FindPreviousMatch(search.Params{Pattern: "[", IsRegex: true}, pos(1, 1), false); !errors.Is(err, search.ErrBadPattern) {
		t.Errorf("expected ErrBadPattern, got %v", err)
	}
}

func TestBufferSnapshotAndWriteTo(t *testing.T) {
	b := NewBufferFromString("\uFEFFHello")
	snap := b.Snapshot()

	if _, err := b.Insert(5, " World"); err != nil {
		t.Fatal(err)
	}

	first, err := snap.Next()
	if err != nil {
		t.Fatal(err)
	}
	if first != "\uFEFFHello" {
		t.Errorf("snapshot should not see later edits, got %q", first)
	}
	if _, err := snap.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("expected io.EOF, got %v", err)
	}

	var out bytes.Buffer
	n, err := b.WriteTo(&out)
	if err != nil {
		t.Fatal(err)
	}
	if out.String() != "\uFEFFHello World" || n != int64(out.Len()) {
		t.Errorf("WriteTo wrote %q (%d)", out.String(), n)
	}
}

func TestBufferLogging(t *testing.T) {
	var logs bytes.Buffer
	b := NewBufferFromString("abc",
		WithIntegrityChecks(true),
		WithLogger(logging.NewWithWriter(&logs, "debug")),
	)
	if _, err := b.Insert(1, "x"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(logs.String(), "buffer loaded") {
		t.Errorf("expected load to be logged, got %q", logs.String())
	}
	if strings.Contains(logs.String(), "integrity check failed") {
		t.Errorf("healthy tree reported as corrupt: %q", logs.String())
	}
}

func TestBufferRevisionID(t *testing.T) {
	b := NewBuffer()
	rev1 := b.RevisionID()

	b.Insert(0, "Hello")
	rev2 := b.RevisionID()
	if rev1 == rev2 {
		t.Error("revision ID should change after insert")
	}

	b.Delete(0, 5)
	if rev2 == b.RevisionID() {
		t.Error("revision ID should change after delete")
	}
}

func TestBufferConcurrentReadWrite(t *testing.T) {
	b := NewBufferFromString("Hello", WithCRLF(), WithIntegrityChecks(true))

	var wg sync.WaitGroup

	// Writers
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				b.Insert(0, "X\r\n")
			}
		}()
	}

	// Readers
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				_ = b.Text()
				_ = b.LineText(2)
				_, _ = b.FindAll(search.Params{Pattern: "X"}, false)
				var sink bytes.Buffer
				_, _ = b.Snapshot().WriteTo(&sink)
			}
		}()
	}

	wg.Wait()

	if b.Len() != 5+100*3 {
		t.Errorf("expected length %d, got %d", 5+100*3, b.Len())
	}
	if b.LineCount() != 101 {
		t.Errorf("expected 101 lines, got %d", b.LineCount())
	}
}

func TestDetectLineEnding(t *testing.T) {
	tests := []struct {
		text string
		want LineEnding
	}{
		{"no breaks", LineEndingLF},
		{"a\nb\n", LineEndingLF},
		{"a\r\nb\r\n", LineEndingCRLF},
		{"a\rb\r", LineEndingCRLF},
		{"a\r\nb\nc\n", LineEndingLF},
	}
	for _, tt := range tests {
		if got := DetectLineEnding(tt.text); got != tt.want {
			t.Errorf("DetectLineEnding(%q) = %s, want %s", tt.text, got, tt.want)
		}
	}
}

func TestParseLineEnding(t *testing.T) {
	for _, name := range []string{"lf", "LF", "\\n"} {
		if le, err := ParseLineEnding(name); err != nil || le != LineEndingLF {
			t.Errorf("ParseLineEnding(%q) = %s, %v", name, le, err)
		}
	}
	for _, name := range []string{"crlf", "CRLF", "\\r\\n"} {
		if le, err := ParseLineEnding(name); err != nil || le != LineEndingCRLF {
			t.Errorf("ParseLineEnding(%q) = %s, %v", name, le, err)
		}
	}
	if _, err := ParseLineEnding("cr"); err == nil {
		t.Error("ParseLineEnding(cr) should fail")
	}
}

func TestEditString(t *testing.T) {
	tests := []struct {
		edit Edit
		want string
	}{
		{NewInsert(3, "x"), `Insert(3, "x")`},
		{NewDelete(1, 4), "Delete[1:4)"},
		{NewEdit(NewRange(0, 2), "y"), `Replace[0:2) with "y"`},
	}
	for _, tt := range tests {
		if got := tt.edit.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
