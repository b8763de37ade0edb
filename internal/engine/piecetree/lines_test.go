package piecetree

import (
	"math/rand"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func TestLineContent(t *testing.T) {
	tr := build(t, "ab\r\ncd\re\n")

	tests := []struct {
		line    int
		content string
		raw     string
		length  int
	}{
		{1, "ab", "ab\r\n", 2},
		{2, "cd", "cd\r", 2},
		{3, "e", "e\n", 1},
		{4, "", "", 0},
		{0, "", "", 0},
		{5, "", "", 0},
	}
	for _, tt := range tests {
		if got := tr.LineContent(tt.line); got != tt.content {
			t.Errorf("LineContent(%d) = %q, want %q", tt.line, got, tt.content)
		}
		if got := tr.LineRawContent(tt.line); got != tt.raw {
			t.Errorf("LineRawContent(%d) = %q, want %q", tt.line, got, tt.raw)
		}
		if got := tr.LineLength(tt.line); got != tt.length {
			t.Errorf("LineLength(%d) = %d, want %d", tt.line, got, tt.length)
		}
	}
	require.Equal(t, []string{"ab", "cd", "e", ""}, tr.LinesContent())
}

func TestLineContentSpanningPieces(t *testing.T) {
	tr := build(t, "first line\nsecond")
	require.NoError(t, tr.Insert(6, "long ", false))
	require.NoError(t, tr.Insert(tr.Length(), " line\nthird", false))
	require.NoError(t, tr.Insert(0, ">> ", false))

	want := []string{">> first long line", "second line", "third"}
	// Read twice so the second pass is served from the cache.
	for pass := 0; pass < 2; pass++ {
		for i, line := range want {
			require.Equal(t, line, tr.LineContent(i+1), "pass %d", pass)
		}
	}
	for i := len(want); i >= 1; i-- {
		require.Equal(t, want[i-1], tr.LineContent(i))
	}
}

func TestLineCacheInvalidatedByEdit(t *testing.T) {
	tr := build(t, "one\ntwo\nthree")
	require.Equal(t, "two", tr.LineContent(2))

	require.NoError(t, tr.Insert(4, "TWO ", false))
	require.Equal(t, "TWO two", tr.LineContent(2))

	require.NoError(t, tr.Delete(0, 4))
	require.Equal(t, "TWO two", tr.LineContent(1))
	require.Equal(t, "three", tr.LineContent(2))
}

func TestPositionAt(t *testing.T) {
	tr := build(t, "ab\r\ncd\ne")

	tests := []struct {
		offset int
		want   Position
	}{
		{0, Position{1, 1}},
		{2, Position{1, 3}},
		{4, Position{2, 1}},
		{6, Position{2, 3}},
		{7, Position{3, 1}},
		{8, Position{3, 2}},
		{100, Position{3, 2}},
		{-3, Position{1, 1}},
	}
	for _, tt := range tests {
		if got := tr.PositionAt(tt.offset); got != tt.want {
			t.Errorf("PositionAt(%d) = %v, want %v", tt.offset, got, tt.want)
		}
	}
}

func TestOffsetAt(t *testing.T) {
	tr := build(t, "ab\r\ncd\ne")

	tests := []struct {
		pos  Position
		want int
	}{
		{Position{1, 1}, 0},
		{Position{1, 3}, 2},
		{Position{1, 10}, 2},
		{Position{2, 1}, 4},
		{Position{2, 3}, 6},
		{Position{3, 2}, 8},
		{Position{0, 5}, 0},
		{Position{9, 1}, 8},
		{Position{2, -4}, 4},
	}
	for _, tt := range tests {
		if got := tr.OffsetAt(tt.pos); got != tt.want {
			t.Errorf("OffsetAt(%v) = %d, want %d", tt.pos, got, tt.want)
		}
	}
}

func TestPositionsNeverSplitCodePoints(t *testing.T) {
	tr := build(t, "héllo\n日本")

	// 'é' occupies bytes 1-2.
	require.Equal(t, 1, tr.OffsetAt(Position{Line: 1, Column: 3}))
	require.Equal(t, Position{Line: 1, Column: 2}, tr.PositionAt(2))

	// '日' occupies bytes 7-9 and '本' bytes 10-12.
	require.Equal(t, 7, tr.OffsetAt(Position{Line: 2, Column: 3}))
	require.Equal(t, 10, tr.OffsetAt(Position{Line: 2, Column: 4}))
	require.Equal(t, Position{Line: 2, Column: 4}, tr.PositionAt(12))
}

func TestPositionRoundTripAgainstModel(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	tr := build(t)
	model := applyRandomEdits(t, rng, tr, "", 250)

	for off := 0; off <= len(model); off++ {
		if off < len(model) && !utf8.RuneStart(model[off]) {
			continue
		}
		if off > 0 && off < len(model) && model[off-1] == '\r' && model[off] == '\n' {
			continue
		}
		pos := tr.PositionAt(off)
		require.Equal(t, modelPosition(model, off), pos, "offset %d", off)
		require.Equal(t, off, tr.OffsetAt(pos), "position %v", pos)
	}
}

func TestValueInRange(t *testing.T) {
	tr := build(t, "a\r\nb\nc")
	r := Range{Start: Position{1, 1}, End: Position{3, 2}}

	require.Equal(t, "a\r\nb\nc", tr.ValueInRange(r, ""))
	require.Equal(t, "a\nb\nc", tr.ValueInRange(r, LF))
	require.Equal(t, "a\r\nb\r\nc", tr.ValueInRange(r, CRLF))

	reversed := Range{Start: r.End, End: r.Start}
	require.Equal(t, "a\r\nb\nc", tr.ValueInRange(reversed, ""))
}

// modelPosition computes the position of off by scanning s.
func modelPosition(s string, off int) Position {
	line, lineStart := 1, 0
	for i := 0; i < off; i++ {
		switch s[i] {
		case '\r':
			if i+1 < len(s) && s[i+1] == '\n' {
				if i+1 >= off {
					continue
				}
				i++
			}
			line++
			lineStart = i + 1
		case '\n':
			line++
			lineStart = i + 1
		}
	}
	return Position{Line: line, Column: off - lineStart + 1}
}
