package piecetree

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetEOL(t *testing.T) {
	tests := []struct {
		name string
		text string
		eol  string
		want string
	}{
		{"to crlf", "a\nb\rc\r\nd", CRLF, "a\r\nb\r\nc\r\nd"},
		{"to lf", "a\nb\rc\r\nd", LF, "a\nb\nc\nd"},
		{"trailing cr", "a\r", CRLF, "a\r\n"},
		{"empty", "", CRLF, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := build(t, tt.text)
			lines := tr.LineCount()
			tr.SetEOL(tt.eol)

			require.Equal(t, tt.want, tr.Text())
			require.Equal(t, tt.eol, tr.EOL())
			require.True(t, tr.EOLNormalized())
			require.Equal(t, lines, tr.LineCount())
			assertValid(t, tr)
		})
	}
}

func TestSetEOLLargeDocument(t *testing.T) {
	text := strings.Repeat("line\r", DefaultChunkSize/2)
	tr := build(t, text)
	tr.SetEOL(CRLF)

	require.Equal(t, strings.ReplaceAll(text, "\r", "\r\n"), tr.Text())
	for _, c := range tr.pool.chunks {
		require.LessOrEqual(t, len(c.data), DefaultChunkSize)
	}
	assertValid(t, tr)

	// Editing keeps working after the rebuild.
	require.NoError(t, tr.Insert(0, "x\n", true))
	require.Equal(t, "x\nline\r\n", tr.TextRange(0, 8))
	assertValid(t, tr)
}

func TestEditsSplittingCRLF(t *testing.T) {
	crlfTree := func(t *testing.T, text string) *Tree {
		t.Helper()
		b := NewBuilder()
		b.AcceptChunk(text)
		tr := b.Finish(true).Create(LF)
		require.Equal(t, CRLF, tr.EOL())
		require.True(t, tr.EOLNormalized())
		return tr
	}

	tests := []struct {
		name           string
		text           string
		edit           func(tr *Tree) error
		wantNormalized bool
		wantValue      string
	}{
		{
			name:      "insert between cr and lf",
			text:      "a\r\nb\r\nc",
			edit:      func(tr *Tree) error { return tr.Insert(2, "x", true) },
			wantValue: "a\r\nx\r\nb\r\nc",
		},
		{
			name:           "insert after crlf",
			text:           "a\r\nb\r\nc",
			edit:           func(tr *Tree) error { return tr.Insert(3, "y", true) },
			wantNormalized: true,
			wantValue:      "a\r\nyb\r\nc",
		},
		{
			name:      "delete lf",
			text:      "a\r\nb",
			edit:      func(tr *Tree) error { return tr.Delete(2, 1) },
			wantValue: "a\r\nb",
		},
		{
			name:      "delete cr",
			text:      "a\r\nb",
			edit:      func(tr *Tree) error { return tr.Delete(1, 1) },
			wantValue: "a\r\nb",
		},
		{
			name:      "trailing cr",
			text:      "a\r\n",
			edit:      func(tr *Tree) error { return tr.Delete(2, 1) },
			wantValue: "a\r\n",
		},
		{
			name:           "halves rejoined",
			text:           "a\r\nb\r\nc",
			edit:           func(tr *Tree) error { return tr.Delete(2, 3) },
			wantNormalized: true,
			wantValue:      "a\r\nc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := crlfTree(t, tt.text)
			require.NoError(t, tt.edit(tr))
			assertValid(t, tr)

			require.Equal(t, tt.wantNormalized, tr.EOLNormalized())
			whole := NewRange(Position{Line: 1, Column: 1}, tr.PositionAt(tr.Length()))
			require.Equal(t, tt.wantValue, tr.ValueInRange(whole, CRLF))
		})
	}
}
