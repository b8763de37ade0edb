package piecetree

import (
	"bytes"
	"io"
	"unicode/utf8"

	"golang.org/x/text/unicode/bidi"
)

// UTF8BOM is the byte order mark stripped from the start of input.
const UTF8BOM = "\uFEFF"

// Builder accumulates document text in arbitrary pieces and produces a
// Factory. Chunk boundaries may fall anywhere: a trailing '\r' or an
// incomplete UTF-8 sequence is held back until more input arrives.
type Builder struct {
	chunks  []*chunk
	pending []byte

	bom        string
	bomChecked bool

	cr, lf, crlf int

	isBasicASCII                   bool
	containsRTL                    bool
	containsUnusualLineTerminators bool
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{
		chunks:       make([]*chunk, 0, 16),
		isBasicASCII: true,
	}
}

// AcceptChunk appends a piece of text.
func (b *Builder) AcceptChunk(s string) {
	_, _ = b.Write([]byte(s))
}

// Write implements io.Writer. It never fails.
func (b *Builder) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	data := append(b.pending, p...)
	b.pending = nil

	if !b.bomChecked {
		if len(data) < len(UTF8BOM) && bytes.HasPrefix([]byte(UTF8BOM), data) {
			b.pending = data
			return len(p), nil
		}
		b.bomChecked = true
		if bytes.HasPrefix(data, []byte(UTF8BOM)) {
			b.bom = UTF8BOM
			data = data[len(UTF8BOM):]
		}
	}

	keep := holdBack(data)
	b.accept(data[:len(data)-keep])
	if keep > 0 {
		b.pending = append([]byte(nil), data[len(data)-keep:]...)
	}
	return len(p), nil
}

// ReadFrom implements io.ReaderFrom, reading r until EOF.
func (b *Builder) ReadFrom(r io.Reader) (int64, error) {
	buf := make([]byte, DefaultChunkSize)
	var total int64
	for {
		n, err := r.Read(buf)
		if n > 0 {
			total += int64(n)
			_, _ = b.Write(buf[:n])
		}
		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return total, err
		}
	}
}

// Finish flushes held-back input and returns a Factory. normalizeEOL
// requests that every line terminator be rewritten to the chosen EOL.
func (b *Builder) Finish(normalizeEOL bool) *Factory {
	if len(b.pending) > 0 {
		b.accept(b.pending)
		b.pending = nil
	}
	return &Factory{
		chunks:                         b.chunks,
		bom:                            b.bom,
		cr:                             b.cr,
		lf:                             b.lf,
		crlf:                           b.crlf,
		normalizeEOL:                   normalizeEOL,
		isBasicASCII:                   b.isBasicASCII,
		containsRTL:                    b.containsRTL,
		containsUnusualLineTerminators: b.containsUnusualLineTerminators,
	}
}

func (b *Builder) accept(data []byte) {
	for _, part := range splitText(data, DefaultChunkSize) {
		part = append([]byte(nil), part...)
		b.chunks = append(b.chunks, newChunk(part))

		cr, lf, crlf := lineBreaks(part)
		b.cr += cr
		b.lf += lf
		b.crlf += crlf
		b.scanFlags(part)
	}
}

func (b *Builder) scanFlags(data []byte) {
	basic := true
	for _, c := range data {
		if !isBasicASCII(c) {
			basic = false
			break
		}
	}
	if basic {
		return
	}
	b.isBasicASCII = false
	if b.containsRTL && b.containsUnusualLineTerminators {
		return
	}

	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r >= utf8.RuneSelf {
			if !b.containsRTL && isRTL(r) {
				b.containsRTL = true
			}
			if !b.containsUnusualLineTerminators && isUnusualLineTerminator(r) {
				b.containsUnusualLineTerminators = true
			}
		}
		i += size
	}
}

func isBasicASCII(c byte) bool {
	return c == '\t' || c == '\n' || c == '\r' || (c >= 0x20 && c <= 0x7e)
}

func isRTL(r rune) bool {
	props, _ := bidi.LookupRune(r)
	switch props.Class() {
	case bidi.R, bidi.AL:
		return true
	}
	return false
}

// isUnusualLineTerminator reports LINE SEPARATOR, PARAGRAPH SEPARATOR
// and NEXT LINE, which some tools treat as line breaks.
func isUnusualLineTerminator(r rune) bool {
	return r == '\u2028' || r == '\u2029' || r == '\u0085'
}

// Factory holds builder output and creates trees from it.
type Factory struct {
	chunks       []*chunk
	bom          string
	cr, lf, crlf int
	normalizeEOL bool

	isBasicASCII                   bool
	containsRTL                    bool
	containsUnusualLineTerminators bool
}

// BOM returns the byte order mark found at the start of input, if any.
func (f *Factory) BOM() string { return f.bom }

// IsBasicASCII reports whether input only held tabs, line breaks and
// printable ASCII.
func (f *Factory) IsBasicASCII() bool { return f.isBasicASCII }

// ContainsRTL reports whether input held right-to-left characters.
func (f *Factory) ContainsRTL() bool { return f.containsRTL }

// ContainsUnusualLineTerminators reports U+2028, U+2029 or U+0085.
func (f *Factory) ContainsUnusualLineTerminators() bool {
	return f.containsUnusualLineTerminators
}

// EOL returns the terminator a tree created with defaultEOL would use:
// defaultEOL without line breaks, CRLF when more than half of the breaks
// contain '\r', LF otherwise.
func (f *Factory) EOL(defaultEOL string) string {
	total := f.cr + f.lf + f.crlf
	if total == 0 {
		return defaultEOL
	}
	if 2*(f.cr+f.crlf) > total {
		return CRLF
	}
	return LF
}

// Create builds a tree. Terminators are rewritten when normalization
// was requested and input is not already uniform.
func (f *Factory) Create(defaultEOL string) *Tree {
	eol := f.EOL(defaultEOL)
	chunks := f.chunks

	if f.normalizeEOL && f.needsNormalizing(eol) {
		normalized := make([]*chunk, 0, len(chunks))
		for _, c := range chunks {
			for _, part := range splitText(normalizeEOL(c.data, eol), DefaultChunkSize) {
				normalized = append(normalized, newChunk(part))
			}
		}
		chunks = normalized
	}
	return newTree(chunks, eol, f.normalizeEOL)
}

func (f *Factory) needsNormalizing(eol string) bool {
	if eol == CRLF {
		return f.cr > 0 || f.lf > 0
	}
	return f.cr > 0 || f.crlf > 0
}

// FirstLineText returns up to limit bytes of the first line, never
// ending inside a UTF-8 sequence.
func (f *Factory) FirstLineText(limit int) string {
	var buf []byte
	for _, c := range f.chunks {
		if len(buf) >= limit {
			break
		}
		buf = append(buf, c.data[:min(len(c.data), limit-len(buf))]...)
	}
	if i := bytes.IndexAny(buf, "\r\n"); i >= 0 {
		return string(buf[:i])
	}
	return string(buf[:len(buf)-holdBack(buf)])
}
