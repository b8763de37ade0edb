package piecetree

import "unicode/utf8"

// DefaultChunkSize is the largest chunk created by the builder and by
// the insert path. Larger texts are split across several chunks.
const DefaultChunkSize = 65535

// chunk is a block of text plus the offsets of every line start in it.
// lineStarts[0] is always 0.
type chunk struct {
	data       []byte
	lineStarts []int
}

func newChunk(data []byte) *chunk {
	return &chunk{
		data:       data,
		lineStarts: computeLineStarts(data),
	}
}

// cursorAtEnd returns the cursor addressing the end of the chunk.
func (c *chunk) cursorAtEnd() bufferCursor {
	last := len(c.lineStarts) - 1
	return bufferCursor{line: last, column: len(c.data) - c.lineStarts[last]}
}

// computeLineStarts returns the offset following every "\r\n", lone "\r"
// and lone "\n" in data, preceded by 0.
func computeLineStarts(data []byte) []int {
	starts := make([]int, 1, 16)
	for i := 0; i < len(data); i++ {
		switch data[i] {
		case '\r':
			if i+1 < len(data) && data[i+1] == '\n' {
				i++
			}
			starts = append(starts, i+1)
		case '\n':
			starts = append(starts, i+1)
		}
	}
	return starts
}

// lineBreaks counts "\r", "\n" and "\r\n" in data, counting a pair once.
func lineBreaks(data []byte) (cr, lf, crlf int) {
	for i := 0; i < len(data); i++ {
		switch data[i] {
		case '\r':
			if i+1 < len(data) && data[i+1] == '\n' {
				crlf++
				i++
			} else {
				cr++
			}
		case '\n':
			lf++
		}
	}
	return cr, lf, crlf
}

// splitText cuts data into parts of at most size bytes. A cut never
// lands inside a UTF-8 sequence or between '\r' and '\n'.
func splitText(data []byte, size int) [][]byte {
	var parts [][]byte
	for len(data) > size {
		cut := findSplitPoint(data, size)
		parts = append(parts, data[:cut])
		data = data[cut:]
	}
	if len(data) > 0 {
		parts = append(parts, data)
	}
	return parts
}

// findSplitPoint finds a safe cut at or just before target.
func findSplitPoint(data []byte, target int) int {
	if target >= len(data) {
		return len(data)
	}
	cut := target
	for i := 0; i < utf8.UTFMax-1 && cut > 0 && !utf8.RuneStart(data[cut]); i++ {
		cut--
	}
	if !utf8.RuneStart(data[cut]) {
		// Invalid UTF-8: any cut is as good as another.
		cut = target
	}
	if cut > 0 && data[cut-1] == '\r' && data[cut] == '\n' {
		cut--
	}
	if cut == 0 {
		return target
	}
	return cut
}

// holdBack returns how many trailing bytes of data must wait for more
// input: a trailing '\r' that may pair with a later '\n', or an
// incomplete UTF-8 sequence.
func holdBack(data []byte) int {
	if len(data) == 0 {
		return 0
	}
	if data[len(data)-1] == '\r' {
		return 1
	}
	for i := len(data) - 1; i >= 0 && i >= len(data)-utf8.UTFMax; i-- {
		if utf8.RuneStart(data[i]) {
			if utf8.FullRune(data[i:]) {
				return 0
			}
			return len(data) - i
		}
	}
	return 0
}

// normalizeEOL rewrites every "\r\n", "\r" and "\n" in data as eol.
func normalizeEOL(data []byte, eol string) []byte {
	out := make([]byte, 0, len(data)+len(data)/16)
	for i := 0; i < len(data); i++ {
		switch data[i] {
		case '\r':
			if i+1 < len(data) && data[i+1] == '\n' {
				i++
			}
			out = append(out, eol...)
		case '\n':
			out = append(out, eol...)
		default:
			out = append(out, data[i])
		}
	}
	return out
}
