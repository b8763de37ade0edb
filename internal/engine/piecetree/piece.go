package piecetree

// bufferCursor addresses a byte in a chunk as a line index into the
// chunk's lineStarts plus a byte column from that line start.
type bufferCursor struct {
	line   int
	column int
}

// piece describes the half-open range [start, end) of one chunk.
// Pieces are values: a node's piece is replaced, never modified.
type piece struct {
	bufferIndex int
	start       bufferCursor
	end         bufferCursor
	length      int
	lineFeedCnt int
}
