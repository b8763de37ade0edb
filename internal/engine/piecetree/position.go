package piecetree

import "fmt"

// Position is a 1-based line and 1-based byte column.
type Position struct {
	Line   int
	Column int
}

// String returns a human-readable representation.
func (p Position) String() string {
	return fmt.Sprintf("(%d:%d)", p.Line, p.Column)
}

// Before reports whether p comes strictly before o.
func (p Position) Before(o Position) bool {
	return p.Line < o.Line || (p.Line == o.Line && p.Column < o.Column)
}

// Range is a span between two positions. End is exclusive.
type Range struct {
	Start Position
	End   Position
}

// NewRange creates a range, swapping the ends if needed.
func NewRange(start, end Position) Range {
	if end.Before(start) {
		start, end = end, start
	}
	return Range{Start: start, End: end}
}

// IsEmpty reports whether the range covers nothing.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// String returns a human-readable representation.
func (r Range) String() string {
	return fmt.Sprintf("[%s-%s]", r.Start, r.End)
}
