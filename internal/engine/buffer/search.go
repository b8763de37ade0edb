package buffer

import (
	"github.com/dshills/piecetree/internal/engine/piecetree"
	"github.com/dshills/piecetree/internal/engine/search"
	"github.com/dshills/piecetree/internal/logging"
)

// FindMatches compiles p and returns its matches inside r, at most
// limit of them. A limit of zero falls back to the buffer's search
// limit. An empty pattern yields no matches.
func (b *Buffer) FindMatches(p search.Params, r piecetree.Range, captureGroups bool, limit int) ([]piecetree.FindMatch, error) {
	data, err := p.Compile()
	if err != nil {
		return nil, err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if limit == 0 {
		limit = b.searchLimit
	}
	matches := b.tree.FindMatches(r, data, captureGroups, limit)
	b.logger.Debug("find matches", logging.FieldPattern, p.Pattern, logging.FieldMatches, len(matches))
	return matches, nil
}

// FindAll searches the whole buffer.
func (b *Buffer) FindAll(p search.Params, captureGroups bool) ([]piecetree.FindMatch, error) {
	b.mu.RLock()
	whole := piecetree.NewRange(piecetree.Position{Line: 1, Column: 1}, b.tree.PositionAt(b.tree.Length()))
	b.mu.RUnlock()
	return b.FindMatches(p, whole, captureGroups, 0)
}

// FindNextMatch returns the first match at or after pos, wrapping
// around to the start of the buffer.
func (b *Buffer) FindNextMatch(p search.Params, pos piecetree.Position, captureGroups bool) (piecetree.FindMatch, bool, error) {
	data, err := p.Compile()
	if err != nil {
		return piecetree.FindMatch{}, false, err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	m, ok := b.tree.FindNextMatch(pos, data, captureGroups)
	return m, ok, nil
}

// FindPreviousMatch returns the last match ending before pos, wrapping
// around to the end of the buffer.
func (b *Buffer) FindPreviousMatch(p search.Params, pos piecetree.Position, captureGroups bool) (piecetree.FindMatch, bool, error) {
	data, err := p.Compile()
	if err != nil {
		return piecetree.FindMatch{}, false, err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	m, ok := b.tree.FindPreviousMatch(pos, data, captureGroups)
	return m, ok, nil
}
