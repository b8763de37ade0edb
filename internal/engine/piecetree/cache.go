package piecetree

import "sync"

const searchCacheLimit = 4

// cacheEntry remembers where a node starts in the document.
type cacheEntry struct {
	node            *node
	nodeStartOffset int
	nodeStartLine   int
}

// searchCache memoizes recent node lookups and the most recently read
// line. Entries are tagged with the tree version they were computed at;
// a version mismatch discards everything.
//
// Reads populate the cache, so it carries its own lock to let
// concurrent readers share a tree.
type searchCache struct {
	mu      sync.Mutex
	version uint64
	limit   int
	entries []cacheEntry

	lastLine    int
	lastLineRaw string
}

func newSearchCache(limit int) *searchCache {
	return &searchCache{limit: limit, entries: make([]cacheEntry, 0, limit)}
}

// sync discards entries computed at another version. mu must be held.
func (c *searchCache) sync(version uint64) {
	if c.version == version {
		return
	}
	c.version = version
	c.entries = c.entries[:0]
	c.lastLine = 0
	c.lastLineRaw = ""
}

// get returns an entry whose node spans offset.
func (c *searchCache) get(version uint64, offset int) (cacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sync(version)

	for i := len(c.entries) - 1; i >= 0; i-- {
		e := c.entries[i]
		if e.nodeStartOffset <= offset && e.nodeStartOffset+e.node.piece.length >= offset {
			return e, true
		}
	}
	return cacheEntry{}, false
}

// getLine returns an entry whose node contains the start of line.
func (c *searchCache) getLine(version uint64, line int) (cacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sync(version)

	for i := len(c.entries) - 1; i >= 0; i-- {
		e := c.entries[i]
		if e.nodeStartLine < line && e.nodeStartLine+e.node.piece.lineFeedCnt >= line {
			return e, true
		}
	}
	return cacheEntry{}, false
}

func (c *searchCache) set(version uint64, e cacheEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sync(version)

	if len(c.entries) >= c.limit {
		copy(c.entries, c.entries[1:])
		c.entries = c.entries[:len(c.entries)-1]
	}
	c.entries = append(c.entries, e)
}

func (c *searchCache) lastVisited(version uint64, line int) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sync(version)

	if c.lastLine != 0 && c.lastLine == line {
		return c.lastLineRaw, true
	}
	return "", false
}

func (c *searchCache) setLastVisited(version uint64, line int, raw string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sync(version)

	c.lastLine = line
	c.lastLineRaw = raw
}
