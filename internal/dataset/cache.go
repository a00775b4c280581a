package dataset

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"csvviz/domain/column"
)

// TableCache keeps recently parsed uploads so moving through the column,
// chart and result pages does not re-read the file each time.
type TableCache struct {
	entries *expirable.LRU[string, *column.Table]
}

// NewTableCache creates a cache of at most size tables. A ttl of zero keeps
// entries until they are evicted by size.
func NewTableCache(size int, ttl time.Duration) *TableCache {
	if size <= 0 {
		size = 1
	}
	return &TableCache{entries: expirable.NewLRU[string, *column.Table](size, nil, ttl)}
}

// Get returns the cached table for fileID.
func (c *TableCache) Get(fileID string) (*column.Table, bool) {
	if c == nil {
		return nil, false
	}
	return c.entries.Get(fileID)
}

// Add stores a parsed table.
func (c *TableCache) Add(fileID string, table *column.Table) {
	if c == nil {
		return
	}
	c.entries.Add(fileID, table)
}

// Invalidate drops fileID, typically after the upload was replaced.
func (c *TableCache) Invalidate(fileID string) {
	if c == nil {
		return
	}
	c.entries.Remove(fileID)
}

// Len returns the number of cached tables.
func (c *TableCache) Len() int {
	if c == nil {
		return 0
	}
	return c.entries.Len()
}

// Purge drops every cached table.
func (c *TableCache) Purge() {
	if c == nil {
		return
	}
	c.entries.Purge()
}
