package cache

import (
	"github.com/lumipallolabs/reporter/internal/model"
)

// Cache maps file identities from a previous snapshot to their digests. A hit
// means path, mtime and size are unchanged, and the old digest is trusted
// without reading the file again.
//
// A Cache is built once before a snapshot build and only read afterwards, so
// it needs no locking.
type Cache struct {
	entries map[model.FileIdentity]model.Digest
}

// New creates an empty cache
func New() *Cache {
	return &Cache{entries: make(map[model.FileIdentity]model.Digest)}
}

// FromSnapshot builds a cache from the items of a previous snapshot. Items
// without a digest are not cached. A nil snapshot yields an empty cache.
func FromSnapshot(snap *model.Snapshot) *Cache {
	c := &Cache{entries: make(map[model.FileIdentity]model.Digest, snap.Len())}
	for _, item := range snap.Items() {
		if !item.Digest.Valid {
			continue
		}
		c.entries[item.Identity()] = item.Digest
	}
	return c
}

// Lookup returns the recorded digest for an identity
func (c *Cache) Lookup(id model.FileIdentity) (model.Digest, bool) {
	if c == nil {
		return model.Digest{}, false
	}
	d, ok := c.entries[id]
	return d, ok
}

// Len returns the number of cached digests
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}
