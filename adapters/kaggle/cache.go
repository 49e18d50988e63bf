package kaggle

import (
	"sync"
	"time"

	"autoeda/ports"
)

type listingKey struct {
	session *Session
	ref     string
}

type listingEntry struct {
	listing *ports.DatasetListing
	addedAt time.Time
}

// listingCache is an explicit bounded map over download results. At
// capacity the oldest entry by insertion time is evicted. Entries are
// never invalidated when the remote dataset changes; a stale listing
// persists until displaced.
type listingCache struct {
	mu      sync.Mutex
	cap     int
	now     func() time.Time
	entries map[listingKey]listingEntry
}

func newListingCache(capacity int) *listingCache {
	return &listingCache{
		cap:     capacity,
		now:     time.Now,
		entries: make(map[listingKey]listingEntry),
	}
}

func (c *listingCache) get(key listingKey) (*ports.DatasetListing, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	return entry.listing, true
}

func (c *listingCache) put(key listingKey, listing *ports.DatasetListing) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.cap {
		c.evictOldest()
	}
	c.entries[key] = listingEntry{listing: listing, addedAt: c.now()}
}

// evictOldest removes the entry with the earliest insertion time. Caller
// holds the lock.
func (c *listingCache) evictOldest() {
	var oldest listingKey
	var oldestAt time.Time
	first := true
	for key, entry := range c.entries {
		if first || entry.addedAt.Before(oldestAt) {
			oldest = key
			oldestAt = entry.addedAt
			first = false
		}
	}
	if !first {
		delete(c.entries, oldest)
	}
}

func (c *listingCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
