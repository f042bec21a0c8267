package search

import (
	"strings"
	"sync"
	"time"
)

type cacheKey struct {
	query      string
	maxResults int
}

type cacheEntry struct {
	createdAt time.Time
	payload   string
}

// ResultCache is a time-boxed in-memory cache for formatted search results.
// Entries expire lazily: an entry older than the TTL is treated as absent
// and evicted at lookup time. There is no background sweep.
type ResultCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[cacheKey]cacheEntry
}

func NewResultCache(ttl time.Duration) *ResultCache {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &ResultCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[cacheKey]cacheEntry),
	}
}

func normalizeKey(query string, maxResults int) cacheKey {
	return cacheKey{query: strings.ToLower(strings.TrimSpace(query)), maxResults: maxResults}
}

func (c *ResultCache) Get(query string, maxResults int) (string, bool) {
	key := normalizeKey(query, maxResults)

	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok {
		return "", false
	}
	if c.now().Sub(entry.createdAt) > c.ttl {
		delete(c.entries, key)
		return "", false
	}
	return entry.payload, true
}

func (c *ResultCache) Put(query string, maxResults int, payload string) {
	key := normalizeKey(query, maxResults)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{createdAt: c.now(), payload: payload}
}
