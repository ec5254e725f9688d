package search

import (
	"fmt"
	"sync"
	"time"

	"searchkit/internal/domain"
)

// DefaultCacheTTL is the entry lifetime used when none is configured.
const DefaultCacheTTL = time.Hour

// Cache stores normalized results under canonical request keys. Entries past
// their TTL are treated as misses; physical removal happens lazily and via
// Sweep. Implementations must be safe for concurrent use; a race may at
// worst duplicate a provider call on a simultaneous cold miss, never corrupt
// an entry.
type Cache interface {
	Get(key string) ([]domain.SearchResult, bool)
	Put(key string, results []domain.SearchResult)
	// Sweep physically removes expired entries and returns how many.
	Sweep() int
	Len() int
}

// Key builds the canonical cache key from the effective (post-clamp) request
// parameters. The same logical request always yields the same key.
func Key(q domain.SearchQuery) string {
	q = q.Clamp()
	freshness := string(q.Freshness)
	if freshness == "" {
		freshness = "none"
	}
	return fmt.Sprintf("%s:%s:%d:%d:%s:%s:%s",
		q.Filter, q.Text, q.Count, q.Offset, q.Country, q.Lang, freshness)
}

type memEntry struct {
	results    []domain.SearchResult
	insertedAt time.Time
}

// MemoryCache is the default in-process Cache: a mutex-guarded map with lazy
// expiry and a bounded entry count.
type MemoryCache struct {
	ttl        time.Duration
	maxEntries int

	mu      sync.Mutex
	entries map[string]memEntry
	now     func() time.Time // for testing
}

// NewMemoryCache creates a bounded in-memory cache. Non-positive ttl falls
// back to DefaultCacheTTL; non-positive maxEntries disables the bound.
func NewMemoryCache(ttl time.Duration, maxEntries int) *MemoryCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &MemoryCache{
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    make(map[string]memEntry),
		now:        time.Now,
	}
}

// Get returns the cached results for key if present and fresh. The returned
// slice is a copy; callers own it.
func (c *MemoryCache) Get(key string) ([]domain.SearchResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.insertedAt) >= c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return cloneResults(entry.results), true
}

// Put stores a copy of results under key, evicting when over capacity:
// expired entries first, then the oldest by insertion time.
func (c *MemoryCache) Put(key string, results []domain.SearchResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = memEntry{results: cloneResults(results), insertedAt: c.now()}

	if c.maxEntries <= 0 || len(c.entries) <= c.maxEntries {
		return
	}

	now := c.now()
	for k, e := range c.entries {
		if now.Sub(e.insertedAt) >= c.ttl {
			delete(c.entries, k)
		}
	}
	for len(c.entries) > c.maxEntries {
		oldestKey := ""
		var oldestAt time.Time
		for k, e := range c.entries {
			if oldestKey == "" || e.insertedAt.Before(oldestAt) {
				oldestKey, oldestAt = k, e.insertedAt
			}
		}
		delete(c.entries, oldestKey)
	}
}

// Sweep removes all expired entries.
func (c *MemoryCache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for k, e := range c.entries {
		if now.Sub(e.insertedAt) >= c.ttl {
			delete(c.entries, k)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored entries, including not-yet-swept expired ones.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func cloneResults(results []domain.SearchResult) []domain.SearchResult {
	if results == nil {
		return nil
	}
	out := make([]domain.SearchResult, len(results))
	copy(out, results)
	return out
}

var _ Cache = (*MemoryCache)(nil)
