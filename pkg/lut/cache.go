package lut

import (
	"log/slog"
	"runtime"
	"sync"
	"weak"
)

// CacheStats counts cache traffic since creation
type CacheStats struct {
	Hits    int64
	Misses  int64
	Builds  int64
	Entries int
}

// Cache maps parameter keys to tables without keeping the tables alive.
//
// Once a table is collected its key is removed by a cleanup looked up through the
// reverse index. Safe for concurrent use; Put is last writer wins.
type Cache struct {
	mu      sync.Mutex
	entries map[Key]weak.Pointer[Table]
	keys    map[weak.Pointer[Table]]Key
	stats   CacheStats
}

// NewCache creates an empty cache
func NewCache() *Cache {
	return &Cache{
		entries: make(map[Key]weak.Pointer[Table]),
		keys:    make(map[weak.Pointer[Table]]Key),
	}
}

// Get returns the live table for k, nil when absent or collected
func (c *Cache) Get(k Key) *Table {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.get(k)
}

func (c *Cache) get(k Key) *Table {
	if wp, ok := c.entries[k]; ok {
		if t := wp.Value(); t != nil {
			c.stats.Hits++
			return t
		}
	}
	c.stats.Misses++
	return nil
}

// Put stores t under k, replacing any previous table
func (c *Cache) Put(k Key, t *Table) {
	if t == nil {
		return
	}
	wp := weak.Make(t)
	c.mu.Lock()
	c.entries[k] = wp
	c.keys[wp] = k
	c.mu.Unlock()
	runtime.AddCleanup(t, c.evict, wp)
}

// GetOrBuild returns the cached table for k or stores the result of build.
// Concurrent misses may build twice; the last Put wins. A nil build result is not cached.
func (c *Cache) GetOrBuild(k Key, build func() *Table) *Table {
	c.mu.Lock()
	if t := c.get(k); t != nil {
		c.mu.Unlock()
		return t
	}
	c.stats.Builds++
	c.mu.Unlock()

	t := build()
	c.Put(k, t)
	return t
}

// evict drops the key of a collected table unless it was already replaced
func (c *Cache) evict(wp weak.Pointer[Table]) {
	c.mu.Lock()
	defer c.mu.Unlock()
	k, ok := c.keys[wp]
	if !ok {
		return
	}
	delete(c.keys, wp)
	if cur, ok := c.entries[k]; ok && cur == wp {
		delete(c.entries, k)
		slog.Debug("evicted lut", slog.Any("key", k))
	}
}

// Len returns the number of keys whose table is still reachable
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, wp := range c.entries {
		if wp.Value() != nil {
			n++
		}
	}
	return n
}

// Stats returns a snapshot of the counters
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats
	s.Entries = len(c.entries)
	return s
}
