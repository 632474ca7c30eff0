package cache

import (
	"sync"
	"time"

	"github.com/YakovA/db-israel/internal/stock"
)

// entry stores one cached record with its insertion time
type entry struct {
	insertedAt time.Time
	stock      stock.Stock
}

// Cache memoizes aggregated records per symbol for a TTL so repeated lookups
// inside the window skip the upstream pair entirely. Size is bounded
// best-effort: when the item cap is exceeded, expired entries go first, then
// the oldest-inserted. Entries never outlive the TTL.
type Cache struct {
	ttl      time.Duration
	maxItems int

	mu    sync.RWMutex
	items map[string]entry
	now   func() time.Time
}

// New creates a cache. A ttl <= 0 disables caching entirely; maxItems <= 0
// means unbounded.
func New(ttl time.Duration, maxItems int) *Cache {
	return &Cache{
		ttl:      ttl,
		maxItems: maxItems,
		items:    make(map[string]entry),
		now:      time.Now,
	}
}

// Get returns a copy of the cached record for symbol if it has not outlived
// the TTL. Expired entries are lazily evicted.
func (c *Cache) Get(symbol string) (stock.Stock, bool) {
	if c.ttl <= 0 {
		return stock.Stock{}, false
	}
	key := stock.NormalizeSymbol(symbol)

	c.mu.RLock()
	e, ok := c.items[key]
	c.mu.RUnlock()

	if !ok {
		return stock.Stock{}, false
	}
	if c.now().Sub(e.insertedAt) >= c.ttl {
		c.mu.Lock()
		// re-check under the write lock; a Set may have refreshed the entry
		if cur, still := c.items[key]; still && c.now().Sub(cur.insertedAt) >= c.ttl {
			delete(c.items, key)
		}
		c.mu.Unlock()
		return stock.Stock{}, false
	}
	return e.stock.Clone(), true
}

// Set inserts or overwrites the record under its normalized symbol with the
// current timestamp.
func (c *Cache) Set(symbol string, st stock.Stock) {
	if c.ttl <= 0 {
		return
	}
	key := stock.NormalizeSymbol(symbol)
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = entry{insertedAt: now, stock: st.Clone()}
	if c.maxItems > 0 && len(c.items) > c.maxItems {
		c.evictLocked(now)
	}
}

// evictLocked drops expired entries first, then the oldest-inserted, until the
// cache fits maxItems again. Callers must hold the write lock.
func (c *Cache) evictLocked(now time.Time) {
	for k, e := range c.items {
		if len(c.items) <= c.maxItems {
			return
		}
		if now.Sub(e.insertedAt) >= c.ttl {
			delete(c.items, k)
		}
	}
	for len(c.items) > c.maxItems {
		var oldestKey string
		var oldestAt time.Time
		for k, e := range c.items {
			if oldestKey == "" || e.insertedAt.Before(oldestAt) {
				oldestKey = k
				oldestAt = e.insertedAt
			}
		}
		delete(c.items, oldestKey)
	}
}

// Len reports the number of entries currently held, expired or not
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
