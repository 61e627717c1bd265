package lifecycle

import (
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// CacheConfig sizes the deadline cache
type CacheConfig struct {
	Size int
	TTL  time.Duration
}

// CacheStats reports deadline cache effectiveness
type CacheStats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Size   int   `json:"size"`
}

// deadlineCache remembers resolve-by deadlines of predictions last seen
// ACTIVE, so read paths can skip the expiry write while the deadline is
// still ahead. Entries expire after TTL so a prediction changed by another
// instance is eventually re-read.
type deadlineCache struct {
	lru    *expirable.LRU[string, time.Time]
	hits   atomic.Int64
	misses atomic.Int64
}

func newDeadlineCache(cfg CacheConfig) *deadlineCache {
	if cfg.Size <= 0 {
		cfg.Size = DefaultCacheSize
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultCacheTTL
	}
	return &deadlineCache{
		lru: expirable.NewLRU[string, time.Time](cfg.Size, nil, cfg.TTL),
	}
}

// stillOpen reports whether predictionID is known to be ACTIVE with a
// deadline that has not passed at now
func (c *deadlineCache) stillOpen(predictionID string, now time.Time) bool {
	deadline, ok := c.lru.Get(predictionID)
	if !ok || now.After(deadline) {
		c.misses.Add(1)
		return false
	}
	c.hits.Add(1)
	return true
}

func (c *deadlineCache) set(predictionID string, deadline time.Time) {
	c.lru.Add(predictionID, deadline)
}

func (c *deadlineCache) invalidate(predictionID string) {
	c.lru.Remove(predictionID)
}

func (c *deadlineCache) stats() CacheStats {
	return CacheStats{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
		Size:   c.lru.Len(),
	}
}
