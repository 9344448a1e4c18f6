package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"academix/internal/certificate/ledger"
)

// LRUCache is a per-process TTL cache.
type LRUCache struct {
	lru *expirable.LRU[string, ledger.TokenRecord]
}

func NewLRUCache(size int, ttl time.Duration) *LRUCache {
	return &LRUCache{lru: expirable.NewLRU[string, ledger.TokenRecord](size, nil, ttl)}
}

func (c *LRUCache) Get(_ context.Context, tokenID string) (*ledger.TokenRecord, bool) {
	rec, ok := c.lru.Get(tokenID)
	if !ok {
		cacheMisses.WithLabelValues("lru").Inc()
		return nil, false
	}
	cacheHits.WithLabelValues("lru").Inc()
	return &rec, true
}

func (c *LRUCache) Set(_ context.Context, tokenID string, record *ledger.TokenRecord) {
	if record == nil {
		return
	}
	c.lru.Add(tokenID, *record)
}
