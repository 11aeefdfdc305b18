package memory

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/user/listings-service/internal/entity"
)

const defaultCapacity = 256

type cacheEntry struct {
	snap      entity.ListingsSnapshot
	expiresAt time.Time
}

// ResultCache keeps snapshots in process. The LRU evicts after maxTTL; a
// shorter per-entry ttl is enforced on read.
type ResultCache struct {
	lru *expirable.LRU[string, cacheEntry]
	now func() time.Time
}

func NewResultCache(capacity int, maxTTL time.Duration) *ResultCache {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &ResultCache{
		lru: expirable.NewLRU[string, cacheEntry](capacity, nil, maxTTL),
		now: time.Now,
	}
}

func (c *ResultCache) Get(_ context.Context, key string) (*entity.ListingsSnapshot, bool, error) {
	e, ok := c.lru.Get(key)
	if !ok {
		return nil, false, nil
	}
	if !c.now().Before(e.expiresAt) {
		c.lru.Remove(key)
		return nil, false, nil
	}
	snap := e.snap.Clone()
	return &snap, true, nil
}

func (c *ResultCache) Set(_ context.Context, key string, snap *entity.ListingsSnapshot, ttl time.Duration) error {
	if ttl <= 0 || snap == nil {
		return nil
	}
	c.lru.Add(key, cacheEntry{snap: snap.Clone(), expiresAt: c.now().Add(ttl)})
	return nil
}

func (c *ResultCache) Delete(_ context.Context, key string) error {
	c.lru.Remove(key)
	return nil
}

func (c *ResultCache) Len() int { return c.lru.Len() }
