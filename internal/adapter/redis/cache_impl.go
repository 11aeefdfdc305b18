package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/user/listings-service/internal/entity"
	"github.com/user/listings-service/pkg/utils"
)

const snapshotPrefix = "listings:snapshot:"

// ResultCacheImpl provides a concrete implementation for the ResultCache interface using Redis.
type ResultCacheImpl struct {
	client *redis.Client
}

// NewResultCache creates a new instance of ResultCacheImpl.
func NewResultCache(client *redis.Client) *ResultCacheImpl {
	return &ResultCacheImpl{client: client}
}

// generateKey creates a consistent Redis key for a cache key by hashing it.
func (r *ResultCacheImpl) generateKey(key string) string {
	return fmt.Sprintf("%s%s", snapshotPrefix, utils.HashKey(key))
}

// Get decodes the stored snapshot. Every call returns a freshly decoded
// value, so callers never share state.
func (r *ResultCacheImpl) Get(ctx context.Context, key string) (*entity.ListingsSnapshot, bool, error) {
	raw, err := r.client.Get(ctx, r.generateKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var snap entity.ListingsSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, false, fmt.Errorf("decode cached snapshot: %w", err)
	}
	return &snap, true, nil
}

// Set stores the snapshot as JSON. SETEX is atomic and sets the key with an expiry.
func (r *ResultCacheImpl) Set(ctx context.Context, key string, snap *entity.ListingsSnapshot, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	raw, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return r.client.SetEx(ctx, r.generateKey(key), raw, ttl).Err()
}

func (r *ResultCacheImpl) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.generateKey(key)).Err()
}

// Ping reports whether Redis is reachable.
func (r *ResultCacheImpl) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
