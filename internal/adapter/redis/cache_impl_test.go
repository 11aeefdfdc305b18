package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/listings-service/internal/entity"
)

func newTestCache(t *testing.T) (*ResultCacheImpl, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewResultCache(client), mr
}

func testSnapshot() *entity.ListingsSnapshot {
	strategy := entity.StrategyDOMHeuristic
	return &entity.ListingsSnapshot{
		OrgID:     "4008599",
		Source:    entity.KindHTML,
		SourceURL: "https://www.finn.no/mobility/search/car?orgId=4008599",
		FetchedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		Result: entity.ExtractionResult{
			OK:           true,
			StrategyUsed: &strategy,
			Items: []entity.ItemRecord{
				{Title: "Volvo V60", Link: "https://www.finn.no/car/used/ad.html?finnkode=1", Price: "245 000 kr"},
			},
		},
	}
}

func TestResultCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	cache, _ := newTestCache(t)

	_, ok, err := cache.Get(ctx, "listings:4008599")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Set(ctx, "listings:4008599", testSnapshot(), time.Minute))

	got, ok, err := cache.Get(ctx, "listings:4008599")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, testSnapshot(), got)

	// Mutating a returned snapshot must not leak into the next read.
	got.Result.Items[0].Title = "changed"
	again, _, err := cache.Get(ctx, "listings:4008599")
	require.NoError(t, err)
	assert.Equal(t, "Volvo V60", again.Result.Items[0].Title)
}

func TestResultCache_Expiry(t *testing.T) {
	ctx := context.Background()
	cache, mr := newTestCache(t)

	require.NoError(t, cache.Set(ctx, "listings:1", testSnapshot(), 30*time.Second))
	mr.FastForward(31 * time.Second)

	_, ok, err := cache.Get(ctx, "listings:1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestResultCache_ZeroTTLSkipsWrite(t *testing.T) {
	ctx := context.Background()
	cache, mr := newTestCache(t)

	require.NoError(t, cache.Set(ctx, "listings:1", testSnapshot(), 0))
	assert.Empty(t, mr.Keys())
}

func TestResultCache_DeleteAndCorruptValue(t *testing.T) {
	ctx := context.Background()
	cache, mr := newTestCache(t)

	require.NoError(t, cache.Set(ctx, "listings:1", testSnapshot(), time.Minute))
	require.NoError(t, cache.Delete(ctx, "listings:1"))
	_, ok, err := cache.Get(ctx, "listings:1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, mr.Set(cache.generateKey("listings:2"), "{not json"))
	_, _, err = cache.Get(ctx, "listings:2")
	assert.Error(t, err)

	assert.NoError(t, cache.Ping(ctx))
}
