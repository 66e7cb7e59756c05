//go:build integration

package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisTier_Integration(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })

	ctx := context.Background()
	require.NoError(t, rdb.Ping(ctx).Err())

	tier := NewRedisTier(rdb, "moviecat-test:", time.Hour)
	t.Cleanup(func() { _ = tier.Delete(ctx, "detail:1") })

	now := time.Now().Truncate(time.Millisecond)
	require.NoError(t, tier.Set(ctx, "detail:1", Entry[[]byte]{Value: []byte(`{"id":1}`), FetchedAt: now, TTL: time.Minute}))

	got, ok := tier.Get(ctx, "detail:1")
	require.True(t, ok)
	assert.Equal(t, []byte(`{"id":1}`), got.Value)
	assert.Equal(t, time.Minute, got.TTL)
	assert.True(t, got.FetchedAt.Equal(now))

	// Expired but retained: only GetStale sees it.
	tier.now = func() time.Time { return now.Add(2 * time.Minute) }
	_, ok = tier.Get(ctx, "detail:1")
	assert.False(t, ok)
	_, ok = tier.GetStale(ctx, "detail:1")
	assert.True(t, ok)

	ttl, err := rdb.PTTL(ctx, "moviecat-test:detail:1").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Hour)

	require.NoError(t, tier.Delete(ctx, "detail:1"))
	_, ok = tier.GetStale(ctx, "detail:1")
	assert.False(t, ok)
}
