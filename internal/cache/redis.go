package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisTier is a Tier backed by Redis, for deployments where several
// daemons share one cache. Each key is a hash with the value and its
// timing; Redis expires the key once the retention window is over.
type RedisTier struct {
	rdb       redis.Cmdable
	prefix    string
	retention time.Duration
	now       func() time.Time
}

// NewRedisTier creates a tier storing keys under prefix.
func NewRedisTier(rdb redis.Cmdable, prefix string, retention time.Duration) *RedisTier {
	return &RedisTier{rdb: rdb, prefix: prefix, retention: retention, now: time.Now}
}

// Get retrieves a valid cached value by key.
func (c *RedisTier) Get(ctx context.Context, key string) (Entry[[]byte], bool) {
	e, ok := c.GetStale(ctx, key)
	if !ok || !e.ValidAt(c.now()) {
		return Entry[[]byte]{}, false
	}
	return e, true
}

// GetStale retrieves a cached value by key regardless of expiry.
func (c *RedisTier) GetStale(ctx context.Context, key string) (Entry[[]byte], bool) {
	fields, err := c.rdb.HGetAll(ctx, c.prefix+key).Result()
	if err != nil || len(fields) == 0 {
		return Entry[[]byte]{}, false
	}

	fetchedAt, err := strconv.ParseInt(fields["fetched_at"], 10, 64)
	if err != nil {
		return Entry[[]byte]{}, false
	}
	ttl, err := strconv.ParseInt(fields["ttl_ms"], 10, 64)
	if err != nil {
		return Entry[[]byte]{}, false
	}

	return Entry[[]byte]{
		Value:     []byte(fields["value"]),
		FetchedAt: fromMillis(fetchedAt),
		TTL:       time.Duration(ttl) * time.Millisecond,
	}, true
}

// Set stores an entry and schedules its removal after ttl plus retention.
func (c *RedisTier) Set(ctx context.Context, key string, e Entry[[]byte]) error {
	keep := e.ExpiresAt().Add(c.retention).Sub(c.now())
	if keep <= 0 {
		return nil
	}

	k := c.prefix + key
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, k,
			"value", e.Value,
			"fetched_at", toMillis(e.FetchedAt),
			"ttl_ms", e.TTL.Milliseconds(),
		)
		pipe.PExpire(ctx, k, keep)
		return nil
	})
	if err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Delete removes a cached value.
func (c *RedisTier) Delete(ctx context.Context, key string) error {
	if err := c.rdb.Del(ctx, c.prefix+key).Err(); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

// Prune is a no-op: Redis expires keys on its own.
func (c *RedisTier) Prune(ctx context.Context) (int64, error) {
	return 0, nil
}
