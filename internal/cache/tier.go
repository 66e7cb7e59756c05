package cache

import (
	"context"
	"time"
)

// Tier is a persistent backing level of the cache holding encoded values.
// Read failures are reported as misses; the tier is never the source of
// truth.
type Tier interface {
	// Get returns the entry for key if it is still valid.
	Get(ctx context.Context, key string) (Entry[[]byte], bool)
	// GetStale returns the entry for key even if it has expired, as long
	// as it is still retained.
	GetStale(ctx context.Context, key string) (Entry[[]byte], bool)
	// Set stores an entry, replacing any previous one.
	Set(ctx context.Context, key string, e Entry[[]byte]) error
	// Delete removes key.
	Delete(ctx context.Context, key string) error
	// Prune removes entries past their retention window and reports how
	// many were removed.
	Prune(ctx context.Context) (int64, error)
}

func toMillis(t time.Time) int64 {
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms)
}
