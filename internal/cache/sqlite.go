package cache

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SQLiteTier is a Tier backed by the catalog_cache table.
type SQLiteTier struct {
	db        *sql.DB
	retention time.Duration
	now       func() time.Time
}

// NewSQLiteTier creates a tier on db. Rows are kept for retention past
// their expiry so they can serve as an offline fallback.
func NewSQLiteTier(db *sql.DB, retention time.Duration) *SQLiteTier {
	return &SQLiteTier{db: db, retention: retention, now: time.Now}
}

// Get retrieves a valid cached value by key.
func (c *SQLiteTier) Get(ctx context.Context, key string) (Entry[[]byte], bool) {
	e, ok := c.GetStale(ctx, key)
	if !ok || !e.ValidAt(c.now()) {
		return Entry[[]byte]{}, false
	}
	return e, true
}

// GetStale retrieves a cached value by key regardless of expiry.
func (c *SQLiteTier) GetStale(ctx context.Context, key string) (Entry[[]byte], bool) {
	var value []byte
	var fetchedAt, expiresAt int64

	err := c.db.QueryRowContext(ctx,
		"SELECT value, fetched_at, expires_at FROM catalog_cache WHERE key = ?", key,
	).Scan(&value, &fetchedAt, &expiresAt)
	if err != nil {
		return Entry[[]byte]{}, false
	}

	e := Entry[[]byte]{
		Value:     value,
		FetchedAt: fromMillis(fetchedAt),
		TTL:       time.Duration(expiresAt-fetchedAt) * time.Millisecond,
	}
	if !c.now().Before(e.ExpiresAt().Add(c.retention)) {
		return Entry[[]byte]{}, false
	}
	return e, true
}

// Set stores an entry.
func (c *SQLiteTier) Set(ctx context.Context, key string, e Entry[[]byte]) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO catalog_cache (key, value, fetched_at, expires_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET
		   value = excluded.value,
		   fetched_at = excluded.fetched_at,
		   expires_at = excluded.expires_at`,
		key, e.Value, toMillis(e.FetchedAt), toMillis(e.ExpiresAt()),
	)
	if err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Delete removes a cached value.
func (c *SQLiteTier) Delete(ctx context.Context, key string) error {
	_, err := c.db.ExecContext(ctx, "DELETE FROM catalog_cache WHERE key = ?", key)
	if err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

// Prune removes all entries past expiry plus retention.
// Returns the number of entries removed.
func (c *SQLiteTier) Prune(ctx context.Context) (int64, error) {
	cutoff := c.now().Add(-c.retention)
	result, err := c.db.ExecContext(ctx,
		"DELETE FROM catalog_cache WHERE expires_at <= ?", toMillis(cutoff),
	)
	if err != nil {
		return 0, fmt.Errorf("cache prune: %w", err)
	}
	return result.RowsAffected()
}
