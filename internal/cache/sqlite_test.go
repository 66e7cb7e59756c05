package cache

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/vmunix/moviecat/internal/migrations"
)

// setupTestDB creates an in-memory SQLite database with the cache schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// Each connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, migrations.Apply(context.Background(), db))
	return db
}

func newTestTier(t *testing.T, retention time.Duration) (*SQLiteTier, *fakeClock) {
	t.Helper()
	clock := newFakeClock()
	tier := NewSQLiteTier(setupTestDB(t), retention)
	tier.now = clock.Now
	return tier, clock
}

func TestSQLiteTier_SetGet_RoundTrip(t *testing.T) {
	tier, clock := newTestTier(t, 0)
	ctx := context.Background()

	value := []byte(`{"id": 326, "title": "Test Movie"}`)
	err := tier.Set(ctx, "detail:326", Entry[[]byte]{Value: value, FetchedAt: clock.Now(), TTL: time.Hour})
	require.NoError(t, err)

	got, ok := tier.Get(ctx, "detail:326")
	require.True(t, ok, "expected to find cached value")
	assert.Equal(t, value, got.Value)
	assert.Equal(t, time.Hour, got.TTL)
	assert.True(t, got.FetchedAt.Equal(clock.Now()))
}

func TestSQLiteTier_Get_NotFound(t *testing.T) {
	tier, _ := newTestTier(t, 0)

	got, ok := tier.Get(context.Background(), "nonexistent-key")
	assert.False(t, ok)
	assert.Nil(t, got.Value)
}

func TestSQLiteTier_Get_Expired(t *testing.T) {
	tier, clock := newTestTier(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, tier.Set(ctx, "k", Entry[[]byte]{Value: []byte("v"), FetchedAt: clock.Now(), TTL: time.Minute}))
	clock.Advance(2 * time.Minute)

	_, ok := tier.Get(ctx, "k")
	assert.False(t, ok, "expired value should not be returned by Get")

	stale, ok := tier.GetStale(ctx, "k")
	require.True(t, ok, "retained value should be returned by GetStale")
	assert.Equal(t, []byte("v"), stale.Value)

	clock.Advance(time.Hour)
	_, ok = tier.GetStale(ctx, "k")
	assert.False(t, ok, "value past retention is gone")
}

func TestSQLiteTier_Set_Overwrites(t *testing.T) {
	tier, clock := newTestTier(t, 0)
	ctx := context.Background()

	require.NoError(t, tier.Set(ctx, "k", Entry[[]byte]{Value: []byte("one"), FetchedAt: clock.Now(), TTL: time.Hour}))
	clock.Advance(time.Minute)
	require.NoError(t, tier.Set(ctx, "k", Entry[[]byte]{Value: []byte("two"), FetchedAt: clock.Now(), TTL: 2 * time.Hour}))

	got, ok := tier.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, []byte("two"), got.Value)
	assert.Equal(t, 2*time.Hour, got.TTL)
}

func TestSQLiteTier_Delete(t *testing.T) {
	tier, clock := newTestTier(t, 0)
	ctx := context.Background()

	require.NoError(t, tier.Set(ctx, "k", Entry[[]byte]{Value: []byte("v"), FetchedAt: clock.Now(), TTL: time.Hour}))
	require.NoError(t, tier.Delete(ctx, "k"))
	require.NoError(t, tier.Delete(ctx, "missing"), "deleting a missing key is not an error")

	_, ok := tier.Get(ctx, "k")
	assert.False(t, ok)
}

func TestSQLiteTier_Prune(t *testing.T) {
	tier, clock := newTestTier(t, 10*time.Minute)
	ctx := context.Background()

	now := clock.Now()
	require.NoError(t, tier.Set(ctx, "a", Entry[[]byte]{Value: []byte("a"), FetchedAt: now, TTL: time.Minute}))
	require.NoError(t, tier.Set(ctx, "b", Entry[[]byte]{Value: []byte("b"), FetchedAt: now, TTL: 30 * time.Minute}))
	require.NoError(t, tier.Set(ctx, "c", Entry[[]byte]{Value: []byte("c"), FetchedAt: now, TTL: time.Hour}))

	clock.Advance(15 * time.Minute)
	n, err := tier.Prune(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "only a is past expiry plus retention")

	clock.Advance(time.Hour)
	n, err = tier.Prune(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}
