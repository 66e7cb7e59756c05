package migrations

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func TestApply_Idempotent(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	require.NoError(t, Apply(ctx, db))
	require.NoError(t, Apply(ctx, db), "applying twice should be a no-op")

	var n int
	err = db.QueryRowContext(ctx, "SELECT COUNT(*) FROM catalog_cache").Scan(&n)
	require.NoError(t, err)
	require.Zero(t, n)
}
