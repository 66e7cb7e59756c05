//go:build integration

package kinopoisk

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKinopoisk_Integration(t *testing.T) {
	apiKey := os.Getenv("KINOPOISK_API_KEY")
	if apiKey == "" {
		t.Skip("KINOPOISK_API_KEY not set")
	}

	client := New(apiKey)
	ctx := context.Background()

	page, err := client.FetchPage(ctx, "Матрица", 0)
	require.NoError(t, err)
	require.NotEmpty(t, page.Items)
	assert.Equal(t, 1, page.Cursor)

	movie, err := client.FetchDetail(ctx, page.Items[0].ID)
	require.NoError(t, err)
	assert.Equal(t, page.Items[0].ID, movie.ID)
	assert.NotEmpty(t, movie.Title)

	popular, err := client.FetchPage(ctx, "", 0)
	require.NoError(t, err)
	assert.NotEmpty(t, popular.Items)
}
