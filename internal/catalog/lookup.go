package catalog

import (
	"context"
	"fmt"

	"github.com/vmunix/moviecat/pkg/kinopoisk"
	"github.com/vmunix/moviecat/pkg/titlematch"
)

// Lookup searches for title and returns the detail of the closest match
// on the first result page.
func (s *Synchronizer) Lookup(ctx context.Context, title string, policy Policy) (Result[*kinopoisk.MovieDetail], titlematch.Match, error) {
	var zero Result[*kinopoisk.MovieDetail]
	if normalizeQuery(title) == "" {
		return zero, titlematch.Match{Index: -1}, fmt.Errorf("lookup: %w", ErrNoMatch)
	}

	page, err := s.GetPage(ctx, title, 0, policy)
	if err != nil {
		return zero, titlematch.Match{Index: -1}, fmt.Errorf("lookup %q: %w", title, err)
	}

	titles := make([]string, len(page.Value.Items))
	for i, item := range page.Value.Items {
		titles[i] = item.Title
	}
	m := titlematch.Best(title, titles)
	if m.Index < 0 {
		return zero, m, fmt.Errorf("lookup %q: %w", title, ErrNoMatch)
	}

	id := page.Value.Items[m.Index].ID
	s.log.Debug("title matched", "query", title, "title", m.Title, "id", id, "score", m.Score, "confidence", m.Confidence)

	detail, err := s.GetDetail(ctx, id, policy)
	if err != nil {
		return zero, m, fmt.Errorf("lookup %q: %w", title, err)
	}
	return detail, m, nil
}
