package v1

import (
	"context"
	"errors"

	"github.com/vmunix/moviecat/internal/catalog"
	"github.com/vmunix/moviecat/internal/images"
	"github.com/vmunix/moviecat/pkg/kinopoisk"
	"github.com/vmunix/moviecat/pkg/titlematch"
)

//go:generate mockgen -destination=mocks/mock_deps.go -package=mocks github.com/vmunix/moviecat/internal/api/v1 Catalog,ImageResolver

// ErrMissingDependency is returned when a required dependency is nil.
var ErrMissingDependency = errors.New("missing required dependency")

// Catalog serves movie data. *catalog.Synchronizer implements it.
type Catalog interface {
	GetPage(ctx context.Context, query string, cursor int, policy catalog.Policy) (catalog.Result[*kinopoisk.Page], error)
	GetDetail(ctx context.Context, id int64, policy catalog.Policy) (catalog.Result[*kinopoisk.MovieDetail], error)
	Lookup(ctx context.Context, title string, policy catalog.Policy) (catalog.Result[*kinopoisk.MovieDetail], titlematch.Match, error)
	InvalidateDetail(ctx context.Context, id int64) error
	Sweep(ctx context.Context) (catalog.SweepResult, error)
	Stats() catalog.Stats
}

// ImageResolver turns image references into URLs. *images.Resolver
// implements it.
type ImageResolver interface {
	Resolve(ref string, tier images.Tier) (images.CanonicalURL, error)
}

// ServerDeps contains all dependencies for the API server.
type ServerDeps struct {
	Catalog Catalog
	Images  ImageResolver
}

// Validate checks that all required dependencies are provided.
func (d ServerDeps) Validate() error {
	if d.Catalog == nil {
		return errors.Join(ErrMissingDependency, errors.New("catalog is required"))
	}
	if d.Images == nil {
		return errors.Join(ErrMissingDependency, errors.New("image resolver is required"))
	}
	return nil
}
