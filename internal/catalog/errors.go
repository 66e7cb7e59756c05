package catalog

import "errors"

var (
	// ErrCacheMiss is returned under CacheOnly when nothing valid is cached.
	ErrCacheMiss = errors.New("not in cache")

	// ErrUnknownPolicy is returned by ParsePolicy.
	ErrUnknownPolicy = errors.New("unknown freshness policy")

	// ErrNoMatch is returned by Lookup when no listed title is close enough.
	ErrNoMatch = errors.New("no matching movie")

	// ErrInvalidID is returned for non-positive movie IDs.
	ErrInvalidID = errors.New("invalid movie id")
)
