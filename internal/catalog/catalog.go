// Package catalog serves movie pages and details from cache or network,
// coalescing concurrent requests for the same key into one upstream call.
package catalog

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/vmunix/moviecat/internal/cache"
	"github.com/vmunix/moviecat/pkg/kinopoisk"
)

//go:generate mockgen -destination=mocks/mock_fetcher.go -package=mocks github.com/vmunix/moviecat/internal/catalog Fetcher

// Fetcher is the upstream catalog API. *kinopoisk.Client implements it.
type Fetcher interface {
	FetchPage(ctx context.Context, query string, cursor int) (*kinopoisk.Page, error)
	FetchDetail(ctx context.Context, id int64) (*kinopoisk.MovieDetail, error)
}

// Config holds cache sizing, expiry and retry settings.
type Config struct {
	PageTTL        time.Duration
	DetailTTL      time.Duration
	MaxPages       int
	MaxDetails     int
	StaleRetention time.Duration

	// DefaultRetryWait is used when a rate-limited response carries no
	// Retry-After hint. MaxRetryWait bounds the wait; a longer hint is
	// surfaced without retrying.
	DefaultRetryWait time.Duration
	MaxRetryWait     time.Duration
}

// DefaultConfig returns the settings used when none are configured.
func DefaultConfig() Config {
	return Config{
		PageTTL:          time.Hour,
		DetailTTL:        24 * time.Hour,
		MaxPages:         256,
		MaxDetails:       1024,
		StaleRetention:   7 * 24 * time.Hour,
		DefaultRetryWait: time.Second,
		MaxRetryWait:     10 * time.Second,
	}
}

// Result is a value returned by the Synchronizer.
type Result[T any] struct {
	Value T
	// Stale is set when the value was served as a fallback after the
	// network failed.
	Stale bool
	// FromCache is set when no upstream call produced the value.
	FromCache bool
	FetchedAt time.Time
}

// Stats are cumulative counters.
type Stats struct {
	Hits        uint64 `json:"hits"`
	Misses      uint64 `json:"misses"`
	Fetches     uint64 `json:"fetches"`
	Coalesced   uint64 `json:"coalesced"`
	StaleServed uint64 `json:"stale_served"`
	Pages       int    `json:"pages"`
	Details     int    `json:"details"`
}

type counters struct {
	hits, misses, fetches  atomic.Uint64
	joins, flights, stales atomic.Uint64
}

// Synchronizer decides between cache and network for every request.
// It is safe for concurrent use.
type Synchronizer struct {
	fetcher Fetcher
	cfg     Config
	pages   *cache.Store[*kinopoisk.Page]
	details *cache.Store[*kinopoisk.MovieDetail]
	tier    cache.Tier
	group   singleflight.Group
	log     *slog.Logger
	now     func() time.Time
	sleep   func(ctx context.Context, d time.Duration) error
	stats   counters
}

// Option configures a Synchronizer.
type Option func(*Synchronizer)

// WithTier adds a persistent tier behind the in-memory stores.
func WithTier(t cache.Tier) Option {
	return func(s *Synchronizer) {
		s.tier = t
	}
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Synchronizer) {
		s.log = log.With("component", "catalog")
	}
}

// WithClock sets the time source (for testing).
func WithClock(now func() time.Time) Option {
	return func(s *Synchronizer) {
		s.now = now
	}
}

// New creates a Synchronizer in front of fetcher.
func New(fetcher Fetcher, cfg Config, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		fetcher: fetcher,
		cfg:     cfg,
		log:     slog.New(slog.DiscardHandler),
		now:     time.Now,
		sleep:   sleepContext,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.pages = cache.NewStore[*kinopoisk.Page](cfg.MaxPages,
		cache.WithClock(s.now), cache.WithStaleRetention(cfg.StaleRetention))
	s.details = cache.NewStore[*kinopoisk.MovieDetail](cfg.MaxDetails,
		cache.WithClock(s.now), cache.WithStaleRetention(cfg.StaleRetention))
	return s
}

// GetPage returns a page of movies for query. An empty query is the
// popular listing. Cursor 0 is the first page; Page.Cursor of the result
// is the cursor of the next one.
func (s *Synchronizer) GetPage(ctx context.Context, query string, cursor int, policy Policy) (Result[*kinopoisk.Page], error) {
	if cursor < 0 {
		return Result[*kinopoisk.Page]{}, fmt.Errorf("%w: %d", kinopoisk.ErrInvalidCursor, cursor)
	}
	query = normalizeQuery(query)
	key := PageKey(query, cursor)
	return load(ctx, s, key, policy, s.pages, s.cfg.PageTTL, func(ctx context.Context) (*kinopoisk.Page, error) {
		return s.fetcher.FetchPage(ctx, query, cursor)
	})
}

// GetDetail returns the full record of movie id.
func (s *Synchronizer) GetDetail(ctx context.Context, id int64, policy Policy) (Result[*kinopoisk.MovieDetail], error) {
	if id <= 0 {
		return Result[*kinopoisk.MovieDetail]{}, fmt.Errorf("%w: %d", ErrInvalidID, id)
	}
	key := DetailKey(id)
	return load(ctx, s, key, policy, s.details, s.cfg.DetailTTL, func(ctx context.Context) (*kinopoisk.MovieDetail, error) {
		return s.fetcher.FetchDetail(ctx, id)
	})
}

// Invalidate drops keys from every tier.
func (s *Synchronizer) Invalidate(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		s.pages.Invalidate(key)
		s.details.Invalidate(key)
		if s.tier == nil {
			continue
		}
		if err := s.tier.Delete(ctx, key); err != nil {
			return fmt.Errorf("invalidate %s: %w", key, err)
		}
	}
	s.log.Debug("invalidated", "keys", keys)
	return nil
}

// InvalidatePage drops a cached page.
func (s *Synchronizer) InvalidatePage(ctx context.Context, query string, cursor int) error {
	return s.Invalidate(ctx, PageKey(query, cursor))
}

// InvalidateDetail drops a cached movie.
func (s *Synchronizer) InvalidateDetail(ctx context.Context, id int64) error {
	return s.Invalidate(ctx, DetailKey(id))
}

// SweepResult reports what a Sweep removed.
type SweepResult struct {
	Memory     int
	Persistent int64
}

// Sweep removes expired entries from every tier.
func (s *Synchronizer) Sweep(ctx context.Context) (SweepResult, error) {
	res := SweepResult{Memory: s.pages.EvictExpired() + s.details.EvictExpired()}
	if s.tier != nil {
		n, err := s.tier.Prune(ctx)
		if err != nil {
			return res, fmt.Errorf("sweep: %w", err)
		}
		res.Persistent = n
	}
	if res.Memory > 0 || res.Persistent > 0 {
		s.log.Debug("swept cache", "memory", res.Memory, "persistent", res.Persistent)
	}
	return res, nil
}

// Stats returns a snapshot of the counters.
func (s *Synchronizer) Stats() Stats {
	joins, flights := s.stats.joins.Load(), s.stats.flights.Load()
	var coalesced uint64
	if joins > flights {
		coalesced = joins - flights
	}
	return Stats{
		Hits:        s.stats.hits.Load(),
		Misses:      s.stats.misses.Load(),
		Fetches:     s.stats.fetches.Load(),
		Coalesced:   coalesced,
		StaleServed: s.stats.stales.Load(),
		Pages:       s.pages.Len(),
		Details:     s.details.Len(),
	}
}

// PageKey is the cache key of a listing page.
func PageKey(query string, cursor int) string {
	sum := sha256.Sum256([]byte(strings.ToLower(normalizeQuery(query))))
	return fmt.Sprintf("page:%s:%d", hex.EncodeToString(sum[:8]), cursor)
}

// DetailKey is the cache key of a movie detail.
func DetailKey(id int64) string {
	return fmt.Sprintf("detail:%d", id)
}

// normalizeQuery trims and collapses whitespace.
func normalizeQuery(q string) string {
	return strings.Join(strings.Fields(q), " ")
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
