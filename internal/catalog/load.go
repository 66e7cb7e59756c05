package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/vmunix/moviecat/internal/cache"
	"github.com/vmunix/moviecat/pkg/kinopoisk"
)

type fetchFunc[T any] func(ctx context.Context) (T, error)

func load[T any](ctx context.Context, s *Synchronizer, key string, policy Policy, store *cache.Store[T], ttl time.Duration, fetch fetchFunc[T]) (Result[T], error) {
	switch policy {
	case CacheOnly:
		if res, ok := cached(ctx, s, key, store); ok {
			s.stats.hits.Add(1)
			return res, nil
		}
		s.stats.misses.Add(1)
		var zero Result[T]
		return zero, fmt.Errorf("%s: %w", key, ErrCacheMiss)

	case CacheFirst:
		if res, ok := cached(ctx, s, key, store); ok {
			s.stats.hits.Add(1)
			return res, nil
		}
		s.stats.misses.Add(1)
		return shared(ctx, s, key, store, ttl, fetch, true)

	case NetworkFirst:
		res, err := shared(ctx, s, key, store, ttl, fetch, false)
		if err == nil || !kinopoisk.IsTransient(err) {
			return res, err
		}
		if stale, ok := fallback(ctx, s, key, store); ok {
			s.stats.stales.Add(1)
			s.log.Warn("serving stale value", "key", key, "age", s.now().Sub(stale.FetchedAt).Round(time.Second), "error", err)
			return stale, nil
		}
		return res, err

	default:
		var zero Result[T]
		return zero, fmt.Errorf("%w: %s", ErrUnknownPolicy, policy)
	}
}

// cached returns a valid value from memory or, failing that, the
// persistent tier. Tier hits are promoted into memory.
func cached[T any](ctx context.Context, s *Synchronizer, key string, store *cache.Store[T]) (Result[T], bool) {
	if e, ok := store.Get(key); ok {
		return Result[T]{Value: e.Value, FromCache: true, FetchedAt: e.FetchedAt}, true
	}
	if s.tier == nil {
		return Result[T]{}, false
	}
	raw, ok := s.tier.Get(ctx, key)
	if !ok {
		return Result[T]{}, false
	}
	e, ok := decodeEntry[T](s, key, raw)
	if !ok {
		return Result[T]{}, false
	}
	store.PutEntry(key, e)
	return Result[T]{Value: e.Value, FromCache: true, FetchedAt: e.FetchedAt}, true
}

// fallback returns any retained value, expired or not, marked stale.
func fallback[T any](ctx context.Context, s *Synchronizer, key string, store *cache.Store[T]) (Result[T], bool) {
	e, ok := store.Stale(key)
	if !ok && s.tier != nil {
		var raw cache.Entry[[]byte]
		if raw, ok = s.tier.GetStale(ctx, key); ok {
			e, ok = decodeEntry[T](s, key, raw)
		}
	}
	if !ok {
		return Result[T]{}, false
	}
	return Result[T]{Value: e.Value, Stale: true, FromCache: true, FetchedAt: e.FetchedAt}, true
}

func decodeEntry[T any](s *Synchronizer, key string, raw cache.Entry[[]byte]) (cache.Entry[T], bool) {
	var v T
	if err := json.Unmarshal(raw.Value, &v); err != nil {
		s.log.Warn("discarding undecodable cache entry", "key", key, "error", err)
		return cache.Entry[T]{}, false
	}
	return cache.Entry[T]{Value: v, FetchedAt: raw.FetchedAt, TTL: raw.TTL}, true
}

// shared joins or starts the single in-flight fetch for key. The fetch
// runs detached from ctx so one caller giving up does not fail the
// others; the caller only stops waiting.
func shared[T any](ctx context.Context, s *Synchronizer, key string, store *cache.Store[T], ttl time.Duration, fetch fetchFunc[T], allowCached bool) (Result[T], error) {
	s.stats.joins.Add(1)
	detached := context.WithoutCancel(ctx)

	ch := s.group.DoChan(key, func() (any, error) {
		s.stats.flights.Add(1)
		// An earlier flight may have committed between the miss and now.
		if allowCached {
			if e, ok := store.Get(key); ok {
				return Result[T]{Value: e.Value, FromCache: true, FetchedAt: e.FetchedAt}, nil
			}
		}
		v, err := fetchWithRetry(detached, s, key, fetch)
		if err != nil {
			return nil, err
		}
		return commit(detached, s, key, store, v, ttl), nil
	})

	select {
	case r := <-ch:
		if r.Err != nil {
			var zero Result[T]
			return zero, fmt.Errorf("fetch %s: %w", key, r.Err)
		}
		return r.Val.(Result[T]), nil
	case <-ctx.Done():
		var zero Result[T]
		return zero, ctx.Err()
	}
}

func fetchWithRetry[T any](ctx context.Context, s *Synchronizer, key string, fetch fetchFunc[T]) (T, error) {
	start := s.now()
	s.stats.fetches.Add(1)
	v, err := fetch(ctx)

	var rateErr *kinopoisk.RateLimitError
	if errors.As(err, &rateErr) {
		wait := rateErr.RetryAfter
		if wait <= 0 {
			wait = s.cfg.DefaultRetryWait
		}
		if wait > s.cfg.MaxRetryWait {
			s.log.Warn("rate limited beyond retry bound", "key", key, "retry_after", wait)
			return v, err
		}
		s.log.Info("rate limited, retrying", "key", key, "wait", wait)
		if serr := s.sleep(ctx, wait); serr != nil {
			return v, serr
		}
		s.stats.fetches.Add(1)
		v, err = fetch(ctx)
	}

	var decodeErr *kinopoisk.DecodeError
	switch {
	case errors.As(err, &decodeErr):
		s.log.Warn("upstream sent malformed response", "key", key, "endpoint", decodeErr.Endpoint, "error", decodeErr.Err)
	case err != nil:
		s.log.Debug("fetch failed", "key", key, "error", err)
	default:
		s.log.Debug("fetched", "key", key, "duration_ms", s.now().Sub(start).Milliseconds())
	}
	return v, err
}

func commit[T any](ctx context.Context, s *Synchronizer, key string, store *cache.Store[T], v T, ttl time.Duration) Result[T] {
	now := s.now()
	store.PutEntry(key, cache.Entry[T]{Value: v, FetchedAt: now, TTL: ttl})
	if s.tier != nil {
		data, err := json.Marshal(v)
		if err != nil {
			s.log.Warn("encode cache entry", "key", key, "error", err)
		} else if err := s.tier.Set(ctx, key, cache.Entry[[]byte]{Value: data, FetchedAt: now, TTL: ttl}); err != nil {
			s.log.Warn("persist cache entry", "key", key, "error", err)
		}
	}
	return Result[T]{Value: v, FetchedAt: now}
}
