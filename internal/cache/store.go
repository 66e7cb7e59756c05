// Package cache provides the catalog's cache tiers: a bounded in-memory
// store and persistent backends that survive restarts.
package cache

import (
	"container/heap"
	"container/list"
	"sync"
	"time"
)

// Entry is a cached value with the time it was fetched and how long it
// stays valid.
type Entry[V any] struct {
	Value     V
	FetchedAt time.Time
	TTL       time.Duration
}

// ExpiresAt returns the instant the entry stops being valid.
func (e Entry[V]) ExpiresAt() time.Time {
	return e.FetchedAt.Add(e.TTL)
}

// ValidAt reports whether the entry is still valid at now.
func (e Entry[V]) ValidAt(now time.Time) bool {
	return now.Sub(e.FetchedAt) < e.TTL
}

// Age returns how long ago the entry was fetched.
func (e Entry[V]) Age(now time.Time) time.Duration {
	return now.Sub(e.FetchedAt)
}

type item[V any] struct {
	key     string
	entry   Entry[V]
	element *list.Element
	index   int
}

// Store is a size-bounded in-memory cache with per-entry TTL.
//
// Get never returns an expired entry. Expired entries are kept for the
// stale-retention window so Stale can serve them as a fallback, and are
// the first to go when the store is over capacity; after that the least
// recently used entry is evicted.
//
// EvictExpired does not drop an entry as soon as its TTL passes: an expired
// entry still inside the retention window survives the sweep. Set the
// retention to zero to sweep at expiry.
type Store[V any] struct {
	mu        sync.Mutex
	capacity  int
	retention time.Duration
	now       func() time.Time

	items   map[string]*item[V]
	recency *list.List // front is most recently used
	expiry  expiryHeap[V]
}

// StoreOption configures a Store.
type StoreOption func(*storeOptions)

type storeOptions struct {
	retention time.Duration
	now       func() time.Time
}

// WithClock sets the time source (for testing).
func WithClock(now func() time.Time) StoreOption {
	return func(o *storeOptions) {
		o.now = now
	}
}

// WithStaleRetention keeps expired entries around for d so that Stale can
// still return them.
func WithStaleRetention(d time.Duration) StoreOption {
	return func(o *storeOptions) {
		if d > 0 {
			o.retention = d
		}
	}
}

// NewStore creates a store holding at most capacity entries.
// A capacity below 1 is treated as 1.
func NewStore[V any](capacity int, opts ...StoreOption) *Store[V] {
	o := storeOptions{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if capacity < 1 {
		capacity = 1
	}
	return &Store[V]{
		capacity:  capacity,
		retention: o.retention,
		now:       o.now,
		items:     make(map[string]*item[V]),
		recency:   list.New(),
	}
}

// Get returns the valid entry for key. Expired entries are reported as
// absent, and removed once past the retention window.
func (s *Store[V]) Get(key string) (Entry[V], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.items[key]
	if !ok {
		return Entry[V]{}, false
	}
	now := s.now()
	if !it.entry.ValidAt(now) {
		if s.dead(it, now) {
			s.remove(it)
		}
		return Entry[V]{}, false
	}
	s.recency.MoveToFront(it.element)
	return it.entry, true
}

// Stale returns the entry for key whether or not it has expired, as long
// as it is still retained. It does not count as a use.
func (s *Store[V]) Stale(key string) (Entry[V], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.items[key]
	if !ok {
		return Entry[V]{}, false
	}
	if s.dead(it, s.now()) {
		s.remove(it)
		return Entry[V]{}, false
	}
	return it.entry, true
}

// Put stores value under key, replacing any previous entry wholesale.
// A non-positive ttl removes the key instead.
func (s *Store[V]) Put(key string, value V, ttl time.Duration) {
	s.PutEntry(key, Entry[V]{Value: value, FetchedAt: s.now(), TTL: ttl})
}

// PutEntry stores a prepared entry, keeping its FetchedAt. It is used to
// promote entries loaded from a persistent tier.
func (s *Store[V]) PutEntry(key string, e Entry[V]) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.TTL <= 0 {
		if it, ok := s.items[key]; ok {
			s.remove(it)
		}
		return
	}

	if it, ok := s.items[key]; ok {
		it.entry = e
		s.recency.MoveToFront(it.element)
		heap.Fix(&s.expiry, it.index)
	} else {
		it := &item[V]{key: key, entry: e}
		it.element = s.recency.PushFront(it)
		heap.Push(&s.expiry, it)
		s.items[key] = it
	}

	now := s.now()

	// Expired entries past retention go first.
	s.evictDead(now)

	// Then expired-but-retained entries, then least recently used.
	for len(s.items) > s.capacity {
		if top := s.expiry[0]; !top.entry.ValidAt(now) {
			s.remove(top)
			continue
		}
		back := s.recency.Back()
		s.remove(back.Value.(*item[V]))
	}
}

// Invalidate removes key. Removing a missing key is a no-op.
func (s *Store[V]) Invalidate(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if it, ok := s.items[key]; ok {
		s.remove(it)
	}
}

// EvictExpired removes every entry whose TTL plus retention window has
// passed. Expired entries still inside the window are kept for Stale. It
// returns the number of entries removed.
func (s *Store[V]) EvictExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.evictDead(s.now())
}

// Len returns the number of entries held, including retained stale ones.
func (s *Store[V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Capacity returns the maximum number of entries.
func (s *Store[V]) Capacity() int {
	return s.capacity
}

func (s *Store[V]) dead(it *item[V], now time.Time) bool {
	return !now.Before(it.entry.ExpiresAt().Add(s.retention))
}

func (s *Store[V]) evictDead(now time.Time) int {
	n := 0
	for len(s.expiry) > 0 && s.dead(s.expiry[0], now) {
		s.remove(s.expiry[0])
		n++
	}
	return n
}

func (s *Store[V]) remove(it *item[V]) {
	s.recency.Remove(it.element)
	heap.Remove(&s.expiry, it.index)
	delete(s.items, it.key)
}

// expiryHeap orders items by expiry, earliest first.
type expiryHeap[V any] []*item[V]

func (h expiryHeap[V]) Len() int { return len(h) }

func (h expiryHeap[V]) Less(i, j int) bool {
	return h[i].entry.ExpiresAt().Before(h[j].entry.ExpiresAt())
}

func (h expiryHeap[V]) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *expiryHeap[V]) Push(x any) {
	it := x.(*item[V])
	it.index = len(*h)
	*h = append(*h, it)
}

func (h *expiryHeap[V]) Pop() any {
	old := *h
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	it.index = -1
	*h = old[:n-1]
	return it
}
