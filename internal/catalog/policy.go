package catalog

import (
	"fmt"
	"strings"
)

// Policy decides whether a request is served from cache or network.
type Policy int

const (
	// CacheFirst serves a valid cached value, fetching only on a miss.
	CacheFirst Policy = iota
	// NetworkFirst always fetches, falling back to any cached value
	// (stale included) when the network is unavailable.
	NetworkFirst
	// CacheOnly never touches the network.
	CacheOnly
)

func (p Policy) String() string {
	switch p {
	case CacheFirst:
		return "cache-first"
	case NetworkFirst:
		return "network-first"
	case CacheOnly:
		return "cache-only"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParsePolicy parses a policy name. An empty string is CacheFirst.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "cache-first", "cache_first", "cachefirst":
		return CacheFirst, nil
	case "network-first", "network_first", "networkfirst", "refresh":
		return NetworkFirst, nil
	case "cache-only", "cache_only", "cacheonly", "offline":
		return CacheOnly, nil
	default:
		return CacheFirst, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
}
