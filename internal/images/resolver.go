// Package images turns image references from the catalog API into
// fully-qualified URLs at a requested resolution. It never fetches images.
package images

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"
)

var (
	// ErrNoImage is returned for an empty reference.
	ErrNoImage = errors.New("no image")
	// ErrInvalidRef is returned for references that are not URLs or paths.
	ErrInvalidRef = errors.New("invalid image reference")
	// ErrUnknownTier is returned by ParseTier.
	ErrUnknownTier = errors.New("unknown image tier")
)

// DefaultBaseURL prefixes relative references. Kinopoisk itself returns
// absolute URLs; bare paths such as "/abc.jpg" reach the catalog from
// TMDB-sourced records and follow TMDB's /{size}/{path} layout, so they
// resolve against TMDB's image CDN unless WithBaseURL says otherwise.
const DefaultBaseURL = "https://image.tmdb.org/t/p"

// Hosts that encode the image size as the last path segment.
var defaultSizedHosts = []string{
	"avatars.mds.yandex.net",
	"image.openmoviedb.com",
}

// sizeSegment matches "orig", "x1000", "300x450", "600x".
var sizeSegment = regexp.MustCompile(`^(orig|\d+x\d*|x\d+)$`)

// CanonicalURL is a fully-qualified image URL for one resolution tier.
type CanonicalURL string

func (u CanonicalURL) String() string { return string(u) }

// Tier is a resolution class.
type Tier int

const (
	Thumb Tier = iota
	Small
	Medium
	Large
	Original
)

var tierNames = [...]string{"thumb", "small", "medium", "large", "original"}

// pathSize is the size directory used for relative references.
var pathSize = [...]string{"w92", "w185", "w342", "w780", "original"}

// hostSize replaces the trailing segment on sized hosts.
var hostSize = [...]string{"136x204", "300x450", "600x900", "x1000", "orig"}

func (t Tier) String() string {
	if t < Thumb || t > Original {
		return fmt.Sprintf("tier(%d)", int(t))
	}
	return tierNames[t]
}

// ParseTier parses a tier name. An empty string is Medium.
func ParseTier(s string) (Tier, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Medium, nil
	}
	for i, name := range tierNames {
		if s == name {
			return Tier(i), nil
		}
	}
	return Medium, fmt.Errorf("%w: %q", ErrUnknownTier, s)
}

// Resolver resolves image references. It holds no mutable state and is
// safe for concurrent use.
type Resolver struct {
	base  string
	sized map[string]bool
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithBaseURL sets the prefix for relative references.
func WithBaseURL(base string) Option {
	return func(r *Resolver) {
		r.base = strings.TrimRight(base, "/")
	}
}

// WithSizedHosts adds hosts whose last path segment selects the size.
func WithSizedHosts(hosts ...string) Option {
	return func(r *Resolver) {
		for _, h := range hosts {
			r.sized[strings.ToLower(h)] = true
		}
	}
}

// NewResolver creates a Resolver.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		base:  DefaultBaseURL,
		sized: make(map[string]bool),
	}
	for _, h := range defaultSizedHosts {
		r.sized[h] = true
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the URL of ref at the given tier.
func (r *Resolver) Resolve(ref string, tier Tier) (CanonicalURL, error) {
	if tier < Thumb || tier > Original {
		return "", fmt.Errorf("%w: %s", ErrUnknownTier, tier)
	}
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", ErrNoImage
	}

	switch {
	case strings.HasPrefix(ref, "//"):
		ref = "https:" + ref
	case strings.HasPrefix(ref, "/"):
		return r.relative(ref, tier)
	}

	u, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidRef, err)
	}
	scheme := strings.ToLower(u.Scheme)
	if (scheme != "http" && scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidRef, ref)
	}

	u.Scheme = "https"
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.RawFragment = ""
	if u.Path != "" {
		u.Path = path.Clean(u.Path)
		u.RawPath = ""
	}

	if r.sized[u.Hostname()] {
		dir, last := path.Split(u.Path)
		if sizeSegment.MatchString(last) && dir != "/" {
			u.Path = dir + hostSize[tier]
		}
	}
	return CanonicalURL(u.String()), nil
}

func (r *Resolver) relative(ref string, tier Tier) (CanonicalURL, error) {
	if i := strings.IndexAny(ref, "?#"); i >= 0 {
		ref = ref[:i]
	}
	p := path.Clean(ref)
	if p == "/" {
		return "", fmt.Errorf("%w: %q", ErrInvalidRef, ref)
	}
	return CanonicalURL(r.base + "/" + pathSize[tier] + p), nil
}
