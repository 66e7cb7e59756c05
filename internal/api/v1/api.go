// Package v1 implements the HTTP API consumed by catalog front ends.
package v1

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/vmunix/moviecat/internal/catalog"
	"github.com/vmunix/moviecat/internal/images"
	"github.com/vmunix/moviecat/pkg/kinopoisk"
)

// Config holds API server configuration.
type Config struct {
	DefaultPolicy catalog.Policy
	DefaultTier   images.Tier
}

// Server is the v1 API server.
type Server struct {
	deps    ServerDeps
	cfg     Config
	log     *slog.Logger
	started time.Time
}

// New creates a new v1 API server.
func New(deps ServerDeps, cfg Config, log *slog.Logger) (*Server, error) {
	if err := deps.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Server{
		deps:    deps,
		cfg:     cfg,
		log:     log.With("component", "api"),
		started: time.Now(),
	}, nil
}

// RegisterRoutes registers all API routes on the given mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	// Movies
	mux.HandleFunc("GET /api/v1/movies", s.listMovies)
	mux.HandleFunc("GET /api/v1/movies/{id}", s.getMovie)
	mux.HandleFunc("DELETE /api/v1/movies/{id}/cache", s.invalidateMovie)
	mux.HandleFunc("GET /api/v1/lookup", s.lookup)

	// Images
	mux.HandleFunc("GET /api/v1/images", s.resolveImage)

	// System
	mux.HandleFunc("GET /api/v1/status", s.getStatus)
	mux.HandleFunc("POST /api/v1/cache/sweep", s.sweep)
}

// Handler returns the routes wrapped in request-ID and logging middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	return withRequestID(logRequests(mux, s.log))
}

func writeError(w http.ResponseWriter, code int, errCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: message, Code: errCode})
}

func writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

// statusClientClosedRequest is reported when the caller went away before
// the result was ready.
const statusClientClosedRequest = 499

// writeCatalogError maps catalog and upstream failures to HTTP errors.
func (s *Server) writeCatalogError(w http.ResponseWriter, r *http.Request, err error) {
	var rateErr *kinopoisk.RateLimitError
	var netErr *kinopoisk.NetworkError
	var decodeErr *kinopoisk.DecodeError

	switch {
	case errors.Is(err, kinopoisk.ErrInvalidCursor),
		errors.Is(err, catalog.ErrInvalidID),
		errors.Is(err, catalog.ErrUnknownPolicy):
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
	case errors.Is(err, kinopoisk.ErrNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Movie not found")
	case errors.Is(err, catalog.ErrCacheMiss):
		writeError(w, http.StatusNotFound, "CACHE_MISS", "Not available offline")
	case errors.Is(err, catalog.ErrNoMatch):
		writeError(w, http.StatusNotFound, "NO_MATCH", "No matching movie")
	case errors.Is(err, kinopoisk.ErrUnauthorized):
		s.log.Error("upstream rejected API key", "request_id", RequestID(r.Context()))
		writeError(w, http.StatusBadGateway, "UNAUTHORIZED", "Upstream rejected credentials")
	case errors.As(err, &rateErr):
		if rateErr.RetryAfter > 0 {
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(rateErr.RetryAfter.Seconds()))))
		}
		writeError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Upstream rate limit reached")
	case errors.As(err, &netErr):
		writeError(w, http.StatusServiceUnavailable, "UPSTREAM_UNAVAILABLE", netErr.Error())
	case errors.As(err, &decodeErr):
		writeError(w, http.StatusBadGateway, "UPSTREAM_DECODE", "Upstream sent a malformed response")
	case errors.Is(err, context.Canceled):
		s.log.Debug("request canceled", "path", r.URL.Path, "request_id", RequestID(r.Context()))
		writeError(w, statusClientClosedRequest, "CANCELED", "Request canceled")
	default:
		s.log.Error("request failed", "path", r.URL.Path, "request_id", RequestID(r.Context()), "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
	}
}

// pathID extracts an integer ID from the URL path.
func pathID(r *http.Request, name string) (int64, error) {
	idStr := r.PathValue(name)
	if idStr == "" {
		return 0, fmt.Errorf("missing path parameter: %s", name)
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", name, idStr)
	}
	return id, nil
}

// queryInt extracts an optional non-negative integer from the query string.
func queryInt(r *http.Request, name string, defaultVal int) (int, error) {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal, nil
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 0 {
		return 0, fmt.Errorf("invalid %s: %q", name, val)
	}
	return i, nil
}

func (s *Server) policy(r *http.Request) (catalog.Policy, error) {
	val := r.URL.Query().Get("policy")
	if val == "" {
		return s.cfg.DefaultPolicy, nil
	}
	return catalog.ParsePolicy(val)
}

func (s *Server) listMovies(w http.ResponseWriter, r *http.Request) {
	cursor, err := queryInt(r, "cursor", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	policy, err := s.policy(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	res, err := s.deps.Catalog.GetPage(r.Context(), r.URL.Query().Get("query"), cursor, policy)
	if err != nil {
		s.writeCatalogError(w, r, err)
		return
	}

	page := res.Value
	resp := listMoviesResponse{
		Items:     make([]movieResponse, 0, len(page.Items)),
		Cursor:    page.Cursor,
		HasMore:   page.HasMore,
		Total:     page.Total,
		freshness: freshnessOf(res.Stale, res.FromCache, res.FetchedAt),
	}
	for _, m := range page.Items {
		resp.Items = append(resp.Items, s.movieToResponse(m))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) getMovie(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	policy, err := s.policy(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	res, err := s.deps.Catalog.GetDetail(r.Context(), id, policy)
	if err != nil {
		s.writeCatalogError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, movieDetailEnvelope{
		Movie:     s.detailToResponse(res.Value),
		freshness: freshnessOf(res.Stale, res.FromCache, res.FetchedAt),
	})
}

func (s *Server) invalidateMovie(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	if err := s.deps.Catalog.InvalidateDetail(r.Context(), id); err != nil {
		s.writeCatalogError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) {
	title := strings.TrimSpace(r.URL.Query().Get("title"))
	if title == "" {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "title is required")
		return
	}
	policy, err := s.policy(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	res, match, err := s.deps.Catalog.Lookup(r.Context(), title, policy)
	if err != nil {
		s.writeCatalogError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lookupResponse{
		Match: matchResponse{
			Title:      match.Title,
			Score:      match.Score,
			Confidence: match.Confidence.String(),
		},
		Movie:     s.detailToResponse(res.Value),
		freshness: freshnessOf(res.Stale, res.FromCache, res.FetchedAt),
	})
}

func (s *Server) resolveImage(w http.ResponseWriter, r *http.Request) {
	tier := s.cfg.DefaultTier
	if val := r.URL.Query().Get("tier"); val != "" {
		t, err := images.ParseTier(val)
		if err != nil {
			writeError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
			return
		}
		tier = t
	}

	u, err := s.deps.Images.Resolve(r.URL.Query().Get("ref"), tier)
	switch {
	case errors.Is(err, images.ErrNoImage):
		writeError(w, http.StatusNotFound, "NO_IMAGE", "No image reference given")
		return
	case err != nil:
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, imageResponse{URL: u.String(), Tier: tier.String()})
}

func (s *Server) sweep(w http.ResponseWriter, r *http.Request) {
	res, err := s.deps.Catalog.Sweep(r.Context())
	if err != nil {
		s.writeCatalogError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sweepResponse{Memory: res.Memory, Persistent: res.Persistent})
}

func (s *Server) getStatus(w http.ResponseWriter, r *http.Request) {
	st := s.deps.Catalog.Stats()
	writeJSON(w, http.StatusOK, statusResponse{
		Status: "ok",
		Uptime: time.Since(s.started).Round(time.Second).String(),
		Policy: s.cfg.DefaultPolicy.String(),
		Cache: cacheStatus{
			Pages:       st.Pages,
			Details:     st.Details,
			Hits:        st.Hits,
			Misses:      st.Misses,
			Fetches:     st.Fetches,
			Coalesced:   st.Coalesced,
			StaleServed: st.StaleServed,
		},
	})
}

func freshnessOf(stale, fromCache bool, fetchedAt time.Time) freshness {
	return freshness{Stale: stale, FromCache: fromCache, FetchedAt: fetchedAt}
}

// imageURL resolves ref at the default tier. Unresolvable references are
// dropped from responses.
func (s *Server) imageURL(ref string) string {
	if ref == "" {
		return ""
	}
	u, err := s.deps.Images.Resolve(ref, s.cfg.DefaultTier)
	if err != nil {
		s.log.Debug("unresolvable image", "ref", ref, "error", err)
		return ""
	}
	return u.String()
}

func (s *Server) movieToResponse(m kinopoisk.MovieSummary) movieResponse {
	return movieResponse{
		ID:        m.ID,
		Title:     m.Title,
		Year:      m.Year,
		Rating:    m.Rating,
		PosterRef: m.PosterRef,
		PosterURL: s.imageURL(m.PosterRef),
	}
}

func (s *Server) detailToResponse(d *kinopoisk.MovieDetail) movieDetailResponse {
	resp := movieDetailResponse{
		movieResponse:  s.movieToResponse(d.MovieSummary),
		Description:    d.Description,
		Genres:         d.Genres,
		Cast:           make([]personResponse, 0, len(d.Cast)),
		RuntimeMinutes: d.RuntimeMinutes,
		BackdropURL:    s.imageURL(d.BackdropRef),
	}
	if resp.Genres == nil {
		resp.Genres = []string{}
	}
	for _, p := range d.Cast {
		resp.Cast = append(resp.Cast, personResponse{
			ID:       p.ID,
			Name:     p.Name,
			Role:     p.Role,
			PhotoURL: s.imageURL(p.PhotoRef),
		})
	}
	return resp
}
