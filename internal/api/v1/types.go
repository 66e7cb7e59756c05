// internal/api/v1/types.go
package v1

import "time"

// movieResponse is the API representation of a movie summary.
type movieResponse struct {
	ID        int64   `json:"id"`
	Title     string  `json:"title"`
	Year      int     `json:"year,omitempty"`
	Rating    float64 `json:"rating,omitempty"`
	PosterRef string  `json:"poster_ref,omitempty"`
	PosterURL string  `json:"poster_url,omitempty"`
}

type personResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Role     string `json:"role,omitempty"`
	PhotoURL string `json:"photo_url,omitempty"`
}

// movieDetailResponse is the API representation of a movie detail.
type movieDetailResponse struct {
	movieResponse
	Description    string           `json:"description,omitempty"`
	Genres         []string         `json:"genres"`
	Cast           []personResponse `json:"cast"`
	RuntimeMinutes int              `json:"runtime_minutes,omitempty"`
	BackdropURL    string           `json:"backdrop_url,omitempty"`
}

// freshness describes where a result came from.
type freshness struct {
	Stale     bool      `json:"stale"`
	FromCache bool      `json:"from_cache"`
	FetchedAt time.Time `json:"fetched_at"`
}

// listMoviesResponse is the response for GET /movies.
type listMoviesResponse struct {
	Items   []movieResponse `json:"items"`
	Cursor  int             `json:"cursor"`
	HasMore bool            `json:"has_more"`
	Total   int             `json:"total"`
	freshness
}

// movieDetailEnvelope is the response for GET /movies/{id}.
type movieDetailEnvelope struct {
	Movie movieDetailResponse `json:"movie"`
	freshness
}

type matchResponse struct {
	Title      string  `json:"title"`
	Score      float64 `json:"score"`
	Confidence string  `json:"confidence"`
}

// lookupResponse is the response for GET /lookup.
type lookupResponse struct {
	Match matchResponse       `json:"match"`
	Movie movieDetailResponse `json:"movie"`
	freshness
}

type imageResponse struct {
	URL  string `json:"url"`
	Tier string `json:"tier"`
}

type sweepResponse struct {
	Memory     int   `json:"memory"`
	Persistent int64 `json:"persistent"`
}

type statusResponse struct {
	Status string      `json:"status"`
	Uptime string      `json:"uptime"`
	Cache  cacheStatus `json:"cache"`
	Policy string      `json:"default_policy"`
}

type cacheStatus struct {
	Pages       int    `json:"pages"`
	Details     int    `json:"details"`
	Hits        uint64 `json:"hits"`
	Misses      uint64 `json:"misses"`
	Fetches     uint64 `json:"fetches"`
	Coalesced   uint64 `json:"coalesced"`
	StaleServed uint64 `json:"stale_served"`
}

// Error response
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
