package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/go-querystring/query"
)

// Client wraps HTTP calls to the moviecat daemon.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new moviecat API client.
func NewClient(serverURL string) *Client {
	return &Client{
		baseURL: serverURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ServerError is a non-2xx response from the daemon.
type ServerError struct {
	Status  int
	Code    string
	Message string
}

func (e *ServerError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("server error %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("%s (%d): %s", e.Code, e.Status, e.Message)
}

// IsCode reports whether err is a ServerError with the given code.
func IsCode(err error, code string) bool {
	var se *ServerError
	return errors.As(err, &se) && se.Code == code
}

func (c *Client) do(method, path string, params any, result any) error {
	u := c.baseURL + path
	if params != nil {
		v, err := query.Values(params)
		if err != nil {
			return fmt.Errorf("encode query: %w", err)
		}
		if len(v) > 0 {
			u += "?" + v.Encode()
		}
	}

	req, err := http.NewRequest(method, u, nil)
	if err != nil {
		return fmt.Errorf("request creation failed: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeServerError(resp)
	}
	if result == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(result)
}

func decodeServerError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	se := &ServerError{Status: resp.StatusCode, Message: string(body)}
	var er ErrorResponse
	if json.Unmarshal(body, &er) == nil && er.Code != "" {
		se.Code = er.Code
		se.Message = er.Error
	}
	return se
}

// API response types (mirror server types)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type Freshness struct {
	Stale     bool      `json:"stale"`
	FromCache bool      `json:"from_cache"`
	FetchedAt time.Time `json:"fetched_at"`
}

type MovieResponse struct {
	ID        int64   `json:"id"`
	Title     string  `json:"title"`
	Year      int     `json:"year,omitempty"`
	Rating    float64 `json:"rating,omitempty"`
	PosterRef string  `json:"poster_ref,omitempty"`
	PosterURL string  `json:"poster_url,omitempty"`
}

type PersonResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Role     string `json:"role,omitempty"`
	PhotoURL string `json:"photo_url,omitempty"`
}

type MovieDetailResponse struct {
	MovieResponse
	Description    string           `json:"description,omitempty"`
	Genres         []string         `json:"genres"`
	Cast           []PersonResponse `json:"cast"`
	RuntimeMinutes int              `json:"runtime_minutes,omitempty"`
	BackdropURL    string           `json:"backdrop_url,omitempty"`
}

type ListMoviesResponse struct {
	Items   []MovieResponse `json:"items"`
	Cursor  int             `json:"cursor"`
	HasMore bool            `json:"has_more"`
	Total   int             `json:"total"`
	Freshness
}

type MovieEnvelope struct {
	Movie MovieDetailResponse `json:"movie"`
	Freshness
}

type MatchResponse struct {
	Title      string  `json:"title"`
	Score      float64 `json:"score"`
	Confidence string  `json:"confidence"`
}

type LookupResponse struct {
	Match MatchResponse       `json:"match"`
	Movie MovieDetailResponse `json:"movie"`
	Freshness
}

type ImageResponse struct {
	URL  string `json:"url"`
	Tier string `json:"tier"`
}

type SweepResponse struct {
	Memory     int   `json:"memory"`
	Persistent int64 `json:"persistent"`
}

type StatusResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
	Cache  struct {
		Pages       int    `json:"pages"`
		Details     int    `json:"details"`
		Hits        uint64 `json:"hits"`
		Misses      uint64 `json:"misses"`
		Fetches     uint64 `json:"fetches"`
		Coalesced   uint64 `json:"coalesced"`
		StaleServed uint64 `json:"stale_served"`
	} `json:"cache"`
	Policy string `json:"default_policy"`
}

// Query parameter sets

type listParams struct {
	Query  string `url:"query,omitempty"`
	Cursor int    `url:"cursor,omitempty"`
	Policy string `url:"policy,omitempty"`
}

type policyParams struct {
	Policy string `url:"policy,omitempty"`
}

type lookupParams struct {
	Title  string `url:"title"`
	Policy string `url:"policy,omitempty"`
}

type imageParams struct {
	Ref  string `url:"ref"`
	Tier string `url:"tier,omitempty"`
}

// ListMovies returns one page of search results, or the popular listing
// when q is empty.
func (c *Client) ListMovies(q string, cursor int, policy string) (*ListMoviesResponse, error) {
	var resp ListMoviesResponse
	if err := c.do(http.MethodGet, "/api/v1/movies", listParams{Query: q, Cursor: cursor, Policy: policy}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Movie returns the detail of movie id.
func (c *Client) Movie(id int64, policy string) (*MovieEnvelope, error) {
	var resp MovieEnvelope
	path := "/api/v1/movies/" + strconv.FormatInt(id, 10)
	if err := c.do(http.MethodGet, path, policyParams{Policy: policy}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ForgetMovie drops movie id from the daemon's caches.
func (c *Client) ForgetMovie(id int64) error {
	path := "/api/v1/movies/" + strconv.FormatInt(id, 10) + "/cache"
	return c.do(http.MethodDelete, path, nil, nil)
}

// Lookup finds the closest match for title.
func (c *Client) Lookup(title, policy string) (*LookupResponse, error) {
	var resp LookupResponse
	if err := c.do(http.MethodGet, "/api/v1/lookup", lookupParams{Title: title, Policy: policy}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Image resolves an image reference at tier.
func (c *Client) Image(ref, tier string) (*ImageResponse, error) {
	var resp ImageResponse
	if err := c.do(http.MethodGet, "/api/v1/images", imageParams{Ref: ref, Tier: tier}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Status returns daemon and cache status.
func (c *Client) Status() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.do(http.MethodGet, "/api/v1/status", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Sweep asks the daemon to drop expired cache entries.
func (c *Client) Sweep() (*SweepResponse, error) {
	var resp SweepResponse
	if err := c.do(http.MethodPost, "/api/v1/cache/sweep", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

