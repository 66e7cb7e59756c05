package kinopoisk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-querystring/query"
)

const (
	defaultBaseURL  = "https://api.kinopoisk.dev/v1.4"
	defaultTimeout  = 10 * time.Second
	defaultPageSize = 20

	// maxBodySize caps how much of a response body is read.
	maxBodySize = 8 << 20
)

// popularFields are the fields requested for the popular listing.
var popularFields = []string{"id", "name", "alternativeName", "enName", "year", "poster", "rating"}

// Client is a Kinopoisk API client.
// It performs exactly one HTTP request per call and never retries.
type Client struct {
	apiKey     string
	baseURL    string
	pageSize   int
	httpClient *http.Client
	log        *slog.Logger
	now        func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithPageSize sets how many movies a page holds.
func WithPageSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithLogger sets a logger for debug output.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		c.log = log.With("component", "kinopoisk")
	}
}

// New creates a new Kinopoisk client authenticated with apiKey.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:   apiKey,
		baseURL:  defaultBaseURL,
		pageSize: defaultPageSize,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchPage fetches one page of movies. An empty query lists popular movies
// ordered by critics' rating; otherwise the query is a title search.
// Cursor 0 requests the first page.
func (c *Client) FetchPage(ctx context.Context, q string, cursor int) (*Page, error) {
	if cursor < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCursor, cursor)
	}
	start := time.Now()

	params := listParams{
		Page:  cursor + 1,
		Limit: c.pageSize,
	}
	endpoint := "/movie/search"
	q = strings.TrimSpace(q)
	if q == "" {
		endpoint = "/movie"
		params.SortField = "rating.filmCritics"
		params.SortType = "-1"
		params.SelectFields = popularFields
	} else {
		params.Query = q
	}

	values, err := query.Values(params)
	if err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}

	var resp listResponse
	if err := c.get(ctx, endpoint+"?"+values.Encode(), endpoint, &resp); err != nil {
		return nil, err
	}

	page := &Page{
		Cursor:  params.Page,
		Items:   make([]MovieSummary, 0, len(resp.Docs)),
		HasMore: params.Page < resp.Pages,
		Total:   resp.Total,
	}
	for i := range resp.Docs {
		doc := &resp.Docs[i]
		if doc.ID <= 0 {
			return nil, &DecodeError{Endpoint: endpoint, Err: fmt.Errorf("item %d: missing id", i)}
		}
		page.Items = append(page.Items, doc.summary())
	}

	if c.log != nil {
		c.log.Debug("fetched page", "query", q, "cursor", cursor, "items", len(page.Items), "has_more", page.HasMore, "duration_ms", time.Since(start).Milliseconds())
	}

	return page, nil
}

// FetchDetail fetches the full record of one movie.
func (c *Client) FetchDetail(ctx context.Context, id int64) (*MovieDetail, error) {
	start := time.Now()

	endpoint := fmt.Sprintf("/movie/%d", id)
	var doc movieDoc
	if err := c.get(ctx, endpoint, "/movie/{id}", &doc); err != nil {
		if c.log != nil && errors.Is(err, ErrNotFound) {
			c.log.Debug("movie not found", "id", id)
		}
		return nil, err
	}
	if doc.ID <= 0 {
		return nil, &DecodeError{Endpoint: "/movie/{id}", Err: errors.New("missing id")}
	}
	if doc.ID != id {
		return nil, &DecodeError{Endpoint: "/movie/{id}", Err: fmt.Errorf("requested id %d, got %d", id, doc.ID)}
	}

	movie := doc.detail()

	if c.log != nil {
		c.log.Debug("fetched movie", "id", id, "title", movie.Title, "duration_ms", time.Since(start).Milliseconds())
	}

	return movie, nil
}

// get performs an authenticated GET and decodes a 200 response into v.
// name identifies the endpoint in errors.
func (c *Client) get(ctx context.Context, path, name string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return fmt.Errorf("execute request: %w", err)
		}
		return &NetworkError{Op: "GET " + name, Timeout: isTimeout(err), Err: err}
	}
	defer resp.Body.Close()

	if err := c.checkResponse(resp, name); err != nil {
		return err
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(v); err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) {
			return &NetworkError{Op: "read " + name, Timeout: netErr.Timeout(), Err: err}
		}
		return &DecodeError{Endpoint: name, Err: err}
	}
	return nil
}

// checkResponse maps HTTP status codes to the package errors.
func (c *Client) checkResponse(resp *http.Response, name string) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusTooManyRequests:
		return &RateLimitError{RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"), c.now())}
	case resp.StatusCode >= 500:
		return &NetworkError{Op: "GET " + name, StatusCode: resp.StatusCode, Err: fmt.Errorf("server error: %s", resp.Status)}
	default:
		var body struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body)
		return &APIError{StatusCode: resp.StatusCode, Status: resp.Status, Message: body.Message}
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
