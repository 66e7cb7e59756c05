package kinopoisk

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Sentinel errors for Kinopoisk API responses.
var (
	ErrNotFound      = errors.New("movie not found")
	ErrUnauthorized  = errors.New("unauthorized: invalid or expired API key")
	ErrInvalidCursor = errors.New("invalid cursor")
)

// NetworkError means the API could not be reached or could not serve the
// request: a transport failure, or a 5xx response. StatusCode is zero for
// transport failures.
type NetworkError struct {
	Op         string
	StatusCode int
	Timeout    bool
	Err        error
}

func (e *NetworkError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("%s: timeout: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// RateLimitError is returned on HTTP 429.
// RetryAfter is zero when the API gave no hint.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited: retry after %s", e.RetryAfter)
	}
	return "rate limited: too many requests"
}

// DecodeError means the response body did not match the expected schema.
// The whole response is rejected.
type DecodeError struct {
	Endpoint string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s response: %v", e.Endpoint, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// APIError is a 4xx response not covered by the other errors.
type APIError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("kinopoisk API error: %s: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("kinopoisk API error: %s", e.Status)
}

// IsTransient reports whether err is worth retrying later with the same
// request: network failures and rate limiting.
func IsTransient(err error) bool {
	var netErr *NetworkError
	var rateErr *RateLimitError
	return errors.As(err, &netErr) || errors.As(err, &rateErr)
}

// parseRetryAfter reads a Retry-After header given either as delay seconds
// or as an HTTP date.
func parseRetryAfter(v string, now time.Time) time.Duration {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil {
		if secs < 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(v); err == nil {
		if d := at.Sub(now); d > 0 {
			return d
		}
	}
	return 0
}
