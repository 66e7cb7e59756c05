package kinopoisk

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseRetryAfter(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		in   string
		want time.Duration
	}{
		{"", 0},
		{"2", 2 * time.Second},
		{" 30 ", 30 * time.Second},
		{"-5", 0},
		{"soon", 0},
		{now.Add(90 * time.Second).Format(http.TimeFormat), 90 * time.Second},
		{now.Add(-time.Minute).Format(http.TimeFormat), 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseRetryAfter(tt.in, now))
		})
	}
}

func TestIsTransient(t *testing.T) {
	assert.True(t, IsTransient(&NetworkError{Op: "GET /movie", Err: errors.New("reset")}))
	assert.True(t, IsTransient(fmt.Errorf("wrapped: %w", &RateLimitError{RetryAfter: time.Second})))
	assert.False(t, IsTransient(ErrUnauthorized))
	assert.False(t, IsTransient(ErrNotFound))
	assert.False(t, IsTransient(&DecodeError{Endpoint: "/movie", Err: errors.New("bad")}))
	assert.False(t, IsTransient(nil))
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "GET /movie: timeout: deadline", (&NetworkError{Op: "GET /movie", Timeout: true, Err: errors.New("deadline")}).Error())
	assert.Equal(t, "rate limited: retry after 2s", (&RateLimitError{RetryAfter: 2 * time.Second}).Error())
	assert.Equal(t, "kinopoisk API error: 422 Unprocessable Entity", (&APIError{StatusCode: 422, Status: "422 Unprocessable Entity"}).Error())

	inner := errors.New("unexpected EOF")
	err := &DecodeError{Endpoint: "/movie/{id}", Err: inner}
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, "decode /movie/{id} response: unexpected EOF", err.Error())
}
