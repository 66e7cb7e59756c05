package main

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_ListMovies(t *testing.T) {
	srv := newMockServer(t).
		ExpectPath("/api/v1/movies").
		ExpectGET().
		Handler(func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			assert.Equal(t, "the matrix", q.Get("query"))
			assert.Equal(t, "2", q.Get("cursor"))
			assert.Equal(t, "cache-only", q.Get("policy"))
			respondJSON(t, w, ListMoviesResponse{
				Items:   []MovieResponse{{ID: 301, Title: "The Matrix", Year: 1999, Rating: 8.5}},
				Cursor:  3,
				HasMore: true,
				Total:   41,
			})
		}).
		Build()
	defer srv.Close()

	resp, err := NewClient(srv.URL).ListMovies("the matrix", 2, "cache-only")
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, int64(301), resp.Items[0].ID)
	assert.Equal(t, 3, resp.Cursor)
	assert.True(t, resp.HasMore)
}

func TestClient_ListMovies_OmitsEmptyParams(t *testing.T) {
	srv := newMockServer(t).
		Handler(func(w http.ResponseWriter, r *http.Request) {
			assert.Empty(t, r.URL.RawQuery)
			respondJSON(t, w, ListMoviesResponse{})
		}).
		Build()
	defer srv.Close()

	_, err := NewClient(srv.URL).ListMovies("", 0, "")
	require.NoError(t, err)
}

func TestClient_Movie(t *testing.T) {
	fetched := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	srv := newMockServer(t).
		ExpectPath("/api/v1/movies/301").
		ExpectGET().
		RespondJSON(MovieEnvelope{
			Movie: MovieDetailResponse{
				MovieResponse:  MovieResponse{ID: 301, Title: "The Matrix"},
				Genres:         []string{"sci-fi"},
				RuntimeMinutes: 136,
			},
			Freshness: Freshness{FromCache: true, FetchedAt: fetched},
		}).
		Build()
	defer srv.Close()

	resp, err := NewClient(srv.URL).Movie(301, "")
	require.NoError(t, err)
	assert.Equal(t, "The Matrix", resp.Movie.Title)
	assert.Equal(t, 136, resp.Movie.RuntimeMinutes)
	assert.True(t, resp.FromCache)
	assert.True(t, fetched.Equal(resp.FetchedAt))
}

func TestClient_ForgetMovie(t *testing.T) {
	srv := newMockServer(t).
		ExpectPath("/api/v1/movies/301/cache").
		ExpectDELETE().
		RespondStatus(http.StatusNoContent).
		Build()
	defer srv.Close()

	require.NoError(t, NewClient(srv.URL).ForgetMovie(301))
}

func TestClient_Lookup(t *testing.T) {
	srv := newMockServer(t).
		ExpectPath("/api/v1/lookup").
		Handler(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Star Wars Episode IV", r.URL.Query().Get("title"))
			respondJSON(t, w, LookupResponse{
				Match: MatchResponse{Title: "Star Wars: Episode IV - A New Hope", Score: 0.97, Confidence: "high"},
				Movie: MovieDetailResponse{MovieResponse: MovieResponse{ID: 333, Title: "Star Wars: Episode IV - A New Hope"}},
			})
		}).
		Build()
	defer srv.Close()

	resp, err := NewClient(srv.URL).Lookup("Star Wars Episode IV", "")
	require.NoError(t, err)
	assert.Equal(t, "high", resp.Match.Confidence)
	assert.Equal(t, int64(333), resp.Movie.ID)
}

func TestClient_Image(t *testing.T) {
	srv := newMockServer(t).
		ExpectPath("/api/v1/images").
		Handler(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/abc.jpg", r.URL.Query().Get("ref"))
			assert.Equal(t, "thumb", r.URL.Query().Get("tier"))
			respondJSON(t, w, ImageResponse{URL: "https://image.tmdb.org/t/p/w92/abc.jpg", Tier: "thumb"})
		}).
		Build()
	defer srv.Close()

	resp, err := NewClient(srv.URL).Image("/abc.jpg", "thumb")
	require.NoError(t, err)
	assert.Equal(t, "https://image.tmdb.org/t/p/w92/abc.jpg", resp.URL)
}

func TestClient_Sweep(t *testing.T) {
	srv := newMockServer(t).
		ExpectPath("/api/v1/cache/sweep").
		ExpectPOST().
		RespondJSON(SweepResponse{Memory: 3, Persistent: 7}).
		Build()
	defer srv.Close()

	resp, err := NewClient(srv.URL).Sweep()
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Memory)
	assert.Equal(t, int64(7), resp.Persistent)
}

func TestClient_ServerError_WithCode(t *testing.T) {
	srv := newMockServer(t).
		Handler(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"not in cache","code":"CACHE_MISS"}`))
		}).
		Build()
	defer srv.Close()

	_, err := NewClient(srv.URL).Movie(1, "cache-only")
	require.Error(t, err)
	assert.True(t, IsCode(err, "CACHE_MISS"))

	var se *ServerError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.Status)
	assert.Equal(t, "not in cache", se.Message)
	assert.Contains(t, err.Error(), "CACHE_MISS (404)")
}

func TestClient_ServerError_PlainBody(t *testing.T) {
	srv := newMockServer(t).
		RespondError(http.StatusBadGateway, "upstream down").
		Build()
	defer srv.Close()

	_, err := NewClient(srv.URL).Status()
	require.Error(t, err)
	assert.False(t, IsCode(err, "UPSTREAM_UNAVAILABLE"))
	assert.Equal(t, "server error 502: upstream down", err.Error())
}

func TestClient_ConnectionError(t *testing.T) {
	_, err := NewClient("http://127.0.0.1:1").Status()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request failed")
}

func TestClient_InvalidJSON(t *testing.T) {
	srv := newMockServer(t).
		Handler(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("{not json"))
		}).
		Build()
	defer srv.Close()

	_, err := NewClient(srv.URL).Status()
	assert.Error(t, err)
}
