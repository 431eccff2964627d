package ratelimiter_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/natours/pkg/ratelimiter"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func request(h http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/tours", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	tb, err := ratelimiter.NewTokenBucket(ratelimiter.NewMemoryStore(ratelimiter.WithCleanupInterval(0)), hourly)
	require.NoError(t, err)
	h := ratelimiter.Middleware(tb)(okHandler())

	for range hourly.Capacity {
		rec := request(h, "10.0.0.1:5000")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "3", rec.Header().Get("X-RateLimit-Limit"))
		assert.NotEmpty(t, rec.Header().Get("X-RateLimit-Reset"))
	}

	rec := request(h, "10.0.0.1:6000")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	var body struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "fail", body.Status)
	assert.Equal(t, "Too many requests from this IP, please try again in an hour!", body.Message)

	assert.Equal(t, http.StatusOK, request(h, "10.0.0.2:5000").Code)
}

type failingStore struct{}

func (failingStore) ConsumeTokens(context.Context, string, int, ratelimiter.Config) (int, time.Time, error) {
	return 0, time.Time{}, errors.New("connection refused")
}

func (failingStore) Reset(context.Context, string) error { return nil }

func TestMiddlewareStoreFailure(t *testing.T) {
	t.Parallel()

	tb, err := ratelimiter.NewTokenBucket(failingStore{}, hourly)
	require.NoError(t, err)

	closed := ratelimiter.Middleware(tb)(okHandler())
	assert.Equal(t, http.StatusInternalServerError, request(closed, "10.0.0.1:1").Code)

	open := ratelimiter.Middleware(tb, ratelimiter.WithFailOpen())(okHandler())
	assert.Equal(t, http.StatusOK, request(open, "10.0.0.1:1").Code)
}

func TestMiddlewareKeys(t *testing.T) {
	t.Parallel()

	tb, err := ratelimiter.NewTokenBucket(failingStore{}, hourly)
	require.NoError(t, err)

	skip := ratelimiter.Middleware(tb,
		ratelimiter.WithKeyFunc(func(*http.Request) string { return "" }),
	)(okHandler())
	assert.Equal(t, http.StatusOK, request(skip, "10.0.0.1:1").Code, "empty key is not limited")

	route := func(r *http.Request) string { return r.URL.Path }
	key := ratelimiter.Composite(ratelimiter.ByIP, route)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/tours", nil)
	req.RemoteAddr = "10.0.0.1:1"
	assert.Equal(t, "10.0.0.1:/api/v1/tours", key(req))

	long := ratelimiter.Composite(func(*http.Request) string { return string(make([]byte, 100)) })
	assert.LessOrEqual(t, len(long(req)), 13)
}
