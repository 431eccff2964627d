package ratelimiter_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/natours/pkg/ratelimiter"
	"github.com/dmitrymomot/natours/pkg/redis"
)

// TestRedisStore runs against a live server named by REDIS_TEST_URL.
func TestRedisStore(t *testing.T) {
	url := os.Getenv("REDIS_TEST_URL")
	if url == "" {
		t.Skip("REDIS_TEST_URL is not set")
	}

	ctx := context.Background()
	client, err := redis.Connect(ctx, redis.Config{URL: url, RetryAttempts: 1, ConnectTimeout: 5 * time.Second})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	store := ratelimiter.NewRedisStore(client, "natours-test:")
	key := uuid.NewString()
	t.Cleanup(func() { _ = store.Reset(context.Background(), key) })

	remaining, resetAt, err := store.ConsumeTokens(ctx, key, 2, hourly)
	require.NoError(t, err)
	assert.Equal(t, 1, remaining)
	assert.WithinDuration(t, time.Now().Add(time.Hour), resetAt, 5*time.Second)

	remaining, _, err = store.ConsumeTokens(ctx, key, 2, hourly)
	require.NoError(t, err)
	assert.Equal(t, -1, remaining)

	remaining, _, err = store.ConsumeTokens(ctx, key, 1, hourly)
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)

	require.NoError(t, store.Reset(ctx, key))
	remaining, _, err = store.ConsumeTokens(ctx, key, 0, hourly)
	require.NoError(t, err)
	assert.Equal(t, 3, remaining)
}
