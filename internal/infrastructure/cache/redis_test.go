package cache

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dealscout/backend/internal/domain"
)

func TestNewRedisCache_InvalidURL(t *testing.T) {
	_, err := NewRedisCache(context.Background(), "not-a-url", "")
	assert.True(t, errors.Is(err, domain.ErrCacheUnavailable))
}

func TestNewRedisCache_DefaultPrefix(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	defer client.Close()

	c := newRedisCache(client, "")
	assert.Equal(t, DefaultPrefix, c.prefix)
}

// TestRedisCache_RoundTrip runs against a live server named by DEALSCOUT_TEST_REDIS_URL.
func TestRedisCache_RoundTrip(t *testing.T) {
	url := os.Getenv("DEALSCOUT_TEST_REDIS_URL")
	if url == "" {
		t.Skip("DEALSCOUT_TEST_REDIS_URL not set")
	}

	ctx := context.Background()
	c, err := NewRedisCache(ctx, url, "dealscout-test:")
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)

	require.NoError(t, c.Set(ctx, "offers:k", []byte(`[]`), time.Minute))
	got, err := c.Get(ctx, "offers:k")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))

	require.NoError(t, c.Delete(ctx, "offers:k"))
	_, err = c.Get(ctx, "offers:k")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}
