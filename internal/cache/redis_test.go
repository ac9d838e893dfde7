package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedLink struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

func setupTestCache(t *testing.T) (Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := NewCache(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { c.Close() })
	return c, mr
}

func TestCache_Miss(t *testing.T) {
	c, _ := setupTestCache(t)

	var got cachedLink
	err := c.GetJSON(context.Background(), "missing", &got)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestCache_RoundTripAndDelete(t *testing.T) {
	c, mr := setupTestCache(t)
	ctx := context.Background()
	want := cachedLink{ID: "1", URL: "https://example.com"}

	require.NoError(t, c.SetJSON(ctx, "link:code:abc123", want, time.Minute))
	assert.True(t, mr.Exists("link:code:abc123"))

	var got cachedLink
	require.NoError(t, c.GetJSON(ctx, "link:code:abc123", &got))
	assert.Equal(t, want, got)

	require.NoError(t, c.Delete(ctx, "link:code:abc123", "link:code:other"))
	assert.ErrorIs(t, c.GetJSON(ctx, "link:code:abc123", &got), ErrCacheMiss)
	assert.NoError(t, c.Delete(ctx))
}

func TestCache_Expiration(t *testing.T) {
	c, mr := setupTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.SetJSON(ctx, "short", cachedLink{ID: "1"}, time.Second))
	assert.Equal(t, time.Second, mr.TTL("short"))
	mr.FastForward(2 * time.Second)

	var got cachedLink
	assert.ErrorIs(t, c.GetJSON(ctx, "short", &got), ErrCacheMiss)
}

func TestCache_CorruptEntryIsDropped(t *testing.T) {
	c, mr := setupTestCache(t)
	require.NoError(t, mr.Set("bad", "{not json"))

	var got cachedLink
	err := c.GetJSON(context.Background(), "bad", &got)
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.False(t, mr.Exists("bad"))
}

func TestCache_ServerDown(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	c := NewCache(redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1}))
	defer c.Close()
	mr.Close()

	var got cachedLink
	err = c.GetJSON(context.Background(), "k", &got)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
}

func TestNewRedisCache_Unreachable(t *testing.T) {
	_, err := NewRedisCache("redis://127.0.0.1:1/0")
	assert.Error(t, err)
}
