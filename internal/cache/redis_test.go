package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jyotishdesk/jyotish-api/internal/config"
)

type testStruct struct {
	Name string
	Age  int
}

func setupTestCache(t *testing.T) *Cache {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	t.Cleanup(func() { mr.Close() })

	cfg := config.RedisConnection{
		AddressRedis: mr.Addr(),
		Password:     "",
		DB:           0,
		User:         "",
	}

	cache, err := InitServer(context.Background(), cfg)
	require.NoError(t, err)
	return cache
}

func TestSetAndGet(t *testing.T) {
	cache := setupTestCache(t)
	ctx := context.Background()

	expected := testStruct{Name: "Asha", Age: 30}
	err := cache.Set(ctx, "astrology:kundli:test", expected, time.Minute)
	require.NoError(t, err)

	var actual testStruct
	found, err := cache.Get(ctx, "astrology:kundli:test", &actual)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, expected, actual)
}

func TestGet_Miss(t *testing.T) {
	cache := setupTestCache(t)

	var actual testStruct
	found, err := cache.Get(context.Background(), "missing-key", &actual)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestInvalidate(t *testing.T) {
	cache := setupTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "key", "value", time.Minute))
	require.NoError(t, cache.Invalidate(ctx, "key"))

	var actual string
	found, err := cache.Get(ctx, "key", &actual)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSessionLifecycle(t *testing.T) {
	cache := setupTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.SetSession(ctx, "abc-123", "user123", time.Hour))

	userUID, err := cache.GetSession(ctx, "abc-123")
	require.NoError(t, err)
	assert.Equal(t, "user123", userUID)

	require.NoError(t, cache.DeleteSession(ctx, "abc-123"))

	userUID, err = cache.GetSession(ctx, "abc-123")
	require.NoError(t, err)
	assert.Empty(t, userUID)
}

func TestGetSession_UnknownID(t *testing.T) {
	cache := setupTestCache(t)

	userUID, err := cache.GetSession(context.Background(), "never-issued")
	require.NoError(t, err)
	assert.Empty(t, userUID)
}
