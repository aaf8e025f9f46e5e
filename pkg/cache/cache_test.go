package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache("orderdesk").(*memoryCache)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	key := c.GenerateKey("revenue", "total")
	assert.Equal(t, "orderdesk:revenue:total", key)

	_, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, key, "30.50", time.Minute))
	v, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "30.50", v)

	now = now.Add(time.Minute)
	_, ok, _ = c.Get(ctx, key)
	assert.False(t, ok, "entry must expire at its ttl")

	require.NoError(t, c.Set(ctx, key, "1", 0))
	require.NoError(t, c.Delete(ctx, key))
	_, ok, _ = c.Get(ctx, key)
	assert.False(t, ok)
}
