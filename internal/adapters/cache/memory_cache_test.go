package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMemoryCacheRoundTrip(t *testing.T) {
	c := NewMemoryCache(zap.NewNop(), time.Hour)
	defer c.Stop()
	ctx := context.Background()

	_, err := c.Get(ctx, "registry:sources")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, c.Set(ctx, "registry:sources", []byte(`[{"name":"Zillow"}]`), time.Minute))

	payload, err := c.Get(ctx, "registry:sources")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[{"name":"Zillow"}]`), payload)

	require.NoError(t, c.Delete(ctx, "registry:sources"))
	_, err = c.Get(ctx, "registry:sources")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache(zap.NewNop(), time.Hour)
	defer c.Stop()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), -time.Second))

	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryCacheCleanup(t *testing.T) {
	c := NewMemoryCache(zap.NewNop(), time.Hour)
	defer c.Stop()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "expired", []byte("v"), -time.Second))
	require.NoError(t, c.Set(ctx, "live", []byte("v"), time.Minute))

	require.NoError(t, c.Cleanup(ctx))

	_, err := c.Get(ctx, "expired")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = c.Get(ctx, "live")
	assert.NoError(t, err)
}
