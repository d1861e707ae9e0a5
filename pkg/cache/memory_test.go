package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheSetGet(t *testing.T) {
	c := NewMemoryCache()
	defer c.Close()
	ctx := context.Background()

	type payload struct {
		Name  string
		Value float64
	}

	require.NoError(t, c.Set(ctx, "indicator:VIX", payload{Name: "VIX", Value: 18.5}, time.Minute))

	var got payload
	require.NoError(t, c.Get(ctx, "indicator:VIX", &got))
	assert.Equal(t, "VIX", got.Name)
	assert.Equal(t, 18.5, got.Value)
}

func TestMemoryCacheMiss(t *testing.T) {
	c := NewMemoryCache()
	defer c.Close()

	var got string
	err := c.Get(context.Background(), "absent", &got)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache()
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", 10*time.Millisecond))
	time.Sleep(25 * time.Millisecond)

	var got string
	err := c.Get(ctx, "k", &got)
	assert.ErrorIs(t, err, ErrCacheMiss)
}
