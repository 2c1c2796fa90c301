package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/Daffa964/api-edutrash/internal/adapter/cache"
)

func newCache(t *testing.T) (*cache.RedisFunFactCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.NewRedisFunFactCache(client), mr
}

func TestRedisFunFactCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, mr := newCache(t)

	_, ok, err := c.Get(ctx, "plastik")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, c.Set(ctx, " Plastik ", "Plastik butuh ratusan tahun untuk terurai.", time.Minute))
	require.True(t, mr.Exists("funfact:plastik"))

	fact, ok, err := c.Get(ctx, "PLASTIK")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Plastik butuh ratusan tahun untuk terurai.", fact)

	mr.FastForward(2 * time.Minute)
	_, ok, err = c.Get(ctx, "plastik")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRedisFunFactCacheZeroTTLSkipsWrite(t *testing.T) {
	c, mr := newCache(t)

	require.NoError(t, c.Set(context.Background(), "kertas", "fact", 0))
	require.False(t, mr.Exists("funfact:kertas"))
}

func TestRedisFunFactCacheError(t *testing.T) {
	c, mr := newCache(t)
	mr.SetError("ERR cache unavailable")

	_, _, err := c.Get(context.Background(), "kaca")
	require.Error(t, err)
}
