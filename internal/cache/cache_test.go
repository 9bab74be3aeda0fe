package cache

import (
	"context"
	"errors"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilCachePassesThrough(t *testing.T) {
	var c *Cache
	calls := 0
	load := func(context.Context) (int, error) {
		calls++
		return 42, nil
	}

	v, err := Remember(context.Background(), c, "k", load)
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	v, err = Remember(context.Background(), New(nil, "stats", time.Minute), "k", load)
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, 2, calls)

	c.InvalidateStats(context.Background())
}

func TestRememberPropagatesLoadError(t *testing.T) {
	boom := errors.New("boom")
	_, err := Remember(context.Background(), nil, "k", func(context.Context) (string, error) {
		return "", boom
	})
	assert.ErrorIs(t, err, boom)
}

func redisClient(t *testing.T) *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		t.Skipf("redis not available: %v", err)
	}
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

type snapshot struct {
	Total int64 `json:"total"`
}

func TestRememberCachesAndInvalidates(t *testing.T) {
	rdb := redisClient(t)
	ctx := context.Background()
	c := New(rdb, "test-stats-"+time.Now().Format("150405.000"), time.Minute)
	t.Cleanup(func() { _ = c.Invalidate(ctx) })

	var calls int32
	load := func(context.Context) (snapshot, error) {
		atomic.AddInt32(&calls, 1)
		return snapshot{Total: 7}, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := Remember(ctx, c, "system", load)
			assert.NoError(t, err)
			assert.Equal(t, int64(7), v.Total)
		}()
	}
	wg.Wait()

	v, err := Remember(ctx, c, "system", load)
	require.NoError(t, err)
	assert.Equal(t, int64(7), v.Total)
	before := atomic.LoadInt32(&calls)
	assert.LessOrEqual(t, before, int32(8))

	require.NoError(t, c.Invalidate(ctx))
	_, err = Remember(ctx, c, "system", load)
	require.NoError(t, err)
	assert.Equal(t, before+1, atomic.LoadInt32(&calls))
}
