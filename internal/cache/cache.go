package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"taskboard/internal/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

var (
	Hits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Cache hits by key prefix",
	}, []string{"prefix"})

	Misses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Cache misses by key prefix",
	}, []string{"prefix"})
)

// Cache is a JSON cache-aside layer over Redis. A nil *Cache or one
// without a client passes every call through to the loader.
type Cache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	group  singleflight.Group
}

func New(client *redis.Client, prefix string, ttl time.Duration) *Cache {
	return &Cache{client: client, prefix: prefix, ttl: ttl}
}

func (c *Cache) enabled() bool {
	return c != nil && c.client != nil && c.ttl > 0
}

func (c *Cache) key(k string) string {
	return c.prefix + ":" + k
}

// Get decodes the cached value into dst. It reports false on a miss.
func (c *Cache) Get(ctx context.Context, key string, dst any) (bool, error) {
	if !c.enabled() {
		return false, nil
	}
	raw, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Cache) Set(ctx context.Context, key string, v any) error {
	if !c.enabled() {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(key), raw, c.ttl).Err()
}

// Invalidate removes every key under the cache prefix.
func (c *Cache) Invalidate(ctx context.Context) error {
	if !c.enabled() {
		return nil
	}
	iter := c.client.Scan(ctx, 0, c.prefix+":*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// InvalidateStats satisfies service.StatsInvalidator. Failures are logged only.
func (c *Cache) InvalidateStats(ctx context.Context) {
	if err := c.Invalidate(ctx); err != nil {
		logger.WithContext(ctx).Warn("cache invalidate failed", "prefix", c.prefix, "error", err)
	}
}

// Remember returns the cached value for key or runs load once per key across
// concurrent callers and caches its result. Redis errors fall back to load.
func Remember[T any](ctx context.Context, c *Cache, key string, load func(context.Context) (T, error)) (T, error) {
	if !c.enabled() {
		return load(ctx)
	}

	var v T
	hit, err := c.Get(ctx, key, &v)
	if err != nil {
		logger.WithContext(ctx).Warn("cache get failed", "key", key, "error", err)
	}
	if hit {
		Hits.WithLabelValues(c.prefix).Inc()
		return v, nil
	}
	Misses.WithLabelValues(c.prefix).Inc()

	res, err, _ := c.group.Do(key, func() (any, error) {
		v, err := load(ctx)
		if err != nil {
			return v, err
		}
		if err := c.Set(ctx, key, v); err != nil {
			logger.WithContext(ctx).Warn("cache set failed", "key", key, "error", err)
		}
		return v, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return res.(T), nil
}
