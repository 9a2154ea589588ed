// README: Read-through caching of provider responses in Redis or in-process (gcache).
package transit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bluele/gcache"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"routebee/internal/modules/location"
)

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
}

type RedisCache struct {
	client *redis.Client
	prefix string
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client, prefix: "routebee:transit:"}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	return c.client.Set(ctx, c.prefix+key, val, ttl).Err()
}

type MemoryCache struct {
	c gcache.Cache
}

func NewMemoryCache(size int) *MemoryCache {
	return &MemoryCache{c: gcache.New(size).LRU().Build()}
}

func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, err := m.c.Get(key)
	if errors.Is(err, gcache.KeyNotFoundError) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	b, ok := v.([]byte)
	if !ok {
		return nil, false, fmt.Errorf("cache entry %q has type %T", key, v)
	}
	return b, true, nil
}

func (m *MemoryCache) Set(_ context.Context, key string, val []byte, ttl time.Duration) error {
	return m.c.SetWithExpire(key, val, ttl)
}

// CachedProvider serves provider reads from a cache. Cache failures are
// logged and bypassed; only the inner provider's errors are returned.
type CachedProvider struct {
	inner Provider
	cache Cache
	ttl   time.Duration
	log   *zap.Logger
}

func NewCachedProvider(inner Provider, cache Cache, ttl time.Duration, log *zap.Logger) *CachedProvider {
	if log == nil {
		log = zap.NewNop()
	}
	return &CachedProvider{inner: inner, cache: cache, ttl: ttl, log: log}
}

func (p *CachedProvider) LineStatus(ctx context.Context) ([]LineStatus, error) {
	return readThrough(ctx, p, "line_status", func() ([]LineStatus, error) {
		return p.inner.LineStatus(ctx)
	})
}

func (p *CachedProvider) BusRoutes(ctx context.Context, area location.Area) ([]string, error) {
	return readThrough(ctx, p, "bus_routes:"+string(area), func() ([]string, error) {
		return p.inner.BusRoutes(ctx, area)
	})
}

func readThrough[T any](ctx context.Context, p *CachedProvider, key string, load func() (T, error)) (T, error) {
	if b, ok, err := p.cache.Get(ctx, key); err != nil {
		p.log.Warn("transit cache get failed", zap.String("key", key), zap.Error(err))
	} else if ok {
		var v T
		if err := json.Unmarshal(b, &v); err == nil {
			return v, nil
		}
		p.log.Warn("transit cache entry corrupt", zap.String("key", key))
	}

	v, err := load()
	if err != nil {
		return v, err
	}
	if b, err := json.Marshal(v); err == nil {
		if err := p.cache.Set(ctx, key, b, p.ttl); err != nil {
			p.log.Warn("transit cache set failed", zap.String("key", key), zap.Error(err))
		}
	}
	return v, nil
}
