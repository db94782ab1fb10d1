package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/coocood/freecache"
	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/ocdrive/ocdrive/internal/config"
)

const prefix = "ocdrive:"

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("cache miss")

type Cacher interface {
	Get(ctx context.Context, key string, value interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type MemoryCache struct {
	cache *freecache.Cache
}

// NewCache returns a redis backed cache when an address is configured and an
// in-process one otherwise.
func NewCache(ctx context.Context, conf *config.CacheConfig) (Cacher, error) {
	if conf.RedisAddr == "" {
		return NewMemoryCache(conf.MaxSize), nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:            conf.RedisAddr,
		Password:        conf.RedisPass,
		DialTimeout:     5 * time.Second,
		ReadTimeout:     3 * time.Second,
		WriteTimeout:    3 * time.Second,
		PoolSize:        10,
		MinIdleConns:    2,
		ConnMaxIdleTime: 5 * time.Minute,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.Wrap(err, "ping redis")
	}
	return NewRedisCache(client), nil
}

func NewMemoryCache(size int) *MemoryCache {
	return &MemoryCache{cache: freecache.NewCache(size)}
}

func (m *MemoryCache) Get(_ context.Context, key string, value interface{}) error {
	data, err := m.cache.Get([]byte(prefix + key))
	if err != nil {
		if errors.Is(err, freecache.ErrNotFound) {
			return ErrMiss
		}
		return err
	}
	return msgpack.Unmarshal(data, value)
}

func (m *MemoryCache) Set(_ context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := msgpack.Marshal(value)
	if err != nil {
		return err
	}
	return m.cache.Set([]byte(prefix+key), data, int(expiration.Seconds()))
}

func (m *MemoryCache) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		m.cache.Del([]byte(prefix + key))
	}
	return nil
}

type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (r *RedisCache) Get(ctx context.Context, key string, value interface{}) error {
	data, err := r.client.Get(ctx, prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrMiss
		}
		return err
	}
	return msgpack.Unmarshal(data, value)
}

func (r *RedisCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := msgpack.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, prefix+key, data, expiration).Err()
}

func (r *RedisCache) Delete(ctx context.Context, keys ...string) error {
	prefixed := make([]string, len(keys))
	for i := range keys {
		prefixed[i] = prefix + keys[i]
	}
	return r.client.Del(ctx, prefixed...).Err()
}

// Fetch returns the cached value for key, filling it from fn on a miss.
func Fetch[T any](ctx context.Context, cache Cacher, key string, expiration time.Duration, fn func() (T, error)) (T, error) {
	var zero, value T
	err := cache.Get(ctx, key, &value)
	if err == nil {
		return value, nil
	}
	if !errors.Is(err, ErrMiss) {
		return zero, err
	}
	value, err = fn()
	if err != nil {
		return zero, err
	}
	if err := cache.Set(ctx, key, &value, expiration); err != nil {
		return zero, errors.Wrap(err, "cache set")
	}
	return value, nil
}

func Key(args ...interface{}) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = fmt.Sprint(arg)
	}
	return strings.Join(parts, ":")
}
