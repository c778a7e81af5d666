package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/buihuuthinh2018/backend-crm-task/pkg/config"
	"github.com/go-redis/redis/v8"
)

// Custom error types
var (
	ErrCacheNotFound   = errors.New("cache: key not found")
	ErrCacheConnection = errors.New("cache: connection error")
)

const keyPrefix = "crmtask:"

// RedisClient wraps the Redis client for response caching. The cache is an
// optional layer; callers must tolerate every method failing.
type RedisClient struct {
	client     *redis.Client
	defaultTTL time.Duration
}

// NewRedisClient creates a new Redis client from project configuration
func NewRedisClient(cfg *config.Config) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     100,
		MinIdleConns: 10,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCacheConnection, err)
	}

	return &RedisClient{
		client:     client,
		defaultTTL: 5 * time.Minute,
	}, nil
}

func prefixed(key string) string {
	return keyPrefix + key
}

// Get retrieves a value and unmarshals it into dest
func (r *RedisClient) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := r.client.Get(ctx, prefixed(key)).Bytes()
	if err == redis.Nil {
		return ErrCacheNotFound
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

// Set marshals and stores a value. A zero ttl uses the default.
func (r *RedisClient) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if ttl == 0 {
		ttl = r.defaultTTL
	}
	return r.client.Set(ctx, prefixed(key), data, ttl).Err()
}

// Delete removes a single key
func (r *RedisClient) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, prefixed(key)).Err()
}

// DeletePattern removes all keys matching the pattern, scanning in batches
// to avoid blocking Redis with a single KEYS call.
func (r *RedisClient) DeletePattern(ctx context.Context, pattern string) error {
	iter := r.client.Scan(ctx, 0, prefixed(pattern), 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if len(keys) >= 100 {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
			keys = keys[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) > 0 {
		return r.client.Del(ctx, keys...).Err()
	}
	return nil
}

// Ping checks connectivity for health reporting
func (r *RedisClient) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the underlying connection pool
func (r *RedisClient) Close() error {
	return r.client.Close()
}
