package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// CacheRedisClient implements RedisClient on top of go-redis.
type CacheRedisClient struct {
	client *redis.Client
	logger *zap.Logger
}

// NewCacheRedisClient wraps client and verifies the connection.
func NewCacheRedisClient(ctx context.Context, client *redis.Client, logger *zap.Logger) (*CacheRedisClient, error) {
	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("could not connect to redis at %s: %w", client.Options().Addr, err)
	}
	logger.Info("connected to redis", zap.String("addr", client.Options().Addr))

	return &CacheRedisClient{
		client: client,
		logger: logger,
	}, nil
}

// NewRedisOptions builds go-redis options for a single node.
func NewRedisOptions(addr, password string, db int) *redis.Options {
	return &redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}
}

// Set stores value under key. A zero ttl keeps the key until deleted.
func (c *CacheRedisClient) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}
	return nil
}

// Get retrieves the value of key, or ErrCacheMiss.
func (c *CacheRedisClient) Get(ctx context.Context, key string) (string, error) {
	val, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	if err != nil {
		return "", fmt.Errorf("failed to get key %s: %w", key, err)
	}
	return val, nil
}

// Del removes key. Deleting a missing key is not an error.
func (c *CacheRedisClient) Del(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}

// Keys lists keys matching a glob-style pattern.
func (c *CacheRedisClient) Keys(ctx context.Context, pattern string) ([]string, error) {
	keys, err := c.client.Keys(ctx, pattern).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list keys for pattern %s: %w", pattern, err)
	}
	return keys, nil
}

// Ping checks that redis is reachable.
func (c *CacheRedisClient) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the underlying connection pool.
func (c *CacheRedisClient) Close() error {
	return c.client.Close()
}
