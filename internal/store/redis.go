package store

import (
	"context"
	"fmt"
	"time"

	"cmbs_reminder/internal/logger"

	redis "github.com/redis/go-redis/v9"
)

// RedisKV implements KV on a Redis connection.
type RedisKV struct {
	client *redis.Client
}

// ConnectRedis opens a Redis client and verifies connectivity. The store is
// the sole persistence authority, so unlike a cache we fail hard when it is
// unreachable.
func ConnectRedis(addr, password string, db int) (*RedisKV, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis at %s: %w", addr, err)
	}

	logger.Info("redis connected", "addr", addr, "db", db)
	return &RedisKV{client: client}, nil
}

// Client exposes the underlying connection for components that speak Redis
// directly (the rate-limit middleware).
func (r *RedisKV) Client() *redis.Client {
	return r.client
}

func (r *RedisKV) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (r *RedisKV) Set(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, key, value, 0).Err()
}

func (r *RedisKV) Incr(ctx context.Context, key string) (int64, error) {
	return r.client.Incr(ctx, key).Result()
}

func (r *RedisKV) Exists(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *RedisKV) Keys(ctx context.Context, pattern string) ([]string, error) {
	return r.client.Keys(ctx, pattern).Result()
}

func (r *RedisKV) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.client.Del(ctx, keys...).Err()
}

func (r *RedisKV) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisKV) Close() error {
	return r.client.Close()
}
