package credential

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "rorichat:credential:"

// RedisStore keeps values as plain Redis strings under a fixed prefix.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(ctx context.Context, redisURL string) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client := redis.NewClient(opt)
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Get(ctx context.Context, name string) (string, bool, error) {
	value, err := s.client.Get(ctx, redisKeyPrefix+name).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get: %w", err)
	}
	return value, value != "", nil
}

func (s *RedisStore) Set(ctx context.Context, name, value string) error {
	if value == "" {
		return s.client.Del(ctx, redisKeyPrefix+name).Err()
	}
	return s.client.Set(ctx, redisKeyPrefix+name, value, 0).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
