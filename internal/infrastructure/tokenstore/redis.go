package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gcreations/storefront-agent/internal/core/domain"
)

const (
	defaultKey     = "storefront:credential"
	defaultTimeout = 5 * time.Second
)

// RedisConfig captures the settings for establishing a Redis connection.
type RedisConfig struct {
	Addr    string
	DB      int
	Timeout time.Duration
}

// Connect initialises a Redis client and validates connectivity with a
// ping. A default timeout is applied when none is provided.
func Connect(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}

// RedisStore keeps the credential under one well-known key, for
// deployments where the agent has no durable disk.
type RedisStore struct {
	client *redis.Client
	key    string
}

func NewRedisStore(client *redis.Client, key string) *RedisStore {
	if key == "" {
		key = defaultKey
	}
	return &RedisStore{client: client, key: key}
}

func (s *RedisStore) Save(ctx context.Context, credential string) error {
	if err := s.client.Set(ctx, s.key, credential, 0).Err(); err != nil {
		return fmt.Errorf("save credential: %w", err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context) (string, error) {
	credential, err := s.client.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", domain.ErrNoCredential
	}
	if err != nil {
		return "", fmt.Errorf("load credential: %w", err)
	}
	if credential == "" {
		return "", domain.ErrNoCredential
	}
	return credential, nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("clear credential: %w", err)
	}
	return nil
}
