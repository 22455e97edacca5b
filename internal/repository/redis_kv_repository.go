package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appErrors "github.com/Ipeter02/ccapsystemsynod/pkg/errors"
)

type redisCmdable interface {
	Get(context.Context, string) *redis.StringCmd
	Set(context.Context, string, any, time.Duration) *redis.StatusCmd
	Del(context.Context, ...string) *redis.IntCmd
}

// RedisKVRepository persists Local Store blobs in Redis so several consoles can share one store.
type RedisKVRepository struct {
	client redisCmdable
	prefix string
	logger *zap.Logger
}

// NewRedisKVRepository constructs a Redis backed key/value repository. Keys are stored under prefix.
func NewRedisKVRepository(client *redis.Client, prefix string, logger *zap.Logger) *RedisKVRepository {
	return newRedisKVRepository(client, prefix, logger)
}

func newRedisKVRepository(client redisCmdable, prefix string, logger *zap.Logger) *RedisKVRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisKVRepository{client: client, prefix: prefix, logger: logger}
}

// Get returns the raw blob stored under key.
func (r *RedisKVRepository) Get(ctx context.Context, key string) ([]byte, error) {
	raw, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, appErrors.ErrKeyNotFound
		}
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return raw, nil
}

// Set stores the blob without expiry.
func (r *RedisKVRepository) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Delete removes the given keys. Missing keys are ignored.
func (r *RedisKVRepository) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, 0, len(keys))
	for _, k := range keys {
		full = append(full, r.key(k))
	}
	if err := r.client.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("redis delete: %w", err)
	}
	r.logger.Debug("redis keys deleted", zap.Strings("keys", full))
	return nil
}

func (r *RedisKVRepository) key(k string) string {
	if r.prefix == "" {
		return k
	}
	return r.prefix + ":" + k
}
