package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Ipeter02/ccapsystemsynod/pkg/config"
)

const (
	clientNamePrefix = "ccap-synod"
	pingTimeout      = 5 * time.Second
)

// Options builds the client options for one consumer. role names the consumer ("store" for the
// Local Store backend, "list-cache" for the remote service cache) and shows up in CLIENT LIST.
func Options(cfg config.RedisConfig, role string) *redis.Options {
	name := clientNamePrefix
	if role != "" {
		name += "-" + role
	}
	return &redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		ClientName:   name,
		DialTimeout:  pingTimeout,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

// NewRedis connects and pings. The client is closed again when the ping fails.
func NewRedis(ctx context.Context, cfg config.RedisConfig, role string) (*redis.Client, error) {
	client := redis.NewClient(Options(cfg, role))

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis %s (%s) unreachable: %w", cfg.Addr(), role, err)
	}

	return client, nil
}
