package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ipeter02/ccapsystemsynod/pkg/config"
)

func TestOptionsNameTheConsumer(t *testing.T) {
	cfg := config.RedisConfig{Host: "cache.ccap.test", Port: 6380, Password: "secret", DB: 2}

	opts := Options(cfg, "store")
	assert.Equal(t, "cache.ccap.test:6380", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, "ccap-synod-store", opts.ClientName)

	assert.Equal(t, "ccap-synod", Options(cfg, "").ClientName)
}

func TestNewRedisUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	client, err := NewRedis(ctx, config.RedisConfig{Host: "127.0.0.1", Port: 1}, "list-cache")
	require.Error(t, err)
	assert.Nil(t, client)
	assert.Contains(t, err.Error(), "127.0.0.1:1")
	assert.Contains(t, err.Error(), "list-cache")
}
