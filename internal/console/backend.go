package console

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/Ipeter02/ccapsystemsynod/internal/localstore"
	"github.com/Ipeter02/ccapsystemsynod/internal/repository"
	"github.com/Ipeter02/ccapsystemsynod/pkg/cache"
	"github.com/Ipeter02/ccapsystemsynod/pkg/config"
	"github.com/Ipeter02/ccapsystemsynod/pkg/storage"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// OpenBackend returns the durable medium selected by cfg.Store. The closer releases any connection.
func OpenBackend(ctx context.Context, cfg *config.Config, logger *zap.Logger) (localstore.Backend, io.Closer, error) {
	switch cfg.Store.Backend {
	case config.StoreBackendMemory:
		return storage.NewMemoryStorage(), nopCloser{}, nil
	case config.StoreBackendRedis:
		client, err := cache.NewRedis(ctx, cfg.Redis, "store")
		if err != nil {
			return nil, nil, fmt.Errorf("connect redis store: %w", err)
		}
		return repository.NewRedisKVRepository(client, cfg.Store.KeyPrefix, logger), client, nil
	default:
		fs, err := storage.NewLocalStorage(cfg.Store.Dir)
		if err != nil {
			return nil, nil, fmt.Errorf("open file store: %w", err)
		}
		return fs, nopCloser{}, nil
	}
}
