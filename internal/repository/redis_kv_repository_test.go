package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/Ipeter02/ccapsystemsynod/pkg/errors"
)

type fakeRedis struct {
	data    map[string]string
	getErr  error
	deleted []string
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value any, _ time.Duration) *redis.StatusCmd {
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	case string:
		f.data[key] = v
	}
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
		f.deleted = append(f.deleted, k)
	}
	return redis.NewIntResult(n, nil)
}

func TestRedisKVRepositoryRoundTrip(t *testing.T) {
	fake := newFakeRedis()
	repo := newRedisKVRepository(fake, "ccap", nil)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "ccap_system_users", []byte(`[]`)))
	assert.Equal(t, `[]`, fake.data["ccap:ccap_system_users"])

	got, err := repo.Get(ctx, "ccap_system_users")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[]`), got)

	require.NoError(t, repo.Delete(ctx, "ccap_system_users", "ccap_active_user"))
	assert.Equal(t, []string{"ccap:ccap_system_users", "ccap:ccap_active_user"}, fake.deleted)

	_, err = repo.Get(ctx, "ccap_system_users")
	assert.ErrorIs(t, err, appErrors.ErrKeyNotFound)
}

func TestRedisKVRepositoryWrapsTransportErrors(t *testing.T) {
	fake := newFakeRedis()
	fake.getErr = errors.New("connection refused")
	repo := newRedisKVRepository(fake, "", nil)

	_, err := repo.Get(context.Background(), "k")
	require.Error(t, err)
	assert.NotErrorIs(t, err, appErrors.ErrKeyNotFound)
	assert.Contains(t, err.Error(), "connection refused")
}
