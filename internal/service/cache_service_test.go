package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ipeter02/ccapsystemsynod/internal/models"
	appErrors "github.com/Ipeter02/ccapsystemsynod/pkg/errors"
)

type memCache struct {
	data        map[string][]byte
	getErr      error
	invalidated []string
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}}
}

func (m *memCache) Get(_ context.Context, key string, dest interface{}) error {
	if m.getErr != nil {
		return m.getErr
	}
	raw, ok := m.data[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = raw
	return nil
}

func (m *memCache) DeleteByPattern(_ context.Context, pattern string) error {
	delete(m.data, pattern)
	m.invalidated = append(m.invalidated, pattern)
	return nil
}

type countingAnnouncements struct {
	items []models.Announcement
	lists int
}

func (c *countingAnnouncements) List(context.Context) ([]models.Announcement, error) {
	c.lists++
	return append([]models.Announcement(nil), c.items...), nil
}

func (c *countingAnnouncements) Create(_ context.Context, a *models.Announcement) error {
	c.items = append([]models.Announcement{*a}, c.items...)
	return nil
}

func (c *countingAnnouncements) Delete(context.Context, string) error { return nil }

func TestCacheServiceDisabledIsNoop(t *testing.T) {
	var nilCache *CacheService
	hit, err := nilCache.Get(context.Background(), "users", &[]models.User{})
	assert.False(t, hit)
	assert.NoError(t, err)
	assert.NoError(t, nilCache.Set(context.Background(), "users", []models.User{}, 0))
	nilCache.Invalidate(context.Background(), "users")

	disabled := NewCacheService(newMemCache(), nil, 0, nil, false)
	assert.False(t, disabled.Enabled())
}

func TestAnnouncementListIsCachedUntilWrite(t *testing.T) {
	repo := &countingAnnouncements{items: []models.Announcement{{ID: "a1", Title: "First"}}}
	cache := newMemCache()
	svc := NewAnnouncementService(repo, nil, nil).WithCache(NewCacheService(cache, NewMetricsService(), time.Minute, nil, true))
	ctx := context.Background()

	first, err := svc.List(ctx)
	require.NoError(t, err)
	second, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.lists)

	_, err = svc.Create(ctx, models.Announcement{Title: "Second"})
	require.NoError(t, err)
	assert.Equal(t, []string{cacheKeyAnnouncements}, cache.invalidated)

	third, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, third, 2)
	assert.Equal(t, 2, repo.lists)
}

func TestCacheErrorsFallBackToRepository(t *testing.T) {
	repo := &countingAnnouncements{items: []models.Announcement{{ID: "a1", Title: "First"}}}
	cache := newMemCache()
	cache.getErr = errors.New("redis down")
	svc := NewAnnouncementService(repo, nil, nil).WithCache(NewCacheService(cache, nil, time.Minute, nil, true))

	items, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 1, repo.lists)
}

func TestDirectoryListCacheInvalidatedByLifecycle(t *testing.T) {
	repo := newMockUserRepo()
	cache := newMemCache()
	svc := NewDirectoryService(repo, nil, nil, nil, DirectoryConfig{}).WithCache(NewCacheService(cache, nil, time.Minute, nil, true))
	ctx := context.Background()

	created, err := svc.Register(ctx, models.RegisterRequest{Name: "Grace", Email: "grace@ccap.org", Password: "pw"})
	require.NoError(t, err)

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Contains(t, cache.data, cacheKeyUsers)

	require.NoError(t, svc.Reject(ctx, created.ID))
	assert.NotContains(t, cache.data, cacheKeyUsers)

	users, err = svc.ListUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, users[0].Status)
	assert.Empty(t, users[0].Password)
}
