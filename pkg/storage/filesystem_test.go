package storage

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/Ipeter02/ccapsystemsynod/pkg/errors"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.Get(ctx, "ccap_system_users")
	assert.ErrorIs(t, err, appErrors.ErrKeyNotFound)

	require.NoError(t, store.Set(ctx, "ccap_system_users", []byte(`[{"id":"1"}]`)))
	require.NoError(t, store.Set(ctx, "ccap_system_users", []byte(`[{"id":"2"}]`)))

	got, err := store.Get(ctx, "ccap_system_users")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"2"}]`, string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not linger")

	require.NoError(t, store.Delete(ctx, "ccap_system_users", "never_written"))
	_, err = store.Get(ctx, "ccap_system_users")
	assert.ErrorIs(t, err, appErrors.ErrKeyNotFound)
}

func TestLocalStorageRejectsPathKeys(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	err = store.Set(context.Background(), "../escape", []byte("x"))
	require.Error(t, err)
}

func TestMemoryStorageCopiesValues(t *testing.T) {
	store := NewMemoryStorage()
	ctx := context.Background()
	buf := []byte("abc")
	require.NoError(t, store.Set(ctx, "k", buf))
	buf[0] = 'z'

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
	assert.Equal(t, 1, store.Len())

	require.NoError(t, store.Delete(ctx, "k"))
	_, err = store.Get(ctx, "k")
	assert.ErrorIs(t, err, appErrors.ErrKeyNotFound)
}
