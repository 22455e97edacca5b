package localstore

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
	"github.com/Ipeter02/ccapsystemsynod/pkg/storage"
)

func newTestStore(t *testing.T) (*Store, *storage.MemoryStorage) {
	t.Helper()
	backend := storage.NewMemoryStorage()
	s := New(backend, nil)
	s.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return s, backend
}

func TestMissingKeysReturnDefaultsWithoutPersisting(t *testing.T) {
	s, backend := newTestStore(t)
	ctx := context.Background()

	users, err := s.Users(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, SeedAdminID, users[0].ID)
	assert.Equal(t, models.StatusActive, users[0].Status)

	depts, err := s.Departments(ctx)
	require.NoError(t, err)
	assert.Len(t, depts, 6)

	locs, err := s.Locations(ctx)
	require.NoError(t, err)
	assert.Len(t, locs, 6)

	chats, err := s.Chats(ctx)
	require.NoError(t, err)
	require.Len(t, chats, 1)
	assert.Equal(t, int64(1714564800000), chats[0].Timestamp)

	assert.Equal(t, 0, backend.Len())
}

func TestSaveThenLoad(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveAnnouncements(ctx, []models.Announcement{{ID: "a1", Title: "Synod"}}))
	got, err := s.Announcements(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Announcement{{ID: "a1", Title: "Synod"}}, got)

	require.NoError(t, s.SaveGallery(ctx, nil))
	gallery, err := s.Gallery(ctx)
	require.NoError(t, err)
	assert.Empty(t, gallery)
	assert.NotNil(t, gallery)
}

func TestUnreadableCollectionFallsBackToDefaults(t *testing.T) {
	s, backend := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, backend.Set(ctx, KeySubscribers, []byte("{not json")))

	subs, err := s.Subscribers(ctx)
	require.NoError(t, err)
	assert.Equal(t, seedSubscribers(), subs)
}

type failingBackend struct{ storage.MemoryStorage }

func (f *failingBackend) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("disk gone")
}

func TestBackendErrorsPropagate(t *testing.T) {
	s := New(&failingBackend{}, nil)
	_, err := s.Users(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk gone")
}

func TestSessionSlot(t *testing.T) {
	s, backend := newTestStore(t)
	ctx := context.Background()

	current, err := s.Session(ctx)
	require.NoError(t, err)
	assert.Nil(t, current)

	require.NoError(t, s.SetSession(ctx, &models.User{ID: "u1", Email: "a@x.org"}))
	current, err = s.Session(ctx)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, "u1", current.ID)

	require.NoError(t, s.SetSession(ctx, nil))
	_, err = backend.Get(ctx, KeySession)
	assert.ErrorIs(t, err, appErrors.ErrKeyNotFound)

	require.NoError(t, backend.Set(ctx, KeySession, []byte("garbage")))
	current, err = s.Session(ctx)
	require.NoError(t, err)
	assert.Nil(t, current)
}

func TestExportExcludesSessionAndCoversEveryCollection(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SetSession(ctx, &models.User{ID: "u1"}))
	require.NoError(t, s.SaveUsers(ctx, []models.User{{ID: "u1", Email: "a@x.org"}}))

	out, err := s.Export(ctx)
	require.NoError(t, err)

	var doc map[string]string
	require.NoError(t, json.Unmarshal(out, &doc))
	assert.Len(t, doc, 8)
	assert.NotContains(t, doc, "SESSION")
	assert.JSONEq(t, `[{"id":"u1","name":"","email":"a@x.org","phone":"","role":""}]`, doc["USERS"])
	assert.Contains(t, doc["DEPARTMENTS"], "Women's Guild")
	assert.Equal(t, []string{"ANNOUNCEMENTS", "CAMPAIGNS", "CHATS", "DEPARTMENTS", "GALLERY", "LOCATIONS", "SUBSCRIBERS", "USERS"}, CollectionNames())
}

func TestExportImportRoundTrip(t *testing.T) {
	src, _ := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, src.SaveUsers(ctx, []models.User{
		{ID: "u1", Email: "a@x.org", Status: models.StatusPending},
		{ID: "u2", Email: "b@x.org", Status: models.StatusActive},
	}))
	require.NoError(t, src.SaveLocations(ctx, []models.ChurchLocation{{ID: "l9", Name: "Mzuzu"}}))

	doc, err := src.Export(ctx)
	require.NoError(t, err)

	dst, _ := newTestStore(t)
	n, err := dst.Import(ctx, doc)
	require.NoError(t, err)
	assert.Equal(t, 8, n)

	for _, read := range []func(*Store) (any, error){
		func(s *Store) (any, error) { return s.Users(ctx) },
		func(s *Store) (any, error) { return s.Locations(ctx) },
		func(s *Store) (any, error) { return s.Departments(ctx) },
		func(s *Store) (any, error) { return s.Chats(ctx) },
	} {
		want, err := read(src)
		require.NoError(t, err)
		got, err := read(dst)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestImportAcceptsObjectValuesAndIgnoresUnknownKeys(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	payload := `{
		"USERS": [{"id":"u7","email":"x@y.org","status":"active"}],
		"CHATS": null,
		"GALLERY": "",
		"SESSION": "{\"id\":\"u7\"}",
		"SOMETHING_ELSE": 42
	}`
	n, err := s.Import(ctx, []byte(payload))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	users, err := s.Users(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "u7", users[0].ID)

	session, err := s.Session(ctx)
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestImportFailsClosed(t *testing.T) {
	ctx := context.Background()
	cases := map[string]string{
		"not json":          `{{{`,
		"array document":    `[1,2,3]`,
		"no known keys":     `{"FOO":"[]"}`,
		"only nulls":        `{"USERS":null}`,
		"bad inner string":  `{"USERS":"[{broken"}`,
		"wrong value shape": `{"USERS":[{"id":"ok"}],"LOCATIONS":{"id":"l1"}}`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			s, backend := newTestStore(t)
			require.NoError(t, s.SaveUsers(ctx, []models.User{{ID: "keep"}}))

			_, err := s.Import(ctx, []byte(payload))
			require.Error(t, err)
			assert.ErrorIs(t, err, appErrors.ErrMalformedImport)

			users, err := s.Users(ctx)
			require.NoError(t, err)
			assert.Equal(t, "keep", users[0].ID)
			assert.Equal(t, 1, backend.Len())
		})
	}
}

func TestResetClearsEverything(t *testing.T) {
	s, backend := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SaveUsers(ctx, []models.User{{ID: "u1"}}))
	require.NoError(t, s.SaveChats(ctx, []models.ChatMessage{{ID: "c1"}}))
	require.NoError(t, s.SetSession(ctx, &models.User{ID: "u1"}))

	require.NoError(t, s.Reset(ctx))
	assert.Equal(t, 0, backend.Len())

	users, err := s.Users(ctx)
	require.NoError(t, err)
	assert.Equal(t, SeedAdminID, users[0].ID)
}
