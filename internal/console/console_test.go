package console

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ipeter02/ccapsystemsynod/internal/localstore"
	"github.com/Ipeter02/ccapsystemsynod/internal/models"
	"github.com/Ipeter02/ccapsystemsynod/internal/service"
	"github.com/Ipeter02/ccapsystemsynod/pkg/config"
	appErrors "github.com/Ipeter02/ccapsystemsynod/pkg/errors"
	"github.com/Ipeter02/ccapsystemsynod/pkg/storage"
)

type harness struct {
	backend *storage.MemoryStorage
	db      *localstore.Store
	console *Console
	out     *bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{backend: storage.NewMemoryStorage(), out: &bytes.Buffer{}}
	h.open(t)
	return h
}

// open builds a fresh session over the same backend, as a new synodctl invocation would.
func (h *harness) open(t *testing.T) {
	t.Helper()
	cfg := &config.Config{}
	h.db = localstore.New(h.backend, nil)
	client := service.BuildSyncClient(cfg, h.db, nil, service.NewMetricsService())
	session := service.NewSessionController(client, h.db, nil)
	_, err := session.Init(context.Background())
	require.NoError(t, err)
	h.console = New(session, config.GraceConfig{Window: models.GracePeriod}, h.out, nil)
}

func (h *harness) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	h.out.Reset()
	err := h.console.Run(context.Background(), args)
	return h.out.String(), err
}

func (h *harness) loginAdmin(t *testing.T) {
	t.Helper()
	_, err := h.run(t, "login", "--email", "admin@ccap.org", "--password", "password123")
	require.NoError(t, err)
}

func (h *harness) userByEmail(t *testing.T, email string) models.User {
	t.Helper()
	users, err := h.db.Users(context.Background())
	require.NoError(t, err)
	idx := models.FindUserByEmail(users, email)
	require.GreaterOrEqual(t, idx, 0, "user %s not found", email)
	return users[idx]
}

func TestRunWithoutCommandPrintsUsage(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t)
	assert.ErrorIs(t, err, ErrUsage)
	assert.Contains(t, out, "approve")
	assert.Contains(t, out, "directory")

	_, err = h.run(t, "frobnicate")
	assert.ErrorIs(t, err, ErrUsage)

	_, err = h.run(t, "approve")
	assert.ErrorIs(t, err, ErrUsage)
}

func TestStatusAndLoginPersistAcrossInvocations(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "mode: local")
	assert.Contains(t, out, "session: none")
	assert.Contains(t, out, "users: 1")

	h.loginAdmin(t)

	h.open(t)
	out, err = h.run(t, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, localstore.SeedAdminID)
	assert.Contains(t, out, string(models.RoleSuperAdmin))

	_, err = h.run(t, "logout")
	require.NoError(t, err)
	h.open(t)
	_, err = h.run(t, "whoami")
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}

func TestLoginWithWrongPassword(t *testing.T) {
	h := newHarness(t)

	_, err := h.run(t, "login", "-e", "admin@ccap.org", "-p", "nope")
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)
}

func TestRegistrationLifecycle(t *testing.T) {
	h := newHarness(t)

	_, err := h.run(t, "register", "--name", "Grace Banda", "--email", "grace@ccap.org", "--password", "pw")
	require.NoError(t, err)
	grace := h.userByEmail(t, "grace@ccap.org")
	assert.Equal(t, models.StatusPending, grace.Status)
	assert.Equal(t, models.RolePastor, grace.Role)

	_, err = h.run(t, "login", "--email", "grace@ccap.org", "--password", "pw")
	assert.ErrorIs(t, err, appErrors.ErrAccountPending)

	_, err = h.run(t, "approve", grace.ID, "--role", "district_admin", "--district", "Lilongwe")
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)

	h.loginAdmin(t)
	out, err := h.run(t, "users", "--status", "pending")
	require.NoError(t, err)
	assert.Contains(t, out, "grace@ccap.org")

	_, err = h.run(t, "approve", grace.ID, "--role", "district_admin", "--district", "Lilongwe")
	require.NoError(t, err)
	grace = h.userByEmail(t, "grace@ccap.org")
	assert.Equal(t, models.StatusActive, grace.Status)
	assert.Equal(t, models.RoleDistrictAdmin, grace.Role)
	assert.Equal(t, "Lilongwe", grace.District)

	out, err = h.run(t, "users", "--district", "lilongwe")
	require.NoError(t, err)
	assert.Contains(t, out, "grace@ccap.org")
	assert.NotContains(t, out, "admin@ccap.org")
}

func TestRejectedListingAndSweep(t *testing.T) {
	h := newHarness(t)
	h.loginAdmin(t)

	_, err := h.run(t, "register", "--name", "Old", "--email", "old@ccap.org", "--password", "pw")
	require.NoError(t, err)
	_, err = h.run(t, "register", "--name", "New", "--email", "new@ccap.org", "--password", "pw")
	require.NoError(t, err)

	old := h.userByEmail(t, "old@ccap.org")
	_, err = h.run(t, "reject", old.ID)
	require.NoError(t, err)
	fresh := h.userByEmail(t, "new@ccap.org")
	_, err = h.run(t, "reject", fresh.ID)
	require.NoError(t, err)

	users, err := h.db.Users(context.Background())
	require.NoError(t, err)
	expired := time.Now().Add(-100 * time.Hour)
	users[models.FindUser(users, old.ID)].RejectionDate = &expired
	require.NoError(t, h.db.SaveUsers(context.Background(), users))

	out, err := h.run(t, "rejected")
	require.NoError(t, err)
	assert.Contains(t, out, "old@ccap.org")
	assert.Contains(t, out, "new@ccap.org")

	out, err = h.run(t, "sweep")
	require.NoError(t, err)
	assert.Contains(t, out, "purged 1 expired account(s)")
	assert.Contains(t, out, old.ID)

	users, err = h.db.Users(context.Background())
	require.NoError(t, err)
	assert.Equal(t, -1, models.FindUser(users, old.ID))
	assert.GreaterOrEqual(t, models.FindUser(users, fresh.ID), 0)
}

func TestSweepRequiresAdministrator(t *testing.T) {
	h := newHarness(t)
	h.loginAdmin(t)
	_, err := h.run(t, "add-user", "--name", "Staffer", "--email", "staff@ccap.org", "--password", "pw")
	require.NoError(t, err)
	assert.Equal(t, models.RoleStaff, h.userByEmail(t, "staff@ccap.org").Role)

	_, err = h.run(t, "login", "--email", "staff@ccap.org", "--password", "pw")
	require.NoError(t, err)
	_, err = h.run(t, "sweep")
	assert.ErrorIs(t, err, appErrors.ErrForbidden)
}

func TestDeleteGuards(t *testing.T) {
	h := newHarness(t)
	h.loginAdmin(t)

	_, err := h.run(t, "delete", localstore.SeedAdminID)
	assert.ErrorIs(t, err, appErrors.ErrForbidden)

	_, err = h.run(t, "delete-all")
	assert.ErrorIs(t, err, ErrUsage)

	_, err = h.run(t, "add-user", "--name", "A", "--email", "a@ccap.org", "--password", "pw")
	require.NoError(t, err)
	out, err := h.run(t, "delete-all", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "removed 1")
}

func TestUpdateProfileRefreshesSession(t *testing.T) {
	h := newHarness(t)
	h.loginAdmin(t)

	_, err := h.run(t, "update-profile", "--position", "Moderator", "--phone", "+265111")
	require.NoError(t, err)

	admin := h.userByEmail(t, "admin@ccap.org")
	assert.Equal(t, "Moderator", admin.Position)
	assert.Equal(t, "+265111", admin.Phone)
	assert.Equal(t, "System Super Admin", admin.Name)
	assert.Equal(t, "password123", admin.Password)

	current := h.console.session.Current()
	require.NotNil(t, current)
	assert.Equal(t, "Moderator", current.Position)
}

func TestSetRoleAndResetPassword(t *testing.T) {
	h := newHarness(t)
	h.loginAdmin(t)
	_, err := h.run(t, "add-user", "--name", "P", "--email", "p@ccap.org", "--password", "pw", "--role", "pastor")
	require.NoError(t, err)
	p := h.userByEmail(t, "p@ccap.org")

	_, err = h.run(t, "set-role", p.ID, "local_admin")
	require.NoError(t, err)
	_, err = h.run(t, "reset-password", p.ID, "--password", "fresh")
	require.NoError(t, err)

	p = h.userByEmail(t, "p@ccap.org")
	assert.Equal(t, models.RoleLocalAdmin, p.Role)
	assert.Equal(t, "fresh", p.Password)
}

func TestContentCommands(t *testing.T) {
	h := newHarness(t)

	_, err := h.run(t, "announce", "--title", "Synod meeting")
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)

	h.loginAdmin(t)
	out, err := h.run(t, "announce", "--title", "Synod meeting", "--message", "All pastors", "--department", "Evangelism")
	require.NoError(t, err)
	assert.Contains(t, out, "published")

	items, err := h.db.Announcements(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Synod meeting", items[0].Title)
	assert.Equal(t, "System Super Admin", items[0].Author)

	_, err = h.run(t, "edit-announcement", items[0].ID, "--message", "All pastors and elders")
	require.NoError(t, err)
	items, err = h.db.Announcements(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Synod meeting", items[0].Title)
	assert.Equal(t, "All pastors and elders", items[0].Message)

	_, err = h.run(t, "edit-announcement", "missing", "--title", "x")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	_, err = h.run(t, "unannounce", items[0].ID)
	require.NoError(t, err)

	_, err = h.run(t, "add-location", "--name", "Mzuzu CCAP", "--district", "Mzuzu")
	require.NoError(t, err)
	out, err = h.run(t, "locations")
	require.NoError(t, err)
	assert.Contains(t, out, "Mzuzu CCAP")

	locs, err := h.db.Locations(context.Background())
	require.NoError(t, err)
	added := locs[len(locs)-1]
	_, err = h.run(t, "remove-location", added.ID)
	require.NoError(t, err)
	out, err = h.run(t, "locations")
	require.NoError(t, err)
	assert.NotContains(t, out, "Mzuzu CCAP")

	out, err = h.run(t, "subscribe", "friend@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "subscribed")
	out, err = h.run(t, "subscribe", "FRIEND@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "already subscribed")

	out, err = h.run(t, "newsletter", "--subject", "News", "--content", "Hello")
	require.NoError(t, err)
	assert.Contains(t, out, `sent "News"`)
}

func TestExportImportAndReset(t *testing.T) {
	h := newHarness(t)
	h.loginAdmin(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "backup.json")

	_, err := h.run(t, "export", "--out", path)
	require.NoError(t, err)
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"USERS"`)

	_, err = h.run(t, "reset")
	assert.ErrorIs(t, err, ErrUsage)
	_, err = h.run(t, "reset", "--yes")
	require.NoError(t, err)
	assert.Nil(t, h.console.session.Current())

	h.loginAdmin(t)
	out, err := h.run(t, "import", path)
	require.NoError(t, err)
	assert.Contains(t, out, "imported 8 collection(s)")
	assert.NotNil(t, h.console.session.Current())
}

func TestDirectoryRendering(t *testing.T) {
	h := newHarness(t)
	h.loginAdmin(t)
	_, err := h.run(t, "add-user", "--name", "Zed", "--email", "zed@ccap.org", "--password", "pw", "--district", "Blantyre")
	require.NoError(t, err)

	out, err := h.run(t, "directory", "--district", "Blantyre")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "zed@ccap.org")

	_, err = h.run(t, "directory", "--format", "pdf")
	assert.ErrorIs(t, err, ErrUsage)
	_, err = h.run(t, "directory", "--format", "docx", "--out", "x")
	assert.ErrorIs(t, err, ErrUsage)

	path := filepath.Join(t.TempDir(), "members.xlsx")
	_, err = h.run(t, "directory", "-f", "xlsx", "-o", path)
	require.NoError(t, err)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestOpenBackend(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Backend: config.StoreBackendMemory}}
	backend, closer, err := OpenBackend(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &storage.MemoryStorage{}, backend)
	assert.NoError(t, closer.Close())

	cfg.Store = config.StoreConfig{Backend: config.StoreBackendFile, Dir: t.TempDir()}
	backend, _, err = OpenBackend(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &storage.LocalStorage{}, backend)
}
