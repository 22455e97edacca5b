package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ipeter02/ccapsystemsynod/internal/localstore"
	"github.com/Ipeter02/ccapsystemsynod/internal/models"
	appErrors "github.com/Ipeter02/ccapsystemsynod/pkg/errors"
	"github.com/Ipeter02/ccapsystemsynod/pkg/storage"
)

func newLocalRepo(t *testing.T) *LocalEntityRepository {
	t.Helper()
	return NewLocalEntityRepository(localstore.New(storage.NewMemoryStorage(), nil))
}

func TestLocalRegisterEnforcesUniqueEmail(t *testing.T) {
	repo := newLocalRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.RegisterUser(ctx, models.User{Name: "A", Email: "a@x.org", Password: "pw", Status: models.StatusActive}))
	err := repo.RegisterUser(ctx, models.User{Name: "A2", Email: "A@X.ORG", Password: "pw"})
	assert.ErrorIs(t, err, appErrors.ErrDuplicateEmail)

	users, err := repo.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, models.StatusPending, users[1].Status, "self registration never creates active accounts")
	assert.NotEmpty(t, users[1].ID)
}

func TestLocalLoginOutcomes(t *testing.T) {
	repo := newLocalRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.RegisterUser(ctx, models.User{ID: "p1", Email: "p@x.org", Password: "pw"}))
	require.NoError(t, repo.RegisterUser(ctx, models.User{ID: "r1", Email: "r@x.org", Password: "pw"}))
	require.NoError(t, repo.RejectUser(ctx, "r1"))

	_, err := repo.Login(ctx, "admin@ccap.org", "wrong")
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)

	_, err = repo.Login(ctx, "nobody@x.org", "pw")
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)

	_, err = repo.Login(ctx, "p@x.org", "pw")
	assert.ErrorIs(t, err, appErrors.ErrAccountPending)

	_, err = repo.Login(ctx, "r@x.org", "pw")
	assert.ErrorIs(t, err, appErrors.ErrAccountRejected)

	user, err := repo.Login(ctx, "ADMIN@ccap.org", "password123")
	require.NoError(t, err)
	assert.Equal(t, localstore.SeedAdminID, user.ID)
}

func TestLocalApproveRejectDelete(t *testing.T) {
	repo := newLocalRepo(t)
	fixed := time.Date(2024, 2, 2, 9, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return fixed }
	ctx := context.Background()
	require.NoError(t, repo.RegisterUser(ctx, models.User{ID: "u1", Email: "u@x.org", Password: "pw"}))

	require.NoError(t, repo.RejectUser(ctx, "u1"))
	users, _ := repo.ListUsers(ctx)
	u := users[models.FindUser(users, "u1")]
	assert.Equal(t, models.StatusRejected, u.Status)
	require.NotNil(t, u.RejectionDate)
	assert.Equal(t, fixed, *u.RejectionDate)

	require.NoError(t, repo.ApproveUser(ctx, "u1", models.RoleDistrictAdmin, "Karonga"))
	users, _ = repo.ListUsers(ctx)
	u = users[models.FindUser(users, "u1")]
	assert.Equal(t, models.StatusActive, u.Status)
	assert.Equal(t, models.RoleDistrictAdmin, u.Role)
	assert.Equal(t, "Karonga", u.District)
	assert.Nil(t, u.RejectionDate)

	err := repo.RejectUser(ctx, "u1")
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	require.NoError(t, repo.DeleteUser(ctx, "u1"))
	assert.ErrorIs(t, repo.DeleteUser(ctx, "u1"), appErrors.ErrNotFound)
	assert.ErrorIs(t, repo.ApproveUser(ctx, "ghost", models.RoleStaff, ""), appErrors.ErrNotFound)
}

func TestLocalRetainUsers(t *testing.T) {
	repo := newLocalRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.RegisterUser(ctx, models.User{ID: "u1", Email: "u1@x.org"}))
	require.NoError(t, repo.RegisterUser(ctx, models.User{ID: "u2", Email: "u2@x.org"}))

	removed, err := repo.RetainUsers(ctx, func(u models.User) bool { return u.Role == models.RoleSuperAdmin })
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	users, _ := repo.ListUsers(ctx)
	require.Len(t, users, 1)
	assert.Equal(t, localstore.SeedAdminID, users[0].ID)
}

func TestLocalAnnouncementsAndLocations(t *testing.T) {
	repo := newLocalRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateAnnouncement(ctx, models.Announcement{ID: "new", Title: "Assembly"}))
	anns, err := repo.ListAnnouncements(ctx)
	require.NoError(t, err)
	require.Len(t, anns, 3)
	assert.Equal(t, "new", anns[0].ID, "new announcements go first")

	require.NoError(t, repo.DeleteAnnouncement(ctx, "1"))
	assert.ErrorIs(t, repo.DeleteAnnouncement(ctx, "1"), appErrors.ErrNotFound)

	require.NoError(t, repo.CreateLocation(ctx, models.ChurchLocation{ID: "l99", Name: "Chitipa CCAP"}))
	locs, err := repo.ListLocations(ctx)
	require.NoError(t, err)
	assert.Equal(t, "l99", locs[len(locs)-1].ID)
}

func TestLocalUpdateUser(t *testing.T) {
	repo := newLocalRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.RegisterUser(ctx, models.User{ID: "u1", Email: "u1@x.org"}))

	users, _ := repo.ListUsers(ctx)
	u := users[models.FindUser(users, "u1")]
	u.Phone = "+265 999"
	require.NoError(t, repo.UpdateUser(ctx, u))

	u.Email = "admin@ccap.org"
	assert.ErrorIs(t, repo.UpdateUser(ctx, u), appErrors.ErrDuplicateEmail)
	assert.ErrorIs(t, repo.UpdateUser(ctx, models.User{ID: "ghost"}), appErrors.ErrNotFound)
}
