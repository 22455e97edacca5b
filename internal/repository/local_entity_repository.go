package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Ipeter02/ccapsystemsynod/internal/localstore"
	"github.com/Ipeter02/ccapsystemsynod/internal/models"
	appErrors "github.com/Ipeter02/ccapsystemsynod/pkg/errors"
	"github.com/Ipeter02/ccapsystemsynod/pkg/security"
)

// LocalEntityRepository applies entity operations to the Persistent Local Store, persisting every
// mutation before returning.
type LocalEntityRepository struct {
	store *localstore.Store
	now   func() time.Time
	mu    sync.Mutex
}

// NewLocalEntityRepository constructs the local backend.
func NewLocalEntityRepository(store *localstore.Store) *LocalEntityRepository {
	return &LocalEntityRepository{store: store, now: time.Now}
}

// Store exposes the underlying Local Store.
func (r *LocalEntityRepository) Store() *localstore.Store {
	return r.store
}

// ListUsers returns every stored user.
func (r *LocalEntityRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	return r.store.Users(ctx)
}

// RegisterUser appends a pending user after the case-insensitive email check.
func (r *LocalEntityRepository) RegisterUser(ctx context.Context, user models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.store.Users(ctx)
	if err != nil {
		return err
	}
	if models.FindUserByEmail(users, user.Email) >= 0 {
		return appErrors.Clone(appErrors.ErrDuplicateEmail, fmt.Sprintf("email %s is already registered", strings.TrimSpace(user.Email)))
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if models.FindUser(users, user.ID) >= 0 {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("user id %s already exists", user.ID))
	}
	user.Status = models.StatusPending
	user.RejectionDate = nil
	return r.store.SaveUsers(ctx, append(users, user))
}

// Login checks credentials against the stored users. Only active accounts may log in.
func (r *LocalEntityRepository) Login(ctx context.Context, email, password string) (*models.User, error) {
	users, err := r.store.Users(ctx)
	if err != nil {
		return nil, err
	}
	idx := models.FindUserByEmail(users, email)
	if idx < 0 || !security.CheckPassword(users[idx].Password, password) {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid email or password")
	}
	user := users[idx]
	if err := user.CanLogin(); err != nil {
		return nil, LoginError(err)
	}
	return &user, nil
}

// ApproveUser activates the account with the supplied role and district.
func (r *LocalEntityRepository) ApproveUser(ctx context.Context, id string, role models.Role, district string) error {
	return r.mutateUser(ctx, id, func(u *models.User) error {
		u.Approve(role, district)
		return nil
	})
}

// RejectUser marks a pending account rejected. Rejecting a rejected account is a no-op.
func (r *LocalEntityRepository) RejectUser(ctx context.Context, id string) error {
	return r.mutateUser(ctx, id, func(u *models.User) error {
		if _, err := u.Reject(r.now()); err != nil {
			return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "only pending accounts can be rejected")
		}
		return nil
	})
}

// UpdateUser replaces the stored record with the same id.
func (r *LocalEntityRepository) UpdateUser(ctx context.Context, user models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.store.Users(ctx)
	if err != nil {
		return err
	}
	idx := models.FindUser(users, user.ID)
	if idx < 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "user not found")
	}
	if other := models.FindUserByEmail(users, user.Email); other >= 0 && other != idx {
		return appErrors.Clone(appErrors.ErrDuplicateEmail, fmt.Sprintf("email %s is already registered", user.Email))
	}
	users[idx] = user
	return r.store.SaveUsers(ctx, users)
}

// DeleteUser hard-removes the account.
func (r *LocalEntityRepository) DeleteUser(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.store.Users(ctx)
	if err != nil {
		return err
	}
	idx := models.FindUser(users, id)
	if idx < 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "user not found")
	}
	users = append(users[:idx], users[idx+1:]...)
	return r.store.SaveUsers(ctx, users)
}

// RetainUsers keeps only the users for which keep returns true and reports how many were removed.
func (r *LocalEntityRepository) RetainUsers(ctx context.Context, keep func(models.User) bool) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.store.Users(ctx)
	if err != nil {
		return 0, err
	}
	remaining := make([]models.User, 0, len(users))
	for _, u := range users {
		if keep(u) {
			remaining = append(remaining, u)
		}
	}
	removed := len(users) - len(remaining)
	if removed == 0 {
		return 0, nil
	}
	if err := r.store.SaveUsers(ctx, remaining); err != nil {
		return 0, err
	}
	return removed, nil
}

func (r *LocalEntityRepository) ListAnnouncements(ctx context.Context) ([]models.Announcement, error) {
	return r.store.Announcements(ctx)
}

// CreateAnnouncement stores the announcement ahead of the existing ones.
func (r *LocalEntityRepository) CreateAnnouncement(ctx context.Context, a models.Announcement) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	list, err := r.store.Announcements(ctx)
	if err != nil {
		return err
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return r.store.SaveAnnouncements(ctx, append([]models.Announcement{a}, list...))
}

func (r *LocalEntityRepository) DeleteAnnouncement(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	list, err := r.store.Announcements(ctx)
	if err != nil {
		return err
	}
	kept, removed := without(list, id)
	if !removed {
		return appErrors.Clone(appErrors.ErrNotFound, "announcement not found")
	}
	return r.store.SaveAnnouncements(ctx, kept)
}

// UpdateAnnouncement replaces the stored announcement in place.
func (r *LocalEntityRepository) UpdateAnnouncement(ctx context.Context, a models.Announcement) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	list, err := r.store.Announcements(ctx)
	if err != nil {
		return err
	}
	for i := range list {
		if list[i].ID == a.ID {
			list[i] = a
			return r.store.SaveAnnouncements(ctx, list)
		}
	}
	return appErrors.Clone(appErrors.ErrNotFound, "announcement not found")
}

func (r *LocalEntityRepository) ListLocations(ctx context.Context) ([]models.ChurchLocation, error) {
	return r.store.Locations(ctx)
}

// CreateLocation appends the location.
func (r *LocalEntityRepository) CreateLocation(ctx context.Context, l models.ChurchLocation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	list, err := r.store.Locations(ctx)
	if err != nil {
		return err
	}
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return r.store.SaveLocations(ctx, append(list, l))
}

func (r *LocalEntityRepository) DeleteLocation(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	list, err := r.store.Locations(ctx)
	if err != nil {
		return err
	}
	kept, removed := without(list, id)
	if !removed {
		return appErrors.Clone(appErrors.ErrNotFound, "location not found")
	}
	return r.store.SaveLocations(ctx, kept)
}

func (r *LocalEntityRepository) mutateUser(ctx context.Context, id string, fn func(*models.User) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.store.Users(ctx)
	if err != nil {
		return err
	}
	idx := models.FindUser(users, id)
	if idx < 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "user not found")
	}
	if err := fn(&users[idx]); err != nil {
		return err
	}
	return r.store.SaveUsers(ctx, users)
}

// LoginError maps an account-state refusal from models.User.CanLogin to the wire error.
func LoginError(err error) error {
	switch {
	case errors.Is(err, models.ErrRejected):
		return appErrors.Clone(appErrors.ErrAccountRejected, "account rejected")
	default:
		return appErrors.Clone(appErrors.ErrAccountPending, "account pending approval")
	}
}

func without[T models.Identifier](items []T, id string) ([]T, bool) {
	out := make([]T, 0, len(items))
	removed := false
	for _, item := range items {
		if item.Key() == id {
			removed = true
			continue
		}
		out = append(out, item)
	}
	return out, removed
}
