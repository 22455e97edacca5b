package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Ipeter02/ccapsystemsynod/internal/localstore"
	"github.com/Ipeter02/ccapsystemsynod/internal/models"
	"github.com/Ipeter02/ccapsystemsynod/internal/repository"
	"github.com/Ipeter02/ccapsystemsynod/pkg/config"
	appErrors "github.com/Ipeter02/ccapsystemsynod/pkg/errors"
)

// Storage modes reported by SyncClient.Mode.
const (
	ModeLocal  = "local"
	ModeRemote = "remote"
)

// RejectedAccount pairs a rejected user with the advisory grace countdown.
type RejectedAccount struct {
	User           models.User `json:"user"`
	HoursRemaining float64     `json:"hoursRemaining"`
	Expired        bool        `json:"expired"`
}

// SyncClient is the single operation surface for every entity. Hybrid entities go through store,
// which is either the local backend or a FallbackStore over the remote adapter. Everything else,
// bulk removal included, stays in the Local Store in every mode.
type SyncClient struct {
	store     EntityStore
	local     LocalEntityStore
	records   *repository.RecordRepository
	db        *localstore.Store
	mode      string
	remoteURL string
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService
	now       func() time.Time
}

// SyncClientOptions configures NewSyncClient. A nil Remote means local mode.
type SyncClientOptions struct {
	Remote        EntityStore
	RemoteBaseURL string
	Validator     *validator.Validate
	Logger        *zap.Logger
	Metrics       *MetricsService
}

// NewSyncClient constructs a client over an explicit local backend and an optional remote one.
func NewSyncClient(local LocalEntityStore, records *repository.RecordRepository, db *localstore.Store, opts SyncClientOptions) *SyncClient {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	validate := opts.Validator
	if validate == nil {
		validate = validator.New()
	}
	c := &SyncClient{
		store:     local,
		local:     local,
		records:   records,
		db:        db,
		mode:      ModeLocal,
		validator: validate,
		logger:    logger,
		metrics:   opts.Metrics,
		now:       time.Now,
	}
	if opts.Remote != nil {
		c.store = NewFallbackStore(opts.Remote, local, logger, opts.Metrics)
		c.mode = ModeRemote
		c.remoteURL = opts.RemoteBaseURL
	}
	return c
}

// BuildSyncClient wires a client from configuration. Switching backends means building a new client.
func BuildSyncClient(cfg *config.Config, db *localstore.Store, logger *zap.Logger, metrics *MetricsService) *SyncClient {
	opts := SyncClientOptions{Logger: logger, Metrics: metrics}
	if cfg.RemoteMode() {
		opts.Remote = repository.NewRemoteRepository(cfg.Remote.BaseURL, cfg.Remote.Timeout)
		opts.RemoteBaseURL = cfg.Remote.BaseURL
	}
	return NewSyncClient(repository.NewLocalEntityRepository(db), repository.NewRecordRepository(db), db, opts)
}

// Mode reports "local" or "remote".
func (c *SyncClient) Mode() string { return c.mode }

// RemoteBaseURL is empty in local mode.
func (c *SyncClient) RemoteBaseURL() string { return c.remoteURL }

// Records exposes the local-only collections.
func (c *SyncClient) Records() *repository.RecordRepository { return c.records }

func (c *SyncClient) Users(ctx context.Context) ([]models.User, error) {
	return c.store.ListUsers(ctx)
}

func (c *SyncClient) Announcements(ctx context.Context) ([]models.Announcement, error) {
	return c.store.ListAnnouncements(ctx)
}

func (c *SyncClient) Locations(ctx context.Context) ([]models.ChurchLocation, error) {
	return c.store.ListLocations(ctx)
}

// Login authenticates against the active backend.
func (c *SyncClient) Login(ctx context.Context, email, password string) (*models.User, error) {
	req := models.LoginRequest{Email: strings.TrimSpace(email), Password: password}
	if err := c.validator.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid email or password")
	}
	return c.store.Login(ctx, req.Email, req.Password)
}

// Register self-registers an account. The account is always created pending, and admin roles
// requested here are downgraded to PASTOR.
func (c *SyncClient) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	req.Email = strings.TrimSpace(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if err := c.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid registration payload")
	}
	req.Role = req.Role.SelfRegistered()
	if !req.Role.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown role %q", req.Role))
	}
	if c.mode == ModeRemote {
		if err := c.checkEmailFree(ctx, req.Email); err != nil {
			return nil, err
		}
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	user := req.ToUser()
	if err := c.store.RegisterUser(ctx, user); err != nil {
		return nil, err
	}
	c.metrics.RecordTransition("register")
	c.logger.Info("account registered", zap.String("user_id", user.ID), zap.String("mode", c.mode))
	return &user, nil
}

// checkEmailFree looks the address up in the current user list before a remote write. The remote
// service may not enforce uniqueness itself. A failed list read does not block registration.
func (c *SyncClient) checkEmailFree(ctx context.Context, email string) error {
	users, err := c.store.ListUsers(ctx)
	if err != nil {
		c.logger.Warn("email uniqueness check skipped", zap.Error(err))
		return nil
	}
	if models.FindUserByEmail(users, email) >= 0 {
		return appErrors.Clone(appErrors.ErrDuplicateEmail, "email already registered")
	}
	return nil
}

// AddUser is the administrator direct-add path: register followed by approval, leaving the account active.
func (c *SyncClient) AddUser(ctx context.Context, actor *models.User, user models.User) (*models.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if user.Role == "" {
		user.Role = models.RoleStaff
	}
	if err := c.checkAssignableRole(actor, user.Role); err != nil {
		return nil, err
	}
	created, err := c.Register(ctx, models.RegisterRequest{
		ID:       user.ID,
		Name:     user.Name,
		Email:    user.Email,
		Password: user.Password,
		Phone:    user.Phone,
		Role:     user.Role,
	})
	if err != nil {
		return nil, err
	}
	if err := c.store.ApproveUser(ctx, created.ID, user.Role, user.District); err != nil {
		return nil, err
	}
	created.Approve(user.Role, user.District)
	c.metrics.RecordTransition("approve")
	return created, nil
}

// Approve activates a pending or rejected account with the given role and district.
func (c *SyncClient) Approve(ctx context.Context, actor *models.User, id string, role models.Role, district string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if err := c.checkAssignableRole(actor, role); err != nil {
		return err
	}
	if err := c.store.ApproveUser(ctx, id, role, strings.TrimSpace(district)); err != nil {
		return err
	}
	c.metrics.RecordTransition("approve")
	c.logger.Info("account approved", zap.String("user_id", id), zap.String("role", string(role)), zap.String("actor", actor.ID))
	return nil
}

// Reject moves a pending account to rejected, starting the grace countdown.
func (c *SyncClient) Reject(ctx context.Context, actor *models.User, id string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if err := c.store.RejectUser(ctx, id); err != nil {
		return err
	}
	c.metrics.RecordTransition("reject")
	c.logger.Info("account rejected", zap.String("user_id", id), zap.String("actor", actor.ID))
	return nil
}

// Delete hard-removes one account. Super administrators and the caller's own account are protected.
func (c *SyncClient) Delete(ctx context.Context, actor *models.User, id string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if id == actor.ID {
		return appErrors.Clone(appErrors.ErrForbidden, "you cannot delete your own account")
	}
	users, err := c.store.ListUsers(ctx)
	if err != nil {
		return err
	}
	if idx := models.FindUser(users, id); idx >= 0 && users[idx].Role == models.RoleSuperAdmin {
		return appErrors.Clone(appErrors.ErrForbidden, "super administrator accounts cannot be deleted")
	}
	if err := c.store.DeleteUser(ctx, id); err != nil {
		return err
	}
	c.metrics.RecordTransition("delete")
	c.logger.Info("account deleted", zap.String("user_id", id), zap.String("actor", actor.ID))
	return nil
}

// DeleteAllNonAdmins removes every local account except super administrators and the caller. It never
// touches the remote service, whatever the mode.
func (c *SyncClient) DeleteAllNonAdmins(ctx context.Context, actor *models.User) (int, error) {
	if err := requireAdmin(actor); err != nil {
		return 0, err
	}
	removed, err := c.local.RetainUsers(ctx, func(u models.User) bool {
		return u.Role == models.RoleSuperAdmin || u.ID == actor.ID
	})
	if err != nil {
		return 0, err
	}
	c.logger.Info("bulk delete applied to local store", zap.Int("removed", removed), zap.String("actor", actor.ID))
	return removed, nil
}

// UpdateUser saves a profile edit. Users may edit themselves; admins may edit anyone. Role changes need
// a super administrator. Status, rejection date and password are kept from the stored record.
func (c *SyncClient) UpdateUser(ctx context.Context, actor *models.User, user models.User) (*models.User, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if actor.ID != user.ID && !actor.Role.IsAdmin() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "you can only edit your own profile")
	}
	existing, err := c.findUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if user.Role == "" {
		user.Role = existing.Role
	}
	if user.Role != existing.Role {
		if err := requireSuperAdmin(actor); err != nil {
			return nil, err
		}
		if !user.Role.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown role %q", user.Role))
		}
	}
	user.Status = existing.Status
	user.RejectionDate = existing.RejectionDate
	user.Password = existing.Password
	if user.LastLogin == nil {
		user.LastLogin = existing.LastLogin
	}
	if err := c.store.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ChangeRole reassigns a role. Super administrators only.
func (c *SyncClient) ChangeRole(ctx context.Context, actor *models.User, id string, role models.Role) error {
	if err := requireSuperAdmin(actor); err != nil {
		return err
	}
	if !role.Valid() {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown role %q", role))
	}
	user, err := c.findUser(ctx, id)
	if err != nil {
		return err
	}
	user.Role = role
	return c.store.UpdateUser(ctx, *user)
}

// ResetPassword overwrites an account's password. Super administrators only.
func (c *SyncClient) ResetPassword(ctx context.Context, actor *models.User, id, password string) error {
	if err := requireSuperAdmin(actor); err != nil {
		return err
	}
	if password == "" {
		return appErrors.Clone(appErrors.ErrValidation, "password is required")
	}
	user, err := c.findUser(ctx, id)
	if err != nil {
		return err
	}
	user.Password = password
	if err := c.store.UpdateUser(ctx, *user); err != nil {
		return err
	}
	c.logger.Info("password reset", zap.String("user_id", id), zap.String("actor", actor.ID))
	return nil
}

// RejectedWithGrace lists rejected accounts with the advisory hours left before an admin may purge them.
func (c *SyncClient) RejectedWithGrace(ctx context.Context, now time.Time) ([]RejectedAccount, error) {
	users, err := c.store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]RejectedAccount, 0)
	for _, u := range users {
		if u.Status != models.StatusRejected {
			continue
		}
		out = append(out, RejectedAccount{
			User:           u,
			HoursRemaining: u.GraceHoursRemaining(now),
			Expired:        u.GraceExpired(now, models.GracePeriod),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].HoursRemaining < out[j].HoursRemaining })
	return out, nil
}

// CreateAnnouncement publishes an announcement, filling id and date when absent.
func (c *SyncClient) CreateAnnouncement(ctx context.Context, a models.Announcement) (*models.Announcement, error) {
	if strings.TrimSpace(a.Title) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "title is required")
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Date == "" {
		a.Date = c.now().UTC().Format(time.DateOnly)
	}
	if err := c.store.CreateAnnouncement(ctx, a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *SyncClient) DeleteAnnouncement(ctx context.Context, id string) error {
	return c.store.DeleteAnnouncement(ctx, id)
}

// UpdateAnnouncement edits a published announcement. The remote service has no edit endpoint.
func (c *SyncClient) UpdateAnnouncement(ctx context.Context, a models.Announcement) (*models.Announcement, error) {
	if strings.TrimSpace(a.ID) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "id is required")
	}
	if strings.TrimSpace(a.Title) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "title is required")
	}
	if a.Date == "" {
		a.Date = c.now().UTC().Format(time.DateOnly)
	}
	if err := c.store.UpdateAnnouncement(ctx, a); err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateLocation registers a church location.
func (c *SyncClient) CreateLocation(ctx context.Context, l models.ChurchLocation) (*models.ChurchLocation, error) {
	if strings.TrimSpace(l.Name) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "name is required")
	}
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if err := c.store.CreateLocation(ctx, l); err != nil {
		return nil, err
	}
	return &l, nil
}

// DeleteLocation removes a church location. The remote service has no delete endpoint.
func (c *SyncClient) DeleteLocation(ctx context.Context, id string) error {
	return c.store.DeleteLocation(ctx, id)
}

// Export dumps the Local Store. Administrators only.
func (c *SyncClient) Export(ctx context.Context, actor *models.User) ([]byte, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return c.db.Export(ctx)
}

// Import loads a previously exported document into the Local Store. Callers must reload afterwards.
func (c *SyncClient) Import(ctx context.Context, actor *models.User, payload []byte) (int, error) {
	if err := requireAdmin(actor); err != nil {
		return 0, err
	}
	return c.db.Import(ctx, payload)
}

// Reset wipes the Local Store, session included. Super administrators only.
func (c *SyncClient) Reset(ctx context.Context, actor *models.User) error {
	if err := requireSuperAdmin(actor); err != nil {
		return err
	}
	return c.db.Reset(ctx)
}

func (c *SyncClient) findUser(ctx context.Context, id string) (*models.User, error) {
	users, err := c.store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	idx := models.FindUser(users, id)
	if idx < 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
	}
	user := users[idx]
	return &user, nil
}

// checkAssignableRole keeps non super administrators from minting super administrators.
func (c *SyncClient) checkAssignableRole(actor *models.User, role models.Role) error {
	if !role.Valid() {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown role %q", role))
	}
	if role == models.RoleSuperAdmin {
		return requireSuperAdmin(actor)
	}
	return nil
}
