package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/Ipeter02/ccapsystemsynod/internal/models"
	appErrors "github.com/Ipeter02/ccapsystemsynod/pkg/errors"
	"github.com/Ipeter02/ccapsystemsynod/pkg/security"
)

type directoryRepository interface {
	List(ctx context.Context) ([]models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	UpdateLifecycle(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
}

// DirectoryConfig controls how the server stores credentials.
type DirectoryConfig struct {
	HashPasswords bool
}

// DirectoryService handles the server side of account registration and lifecycle.
type DirectoryService struct {
	repo      directoryRepository
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService
	cfg       DirectoryConfig
	cache     *CacheService
	now       func() time.Time
}

// NewDirectoryService creates an instance of DirectoryService.
func NewDirectoryService(repo directoryRepository, validate *validator.Validate, logger *zap.Logger, metrics *MetricsService, cfg DirectoryConfig) *DirectoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &DirectoryService{repo: repo, validator: validate, logger: logger, metrics: metrics, cfg: cfg, now: time.Now}
}

// WithCache enables the list cache.
func (s *DirectoryService) WithCache(cache *CacheService) *DirectoryService {
	s.cache = cache
	return s
}

// ListUsers returns every account without its password.
func (s *DirectoryService) ListUsers(ctx context.Context) ([]models.User, error) {
	return cachedList(ctx, s.cache, cacheKeyUsers, func(ctx context.Context) ([]models.User, error) {
		users, err := s.repo.List(ctx)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list users")
		}
		out := make([]models.User, 0, len(users))
		for _, u := range users {
			out = append(out, u.Public())
		}
		return out, nil
	})
}

// Register stores a self-registration. Status is always pending regardless of the payload.
func (s *DirectoryService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	req.Email = strings.TrimSpace(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid registration payload")
	}
	req.Role = req.Role.SelfRegistered()
	if !req.Role.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown role %q", req.Role))
	}

	if _, err := s.repo.FindByEmail(ctx, req.Email); err == nil {
		return nil, appErrors.Clone(appErrors.ErrDuplicateEmail, "email already registered")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email uniqueness")
	}

	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	user := req.ToUser()
	if s.cfg.HashPasswords {
		hash, err := security.HashPassword(user.Password)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
		}
		user.Password = hash
	}

	if err := s.repo.Create(ctx, &user); err != nil {
		if isUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrDuplicateEmail, "email already registered")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create user")
	}
	s.cache.Invalidate(ctx, cacheKeyUsers)

	s.metrics.RecordTransition("register")
	s.logger.Info("account registered", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	public := user.Public()
	return &public, nil
}

// Approve activates an account with the supplied role and district.
func (s *DirectoryService) Approve(ctx context.Context, id string, req models.ApproveRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid approve payload")
	}
	if !req.Role.Valid() {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown role %q", req.Role))
	}
	user, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	user.Approve(req.Role, strings.TrimSpace(req.District))
	if err := s.save(ctx, user); err != nil {
		return err
	}
	s.metrics.RecordTransition("approve")
	s.logger.Info("account approved", zap.String("user_id", id), zap.String("role", string(req.Role)))
	return nil
}

// Reject marks a pending account rejected and stamps the rejection time. Repeating it is a no-op.
func (s *DirectoryService) Reject(ctx context.Context, id string) error {
	user, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	changed, err := user.Reject(s.now())
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "only pending accounts can be rejected")
	}
	if !changed {
		return nil
	}
	if err := s.save(ctx, user); err != nil {
		return err
	}
	s.metrics.RecordTransition("reject")
	s.logger.Info("account rejected", zap.String("user_id", id))
	return nil
}

// DeleteUser removes an account.
func (s *DirectoryService) DeleteUser(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete user")
	}
	s.cache.Invalidate(ctx, cacheKeyUsers)
	s.metrics.RecordTransition("delete")
	s.logger.Info("account deleted", zap.String("user_id", id))
	return nil
}

func (s *DirectoryService) find(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}
	return user, nil
}

func (s *DirectoryService) save(ctx context.Context, user *models.User) error {
	if err := s.repo.UpdateLifecycle(ctx, user); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update user")
	}
	s.cache.Invalidate(ctx, cacheKeyUsers)
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
