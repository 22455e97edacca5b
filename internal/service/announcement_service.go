package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Ipeter02/ccapsystemsynod/internal/models"
	appErrors "github.com/Ipeter02/ccapsystemsynod/pkg/errors"
)

type announcementRepository interface {
	List(ctx context.Context) ([]models.Announcement, error)
	Create(ctx context.Context, a *models.Announcement) error
	Delete(ctx context.Context, id string) error
}

// AnnouncementService handles announcement workflows.
type AnnouncementService struct {
	repo      announcementRepository
	validator *validator.Validate
	logger    *zap.Logger
	cache     *CacheService
	now       func() time.Time
}

// NewAnnouncementService constructs the service.
func NewAnnouncementService(repo announcementRepository, validate *validator.Validate, logger *zap.Logger) *AnnouncementService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnnouncementService{repo: repo, validator: validate, logger: logger, now: time.Now}
}

// WithCache enables the list cache.
func (s *AnnouncementService) WithCache(cache *CacheService) *AnnouncementService {
	s.cache = cache
	return s
}

// List returns announcements newest first.
func (s *AnnouncementService) List(ctx context.Context) ([]models.Announcement, error) {
	return cachedList(ctx, s.cache, cacheKeyAnnouncements, func(ctx context.Context) ([]models.Announcement, error) {
		items, err := s.repo.List(ctx)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list announcements")
		}
		return items, nil
	})
}

// Create stores an announcement, defaulting id and date.
func (s *AnnouncementService) Create(ctx context.Context, a models.Announcement) (*models.Announcement, error) {
	a.Title = strings.TrimSpace(a.Title)
	if err := s.validator.Struct(a); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid announcement payload")
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Date == "" {
		a.Date = s.now().UTC().Format(time.DateOnly)
	}
	if err := s.repo.Create(ctx, &a); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create announcement")
	}
	s.cache.Invalidate(ctx, cacheKeyAnnouncements)
	s.logger.Info("announcement created", zap.String("announcement_id", a.ID), zap.String("department", a.DepartmentID))
	return &a, nil
}

// Delete removes an announcement.
func (s *AnnouncementService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "announcement not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete announcement")
	}
	s.cache.Invalidate(ctx, cacheKeyAnnouncements)
	return nil
}
