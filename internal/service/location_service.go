package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Ipeter02/ccapsystemsynod/internal/models"
	appErrors "github.com/Ipeter02/ccapsystemsynod/pkg/errors"
)

type locationRepository interface {
	List(ctx context.Context) ([]models.ChurchLocation, error)
	Create(ctx context.Context, l *models.ChurchLocation) error
}

// LocationService manages church locations.
type LocationService struct {
	repo      locationRepository
	validator *validator.Validate
	logger    *zap.Logger
	cache     *CacheService
}

func NewLocationService(repo locationRepository, validate *validator.Validate, logger *zap.Logger) *LocationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocationService{repo: repo, validator: validate, logger: logger}
}

// WithCache enables the list cache.
func (s *LocationService) WithCache(cache *CacheService) *LocationService {
	s.cache = cache
	return s
}

func (s *LocationService) List(ctx context.Context) ([]models.ChurchLocation, error) {
	return cachedList(ctx, s.cache, cacheKeyLocations, func(ctx context.Context) ([]models.ChurchLocation, error) {
		items, err := s.repo.List(ctx)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list locations")
		}
		return items, nil
	})
}

// Create stores a location, generating an id when absent.
func (s *LocationService) Create(ctx context.Context, l models.ChurchLocation) (*models.ChurchLocation, error) {
	l.Name = strings.TrimSpace(l.Name)
	if err := s.validator.Struct(l); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid location payload")
	}
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if err := s.repo.Create(ctx, &l); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create location")
	}
	s.cache.Invalidate(ctx, cacheKeyLocations)
	s.logger.Info("location created", zap.String("location_id", l.ID), zap.String("district", l.District))
	return &l, nil
}
