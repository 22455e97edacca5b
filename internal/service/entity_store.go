package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/Ipeter02/ccapsystemsynod/internal/models"
)

// EntityStore is the capability surface shared by the local and remote backends for the hybrid
// entities: users, announcements and locations.
type EntityStore interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	RegisterUser(ctx context.Context, user models.User) error
	Login(ctx context.Context, email, password string) (*models.User, error)
	ApproveUser(ctx context.Context, id string, role models.Role, district string) error
	RejectUser(ctx context.Context, id string) error
	UpdateUser(ctx context.Context, user models.User) error
	DeleteUser(ctx context.Context, id string) error

	ListAnnouncements(ctx context.Context) ([]models.Announcement, error)
	CreateAnnouncement(ctx context.Context, a models.Announcement) error
	UpdateAnnouncement(ctx context.Context, a models.Announcement) error
	DeleteAnnouncement(ctx context.Context, id string) error

	ListLocations(ctx context.Context) ([]models.ChurchLocation, error)
	CreateLocation(ctx context.Context, l models.ChurchLocation) error
	DeleteLocation(ctx context.Context, id string) error
}

// LocalEntityStore is the local backend. Bulk removal only exists locally.
type LocalEntityStore interface {
	EntityStore
	RetainUsers(ctx context.Context, keep func(models.User) bool) (int, error)
}

// FallbackStore routes every call to primary. Read-alls that fail on primary are answered by
// fallback instead; writes and login surface primary's error unchanged.
type FallbackStore struct {
	primary  EntityStore
	fallback EntityStore
	logger   *zap.Logger
	metrics  *MetricsService
}

// NewFallbackStore composes the remote-first routing policy.
func NewFallbackStore(primary, fallback EntityStore, logger *zap.Logger, metrics *MetricsService) *FallbackStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FallbackStore{primary: primary, fallback: fallback, logger: logger, metrics: metrics}
}

func (s *FallbackStore) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.primary.ListUsers(ctx)
	if err == nil {
		return users, nil
	}
	s.fellBack("users", err)
	return s.fallback.ListUsers(ctx)
}

func (s *FallbackStore) ListAnnouncements(ctx context.Context) ([]models.Announcement, error) {
	list, err := s.primary.ListAnnouncements(ctx)
	if err == nil {
		return list, nil
	}
	s.fellBack("announcements", err)
	return s.fallback.ListAnnouncements(ctx)
}

func (s *FallbackStore) ListLocations(ctx context.Context) ([]models.ChurchLocation, error) {
	list, err := s.primary.ListLocations(ctx)
	if err == nil {
		return list, nil
	}
	s.fellBack("locations", err)
	return s.fallback.ListLocations(ctx)
}

func (s *FallbackStore) RegisterUser(ctx context.Context, user models.User) error {
	return s.primary.RegisterUser(ctx, user)
}

func (s *FallbackStore) Login(ctx context.Context, email, password string) (*models.User, error) {
	return s.primary.Login(ctx, email, password)
}

func (s *FallbackStore) ApproveUser(ctx context.Context, id string, role models.Role, district string) error {
	return s.primary.ApproveUser(ctx, id, role, district)
}

func (s *FallbackStore) RejectUser(ctx context.Context, id string) error {
	return s.primary.RejectUser(ctx, id)
}

func (s *FallbackStore) UpdateUser(ctx context.Context, user models.User) error {
	return s.primary.UpdateUser(ctx, user)
}

func (s *FallbackStore) DeleteUser(ctx context.Context, id string) error {
	return s.primary.DeleteUser(ctx, id)
}

func (s *FallbackStore) CreateAnnouncement(ctx context.Context, a models.Announcement) error {
	return s.primary.CreateAnnouncement(ctx, a)
}

func (s *FallbackStore) UpdateAnnouncement(ctx context.Context, a models.Announcement) error {
	return s.primary.UpdateAnnouncement(ctx, a)
}

func (s *FallbackStore) DeleteAnnouncement(ctx context.Context, id string) error {
	return s.primary.DeleteAnnouncement(ctx, id)
}

func (s *FallbackStore) CreateLocation(ctx context.Context, l models.ChurchLocation) error {
	return s.primary.CreateLocation(ctx, l)
}

func (s *FallbackStore) DeleteLocation(ctx context.Context, id string) error {
	return s.primary.DeleteLocation(ctx, id)
}

func (s *FallbackStore) fellBack(entity string, err error) {
	s.logger.Warn("remote read failed, serving local copy", zap.String("entity", entity), zap.Error(err))
	s.metrics.RecordFallback(entity)
}
