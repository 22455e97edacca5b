package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Ipeter02/ccapsystemsynod/internal/models"
	appErrors "github.com/Ipeter02/ccapsystemsynod/pkg/errors"
)

// Persisted keys, one blob per collection plus the session slot.
const (
	KeyUsers         = "ccap_system_users"
	KeyAnnouncements = "ccap_system_announcements"
	KeyGallery       = "ccap_system_gallery"
	KeyLocations     = "ccap_system_locations"
	KeySubscribers   = "ccap_system_subscribers"
	KeyCampaigns     = "ccap_system_campaigns"
	KeyChats         = "ccap_system_chats"
	KeyDepartments   = "ccap_system_departments"
	KeySession       = "ccap_active_user"
)

// Backend is the durable key/value medium behind the store. Get returns appErrors.ErrKeyNotFound on a miss.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
}

// Store is the Persistent Local Store. It assumes a single writer per backend.
type Store struct {
	backend Backend
	logger  *zap.Logger
	now     func() time.Time
	mu      sync.Mutex
}

// New constructs a store over backend.
func New(backend Backend, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{backend: backend, logger: logger, now: time.Now}
}

func (s *Store) Users(ctx context.Context) ([]models.User, error) {
	return load(ctx, s, KeyUsers, seedUsers)
}

func (s *Store) SaveUsers(ctx context.Context, users []models.User) error {
	return save(ctx, s, KeyUsers, users)
}

func (s *Store) Announcements(ctx context.Context) ([]models.Announcement, error) {
	return load(ctx, s, KeyAnnouncements, seedAnnouncements)
}

func (s *Store) SaveAnnouncements(ctx context.Context, items []models.Announcement) error {
	return save(ctx, s, KeyAnnouncements, items)
}

func (s *Store) Locations(ctx context.Context) ([]models.ChurchLocation, error) {
	return load(ctx, s, KeyLocations, seedLocations)
}

func (s *Store) SaveLocations(ctx context.Context, items []models.ChurchLocation) error {
	return save(ctx, s, KeyLocations, items)
}

func (s *Store) Gallery(ctx context.Context) ([]models.GalleryImage, error) {
	return load(ctx, s, KeyGallery, seedGallery)
}

func (s *Store) SaveGallery(ctx context.Context, items []models.GalleryImage) error {
	return save(ctx, s, KeyGallery, items)
}

func (s *Store) Subscribers(ctx context.Context) ([]models.Subscriber, error) {
	return load(ctx, s, KeySubscribers, seedSubscribers)
}

func (s *Store) SaveSubscribers(ctx context.Context, items []models.Subscriber) error {
	return save(ctx, s, KeySubscribers, items)
}

func (s *Store) Campaigns(ctx context.Context) ([]models.NewsletterCampaign, error) {
	return load(ctx, s, KeyCampaigns, seedCampaigns)
}

func (s *Store) SaveCampaigns(ctx context.Context, items []models.NewsletterCampaign) error {
	return save(ctx, s, KeyCampaigns, items)
}

func (s *Store) Chats(ctx context.Context) ([]models.ChatMessage, error) {
	return load(ctx, s, KeyChats, s.seedChats)
}

func (s *Store) SaveChats(ctx context.Context, items []models.ChatMessage) error {
	return save(ctx, s, KeyChats, items)
}

func (s *Store) Departments(ctx context.Context) ([]models.Department, error) {
	return load(ctx, s, KeyDepartments, seedDepartments)
}

func (s *Store) SaveDepartments(ctx context.Context, items []models.Department) error {
	return save(ctx, s, KeyDepartments, items)
}

// Session returns the persisted identity, or nil when the slot is empty or unreadable.
func (s *Store) Session(ctx context.Context) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.backend.Get(ctx, KeySession)
	if err != nil {
		if errors.Is(err, appErrors.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	var user *models.User
	if err := json.Unmarshal(raw, &user); err != nil {
		s.logger.Error("discarding unreadable session", zap.Error(err))
		return nil, nil
	}
	return user, nil
}

// SetSession persists user as the active identity. A nil user clears the slot.
func (s *Store) SetSession(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user == nil {
		if err := s.backend.Delete(ctx, KeySession); err != nil {
			return fmt.Errorf("clear session: %w", err)
		}
		return nil
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.backend.Set(ctx, KeySession, raw); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Reset removes every persisted key, the session included.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0, len(collections)+1)
	for _, c := range collections {
		keys = append(keys, c.key)
	}
	keys = append(keys, KeySession)
	if err := s.backend.Delete(ctx, keys...); err != nil {
		return fmt.Errorf("reset store: %w", err)
	}
	s.logger.Info("local store reset")
	return nil
}

// load returns the stored collection, or the seed default when the key was never written.
// Defaults are not persisted. An undecodable blob also yields the default.
func load[T any](ctx context.Context, s *Store, key string, fallback func() []T) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.backend.Get(ctx, key)
	if err != nil {
		if errors.Is(err, appErrors.ErrKeyNotFound) {
			return fallback(), nil
		}
		return nil, fmt.Errorf("load %s: %w", key, err)
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		s.logger.Error("stored collection unreadable, using defaults", zap.String("key", key), zap.Error(err))
		return fallback(), nil
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func save[T any](ctx context.Context, s *Store, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.backend.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}
