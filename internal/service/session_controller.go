package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Ipeter02/ccapsystemsynod/internal/models"
)

type sessionStore interface {
	Session(ctx context.Context) (*models.User, error)
	SetSession(ctx context.Context, user *models.User) error
}

// Snapshot is the state loaded by SessionController.Init.
type Snapshot struct {
	Users         []models.User
	Announcements []models.Announcement
	Locations     []models.ChurchLocation
	Current       *models.User
}

// SessionController owns the persisted session pointer and re-validates it against fresh data.
type SessionController struct {
	client  *SyncClient
	store   sessionStore
	logger  *zap.Logger
	now     func() time.Time
	mu      sync.RWMutex
	current *models.User
}

// NewSessionController constructs a controller. Call Init before use.
func NewSessionController(client *SyncClient, store sessionStore, logger *zap.Logger) *SessionController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionController{client: client, store: store, logger: logger, now: time.Now}
}

// Client returns the sync client the controller is bound to.
func (s *SessionController) Client() *SyncClient {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.client
}

// Init loads users, announcements and locations concurrently, then restores the persisted session if
// its account still exists and is active. Anything else clears the session.
func (s *SessionController) Init(ctx context.Context) (*Snapshot, error) {
	client := s.Client()
	snap := &Snapshot{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		users, err := client.Users(gctx)
		snap.Users = users
		return err
	})
	g.Go(func() error {
		list, err := client.Announcements(gctx)
		snap.Announcements = list
		return err
	})
	g.Go(func() error {
		list, err := client.Locations(gctx)
		snap.Locations = list
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snap.Current = s.restore(ctx, snap.Users)
	return snap, nil
}

func (s *SessionController) restore(ctx context.Context, users []models.User) *models.User {
	stored, err := s.store.Session(ctx)
	if err != nil {
		s.logger.Warn("session unreadable, starting logged out", zap.Error(err))
		s.clear(ctx)
		return nil
	}
	if stored == nil {
		s.setCurrent(nil)
		return nil
	}

	idx := models.FindUser(users, stored.ID)
	if idx < 0 || users[idx].Status != models.StatusActive {
		s.logger.Info("stored session no longer valid", zap.String("user_id", stored.ID))
		s.clear(ctx)
		return nil
	}

	fresh := users[idx]
	if fresh.LastLogin == nil {
		fresh.LastLogin = stored.LastLogin
	}
	s.setCurrent(&fresh)
	return &fresh
}

// Login authenticates and persists the identity with a refreshed lastLogin, in either mode.
func (s *SessionController) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.Client().Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	ts := s.now().UTC()
	user.LastLogin = &ts
	if err := s.store.SetSession(ctx, user); err != nil {
		return nil, err
	}
	s.setCurrent(user)
	s.logger.Info("session started", zap.String("user_id", user.ID), zap.String("mode", s.Client().Mode()))
	return user, nil
}

// Logout clears the persisted session pointer.
func (s *SessionController) Logout(ctx context.Context) error {
	if err := s.store.SetSession(ctx, nil); err != nil {
		return err
	}
	s.setCurrent(nil)
	return nil
}

// Current returns the restored or logged-in identity, or nil.
func (s *SessionController) Current() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	u := *s.current
	return &u
}

// Refresh rewrites the session pointer after the current user's own record was edited.
func (s *SessionController) Refresh(ctx context.Context, updated models.User) error {
	current := s.Current()
	if current == nil || current.ID != updated.ID {
		return nil
	}
	if updated.LastLogin == nil {
		updated.LastLogin = current.LastLogin
	}
	if err := s.store.SetSession(ctx, &updated); err != nil {
		return err
	}
	s.setCurrent(&updated)
	return nil
}

// Rebind swaps in a client built for another backend and re-runs Init.
func (s *SessionController) Rebind(ctx context.Context, client *SyncClient) (*Snapshot, error) {
	s.mu.Lock()
	s.client = client
	s.current = nil
	s.mu.Unlock()
	return s.Init(ctx)
}

func (s *SessionController) clear(ctx context.Context) {
	if err := s.store.SetSession(ctx, nil); err != nil {
		s.logger.Warn("failed to clear session", zap.Error(err))
	}
	s.setCurrent(nil)
}

func (s *SessionController) setCurrent(u *models.User) {
	s.mu.Lock()
	s.current = u
	s.mu.Unlock()
}
