package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/Ipeter02/ccapsystemsynod/internal/models"
	"github.com/Ipeter02/ccapsystemsynod/pkg/config"
)

type graceTarget interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	DeleteUser(ctx context.Context, id string) error
}

// GraceSweeper purges rejected accounts whose grace window has elapsed. Scheduled sweeps only run when
// enabled in configuration; Sweep can always be invoked explicitly by an administrator.
type GraceSweeper struct {
	target    graceTarget
	cfg       config.GraceConfig
	logger    *zap.Logger
	now       func() time.Time
	mu        sync.Mutex
	scheduler *cron.Cron
}

// NewGraceSweeper constructs a sweeper over target.
func NewGraceSweeper(target graceTarget, cfg config.GraceConfig, logger *zap.Logger) *GraceSweeper {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Window <= 0 {
		cfg.Window = models.GracePeriod
	}
	if cfg.SweepSchedule == "" {
		cfg.SweepSchedule = "@hourly"
	}
	return &GraceSweeper{target: target, cfg: cfg, logger: logger, now: time.Now}
}

// Sweep deletes every rejected account past its window and returns the removed ids.
func (s *GraceSweeper) Sweep(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.target.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users for sweep: %w", err)
	}
	now := s.now()
	removed := make([]string, 0)
	for _, u := range users {
		if u.Role == models.RoleSuperAdmin || !u.GraceExpired(now, s.cfg.Window) {
			continue
		}
		if err := s.target.DeleteUser(ctx, u.ID); err != nil {
			return removed, fmt.Errorf("delete expired account %s: %w", u.ID, err)
		}
		removed = append(removed, u.ID)
	}
	if len(removed) > 0 {
		s.logger.Info("expired rejected accounts purged", zap.Strings("user_ids", removed))
	}
	return removed, nil
}

// Start schedules periodic sweeps when enabled. It is a no-op otherwise.
func (s *GraceSweeper) Start() error {
	if !s.cfg.SweepEnabled {
		s.logger.Info("grace sweep disabled")
		return nil
	}
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(s.cfg.SweepSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if _, err := s.Sweep(ctx); err != nil {
			s.logger.Error("grace sweep failed", zap.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("invalid grace sweep schedule %q: %w", s.cfg.SweepSchedule, err)
	}
	scheduler.Start()
	s.scheduler = scheduler
	s.logger.Info("grace sweep scheduled", zap.String("schedule", s.cfg.SweepSchedule), zap.Duration("window", s.cfg.Window))
	return nil
}

// Stop waits for a running sweep to finish.
func (s *GraceSweeper) Stop() {
	if s.scheduler == nil {
		return
	}
	<-s.scheduler.Stop().Done()
	s.scheduler = nil
}
