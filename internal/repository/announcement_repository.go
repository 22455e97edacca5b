package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Ipeter02/ccapsystemsynod/internal/models"
)

// AnnouncementRepository provides persistence for announcements.
type AnnouncementRepository struct {
	db       *sqlx.DB
	observer QueryObserver
}

// NewAnnouncementRepository creates the repository.
func NewAnnouncementRepository(db *sqlx.DB, observer QueryObserver) *AnnouncementRepository {
	return &AnnouncementRepository{db: db, observer: observer}
}

// List returns announcements newest first.
func (r *AnnouncementRepository) List(ctx context.Context) ([]models.Announcement, error) {
	defer observe(r.observer, "announcements.list", time.Now())
	const query = `SELECT id, department_id, title, message, meeting_time, author, date FROM announcements ORDER BY date DESC, id DESC`
	items := make([]models.Announcement, 0)
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("list announcements: %w", err)
	}
	return items, nil
}

// Create inserts a new announcement.
func (r *AnnouncementRepository) Create(ctx context.Context, a *models.Announcement) error {
	defer observe(r.observer, "announcements.create", time.Now())
	const query = `INSERT INTO announcements (id, department_id, title, message, meeting_time, author, date)
VALUES (:id, :department_id, :title, :message, :meeting_time, :author, :date)`
	if _, err := r.db.NamedExecContext(ctx, query, a); err != nil {
		return fmt.Errorf("create announcement: %w", err)
	}
	return nil
}

// Delete removes an announcement. It returns sql.ErrNoRows when nothing matched.
func (r *AnnouncementRepository) Delete(ctx context.Context, id string) error {
	defer observe(r.observer, "announcements.delete", time.Now())
	res, err := r.db.ExecContext(ctx, "DELETE FROM announcements WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete announcement: %w", err)
	}
	return expectAffected(res)
}
