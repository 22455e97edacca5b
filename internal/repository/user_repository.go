package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Ipeter02/ccapsystemsynod/internal/models"
)

// QueryObserver receives query timings. *service.MetricsService satisfies it.
type QueryObserver interface {
	ObserveDBQuery(label string, duration time.Duration)
}

const userColumns = `id, name, email, phone, role, status, department, district, location, avatar, position, meeting_time, password, last_login, rejection_date`

// UserRepository provides database access for synod accounts.
type UserRepository struct {
	db       *sqlx.DB
	observer QueryObserver
}

// NewUserRepository creates a new instance of UserRepository. observer may be nil.
func NewUserRepository(db *sqlx.DB, observer QueryObserver) *UserRepository {
	return &UserRepository{db: db, observer: observer}
}

// List returns every account ordered by name.
func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	defer observe(r.observer, "users.list", time.Now())
	query := fmt.Sprintf("SELECT %s FROM users ORDER BY name ASC, id ASC", userColumns)
	users := make([]models.User, 0)
	if err := r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// FindByEmail returns the account with a case-insensitively matching email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	defer observe(r.observer, "users.find_by_email", time.Now())
	query := fmt.Sprintf("SELECT %s FROM users WHERE LOWER(email) = LOWER($1) LIMIT 1", userColumns)
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}

// FindByID returns an account by identifier.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	defer observe(r.observer, "users.find_by_id", time.Now())
	query := fmt.Sprintf("SELECT %s FROM users WHERE id = $1 LIMIT 1", userColumns)
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &user, nil
}

// Create inserts a new account.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	defer observe(r.observer, "users.create", time.Now())
	const query = `INSERT INTO users (id, name, email, password, phone, role, status, department, district, location, avatar, position, meeting_time)
VALUES (:id, :name, :email, :password, :phone, :role, :status, :department, :district, :location, :avatar, :position, :meeting_time)`
	if _, err := r.db.NamedExecContext(ctx, query, user); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// UpdateLifecycle persists status, role, district and rejection date.
func (r *UserRepository) UpdateLifecycle(ctx context.Context, user *models.User) error {
	defer observe(r.observer, "users.update_lifecycle", time.Now())
	const query = `UPDATE users SET status = $2, role = $3, district = $4, rejection_date = $5 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, user.ID, user.Status, user.Role, user.District, user.RejectionDate)
	if err != nil {
		return fmt.Errorf("update user lifecycle: %w", err)
	}
	return expectAffected(res)
}

// UpdateLastLogin updates the last_login timestamp for an account.
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	defer observe(r.observer, "users.update_last_login", time.Now())
	const query = `UPDATE users SET last_login = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, ts); err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	return nil
}

// Delete removes an account. It returns sql.ErrNoRows when nothing matched.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	defer observe(r.observer, "users.delete", time.Now())
	res, err := r.db.ExecContext(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return expectAffected(res)
}

func expectAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func observe(o QueryObserver, label string, start time.Time) {
	if o == nil {
		return
	}
	o.ObserveDBQuery(label, time.Since(start))
}
