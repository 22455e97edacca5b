package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Ipeter02/ccapsystemsynod/internal/models"
)

// LocationRepository provides persistence for church locations.
type LocationRepository struct {
	db       *sqlx.DB
	observer QueryObserver
}

func NewLocationRepository(db *sqlx.DB, observer QueryObserver) *LocationRepository {
	return &LocationRepository{db: db, observer: observer}
}

// List returns locations grouped by district.
func (r *LocationRepository) List(ctx context.Context) ([]models.ChurchLocation, error) {
	defer observe(r.observer, "locations.list", time.Now())
	const query = `SELECT id, name, district, address, admin_id FROM locations ORDER BY district ASC, name ASC`
	items := make([]models.ChurchLocation, 0)
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	return items, nil
}

func (r *LocationRepository) Create(ctx context.Context, l *models.ChurchLocation) error {
	defer observe(r.observer, "locations.create", time.Now())
	const query = `INSERT INTO locations (id, name, district, address, admin_id) VALUES (:id, :name, :district, :address, :admin_id)`
	if _, err := r.db.NamedExecContext(ctx, query, l); err != nil {
		return fmt.Errorf("create location: %w", err)
	}
	return nil
}
