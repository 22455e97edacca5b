package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ipeter02/ccapsystemsynod/internal/models"
)

func TestAnnouncementRepositoryList(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAnnouncementRepository(db, nil)

	rows := sqlmock.NewRows([]string{"id", "department_id", "title", "message", "meeting_time", "author", "date"}).
		AddRow("2", "Health", "Medicine Supply", "New batch", "", "Dr. Mary Phiri", "2023-10-23")
	mock.ExpectQuery(regexp.QuoteMeta("FROM announcements ORDER BY date DESC, id DESC")).WillReturnRows(rows)

	items, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Health", items[0].DepartmentID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnnouncementRepositoryCreateAndDelete(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAnnouncementRepository(db, nil)

	mock.ExpectExec("INSERT INTO announcements").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("DELETE FROM announcements").WithArgs("a1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM announcements").WithArgs("a1").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Create(context.Background(), &models.Announcement{ID: "a1", Title: "Synod Assembly", Date: "2024-06-09"}))
	require.NoError(t, repo.Delete(context.Background(), "a1"))
	assert.ErrorIs(t, repo.Delete(context.Background(), "a1"), sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLocationRepository(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	obs := &recordingObserver{}
	repo := NewLocationRepository(db, obs)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO locations (id, name, district, address, admin_id)")).WillReturnResult(sqlmock.NewResult(1, 1))
	rows := sqlmock.NewRows([]string{"id", "name", "district", "address", "admin_id"}).
		AddRow("l1", "St. Andrews Church", "Mzuzu City", "Mzuzu City Center", "la1")
	mock.ExpectQuery(regexp.QuoteMeta("FROM locations ORDER BY district ASC, name ASC")).WillReturnRows(rows)

	require.NoError(t, repo.Create(context.Background(), &models.ChurchLocation{ID: "l1", Name: "St. Andrews Church"}))
	items, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "la1", items[0].AdminID)
	assert.Equal(t, []string{"locations.create", "locations.list"}, obs.labels)
	assert.NoError(t, mock.ExpectationsWereMet())
}
