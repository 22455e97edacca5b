package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ipeter02/ccapsystemsynod/internal/models"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	return sqlxdb, mock, func() {
		db.Close()
	}
}

type recordingObserver struct {
	labels []string
}

func (o *recordingObserver) ObserveDBQuery(label string, _ time.Duration) {
	o.labels = append(o.labels, label)
}

var userRowColumns = []string{"id", "name", "email", "phone", "role", "status", "department", "district", "location", "avatar", "position", "meeting_time", "password", "last_login", "rejection_date"}

func TestUserRepositoryFindByEmail(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	obs := &recordingObserver{}
	repo := NewUserRepository(db, obs)

	now := time.Now()
	rows := sqlmock.NewRows(userRowColumns).
		AddRow("u1", "Rev. Banda", "banda@ccap.org", "", "PASTOR", "active", "", "Mzimba", "", "", "", "", "pw", now, nil)
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE LOWER(email) = LOWER($1) LIMIT 1")).
		WithArgs("BANDA@ccap.org").
		WillReturnRows(rows)

	user, err := repo.FindByEmail(context.Background(), "BANDA@ccap.org")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, models.StatusActive, user.Status)
	assert.Nil(t, user.RejectionDate)
	require.NotNil(t, user.LastLogin)
	assert.Equal(t, []string{"users.find_by_email"}, obs.labels)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryFindByEmailNoRows(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db, nil)

	mock.ExpectQuery("FROM users WHERE LOWER").WillReturnRows(sqlmock.NewRows(userRowColumns))

	_, err := repo.FindByEmail(context.Background(), "nobody@ccap.org")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryList(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db, nil)

	rows := sqlmock.NewRows(userRowColumns).
		AddRow("a", "Alice", "a@x.org", "", "STAFF", "pending", "", "", "", "", "", "", "pw", nil, nil).
		AddRow("b", "Bob", "b@x.org", "", "PASTOR", "rejected", "", "", "", "", "", "", "pw", nil, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM users ORDER BY name ASC, id ASC")).WillReturnRows(rows)

	users, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, models.StatusRejected, users[1].Status)
	assert.NotNil(t, users[1].RejectionDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db, nil)

	mock.ExpectExec("INSERT INTO users").WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Create(context.Background(), &models.User{ID: "u1", Name: "N", Email: "n@x.org", Password: "pw", Role: models.RolePastor, Status: models.StatusPending})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryUpdateLifecycle(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db, nil)

	ts := time.Date(2024, 4, 10, 12, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET status = $2, role = $3, district = $4, rejection_date = $5 WHERE id = $1")).
		WithArgs("u1", models.StatusRejected, models.RolePastor, "", &ts).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE users SET status").WillReturnResult(sqlmock.NewResult(0, 0))

	user := &models.User{ID: "u1", Status: models.StatusRejected, Role: models.RolePastor, RejectionDate: &ts}
	require.NoError(t, repo.UpdateLifecycle(context.Background(), user))

	user.ID = "ghost"
	assert.ErrorIs(t, repo.UpdateLifecycle(context.Background(), user), sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db, nil)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users WHERE id = $1")).WithArgs("u1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users WHERE id = $1")).WithArgs("u2").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), "u1"))
	assert.ErrorIs(t, repo.Delete(context.Background(), "u2"), sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
