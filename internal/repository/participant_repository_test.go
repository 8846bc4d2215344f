package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studioplan/lessongrid-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestParticipantRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewParticipantRepository(db)

	rows := sqlmock.NewRows([]string{"id", "owner_id", "full_name", "email", "required_duration_minutes", "active", "created_at", "updated_at"}).
		AddRow("p1", "o1", "Ada Brown", nil, 30, true, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, owner_id, full_name, email, required_duration_minutes, active, created_at, updated_at FROM participants WHERE owner_id = $1 ORDER BY full_name ASC LIMIT 20 OFFSET 0")).
		WithArgs("o1").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM participants WHERE owner_id = $1")).
		WithArgs("o1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	list, total, err := repo.List(context.Background(), models.ParticipantFilter{OwnerID: "o1"})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestParticipantRepositoryListFiltersActiveAndSearch(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewParticipantRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM participants WHERE owner_id = $1 AND active = TRUE AND full_name ILIKE $2")).
		WithArgs("o1", "%ada%").
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "full_name", "email", "required_duration_minutes", "active", "created_at", "updated_at"}))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WithArgs("o1", "%ada%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	_, total, err := repo.List(context.Background(), models.ParticipantFilter{OwnerID: "o1", ActiveOnly: true, Search: "ada"})
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestParticipantRepositoryCreateAndDeactivate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewParticipantRepository(db)

	mock.ExpectExec("INSERT INTO participants").
		WithArgs(sqlmock.AnyArg(), "o1", "Ada Brown", nil, 30, true, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	participant := &models.Participant{OwnerID: "o1", FullName: "Ada Brown", RequiredMinutes: 30, Active: true}
	require.NoError(t, repo.Create(context.Background(), participant))
	assert.NotEmpty(t, participant.ID)

	mock.ExpectExec("UPDATE participants SET active = FALSE").
		WithArgs("p1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Deactivate(context.Background(), "p1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestParticipantRepositoryUpdateNotFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewParticipantRepository(db)

	mock.ExpectExec("UPDATE participants").
		WithArgs("missing", "Ada Brown", nil, 60, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &models.Participant{ID: "missing", FullName: "Ada Brown", RequiredMinutes: 60})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
