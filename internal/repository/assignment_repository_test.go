package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studioplan/lessongrid-api/internal/models"
)

func TestAssignmentRepositoryListByOwnerOrder(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM lesson_assignments WHERE owner_id = $1 ORDER BY day_of_week ASC, start_minute ASC")).
		WithArgs("o1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "participant_id", "day_of_week", "start_minute", "duration_minutes", "source"}).
			AddRow("a1", "o1", "p1", 1, 540, 30, models.AssignmentSourceSolver).
			AddRow("a2", "o1", "p2", 1, 570, 60, models.AssignmentSourceManual))

	assignments, err := repo.ListByOwner(context.Background(), "o1")
	require.NoError(t, err)
	require.Len(t, assignments, 2)
	assert.Equal(t, "a1", assignments[0].ID)
	assert.Equal(t, 570, assignments[1].StartMinute)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositoryCreateDefaultsSource(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	mock.ExpectExec("INSERT INTO lesson_assignments").
		WithArgs(sqlmock.AnyArg(), "o1", "p1", 2, 600, 30, models.AssignmentSourceSolver, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	assignment := &models.Assignment{OwnerID: "o1", ParticipantID: "p1", DayOfWeek: 2, StartMinute: 600, DurationMins: 30}
	require.NoError(t, repo.Create(context.Background(), assignment))
	assert.NotEmpty(t, assignment.ID)
	assert.Equal(t, models.AssignmentSourceSolver, assignment.Source)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositoryBulkCreateWithTx(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO lesson_assignments").
		WithArgs(sqlmock.AnyArg(), "o1", "p1", 1, 540, 30, models.AssignmentSourceSolver, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO lesson_assignments").
		WithArgs(sqlmock.AnyArg(), "o1", "p2", 1, 570, 60, models.AssignmentSourceSolver, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	tx, err := db.BeginTxx(context.Background(), nil)
	require.NoError(t, err)

	batch := []models.Assignment{
		{OwnerID: "o1", ParticipantID: "p1", DayOfWeek: 1, StartMinute: 540, DurationMins: 30},
		{OwnerID: "o1", ParticipantID: "p2", DayOfWeek: 1, StartMinute: 570, DurationMins: 60},
	}
	require.NoError(t, repo.BulkCreateWithTx(context.Background(), tx, batch))
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositoryUpdatePlacement(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	mock.ExpectExec("UPDATE lesson_assignments SET day_of_week").
		WithArgs("a1", 3, 615, models.AssignmentSourceManual, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdatePlacement(context.Background(), "a1", 3, 615))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositoryUpdatePlacementNotFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	mock.ExpectExec("UPDATE lesson_assignments SET day_of_week").
		WithArgs("missing", 3, 615, models.AssignmentSourceManual, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.Error(t, repo.UpdatePlacement(context.Background(), "missing", 3, 615))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositoryDeleteByIDs(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM lesson_assignments WHERE id = ANY($1)")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, repo.DeleteByIDs(context.Background(), []string{"a1", "a2"}))
	// empty slice short-circuits without touching the database
	require.NoError(t, repo.DeleteByIDs(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}
