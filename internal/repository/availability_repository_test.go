package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studioplan/lessongrid-api/internal/models"
	"github.com/studioplan/lessongrid-api/internal/schedule"
)

func TestAvailabilityRepositoryGetWeek(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAvailabilityRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "owner_id", "subject_type", "subject_id", "day_of_week", "start_minute", "duration_minutes", "created_at", "updated_at"}).
		AddRow("b1", "o1", models.SubjectOwner, "o1", 1, 540, 120, now, now).
		AddRow("b2", "o1", models.SubjectOwner, "o1", 3, 600, 60, now, now).
		AddRow("b3", "o1", models.SubjectOwner, "o1", 9, 0, 30, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM availability_blocks")).
		WithArgs("o1", models.SubjectOwner, "o1").
		WillReturnRows(rows)

	week, err := repo.GetWeek(context.Background(), "o1", models.SubjectOwner, "o1")
	require.NoError(t, err)
	require.Len(t, week.Days[1].Blocks, 1)
	assert.Equal(t, schedule.TimeBlock{Start: 540, Duration: 120}, week.Days[1].Blocks[0])
	require.Len(t, week.Days[3].Blocks, 1)
	// the out of range day_of_week row is dropped
	total := 0
	for _, day := range week.Days {
		total += len(day.Blocks)
	}
	assert.Equal(t, 2, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailabilityRepositoryReplaceWeek(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAvailabilityRepository(db)

	week := schedule.NewWeekSchedule()
	week.Days[1].Blocks = []schedule.TimeBlock{{Start: 540, Duration: 60}, {Start: 660, Duration: 30}}
	week.Days[5].Blocks = []schedule.TimeBlock{{Start: 480, Duration: 120}}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM availability_blocks WHERE owner_id = $1 AND subject_type = $2 AND subject_id = $3")).
		WithArgs("o1", models.SubjectParticipant, "p1").
		WillReturnResult(sqlmock.NewResult(0, 4))
	for _, args := range [][]interface{}{
		{1, 540, 60},
		{1, 660, 30},
		{5, 480, 120},
	} {
		mock.ExpectExec("INSERT INTO availability_blocks").
			WithArgs(sqlmock.AnyArg(), "o1", models.SubjectParticipant, "p1", args[0], args[1], args[2], sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))
	}
	mock.ExpectCommit()

	err := repo.ReplaceWeek(context.Background(), "o1", models.SubjectParticipant, "p1", week)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailabilityRepositoryReplaceWeekRollsBackOnInsertFailure(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAvailabilityRepository(db)

	week := schedule.NewWeekSchedule()
	week.Days[0].Blocks = []schedule.TimeBlock{{Start: 0, Duration: 30}}

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM availability_blocks").
		WithArgs("o1", models.SubjectOwner, "o1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO availability_blocks").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := repo.ReplaceWeek(context.Background(), "o1", models.SubjectOwner, "o1", week)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailabilityRepositoryDeleteWeek(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAvailabilityRepository(db)

	mock.ExpectExec("DELETE FROM availability_blocks").
		WithArgs("o1", models.SubjectParticipant, "p1").
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, repo.DeleteWeek(context.Background(), "o1", models.SubjectParticipant, "p1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
