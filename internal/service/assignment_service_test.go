package service

import (
	"context"
	"database/sql"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/studioplan/lessongrid-api/internal/dto"
	"github.com/studioplan/lessongrid-api/internal/models"
	"github.com/studioplan/lessongrid-api/internal/schedule"
	appErrors "github.com/studioplan/lessongrid-api/pkg/errors"
)

type mockAssignmentStore struct {
	assignments []models.Assignment
	bulk        []models.Assignment
	deleted     []string
}

func (m *mockAssignmentStore) ListByOwner(ctx context.Context, ownerID string) ([]models.Assignment, error) {
	return m.assignments, nil
}

func (m *mockAssignmentStore) FindByID(ctx context.Context, id string) (*models.Assignment, error) {
	for _, a := range m.assignments {
		if a.ID == id {
			found := a
			return &found, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockAssignmentStore) Create(ctx context.Context, assignment *models.Assignment) error {
	if assignment.ID == "" {
		assignment.ID = "generated"
	}
	m.assignments = append(m.assignments, *assignment)
	return nil
}

func (m *mockAssignmentStore) BulkCreateWithTx(ctx context.Context, tx *sqlx.Tx, assignments []models.Assignment) error {
	for i := range assignments {
		if assignments[i].ID == "" {
			assignments[i].ID = "bulk"
		}
	}
	m.bulk = append(m.bulk, assignments...)
	return nil
}

func (m *mockAssignmentStore) Delete(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockAssignmentStore) UpdatePlacement(ctx context.Context, id string, dayOfWeek, startMinute int) error {
	for i := range m.assignments {
		if m.assignments[i].ID == id {
			m.assignments[i].DayOfWeek = dayOfWeek
			m.assignments[i].StartMinute = startMinute
			m.assignments[i].Source = models.AssignmentSourceManual
		}
	}
	return nil
}

type mockParticipantStore struct {
	participants map[string]models.Participant
}

func (m *mockParticipantStore) FindByID(ctx context.Context, id string) (*models.Participant, error) {
	if p, ok := m.participants[id]; ok {
		found := p
		return &found, nil
	}
	return nil, sql.ErrNoRows
}

func testTxDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func mapWeeks(subjectType, subjectID string, week schedule.WeekSchedule) map[string]schedule.WeekSchedule {
	return map[string]schedule.WeekSchedule{weekKey(subjectType, subjectID): week}
}

func activeParticipant(id string, minutes int) models.Participant {
	return models.Participant{ID: id, OwnerID: "o1", FullName: "P " + id, RequiredMinutes: minutes, Active: true}
}

func newAssignmentService(repo *mockAssignmentStore, weeks *mockWeekRepo, people *mockParticipantStore, db txProvider) *AssignmentService {
	return NewAssignmentService(repo, weeks, people, db, nil, nil, validator.New(), zap.NewNop())
}

func TestAssignmentServiceSolvePlacesEarliestSlot(t *testing.T) {
	repo := &mockAssignmentStore{}
	svc := newAssignmentService(repo,
		&mockWeekRepo{weeks: mapWeeks(models.SubjectOwner, "o1", ownerBlock(1, 540, 60))},
		&mockParticipantStore{participants: map[string]models.Participant{"p1": activeParticipant("p1", 30)}},
		nil)

	resp, err := svc.Solve(context.Background(), "o1", dto.SolveRequest{ParticipantID: "p1"})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Booking.Day)
	assert.Equal(t, 540, resp.Booking.Start)
	assert.Equal(t, 30, resp.Booking.Duration)
	require.Len(t, repo.assignments, 1)
	assert.Equal(t, models.AssignmentSourceSolver, repo.assignments[0].Source)
}

func TestAssignmentServiceSolveRespectsCommittedBookings(t *testing.T) {
	repo := &mockAssignmentStore{assignments: []models.Assignment{
		{ID: "a1", OwnerID: "o1", ParticipantID: "p0", DayOfWeek: 1, StartMinute: 540, DurationMins: 30},
	}}
	svc := newAssignmentService(repo,
		&mockWeekRepo{weeks: mapWeeks(models.SubjectOwner, "o1", ownerBlock(1, 540, 60))},
		&mockParticipantStore{participants: map[string]models.Participant{"p1": activeParticipant("p1", 30)}},
		nil)

	resp, err := svc.Solve(context.Background(), "o1", dto.SolveRequest{ParticipantID: "p1"})
	require.NoError(t, err)
	assert.Equal(t, 570, resp.Booking.Start)
}

func TestAssignmentServiceSolveNoSlot(t *testing.T) {
	repo := &mockAssignmentStore{assignments: []models.Assignment{
		{ID: "a1", OwnerID: "o1", ParticipantID: "p0", DayOfWeek: 1, StartMinute: 540, DurationMins: 60},
	}}
	svc := newAssignmentService(repo,
		&mockWeekRepo{weeks: mapWeeks(models.SubjectOwner, "o1", ownerBlock(1, 540, 60))},
		&mockParticipantStore{participants: map[string]models.Participant{"p1": activeParticipant("p1", 30)}},
		nil)

	_, err := svc.Solve(context.Background(), "o1", dto.SolveRequest{ParticipantID: "p1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrSlotUnavailable.Code, appErrors.FromError(err).Code)
}

func TestAssignmentServiceSolveInactiveParticipant(t *testing.T) {
	svc := newAssignmentService(&mockAssignmentStore{},
		&mockWeekRepo{},
		&mockParticipantStore{participants: map[string]models.Participant{
			"p1": {ID: "p1", OwnerID: "o1", RequiredMinutes: 30, Active: false},
		}},
		nil)

	_, err := svc.Solve(context.Background(), "o1", dto.SolveRequest{ParticipantID: "p1"})
	require.Error(t, err)
}

func TestAssignmentServiceSolveBatchCommitsAndReportsUnscheduled(t *testing.T) {
	db, mock := testTxDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	repo := &mockAssignmentStore{}
	svc := newAssignmentService(repo,
		&mockWeekRepo{weeks: mapWeeks(models.SubjectOwner, "o1", ownerBlock(1, 540, 60))},
		&mockParticipantStore{participants: map[string]models.Participant{
			"p1": activeParticipant("p1", 30),
			"p2": activeParticipant("p2", 30),
			"p3": activeParticipant("p3", 30),
		}},
		db)

	resp, err := svc.SolveBatch(context.Background(), "o1", dto.SolveBatchRequest{ParticipantIDs: []string{"p1", "p2", "p3"}})
	require.NoError(t, err)
	assert.Len(t, resp.Solution.Assignments, 2)
	assert.Equal(t, []string{"p3"}, resp.Solution.Unscheduled)
	assert.Len(t, repo.bulk, 2)
	assert.Len(t, resp.AssignmentIDs, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentServiceRemoveScopesOwner(t *testing.T) {
	repo := &mockAssignmentStore{assignments: []models.Assignment{
		{ID: "a1", OwnerID: "someone-else", ParticipantID: "p1"},
	}}
	svc := newAssignmentService(repo, &mockWeekRepo{}, &mockParticipantStore{}, nil)

	err := svc.Remove(context.Background(), "o1", "a1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.deleted)
}
