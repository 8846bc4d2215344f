package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/studioplan/lessongrid-api/internal/dto"
	"github.com/studioplan/lessongrid-api/internal/models"
	"github.com/studioplan/lessongrid-api/internal/schedule"
	appErrors "github.com/studioplan/lessongrid-api/pkg/errors"
)

type assignmentRepository interface {
	ListByOwner(ctx context.Context, ownerID string) ([]models.Assignment, error)
	FindByID(ctx context.Context, id string) (*models.Assignment, error)
	Create(ctx context.Context, assignment *models.Assignment) error
	BulkCreateWithTx(ctx context.Context, tx *sqlx.Tx, assignments []models.Assignment) error
	Delete(ctx context.Context, id string) error
}

type assignmentAvailabilityRepository interface {
	GetWeek(ctx context.Context, ownerID, subjectType, subjectID string) (schedule.WeekSchedule, error)
}

type assignmentParticipantRepository interface {
	FindByID(ctx context.Context, id string) (*models.Participant, error)
}

// txProvider opens transactions for batch writes. *sqlx.DB satisfies it.
type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

// AssignmentService runs the solver and manages committed placements.
type AssignmentService struct {
	repo         assignmentRepository
	availability assignmentAvailabilityRepository
	participants assignmentParticipantRepository
	db           txProvider
	cache        *CacheService
	metrics      *MetricsService
	validator    *validator.Validate
	logger       *zap.Logger
}

// NewAssignmentService constructs the assignment service.
func NewAssignmentService(repo assignmentRepository, availability assignmentAvailabilityRepository, participants assignmentParticipantRepository, db txProvider, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *AssignmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{
		repo:         repo,
		availability: availability,
		participants: participants,
		db:           db,
		cache:        cache,
		metrics:      metrics,
		validator:    validate,
		logger:       logger,
	}
}

// List returns the owner's committed placements, day-major then
// time-ascending.
func (s *AssignmentService) List(ctx context.Context, ownerID string) (*dto.AssignmentListResponse, error) {
	assignments, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}
	if assignments == nil {
		assignments = []models.Assignment{}
	}
	return &dto.AssignmentListResponse{Assignments: assignments}, nil
}

// Solve finds the earliest slot for one participant against the owner's
// availability and the already committed schedule, then persists it.
func (s *AssignmentService) Solve(ctx context.Context, ownerID string, req dto.SolveRequest) (*dto.SolveResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid solve payload")
	}

	person, err := s.loadPerson(ctx, ownerID, req.ParticipantID)
	if err != nil {
		return nil, err
	}
	ownerWeek, committed, err := s.loadSolverInputs(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	booking, err := schedule.Solve(ownerWeek, committed, *person)
	if s.metrics != nil {
		s.metrics.RecordSolverRun(err == nil, time.Since(started))
	}
	if err != nil {
		if errors.Is(err, schedule.ErrNoAvailableSlot) {
			return nil, appErrors.Clone(appErrors.ErrSlotUnavailable, "no available slot for requested duration")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "solver failed")
	}

	assignment := &models.Assignment{
		OwnerID:       ownerID,
		ParticipantID: booking.ParticipantID,
		DayOfWeek:     booking.Day,
		StartMinute:   booking.Start,
		DurationMins:  booking.Duration,
		Source:        models.AssignmentSourceSolver,
	}
	if err := s.repo.Create(ctx, assignment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist assignment")
	}

	s.cache.InvalidateOwner(ctx, ownerID)
	return &dto.SolveResponse{AssignmentID: assignment.ID, Booking: booking}, nil
}

// SolveBatch places a list of participants in the given order. Successful
// placements immediately constrain the rest of the batch. Participants that
// cannot fit are reported, not failed, and every placement that did fit is
// committed in one transaction.
func (s *AssignmentService) SolveBatch(ctx context.Context, ownerID string, req dto.SolveBatchRequest) (*dto.SolveBatchResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid batch payload")
	}

	people := make([]schedule.Person, 0, len(req.ParticipantIDs))
	for _, id := range req.ParticipantIDs {
		person, err := s.loadPerson(ctx, ownerID, id)
		if err != nil {
			return nil, err
		}
		people = append(people, *person)
	}

	ownerWeek, committed, err := s.loadSolverInputs(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	solution := schedule.SolveBatch(ownerWeek, committed, people)
	if s.metrics != nil {
		s.metrics.RecordBatchSolve(len(people), time.Since(started))
	}

	rows := make([]models.Assignment, 0, len(solution.Assignments))
	for _, a := range solution.Assignments {
		rows = append(rows, models.Assignment{
			OwnerID:       ownerID,
			ParticipantID: a.ParticipantID,
			DayOfWeek:     a.DayOfWeek,
			StartMinute:   a.StartMinute,
			DurationMins:  a.DurationMins,
			Source:        models.AssignmentSourceSolver,
		})
	}

	ids := make([]string, 0, len(rows))
	if len(rows) > 0 {
		tx, err := s.db.BeginTxx(ctx, nil)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open transaction")
		}
		if err := s.repo.BulkCreateWithTx(ctx, tx, rows); err != nil {
			_ = tx.Rollback()
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist batch")
		}
		if err := tx.Commit(); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit batch")
		}
		for _, row := range rows {
			ids = append(ids, row.ID)
		}
	}

	s.cache.InvalidateOwner(ctx, ownerID)
	s.logger.Info("batch solve finished",
		zap.String("owner_id", ownerID),
		zap.Int("requested", len(people)),
		zap.Int("scheduled", solution.Meta.ScheduledParticipants),
		zap.Strings("unscheduled", solution.Unscheduled))
	return &dto.SolveBatchResponse{Solution: solution, AssignmentIDs: ids}, nil
}

// Remove deletes one placement, scoped to the owner.
func (s *AssignmentService) Remove(ctx context.Context, ownerID, id string) error {
	assignment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment")
	}
	if assignment.OwnerID != ownerID {
		return appErrors.Clone(appErrors.ErrForbidden, "assignment belongs to another owner")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete assignment")
	}
	s.cache.InvalidateOwner(ctx, ownerID)
	return nil
}

func (s *AssignmentService) loadPerson(ctx context.Context, ownerID, participantID string) (*schedule.Person, error) {
	participant, err := s.participants.FindByID(ctx, participantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "participant not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load participant")
	}
	if participant.OwnerID != ownerID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "participant belongs to another owner")
	}
	if !participant.Active {
		return nil, appErrors.Clone(appErrors.ErrValidation, "participant is inactive")
	}
	return &schedule.Person{
		ID:              participant.ID,
		Name:            participant.FullName,
		RequiredMinutes: participant.RequiredMinutes,
	}, nil
}

func (s *AssignmentService) loadSolverInputs(ctx context.Context, ownerID string) (schedule.WeekSchedule, []schedule.Booking, error) {
	ownerWeek, err := s.availability.GetWeek(ctx, ownerID, models.SubjectOwner, ownerID)
	if err != nil {
		return schedule.WeekSchedule{}, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load owner availability")
	}
	assignments, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return schedule.WeekSchedule{}, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load committed schedule")
	}
	committed := make([]schedule.Booking, 0, len(assignments))
	for _, a := range assignments {
		committed = append(committed, schedule.Booking{
			ParticipantID: a.ParticipantID,
			Day:           a.DayOfWeek,
			Start:         a.StartMinute,
			Duration:      a.DurationMins,
		})
	}
	return ownerWeek, committed, nil
}
