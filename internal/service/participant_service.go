package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/studioplan/lessongrid-api/internal/dto"
	"github.com/studioplan/lessongrid-api/internal/models"
	appErrors "github.com/studioplan/lessongrid-api/pkg/errors"
)

type participantRepository interface {
	List(ctx context.Context, filter models.ParticipantFilter) ([]models.Participant, int, error)
	FindByID(ctx context.Context, id string) (*models.Participant, error)
	Create(ctx context.Context, participant *models.Participant) error
	Update(ctx context.Context, participant *models.Participant) error
	Deactivate(ctx context.Context, id string) error
}

type participantAssignmentRepository interface {
	DeleteByParticipant(ctx context.Context, participantID string) error
}

type participantAvailabilityRepository interface {
	DeleteWeek(ctx context.Context, ownerID, subjectType, subjectID string) error
}

// ParticipantService handles the student roster.
type ParticipantService struct {
	repo          participantRepository
	assignments   participantAssignmentRepository
	availability  participantAvailabilityRepository
	cache         *CacheService
	validator     *validator.Validate
	logger        *zap.Logger
}

// NewParticipantService constructs the participant service.
func NewParticipantService(repo participantRepository, assignments participantAssignmentRepository, availability participantAvailabilityRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *ParticipantService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ParticipantService{repo: repo, assignments: assignments, availability: availability, cache: cache, validator: validate, logger: logger}
}

// List returns participants and pagination metadata.
func (s *ParticipantService) List(ctx context.Context, ownerID string, query dto.ParticipantListQuery) ([]models.Participant, *models.Pagination, error) {
	filter := models.ParticipantFilter{
		OwnerID:    ownerID,
		ActiveOnly: query.ActiveOnly,
		Search:     query.Search,
		Page:       query.Page,
		PageSize:   query.PageSize,
	}
	participants, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list participants")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return participants, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns one participant, scoped to the owner.
func (s *ParticipantService) Get(ctx context.Context, ownerID, id string) (*models.Participant, error) {
	participant, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "participant not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load participant")
	}
	if participant.OwnerID != ownerID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "participant belongs to another owner")
	}
	return participant, nil
}

// Create registers a new participant.
func (s *ParticipantService) Create(ctx context.Context, ownerID string, req dto.CreateParticipantRequest) (*models.Participant, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid participant payload")
	}
	participant := &models.Participant{
		OwnerID:         ownerID,
		FullName:        req.FullName,
		Email:           req.Email,
		RequiredMinutes: req.RequiredMinutes,
		Active:          true,
	}
	if err := s.repo.Create(ctx, participant); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create participant")
	}
	return participant, nil
}

// Update edits an existing participant.
func (s *ParticipantService) Update(ctx context.Context, ownerID, id string, req dto.UpdateParticipantRequest) (*models.Participant, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid participant payload")
	}
	participant, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	participant.FullName = req.FullName
	participant.Email = req.Email
	participant.RequiredMinutes = req.RequiredMinutes
	if err := s.repo.Update(ctx, participant); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update participant")
	}
	s.cache.InvalidateOwner(ctx, ownerID)
	return participant, nil
}

// Remove deactivates a participant and clears their placements and
// declared availability.
func (s *ParticipantService) Remove(ctx context.Context, ownerID, id string) error {
	if _, err := s.Get(ctx, ownerID, id); err != nil {
		return err
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate participant")
	}
	if err := s.assignments.DeleteByParticipant(ctx, id); err != nil {
		s.logger.Warn("failed to delete participant assignments", zap.String("participant_id", id), zap.Error(err))
	}
	if err := s.availability.DeleteWeek(ctx, ownerID, models.SubjectParticipant, id); err != nil {
		s.logger.Warn("failed to delete participant availability", zap.String("participant_id", id), zap.Error(err))
	}
	s.cache.InvalidateOwner(ctx, ownerID)
	return nil
}
