package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/studioplan/lessongrid-api/internal/dto"
	"github.com/studioplan/lessongrid-api/internal/models"
	"github.com/studioplan/lessongrid-api/internal/schedule"
	appErrors "github.com/studioplan/lessongrid-api/pkg/errors"
)

type availabilityRepository interface {
	GetWeek(ctx context.Context, ownerID, subjectType, subjectID string) (schedule.WeekSchedule, error)
	ReplaceWeek(ctx context.Context, ownerID, subjectType, subjectID string, week schedule.WeekSchedule) error
	DeleteWeek(ctx context.Context, ownerID, subjectType, subjectID string) error
}

type availabilityAssignmentRepository interface {
	ListByOwner(ctx context.Context, ownerID string) ([]models.Assignment, error)
	DeleteByIDs(ctx context.Context, ids []string) error
}

// AvailabilityService manages declared weekly availability and the derived
// drop-zone queries.
type AvailabilityService struct {
	repo        availabilityRepository
	assignments availabilityAssignmentRepository
	cache       *CacheService
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewAvailabilityService constructs the availability service.
func NewAvailabilityService(repo availabilityRepository, assignments availabilityAssignmentRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *AvailabilityService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AvailabilityService{repo: repo, assignments: assignments, cache: cache, validator: validate, logger: logger}
}

// GetWeek returns a subject's declared availability.
func (s *AvailabilityService) GetWeek(ctx context.Context, ownerID, subjectType, subjectID string) (*dto.AvailabilityResponse, error) {
	week, err := s.repo.GetWeek(ctx, ownerID, subjectType, subjectID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load availability")
	}
	return &dto.AvailabilityResponse{SubjectType: subjectType, SubjectID: subjectID, Week: week}, nil
}

// GetWeekLegacy returns the week in the day-name-keyed interchange format.
func (s *AvailabilityService) GetWeekLegacy(ctx context.Context, ownerID, subjectType, subjectID string) (*dto.AvailabilityLegacyResponse, error) {
	week, err := s.repo.GetWeek(ctx, ownerID, subjectType, subjectID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load availability")
	}
	return &dto.AvailabilityLegacyResponse{SubjectType: subjectType, SubjectID: subjectID, Schedule: schedule.ToDayMap(week)}, nil
}

// PutWeek replaces a subject's declared week. Every block is validated before
// any write happens and all problems are reported at once. Committed
// placements that stop fitting the new availability are removed and their ids
// returned to the caller.
func (s *AvailabilityService) PutWeek(ctx context.Context, ownerID, subjectType, subjectID string, req dto.PutAvailabilityRequest) (*dto.PutAvailabilityResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid availability payload")
	}
	return s.putWeek(ctx, ownerID, subjectType, subjectID, req.Week())
}

// PutWeekLegacy replaces a week supplied in the day-name-keyed format.
// Unknown day names and malformed ranges are dropped, matching reads.
func (s *AvailabilityService) PutWeekLegacy(ctx context.Context, ownerID, subjectType, subjectID string, req dto.PutAvailabilityLegacyRequest) (*dto.PutAvailabilityResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid availability payload")
	}
	return s.putWeek(ctx, ownerID, subjectType, subjectID, schedule.FromDayMap(req.Schedule))
}

func (s *AvailabilityService) putWeek(ctx context.Context, ownerID, subjectType, subjectID string, week schedule.WeekSchedule) (*dto.PutAvailabilityResult, error) {
	if issues := schedule.ValidateWeekSchedule(week); len(issues) > 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, formatIssues(issues))
	}

	// Touching and overlapping blocks collapse into canonical intervals
	// before they are persisted.
	for day := range week.Days {
		week.Days[day].Blocks = schedule.MergeTimeBlocks(week.Days[day].Blocks)
	}

	if err := s.repo.ReplaceWeek(ctx, ownerID, subjectType, subjectID, week); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store availability")
	}

	removed, err := s.pruneInvalidAssignments(ctx, ownerID, subjectType, subjectID)
	if err != nil {
		s.logger.Warn("failed to prune assignments after availability change",
			zap.String("owner_id", ownerID), zap.Error(err))
	}

	s.cache.InvalidateOwner(ctx, ownerID)
	return &dto.PutAvailabilityResult{Week: week, RemovedAssignments: removed}, nil
}

// pruneInvalidAssignments removes committed placements that no longer sit
// inside the intersection of owner and participant availability. A party
// that has declared nothing is not treated as a constraint, mirroring how
// drops behave on incomplete data.
func (s *AvailabilityService) pruneInvalidAssignments(ctx context.Context, ownerID, subjectType, subjectID string) ([]string, error) {
	assignments, err := s.assignments.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if len(assignments) == 0 {
		return []string{}, nil
	}

	ownerWeek, err := s.repo.GetWeek(ctx, ownerID, models.SubjectOwner, ownerID)
	if err != nil {
		return nil, err
	}

	participantWeeks := map[string]schedule.WeekSchedule{}
	removed := []string{}
	for _, a := range assignments {
		if subjectType == models.SubjectParticipant && a.ParticipantID != subjectID {
			continue
		}
		pWeek, ok := participantWeeks[a.ParticipantID]
		if !ok {
			pWeek, err = s.repo.GetWeek(ctx, ownerID, models.SubjectParticipant, a.ParticipantID)
			if err != nil {
				return nil, err
			}
			participantWeeks[a.ParticipantID] = pWeek
		}
		if placementStillFits(a, ownerWeek, pWeek) {
			continue
		}
		removed = append(removed, a.ID)
	}

	if len(removed) > 0 {
		if err := s.assignments.DeleteByIDs(ctx, removed); err != nil {
			return nil, err
		}
		s.logger.Info("removed assignments invalidated by availability change",
			zap.String("owner_id", ownerID), zap.Int("count", len(removed)))
	}
	return removed, nil
}

func placementStillFits(a models.Assignment, ownerWeek, participantWeek schedule.WeekSchedule) bool {
	ownerEmpty := schedule.IsEmpty(ownerWeek)
	participantEmpty := schedule.IsEmpty(participantWeek)
	switch {
	case ownerEmpty && participantEmpty:
		return true
	case ownerEmpty:
		return schedule.IsValidPlacement(a.DayOfWeek, a.StartMinute, a.DurationMins, participantWeek, participantWeek)
	case participantEmpty:
		return schedule.IsValidPlacement(a.DayOfWeek, a.StartMinute, a.DurationMins, ownerWeek, ownerWeek)
	default:
		return schedule.IsValidPlacement(a.DayOfWeek, a.StartMinute, a.DurationMins, ownerWeek, participantWeek)
	}
}

// DropZones computes the merged intervals and discrete start positions where
// a participant's lesson may land on one day. Results are cached per owner
// until the next schedule write.
func (s *AvailabilityService) DropZones(ctx context.Context, ownerID string, query dto.DropZonesQuery) (*dto.DropZonesResponse, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid drop zone query")
	}

	key := DropZoneKey(ownerID, query.ParticipantID, query.Day, query.Duration)
	var cached dto.DropZonesResponse
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, nil
	}

	ownerWeek, err := s.repo.GetWeek(ctx, ownerID, models.SubjectOwner, ownerID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load owner availability")
	}
	participantWeek, err := s.repo.GetWeek(ctx, ownerID, models.SubjectParticipant, query.ParticipantID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load participant availability")
	}

	resp := &dto.DropZonesResponse{
		Day:       query.Day,
		Duration:  query.Duration,
		Zones:     schedule.ValidDropZones(query.Day, query.Duration, ownerWeek, participantWeek),
		Positions: schedule.ValidDropPositions(query.Day, query.Duration, ownerWeek, participantWeek),
	}
	_ = s.cache.Set(ctx, key, resp, 0)
	return resp, nil
}

func formatIssues(issues []schedule.ValidationIssue) string {
	parts := make([]string, 0, len(issues))
	for _, issue := range issues {
		parts = append(parts, fmt.Sprintf("%s day=%d block=%d: %s", issue.Code, issue.Day, issue.Block, issue.Message))
	}
	return "invalid availability: " + strings.Join(parts, "; ")
}
