package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/studioplan/lessongrid-api/internal/dto"
	"github.com/studioplan/lessongrid-api/internal/models"
	"github.com/studioplan/lessongrid-api/internal/schedule"
	appErrors "github.com/studioplan/lessongrid-api/pkg/errors"
)

type analysisAssignmentRepository interface {
	ListByOwner(ctx context.Context, ownerID string) ([]models.Assignment, error)
}

type analysisAvailabilityRepository interface {
	GetWeek(ctx context.Context, ownerID, subjectType, subjectID string) (schedule.WeekSchedule, error)
}

// AnalysisService runs the conflict and utilization analyzers over the
// committed schedule. Results are cached until the next schedule write.
type AnalysisService struct {
	assignments  analysisAssignmentRepository
	availability analysisAvailabilityRepository
	cache        *CacheService
	cacheTTL     time.Duration
	logger       *zap.Logger
}

// NewAnalysisService constructs the analysis service.
func NewAnalysisService(assignments analysisAssignmentRepository, availability analysisAvailabilityRepository, cache *CacheService, cacheTTL time.Duration, logger *zap.Logger) *AnalysisService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalysisService{assignments: assignments, availability: availability, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

// Conflicts lists every pairwise same-day overlap between committed
// placements. Overlap groups are pairs; one assignment may appear in several.
func (s *AnalysisService) Conflicts(ctx context.Context, ownerID string) (*dto.ConflictsResponse, error) {
	key := AnalysisKey(ownerID, "conflicts")
	var cached dto.ConflictsResponse
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, nil
	}

	assignments, err := s.loadEngineAssignments(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	groups := schedule.DetectConflicts(assignments)
	if groups == nil {
		groups = []schedule.ConflictGroup{}
	}
	resp := &dto.ConflictsResponse{Groups: groups, Count: len(groups)}
	_ = s.cache.Set(ctx, key, resp, s.cacheTTL)
	return resp, nil
}

// Utilization reports scheduled load against declared owner availability.
func (s *AnalysisService) Utilization(ctx context.Context, ownerID string) (*dto.UtilizationResponse, error) {
	key := AnalysisKey(ownerID, "utilization")
	var cached dto.UtilizationResponse
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, nil
	}

	assignments, err := s.loadEngineAssignments(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	ownerWeek, err := s.availability.GetWeek(ctx, ownerID, models.SubjectOwner, ownerID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load owner availability")
	}

	solution := schedule.ScheduleSolution{
		Assignments: assignments,
		Meta: schedule.SolutionMeta{
			TotalParticipants:     len(assignments),
			ScheduledParticipants: len(assignments),
		},
	}
	resp := &dto.UtilizationResponse{Report: schedule.CalculateUtilization(solution, ownerWeek)}
	_ = s.cache.Set(ctx, key, resp, s.cacheTTL)
	return resp, nil
}

func (s *AnalysisService) loadEngineAssignments(ctx context.Context, ownerID string) ([]schedule.LessonAssignment, error) {
	rows, err := s.assignments.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignments")
	}
	assignments := make([]schedule.LessonAssignment, 0, len(rows))
	for _, row := range rows {
		assignments = append(assignments, schedule.LessonAssignment{
			ParticipantID: row.ParticipantID,
			DayOfWeek:     row.DayOfWeek,
			StartMinute:   row.StartMinute,
			DurationMins:  row.DurationMins,
		})
	}
	return assignments, nil
}
