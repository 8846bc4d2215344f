package service

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/studioplan/lessongrid-api/internal/dto"
	"github.com/studioplan/lessongrid-api/internal/models"
	"github.com/studioplan/lessongrid-api/internal/schedule"
	appErrors "github.com/studioplan/lessongrid-api/pkg/errors"
)

// Interaction states for one placement session.
const (
	StateIdle              = "IDLE"
	StateCreatingSelection = "CREATING_SELECTION"
	StateDraggingBlock     = "DRAGGING_BLOCK"
	StateEditingBlock      = "EDITING_BLOCK"
)

type placementAssignmentRepository interface {
	ListByOwner(ctx context.Context, ownerID string) ([]models.Assignment, error)
	FindByID(ctx context.Context, id string) (*models.Assignment, error)
	UpdatePlacement(ctx context.Context, id string, dayOfWeek, startMinute int) error
}

type placementAvailabilityRepository interface {
	GetWeek(ctx context.Context, ownerID, subjectType, subjectID string) (schedule.WeekSchedule, error)
}

type placementSession struct {
	ID            string
	OwnerID       string
	State         string
	SnapMode      schedule.SnapMode
	AssignmentID  string
	ParticipantID string
	Duration      int
	LastPlacedID  string
	SelectionDay  int
	Anchor        int
	Cursor        int
	TouchedAt     time.Time
}

type sessionStore struct {
	ttl   time.Duration
	mu    sync.RWMutex
	items map[string]placementSession
}

func newSessionStore(ttl time.Duration) *sessionStore {
	return &sessionStore{ttl: ttl, items: make(map[string]placementSession)}
}

func (s *sessionStore) Save(session placementSession) {
	session.TouchedAt = time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[session.ID] = session
}

func (s *sessionStore) Get(id string) (placementSession, bool) {
	s.mu.RLock()
	session, ok := s.items[id]
	s.mu.RUnlock()
	if !ok {
		return placementSession{}, false
	}
	if time.Since(session.TouchedAt) > s.ttl {
		s.Delete(id)
		return placementSession{}, false
	}
	return session, true
}

func (s *sessionStore) Delete(id string) {
	s.mu.Lock()
	delete(s.items, id)
	s.mu.Unlock()
}

// PlacementService owns the drag and drop interaction flow. Sessions live in
// memory with a TTL; the engine stays pure and every accepted drop is
// persisted through the assignment repository.
type PlacementService struct {
	assignments  placementAssignmentRepository
	availability placementAvailabilityRepository
	store        *sessionStore
	cache        *CacheService
	metrics      *MetricsService
	defaultSnap  schedule.SnapMode
	validator    *validator.Validate
	logger       *zap.Logger
}

// NewPlacementService constructs the placement service.
func NewPlacementService(assignments placementAssignmentRepository, availability placementAvailabilityRepository, cache *CacheService, metrics *MetricsService, defaultSnapMode string, sessionTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *PlacementService {
	if sessionTTL <= 0 {
		sessionTTL = 30 * time.Minute
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlacementService{
		assignments:  assignments,
		availability: availability,
		store:        newSessionStore(sessionTTL),
		cache:        cache,
		metrics:      metrics,
		defaultSnap:  schedule.ParseSnapMode(defaultSnapMode),
		validator:    validate,
		logger:       logger,
	}
}

// CreateSession opens an idle interaction session for one owner.
func (s *PlacementService) CreateSession(ctx context.Context, ownerID string, req dto.CreatePlacementSessionRequest) (*dto.PlacementSessionResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid session payload")
	}
	mode := s.defaultSnap
	if req.SnapMode != "" {
		mode = schedule.ParseSnapMode(req.SnapMode)
	}
	session := placementSession{
		ID:       uuid.NewString(),
		OwnerID:  ownerID,
		State:    StateIdle,
		SnapMode: mode,
	}
	s.store.Save(session)
	return sessionResponse(session), nil
}

// BeginSelection starts sweeping out a new availability interval.
func (s *PlacementService) BeginSelection(ctx context.Context, ownerID string, req dto.BeginSelectionRequest) (*dto.SelectionResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid selection payload")
	}
	session, err := s.session(ownerID, req.SessionID, StateIdle)
	if err != nil {
		return nil, err
	}
	session.State = StateCreatingSelection
	session.SelectionDay = req.Day
	session.Anchor = req.Anchor
	session.Cursor = req.Anchor
	s.store.Save(session)
	return selectionResponse(session), nil
}

// UpdateSelection moves the free edge of an in-progress selection.
func (s *PlacementService) UpdateSelection(ctx context.Context, ownerID string, req dto.UpdateSelectionRequest) (*dto.SelectionResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid selection payload")
	}
	session, err := s.session(ownerID, req.SessionID, StateCreatingSelection)
	if err != nil {
		return nil, err
	}
	session.Cursor = req.Cursor
	s.store.Save(session)
	return selectionResponse(session), nil
}

// EndSelection finishes a selection and returns the normalized interval.
// Persisting it is the availability endpoint's job; the session goes idle.
func (s *PlacementService) EndSelection(ctx context.Context, ownerID, sessionID string) (*dto.SelectionResponse, error) {
	session, err := s.session(ownerID, sessionID, StateCreatingSelection)
	if err != nil {
		return nil, err
	}
	resp := selectionResponse(session)
	session.State = StateIdle
	s.store.Save(session)
	return resp, nil
}

// BeginDrag lifts one committed placement into the dragging state.
func (s *PlacementService) BeginDrag(ctx context.Context, ownerID string, req dto.BeginDragRequest) (*dto.PlacementSessionResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid drag payload")
	}
	session, err := s.session(ownerID, req.SessionID, StateIdle)
	if err != nil {
		return nil, err
	}
	assignment, err := s.ownedAssignment(ctx, ownerID, req.AssignmentID)
	if err != nil {
		return nil, err
	}
	// Re-grabbing the block this session just placed is an edit of that
	// placement rather than a fresh drag.
	session.State = StateDraggingBlock
	if assignment.ID == session.LastPlacedID {
		session.State = StateEditingBlock
	}
	session.AssignmentID = assignment.ID
	session.ParticipantID = assignment.ParticipantID
	session.Duration = assignment.DurationMins
	s.store.Save(session)
	return sessionResponse(session), nil
}

// Preview returns the snapped landing minute for the in-flight drag and
// whether a drop there would be accepted. Nothing is persisted.
func (s *PlacementService) Preview(ctx context.Context, ownerID string, req dto.PreviewRequest) (*dto.PreviewResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid preview payload")
	}
	session, err := s.session(ownerID, req.SessionID, StateDraggingBlock, StateEditingBlock)
	if err != nil {
		return nil, err
	}

	ownerWeek, participantWeek, err := s.loadWeeks(ctx, ownerID, session.ParticipantID)
	if err != nil {
		return nil, err
	}

	snapped := schedule.SnapStart(session.SnapMode, req.Day, req.Start, session.Duration, ownerWeek, participantWeek)
	valid := true
	if ownerWeek != nil && participantWeek != nil {
		valid = schedule.IsValidPlacement(req.Day, snapped, session.Duration, *ownerWeek, *participantWeek)
	}
	s.store.Save(session)
	return &dto.PreviewResponse{Day: req.Day, SnappedStart: snapped, Valid: valid}, nil
}

// Drop commits the in-flight drag. A rejected drop is a normal outcome: the
// schedule is untouched and accepted=false tells the caller to snap back.
func (s *PlacementService) Drop(ctx context.Context, ownerID string, req dto.DropRequest) (*dto.DropResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid drop payload")
	}
	session, err := s.session(ownerID, req.SessionID, StateDraggingBlock, StateEditingBlock)
	if err != nil {
		return nil, err
	}

	assignments, err := s.assignments.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignments")
	}
	week, fromDay, fromIndex, found := assignmentWeek(assignments, session.AssignmentID)
	if !found {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "dragged assignment no longer exists")
	}

	ownerWeek, participantWeek, err := s.loadWeeks(ctx, ownerID, session.ParticipantID)
	if err != nil {
		return nil, err
	}

	snapped := schedule.SnapStart(session.SnapMode, req.ToDay, req.ToStart, session.Duration, ownerWeek, participantWeek)
	move := schedule.MoveRequest{FromDay: fromDay, FromIndex: fromIndex, ToDay: req.ToDay, ToStart: snapped}
	_, accepted := schedule.MoveAssignment(week, move, ownerWeek, participantWeek)

	if s.metrics != nil {
		s.metrics.RecordPlacementDrop(accepted)
	}

	assignmentID := session.AssignmentID
	session.State = StateIdle
	session.AssignmentID = ""
	session.ParticipantID = ""
	session.Duration = 0
	if accepted {
		session.LastPlacedID = assignmentID
	}
	s.store.Save(session)

	if !accepted {
		return &dto.DropResponse{Accepted: false, DayOfWeek: fromDay, StartMinute: week.Days[fromDay].Blocks[fromIndex].Start}, nil
	}

	if err := s.assignments.UpdatePlacement(ctx, assignmentID, req.ToDay, snapped); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist placement")
	}
	s.cache.InvalidateOwner(ctx, ownerID)
	return &dto.DropResponse{Accepted: true, DayOfWeek: req.ToDay, StartMinute: snapped}, nil
}

// Cancel aborts whatever interaction is in flight and returns the session
// to idle.
func (s *PlacementService) Cancel(ctx context.Context, ownerID, sessionID string) (*dto.PlacementSessionResponse, error) {
	session, ok := s.store.Get(sessionID)
	if !ok || session.OwnerID != ownerID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "placement session not found")
	}
	session.State = StateIdle
	session.AssignmentID = ""
	session.ParticipantID = ""
	session.Duration = 0
	s.store.Save(session)
	return sessionResponse(session), nil
}

func (s *PlacementService) session(ownerID, sessionID string, wantStates ...string) (placementSession, error) {
	session, ok := s.store.Get(sessionID)
	if !ok || session.OwnerID != ownerID {
		return placementSession{}, appErrors.Clone(appErrors.ErrNotFound, "placement session not found")
	}
	for _, want := range wantStates {
		if session.State == want {
			return session, nil
		}
	}
	return placementSession{}, appErrors.Clone(appErrors.ErrConflict, "session is in state "+session.State)
}

func (s *PlacementService) ownedAssignment(ctx context.Context, ownerID, id string) (*models.Assignment, error) {
	assignment, err := s.assignments.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment")
	}
	if assignment.OwnerID != ownerID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "assignment belongs to another owner")
	}
	return assignment, nil
}

// loadWeeks returns nil weeks for parties without declared availability so
// the engine's legacy-accept path applies to incomplete data.
func (s *PlacementService) loadWeeks(ctx context.Context, ownerID, participantID string) (*schedule.WeekSchedule, *schedule.WeekSchedule, error) {
	ownerWeek, err := s.availability.GetWeek(ctx, ownerID, models.SubjectOwner, ownerID)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load owner availability")
	}
	participantWeek, err := s.availability.GetWeek(ctx, ownerID, models.SubjectParticipant, participantID)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load participant availability")
	}
	var ownerPtr, participantPtr *schedule.WeekSchedule
	if !schedule.IsEmpty(ownerWeek) {
		ownerPtr = &ownerWeek
	}
	if !schedule.IsEmpty(participantWeek) {
		participantPtr = &participantWeek
	}
	return ownerPtr, participantPtr, nil
}

// assignmentWeek projects the committed assignment list into the engine's
// week shape and locates the dragged block by (day, index).
func assignmentWeek(assignments []models.Assignment, assignmentID string) (schedule.WeekSchedule, int, int, bool) {
	week := schedule.NewWeekSchedule()
	fromDay, fromIndex := -1, -1
	for _, a := range assignments {
		if a.DayOfWeek < 0 || a.DayOfWeek > 6 {
			continue
		}
		week.Days[a.DayOfWeek].Blocks = append(week.Days[a.DayOfWeek].Blocks, schedule.TimeBlock{
			Start:    a.StartMinute,
			Duration: a.DurationMins,
			Meta:     &schedule.BlockMeta{ParticipantID: a.ParticipantID},
		})
		if a.ID == assignmentID {
			fromDay = a.DayOfWeek
			fromIndex = len(week.Days[a.DayOfWeek].Blocks) - 1
		}
	}
	return week, fromDay, fromIndex, fromDay >= 0
}

func sessionResponse(session placementSession) *dto.PlacementSessionResponse {
	return &dto.PlacementSessionResponse{
		SessionID: session.ID,
		SnapMode:  string(session.SnapMode),
		State:     session.State,
	}
}

func selectionResponse(session placementSession) *dto.SelectionResponse {
	start, end := session.Anchor, session.Cursor
	if end < start {
		start, end = end, start
	}
	return &dto.SelectionResponse{Day: session.SelectionDay, Start: start, End: end}
}
