package dto

import (
	"github.com/studioplan/lessongrid-api/internal/models"
	"github.com/studioplan/lessongrid-api/internal/schedule"
)

// SolveRequest asks the solver to place one participant.
type SolveRequest struct {
	ParticipantID string `json:"participantId" validate:"required"`
}

// SolveResponse returns the persisted booking.
type SolveResponse struct {
	AssignmentID string           `json:"assignmentId"`
	Booking      schedule.Booking `json:"booking"`
}

// SolveBatchRequest asks the solver to place a batch of participants in order.
type SolveBatchRequest struct {
	ParticipantIDs []string `json:"participantIds" validate:"required,min=1,dive,required"`
}

// SolveBatchResponse wraps the engine solution with persisted ids.
type SolveBatchResponse struct {
	Solution      schedule.ScheduleSolution `json:"solution"`
	AssignmentIDs []string                  `json:"assignmentIds"`
}

// AssignmentListResponse returns the owner's committed placements.
type AssignmentListResponse struct {
	Assignments []models.Assignment `json:"assignments"`
}
