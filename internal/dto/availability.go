package dto

import "github.com/studioplan/lessongrid-api/internal/schedule"

// BlockPayload is one availability interval in a request body.
type BlockPayload struct {
	Start    int `json:"start" validate:"min=0,max=1439"`
	Duration int `json:"duration" validate:"required,min=1,max=1440"`
}

// DayBlocksPayload groups the blocks declared for one day of the week.
type DayBlocksPayload struct {
	Day    int            `json:"day" validate:"min=0,max=6"`
	Blocks []BlockPayload `json:"blocks" validate:"dive"`
}

// PutAvailabilityRequest replaces a subject's declared week.
type PutAvailabilityRequest struct {
	Days []DayBlocksPayload `json:"days" validate:"required,dive"`
}

// Week converts the payload into the engine's week representation.
func (r PutAvailabilityRequest) Week() schedule.WeekSchedule {
	ws := schedule.NewWeekSchedule()
	for _, day := range r.Days {
		if day.Day < 0 || day.Day > 6 {
			continue
		}
		for _, block := range day.Blocks {
			ws = ws.AddBlock(day.Day, schedule.TimeBlock{Start: block.Start, Duration: block.Duration})
		}
	}
	return ws
}

// PutAvailabilityLegacyRequest replaces a week using the day-name-keyed
// interchange format.
type PutAvailabilityLegacyRequest struct {
	Schedule schedule.DayMap `json:"schedule" validate:"required"`
}

// AvailabilityResponse returns a subject's declared week.
type AvailabilityResponse struct {
	SubjectType string                `json:"subject_type"`
	SubjectID   string                `json:"subject_id"`
	Week        schedule.WeekSchedule `json:"week"`
}

// AvailabilityLegacyResponse returns the week in the legacy format.
type AvailabilityLegacyResponse struct {
	SubjectType string          `json:"subject_type"`
	SubjectID   string          `json:"subject_id"`
	Schedule    schedule.DayMap `json:"schedule"`
}

// PutAvailabilityResult reports a successful write plus any assignments that
// stopped fitting the new availability and were removed.
type PutAvailabilityResult struct {
	Week               schedule.WeekSchedule `json:"week"`
	RemovedAssignments []string              `json:"removed_assignments"`
}

// DropZonesQuery requests intersection zones for one participant and day.
type DropZonesQuery struct {
	Day           int    `form:"day" validate:"min=0,max=6"`
	Duration      int    `form:"duration" validate:"required,oneof=30 60"`
	ParticipantID string `form:"participantId" validate:"required"`
}

// DropZonesResponse carries merged zones or discrete start positions.
type DropZonesResponse struct {
	Day       int                  `json:"day"`
	Duration  int                  `json:"duration"`
	Zones     []schedule.TimeBlock `json:"zones,omitempty"`
	Positions []int                `json:"positions,omitempty"`
}
