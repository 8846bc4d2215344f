package dto

// CreatePlacementSessionRequest opens an interaction session for drag edits.
type CreatePlacementSessionRequest struct {
	SnapMode string `json:"snapMode" validate:"omitempty,oneof=GRID PRECISE SMART"`
}

// PlacementSessionResponse describes the session and its current state.
type PlacementSessionResponse struct {
	SessionID string `json:"sessionId"`
	SnapMode  string `json:"snapMode"`
	State     string `json:"state"`
}

// BeginSelectionRequest starts sweeping out a new availability interval.
type BeginSelectionRequest struct {
	SessionID string `json:"sessionId" validate:"required"`
	Day       int    `json:"day" validate:"min=0,max=6"`
	Anchor    int    `json:"anchor" validate:"min=0,max=1439"`
}

// UpdateSelectionRequest moves the free edge of an in-progress selection.
type UpdateSelectionRequest struct {
	SessionID string `json:"sessionId" validate:"required"`
	Cursor    int    `json:"cursor" validate:"min=0,max=1439"`
}

// SelectionResponse returns the normalized interval swept so far. Anchor and
// cursor may arrive in either order; the block is always forward.
type SelectionResponse struct {
	Day   int `json:"day"`
	Start int `json:"start"`
	End   int `json:"end"`
}

// BeginDragRequest transitions a session into the dragging state.
type BeginDragRequest struct {
	SessionID    string `json:"sessionId" validate:"required"`
	AssignmentID string `json:"assignmentId" validate:"required"`
}

// PreviewRequest asks for the snapped landing position of an in-flight drag.
type PreviewRequest struct {
	SessionID string `json:"sessionId" validate:"required"`
	Day       int    `json:"day" validate:"min=0,max=6"`
	Start     int    `json:"start" validate:"min=0,max=1439"`
}

// PreviewResponse returns the snapped start and whether a drop there would land.
type PreviewResponse struct {
	Day          int  `json:"day"`
	SnappedStart int  `json:"snappedStart"`
	Valid        bool `json:"valid"`
}

// DropRequest commits an in-flight drag to a destination day and minute.
type DropRequest struct {
	SessionID string `json:"sessionId" validate:"required"`
	ToDay     int    `json:"toDay" validate:"min=0,max=6"`
	ToStart   int    `json:"toStart" validate:"min=0,max=1439"`
}

// DropResponse reports the outcome. A rejected drop is not an error: the
// schedule is unchanged and the caller snaps the block back visually.
type DropResponse struct {
	Accepted    bool `json:"accepted"`
	DayOfWeek   int  `json:"dayOfWeek"`
	StartMinute int  `json:"startMinute"`
}
