package models

import "time"

// Assignment sources.
const (
	AssignmentSourceSolver = "SOLVER"
	AssignmentSourceManual = "MANUAL"
)

// Assignment is one committed lesson placement.
type Assignment struct {
	ID            string    `db:"id" json:"id"`
	OwnerID       string    `db:"owner_id" json:"owner_id"`
	ParticipantID string    `db:"participant_id" json:"participant_id"`
	DayOfWeek     int       `db:"day_of_week" json:"day_of_week"`
	StartMinute   int       `db:"start_minute" json:"start_minute"`
	DurationMins  int       `db:"duration_minutes" json:"duration_minutes"`
	Source        string    `db:"source" json:"source"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}
