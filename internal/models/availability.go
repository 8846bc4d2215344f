package models

import "time"

// Availability subject types.
const (
	SubjectOwner       = "OWNER"
	SubjectParticipant = "PARTICIPANT"
)

// AvailabilityBlock is one persisted row of weekly availability for a
// subject (the owner or one participant).
type AvailabilityBlock struct {
	ID           string    `db:"id" json:"id"`
	OwnerID      string    `db:"owner_id" json:"owner_id"`
	SubjectType  string    `db:"subject_type" json:"subject_type"`
	SubjectID    string    `db:"subject_id" json:"subject_id"`
	DayOfWeek    int       `db:"day_of_week" json:"day_of_week"`
	StartMinute  int       `db:"start_minute" json:"start_minute"`
	DurationMins int       `db:"duration_minutes" json:"duration_minutes"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
