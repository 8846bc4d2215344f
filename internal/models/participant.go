package models

import "time"

// Participant is one student matched into the owner's weekly schedule.
type Participant struct {
	ID              string    `db:"id" json:"id"`
	OwnerID         string    `db:"owner_id" json:"owner_id"`
	FullName        string    `db:"full_name" json:"full_name"`
	Email           *string   `db:"email" json:"email,omitempty"`
	RequiredMinutes int       `db:"required_duration_minutes" json:"required_duration_minutes"`
	Active          bool      `db:"active" json:"active"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// ParticipantFilter narrows participant listings.
type ParticipantFilter struct {
	OwnerID    string
	ActiveOnly bool
	Search     string
	Page       int
	PageSize   int
}
