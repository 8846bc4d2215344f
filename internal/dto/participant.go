package dto

// CreateParticipantRequest registers a new student.
type CreateParticipantRequest struct {
	FullName        string  `json:"full_name" validate:"required,min=2,max=120"`
	Email           *string `json:"email" validate:"omitempty,email"`
	RequiredMinutes int     `json:"required_duration_minutes" validate:"required,oneof=30 60"`
}

// UpdateParticipantRequest edits an existing student.
type UpdateParticipantRequest struct {
	FullName        string  `json:"full_name" validate:"required,min=2,max=120"`
	Email           *string `json:"email" validate:"omitempty,email"`
	RequiredMinutes int     `json:"required_duration_minutes" validate:"required,oneof=30 60"`
}

// ParticipantListQuery filters participant listings.
type ParticipantListQuery struct {
	ActiveOnly bool   `form:"activeOnly"`
	Search     string `form:"search"`
	Page       int    `form:"page"`
	PageSize   int    `form:"pageSize"`
}
