package dto

import "github.com/studioplan/lessongrid-api/internal/schedule"

// ConflictsResponse lists pairwise overlap groups in the committed schedule.
type ConflictsResponse struct {
	Groups []schedule.ConflictGroup `json:"groups"`
	Count  int                      `json:"count"`
}

// UtilizationResponse reports load and coverage metrics.
type UtilizationResponse struct {
	Report schedule.UtilizationReport `json:"report"`
}
