package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studioplan/lessongrid-api/internal/dto"
	"github.com/studioplan/lessongrid-api/pkg/response"
)

type analysisService interface {
	Conflicts(ctx context.Context, ownerID string) (*dto.ConflictsResponse, error)
	Utilization(ctx context.Context, ownerID string) (*dto.UtilizationResponse, error)
}

// AnalysisHandler exposes schedule analysis endpoints.
type AnalysisHandler struct {
	analysis analysisService
}

// NewAnalysisHandler constructs AnalysisHandler.
func NewAnalysisHandler(analysis analysisService) *AnalysisHandler {
	return &AnalysisHandler{analysis: analysis}
}

// Conflicts godoc
// @Summary Pairwise overlaps in the committed schedule
// @Tags Analysis
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /analysis/conflicts [get]
func (h *AnalysisHandler) Conflicts(c *gin.Context) {
	resp, err := h.analysis.Conflicts(c.Request.Context(), ownerFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}

// Utilization godoc
// @Summary Load and coverage metrics for the committed schedule
// @Tags Analysis
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /analysis/utilization [get]
func (h *AnalysisHandler) Utilization(c *gin.Context) {
	resp, err := h.analysis.Utilization(c.Request.Context(), ownerFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}
