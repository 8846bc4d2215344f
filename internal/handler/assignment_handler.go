package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studioplan/lessongrid-api/internal/dto"
	"github.com/studioplan/lessongrid-api/internal/service"
	appErrors "github.com/studioplan/lessongrid-api/pkg/errors"
	"github.com/studioplan/lessongrid-api/pkg/response"
)

// AssignmentHandler exposes solver and placement-list endpoints.
type AssignmentHandler struct {
	assignments *service.AssignmentService
}

// NewAssignmentHandler constructs AssignmentHandler.
func NewAssignmentHandler(assignments *service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignments: assignments}
}

// List godoc
// @Summary List committed placements
// @Tags Assignments
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /assignments [get]
func (h *AssignmentHandler) List(c *gin.Context) {
	resp, err := h.assignments.List(c.Request.Context(), ownerFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}

// Solve godoc
// @Summary Place one participant into the earliest fitting slot
// @Tags Assignments
// @Accept json
// @Produce json
// @Param payload body dto.SolveRequest true "Solve payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /assignments/solve [post]
func (h *AssignmentHandler) Solve(c *gin.Context) {
	var req dto.SolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid solve payload"))
		return
	}
	resp, err := h.assignments.Solve(c.Request.Context(), ownerFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, resp)
}

// SolveBatch godoc
// @Summary Place a batch of participants in order
// @Tags Assignments
// @Accept json
// @Produce json
// @Param payload body dto.SolveBatchRequest true "Batch payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /assignments/solve-batch [post]
func (h *AssignmentHandler) SolveBatch(c *gin.Context) {
	var req dto.SolveBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid batch payload"))
		return
	}
	resp, err := h.assignments.SolveBatch(c.Request.Context(), ownerFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}

// Delete godoc
// @Summary Delete one placement
// @Tags Assignments
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 204 "No Content"
// @Security BearerAuth
// @Router /assignments/{id} [delete]
func (h *AssignmentHandler) Delete(c *gin.Context) {
	if err := h.assignments.Remove(c.Request.Context(), ownerFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
