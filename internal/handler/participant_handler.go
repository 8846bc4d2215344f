package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studioplan/lessongrid-api/internal/dto"
	"github.com/studioplan/lessongrid-api/internal/models"
	appErrors "github.com/studioplan/lessongrid-api/pkg/errors"
	"github.com/studioplan/lessongrid-api/pkg/response"
)

type participantService interface {
	List(ctx context.Context, ownerID string, query dto.ParticipantListQuery) ([]models.Participant, *models.Pagination, error)
	Get(ctx context.Context, ownerID, id string) (*models.Participant, error)
	Create(ctx context.Context, ownerID string, req dto.CreateParticipantRequest) (*models.Participant, error)
	Update(ctx context.Context, ownerID, id string, req dto.UpdateParticipantRequest) (*models.Participant, error)
	Remove(ctx context.Context, ownerID, id string) error
}

// ParticipantHandler exposes roster endpoints.
type ParticipantHandler struct {
	participants participantService
}

// NewParticipantHandler constructs ParticipantHandler.
func NewParticipantHandler(participants participantService) *ParticipantHandler {
	return &ParticipantHandler{participants: participants}
}

// List godoc
// @Summary List participants
// @Tags Participants
// @Produce json
// @Param search query string false "Search by name"
// @Param activeOnly query bool false "Only active participants"
// @Param page query int false "Page"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /participants [get]
func (h *ParticipantHandler) List(c *gin.Context) {
	var query dto.ParticipantListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid listing query"))
		return
	}
	participants, pagination, err := h.participants.List(c.Request.Context(), ownerFromContext(c), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, participants, pagination)
}

// Get godoc
// @Summary Get one participant
// @Tags Participants
// @Produce json
// @Param id path string true "Participant ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /participants/{id} [get]
func (h *ParticipantHandler) Get(c *gin.Context) {
	participant, err := h.participants.Get(c.Request.Context(), ownerFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, participant, nil)
}

// Create godoc
// @Summary Register participant
// @Tags Participants
// @Accept json
// @Produce json
// @Param payload body dto.CreateParticipantRequest true "Participant payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /participants [post]
func (h *ParticipantHandler) Create(c *gin.Context) {
	var req dto.CreateParticipantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid participant payload"))
		return
	}
	participant, err := h.participants.Create(c.Request.Context(), ownerFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, participant)
}

// Update godoc
// @Summary Update participant
// @Tags Participants
// @Accept json
// @Produce json
// @Param id path string true "Participant ID"
// @Param payload body dto.UpdateParticipantRequest true "Participant payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /participants/{id} [put]
func (h *ParticipantHandler) Update(c *gin.Context) {
	var req dto.UpdateParticipantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid participant payload"))
		return
	}
	participant, err := h.participants.Update(c.Request.Context(), ownerFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, participant, nil)
}

// Delete godoc
// @Summary Deactivate participant
// @Tags Participants
// @Produce json
// @Param id path string true "Participant ID"
// @Success 204 "No Content"
// @Security BearerAuth
// @Router /participants/{id} [delete]
func (h *ParticipantHandler) Delete(c *gin.Context) {
	if err := h.participants.Remove(c.Request.Context(), ownerFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
