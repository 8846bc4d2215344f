package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studioplan/lessongrid-api/internal/dto"
	"github.com/studioplan/lessongrid-api/internal/models"
	"github.com/studioplan/lessongrid-api/internal/service"
	appErrors "github.com/studioplan/lessongrid-api/pkg/errors"
	"github.com/studioplan/lessongrid-api/pkg/response"
)

const formatLegacy = "legacy"

// AvailabilityHandler exposes weekly availability endpoints for the owner
// and for participants.
type AvailabilityHandler struct {
	availability *service.AvailabilityService
}

// NewAvailabilityHandler constructs AvailabilityHandler.
func NewAvailabilityHandler(availability *service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{availability: availability}
}

// GetOwner godoc
// @Summary Get owner availability
// @Tags Availability
// @Produce json
// @Param format query string false "Set to legacy for the day-name keyed format"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /availability/owner [get]
func (h *AvailabilityHandler) GetOwner(c *gin.Context) {
	ownerID := ownerFromContext(c)
	h.getWeek(c, ownerID, models.SubjectOwner, ownerID)
}

// PutOwner godoc
// @Summary Replace owner availability
// @Tags Availability
// @Accept json
// @Produce json
// @Param format query string false "Set to legacy for the day-name keyed format"
// @Param payload body dto.PutAvailabilityRequest true "Weekly blocks"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /availability/owner [put]
func (h *AvailabilityHandler) PutOwner(c *gin.Context) {
	ownerID := ownerFromContext(c)
	h.putWeek(c, ownerID, models.SubjectOwner, ownerID)
}

// GetParticipant godoc
// @Summary Get participant availability
// @Tags Availability
// @Produce json
// @Param id path string true "Participant ID"
// @Param format query string false "Set to legacy for the day-name keyed format"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /availability/participants/{id} [get]
func (h *AvailabilityHandler) GetParticipant(c *gin.Context) {
	h.getWeek(c, ownerFromContext(c), models.SubjectParticipant, c.Param("id"))
}

// PutParticipant godoc
// @Summary Replace participant availability
// @Tags Availability
// @Accept json
// @Produce json
// @Param id path string true "Participant ID"
// @Param format query string false "Set to legacy for the day-name keyed format"
// @Param payload body dto.PutAvailabilityRequest true "Weekly blocks"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /availability/participants/{id} [put]
func (h *AvailabilityHandler) PutParticipant(c *gin.Context) {
	h.putWeek(c, ownerFromContext(c), models.SubjectParticipant, c.Param("id"))
}

// DropZones godoc
// @Summary Valid drop zones for a participant on one day
// @Tags Availability
// @Produce json
// @Param day query int true "Day of week, 0 = Sunday"
// @Param duration query int true "Lesson duration in minutes (30 or 60)"
// @Param participantId query string true "Participant ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /availability/drop-zones [get]
func (h *AvailabilityHandler) DropZones(c *gin.Context) {
	resp, ok := h.zones(c)
	if !ok {
		return
	}
	resp.Positions = nil
	response.JSON(c, http.StatusOK, resp, nil)
}

// DropPositions godoc
// @Summary Valid snapped start positions for a participant on one day
// @Tags Availability
// @Produce json
// @Param day query int true "Day of week, 0 = Sunday"
// @Param duration query int true "Lesson duration in minutes (30 or 60)"
// @Param participantId query string true "Participant ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /availability/drop-positions [get]
func (h *AvailabilityHandler) DropPositions(c *gin.Context) {
	resp, ok := h.zones(c)
	if !ok {
		return
	}
	resp.Zones = nil
	response.JSON(c, http.StatusOK, resp, nil)
}

func (h *AvailabilityHandler) zones(c *gin.Context) (*dto.DropZonesResponse, bool) {
	var query dto.DropZonesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid drop zone query"))
		return nil, false
	}
	resp, err := h.availability.DropZones(c.Request.Context(), ownerFromContext(c), query)
	if err != nil {
		response.Error(c, err)
		return nil, false
	}
	return resp, true
}

func (h *AvailabilityHandler) getWeek(c *gin.Context, ownerID, subjectType, subjectID string) {
	if c.Query("format") == formatLegacy {
		resp, err := h.availability.GetWeekLegacy(c.Request.Context(), ownerID, subjectType, subjectID)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, resp, nil)
		return
	}
	resp, err := h.availability.GetWeek(c.Request.Context(), ownerID, subjectType, subjectID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}

func (h *AvailabilityHandler) putWeek(c *gin.Context, ownerID, subjectType, subjectID string) {
	if c.Query("format") == formatLegacy {
		var req dto.PutAvailabilityLegacyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid availability payload"))
			return
		}
		result, err := h.availability.PutWeekLegacy(c.Request.Context(), ownerID, subjectType, subjectID, req)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, result, nil)
		return
	}

	var req dto.PutAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid availability payload"))
		return
	}
	result, err := h.availability.PutWeek(c.Request.Context(), ownerID, subjectType, subjectID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
