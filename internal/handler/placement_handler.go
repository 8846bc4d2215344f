package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studioplan/lessongrid-api/internal/dto"
	"github.com/studioplan/lessongrid-api/internal/service"
	appErrors "github.com/studioplan/lessongrid-api/pkg/errors"
	"github.com/studioplan/lessongrid-api/pkg/response"
)

// PlacementHandler exposes the drag and drop interaction endpoints.
type PlacementHandler struct {
	placement *service.PlacementService
}

// NewPlacementHandler constructs PlacementHandler.
func NewPlacementHandler(placement *service.PlacementService) *PlacementHandler {
	return &PlacementHandler{placement: placement}
}

// CreateSession godoc
// @Summary Open a placement interaction session
// @Tags Placement
// @Accept json
// @Produce json
// @Param payload body dto.CreatePlacementSessionRequest true "Session payload"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /placement/session [post]
func (h *PlacementHandler) CreateSession(c *gin.Context) {
	var req dto.CreatePlacementSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid session payload"))
		return
	}
	resp, err := h.placement.CreateSession(c.Request.Context(), ownerFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, resp)
}

// BeginSelection godoc
// @Summary Start sweeping out a new availability interval
// @Tags Placement
// @Accept json
// @Produce json
// @Param payload body dto.BeginSelectionRequest true "Selection payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /placement/selection/begin [post]
func (h *PlacementHandler) BeginSelection(c *gin.Context) {
	var req dto.BeginSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid selection payload"))
		return
	}
	resp, err := h.placement.BeginSelection(c.Request.Context(), ownerFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}

// UpdateSelection godoc
// @Summary Move the free edge of an in-progress selection
// @Tags Placement
// @Accept json
// @Produce json
// @Param payload body dto.UpdateSelectionRequest true "Selection payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /placement/selection/update [post]
func (h *PlacementHandler) UpdateSelection(c *gin.Context) {
	var req dto.UpdateSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid selection payload"))
		return
	}
	resp, err := h.placement.UpdateSelection(c.Request.Context(), ownerFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}

// EndSelection godoc
// @Summary Finish a selection and return the normalized interval
// @Tags Placement
// @Produce json
// @Param sessionId query string true "Session ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /placement/selection/end [post]
func (h *PlacementHandler) EndSelection(c *gin.Context) {
	resp, err := h.placement.EndSelection(c.Request.Context(), ownerFromContext(c), c.Query("sessionId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}

// BeginDrag godoc
// @Summary Lift a committed placement into the dragging state
// @Tags Placement
// @Accept json
// @Produce json
// @Param payload body dto.BeginDragRequest true "Drag payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /placement/drag [post]
func (h *PlacementHandler) BeginDrag(c *gin.Context) {
	var req dto.BeginDragRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid drag payload"))
		return
	}
	resp, err := h.placement.BeginDrag(c.Request.Context(), ownerFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}

// Preview godoc
// @Summary Snapped landing position for an in-flight drag
// @Tags Placement
// @Accept json
// @Produce json
// @Param payload body dto.PreviewRequest true "Preview payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /placement/preview [post]
func (h *PlacementHandler) Preview(c *gin.Context) {
	var req dto.PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid preview payload"))
		return
	}
	resp, err := h.placement.Preview(c.Request.Context(), ownerFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}

// Drop godoc
// @Summary Commit an in-flight drag
// @Description A rejected drop returns accepted=false with HTTP 200; the schedule is unchanged.
// @Tags Placement
// @Accept json
// @Produce json
// @Param payload body dto.DropRequest true "Drop payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /placement/drop [post]
func (h *PlacementHandler) Drop(c *gin.Context) {
	var req dto.DropRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid drop payload"))
		return
	}
	resp, err := h.placement.Drop(c.Request.Context(), ownerFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}

// Cancel godoc
// @Summary Abort the in-flight interaction
// @Tags Placement
// @Produce json
// @Param sessionId path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /placement/session/{sessionId}/cancel [post]
func (h *PlacementHandler) Cancel(c *gin.Context) {
	resp, err := h.placement.Cancel(c.Request.Context(), ownerFromContext(c), c.Param("sessionId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}
