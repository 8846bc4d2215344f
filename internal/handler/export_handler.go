package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/studioplan/lessongrid-api/internal/service"
	"github.com/studioplan/lessongrid-api/pkg/response"
)

// ExportHandler streams rendered schedule downloads.
type ExportHandler struct {
	exports *service.ExportService
}

// NewExportHandler constructs ExportHandler.
func NewExportHandler(exports *service.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// ICS godoc
// @Summary Download the schedule as a weekly recurring calendar
// @Tags Export
// @Produce text/calendar
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /export/ics [get]
func (h *ExportHandler) ICS(c *gin.Context) {
	h.serve(c, h.exports.ICS)
}

// CSV godoc
// @Summary Download the assignment list as CSV
// @Tags Export
// @Produce text/csv
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /export/csv [get]
func (h *ExportHandler) CSV(c *gin.Context) {
	h.serve(c, h.exports.CSV)
}

// PDF godoc
// @Summary Download the weekly schedule as PDF
// @Tags Export
// @Produce application/pdf
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /export/pdf [get]
func (h *ExportHandler) PDF(c *gin.Context) {
	h.serve(c, h.exports.PDF)
}

func (h *ExportHandler) serve(c *gin.Context, render func(context.Context, string) (*service.ExportFile, error)) {
	file, err := render(c.Request.Context(), ownerFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Download(c, file.Filename, file.ContentType, file.Data)
}
