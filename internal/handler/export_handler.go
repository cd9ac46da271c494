package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/gig-scheduler-api/internal/models"
	"github.com/noah-isme/gig-scheduler-api/internal/service"
	appErrors "github.com/noah-isme/gig-scheduler-api/pkg/errors"
	"github.com/noah-isme/gig-scheduler-api/pkg/response"
)

type exportService interface {
	ExportMonth(ctx context.Context, req service.ExportMonthRequest) (*models.ScheduleExport, error)
	Open(token string) (*service.ExportFile, error)
}

// ExportHandler renders month schedules and serves signed downloads.
type ExportHandler struct {
	exports exportService
}

// NewExportHandler constructs a new ExportHandler.
func NewExportHandler(exports exportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// ExportMonth godoc
// @Summary Export a month schedule
// @Tags Exports
// @Accept json
// @Produce json
// @Param payload body service.ExportMonthRequest true "Export payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /exports/calendar [post]
func (h *ExportHandler) ExportMonth(c *gin.Context) {
	var req service.ExportMonthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid export payload"))
		return
	}
	result, err := h.exports.ExportMonth(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Download godoc
// @Summary Download an exported schedule
// @Tags Exports
// @Produce application/pdf
// @Produce text/csv
// @Param token path string true "Signed download token"
// @Success 200 {file} file
// @Failure 403 {object} response.Envelope
// @Router /exports/download/{token} [get]
func (h *ExportHandler) Download(c *gin.Context) {
	file, err := h.exports.Open(c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.File.Close()

	info, err := file.File.Stat()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read export"))
		return
	}
	c.DataFromReader(http.StatusOK, info.Size(), file.ContentType, file.File, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", file.Name),
		"Cache-Control":       "no-store",
	})
}
