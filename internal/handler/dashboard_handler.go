package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/gig-scheduler-api/internal/dto"
	"github.com/noah-isme/gig-scheduler-api/internal/middleware"
	appErrors "github.com/noah-isme/gig-scheduler-api/pkg/errors"
	"github.com/noah-isme/gig-scheduler-api/pkg/response"
)

type dashboardService interface {
	Home(ctx context.Context, limit int) (*dto.DashboardResponse, error)
}

// DashboardHandler serves the home screen summary.
type DashboardHandler struct {
	service dashboardService
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service dashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Home godoc
// @Summary Dashboard stats and upcoming shows
// @Tags Dashboard
// @Produce json
// @Param limit query int false "Upcoming shows to return (1-20, default 5)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /dashboard [get]
func (h *DashboardHandler) Home(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	limit := 0
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "limit must be a positive integer"))
			return
		}
		limit = parsed
	}
	home, err := h.service.Home(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, home, nil, middleware.CollectMeta(c))
}
