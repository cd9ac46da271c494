package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/gig-scheduler-api/internal/models"
	"github.com/noah-isme/gig-scheduler-api/internal/service"
	appErrors "github.com/noah-isme/gig-scheduler-api/pkg/errors"
	"github.com/noah-isme/gig-scheduler-api/pkg/response"
)

type showService interface {
	List(ctx context.Context, filter models.ShowFilter) ([]models.Show, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.Show, error)
	Create(ctx context.Context, req service.CreateShowRequest) (*models.Show, error)
	Update(ctx context.Context, id string, req service.UpdateShowRequest) (*models.Show, error)
	Delete(ctx context.Context, id string) error
}

type showExpenseService interface {
	ListByShow(ctx context.Context, showID string) ([]models.Expense, error)
	Create(ctx context.Context, showID string, req service.CreateExpenseRequest) (*models.Expense, error)
}

// ShowHandler wires show bookings to HTTP routes.
type ShowHandler struct {
	shows    showService
	expenses showExpenseService
}

// NewShowHandler constructs a new ShowHandler.
func NewShowHandler(shows showService, expenses showExpenseService) *ShowHandler {
	return &ShowHandler{shows: shows, expenses: expenses}
}

// List godoc
// @Summary List shows
// @Tags Shows
// @Produce json
// @Param search query string false "Search by title/artist/venue/city"
// @Param status query string false "confirmed, pending or cancelled"
// @Param artist_id query string false "Artist ID"
// @Param date_from query string false "From date (YYYY-MM-DD)"
// @Param date_to query string false "To date (YYYY-MM-DD)"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param sort query string false "Sort field (date,artist,venue,city,price)"
// @Param order query string false "Sort order (asc/desc)"
// @Success 200 {object} response.Envelope
// @Router /shows [get]
func (h *ShowHandler) List(c *gin.Context) {
	filter := models.ShowFilter{
		Search:    strings.TrimSpace(c.Query("search")),
		ArtistID:  strings.TrimSpace(pickQuery(c, "artist_id", "artistId")),
		SortBy:    c.Query("sort"),
		SortOrder: c.Query("order"),
		Page:      parseQueryInt(c, "page", 1),
		PageSize:  parseQueryInt(c, "limit", 20),
	}
	if status := strings.TrimSpace(c.Query("status")); status != "" {
		val := models.ShowStatus(strings.ToLower(status))
		filter.Status = &val
	}
	var err error
	if filter.DateFrom, err = parseDateQuery(c.Query("date_from"), "date_from"); err != nil {
		response.Error(c, err)
		return
	}
	if filter.DateTo, err = parseDateQuery(c.Query("date_to"), "date_to"); err != nil {
		response.Error(c, err)
		return
	}

	shows, pagination, err := h.shows.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, shows, pagination)
}

// Get godoc
// @Summary Get show detail
// @Tags Shows
// @Produce json
// @Param id path string true "Show ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /shows/{id} [get]
func (h *ShowHandler) Get(c *gin.Context) {
	show, err := h.shows.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, show, nil)
}

// Create godoc
// @Summary Book show
// @Tags Shows
// @Accept json
// @Produce json
// @Param payload body service.CreateShowRequest true "Show payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /shows [post]
func (h *ShowHandler) Create(c *gin.Context) {
	var req service.CreateShowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid show payload"))
		return
	}
	show, err := h.shows.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, show)
}

// Update godoc
// @Summary Update or reschedule show
// @Tags Shows
// @Accept json
// @Produce json
// @Param id path string true "Show ID"
// @Param payload body service.UpdateShowRequest true "Show payload"
// @Success 200 {object} response.Envelope
// @Router /shows/{id} [put]
func (h *ShowHandler) Update(c *gin.Context) {
	var req service.UpdateShowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid show payload"))
		return
	}
	show, err := h.shows.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, show, nil)
}

// Delete godoc
// @Summary Delete show
// @Tags Shows
// @Param id path string true "Show ID"
// @Success 204
// @Router /shows/{id} [delete]
func (h *ShowHandler) Delete(c *gin.Context) {
	if err := h.shows.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListExpenses godoc
// @Summary List expenses of a show
// @Tags Expenses
// @Produce json
// @Param id path string true "Show ID"
// @Success 200 {object} response.Envelope
// @Router /shows/{id}/expenses [get]
func (h *ShowHandler) ListExpenses(c *gin.Context) {
	expenses, err := h.expenses.ListByShow(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, expenses, nil)
}

// CreateExpense godoc
// @Summary Register an expense for a show
// @Tags Expenses
// @Accept json
// @Produce json
// @Param id path string true "Show ID"
// @Param payload body service.CreateExpenseRequest true "Expense payload"
// @Success 201 {object} response.Envelope
// @Router /shows/{id}/expenses [post]
func (h *ShowHandler) CreateExpense(c *gin.Context) {
	var req service.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid expense payload"))
		return
	}
	expense, err := h.expenses.Create(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, expense)
}
