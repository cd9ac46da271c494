package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/gig-scheduler-api/internal/models"
	"github.com/noah-isme/gig-scheduler-api/internal/service"
	"github.com/noah-isme/gig-scheduler-api/pkg/calendar"
	appErrors "github.com/noah-isme/gig-scheduler-api/pkg/errors"
	"github.com/noah-isme/gig-scheduler-api/pkg/response"
)

type expenseService interface {
	Summary(ctx context.Context, from, to *calendar.Date) (*models.ExpenseSummary, error)
	Finance(ctx context.Context, from, to *calendar.Date) (*models.FinanceSummary, error)
	EstimateFuel(req service.FuelEstimateRequest) (*models.FuelEstimate, error)
	Delete(ctx context.Context, id string) error
}

// ExpenseHandler exposes expense reporting endpoints.
type ExpenseHandler struct {
	expenses expenseService
}

// NewExpenseHandler constructs a new ExpenseHandler.
func NewExpenseHandler(expenses expenseService) *ExpenseHandler {
	return &ExpenseHandler{expenses: expenses}
}

// Summary godoc
// @Summary Expense totals grouped by type
// @Tags Expenses
// @Produce json
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /expenses/summary [get]
func (h *ExpenseHandler) Summary(c *gin.Context) {
	from, err := parseDateQuery(c.Query("from"), "from")
	if err != nil {
		response.Error(c, err)
		return
	}
	to, err := parseDateQuery(c.Query("to"), "to")
	if err != nil {
		response.Error(c, err)
		return
	}
	summary, err := h.expenses.Summary(c.Request.Context(), from, to)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// Finance godoc
// @Summary Revenue against expenses per artist
// @Tags Expenses
// @Produce json
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /expenses/finance [get]
func (h *ExpenseHandler) Finance(c *gin.Context) {
	from, err := parseDateQuery(c.Query("from"), "from")
	if err != nil {
		response.Error(c, err)
		return
	}
	to, err := parseDateQuery(c.Query("to"), "to")
	if err != nil {
		response.Error(c, err)
		return
	}
	summary, err := h.expenses.Finance(c.Request.Context(), from, to)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// FuelEstimate godoc
// @Summary Estimate fuel cost of a trip
// @Tags Expenses
// @Accept json
// @Produce json
// @Param payload body service.FuelEstimateRequest true "Trip payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /expenses/fuel-estimate [post]
func (h *ExpenseHandler) FuelEstimate(c *gin.Context) {
	var req service.FuelEstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid fuel estimate payload"))
		return
	}
	estimate, err := h.expenses.EstimateFuel(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, estimate, nil)
}

// Delete godoc
// @Summary Delete expense
// @Tags Expenses
// @Param id path string true "Expense ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /expenses/{id} [delete]
func (h *ExpenseHandler) Delete(c *gin.Context) {
	if err := h.expenses.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
