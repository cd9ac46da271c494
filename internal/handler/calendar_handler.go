package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/gig-scheduler-api/internal/dto"
	"github.com/noah-isme/gig-scheduler-api/internal/middleware"
	"github.com/noah-isme/gig-scheduler-api/pkg/calendar"
	"github.com/noah-isme/gig-scheduler-api/pkg/response"
)

type calendarService interface {
	Month(ctx context.Context, req dto.CalendarMonthRequest) (*dto.CalendarMonthResponse, bool, error)
	Day(ctx context.Context, req dto.CalendarDayRequest) (*dto.CalendarDayResponse, bool, error)
	Navigate(reference *calendar.Date, direction string) (*dto.CalendarNavigateResponse, error)
}

// CalendarHandler serves the month grid and day views.
type CalendarHandler struct {
	service calendarService
}

// NewCalendarHandler constructs a CalendarHandler.
func NewCalendarHandler(svc calendarService) *CalendarHandler {
	return &CalendarHandler{service: svc}
}

// Month godoc
// @Summary Month calendar grid
// @Description Returns 42 Sunday-first cells covering the month of the reference date, each with its shows.
// @Tags Calendar
// @Produce json
// @Param date query string false "Reference date (YYYY-MM-DD), defaults to today"
// @Param artist_id query string false "Only shows of this artist id"
// @Param artist query string false "Only shows of this artist name, 'all' disables the filter"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /calendar/month [get]
func (h *CalendarHandler) Month(c *gin.Context) {
	reference, err := parseDateQuery(pickQuery(c, "date", "reference"), "date")
	if err != nil {
		response.Error(c, err)
		return
	}
	month, cacheHit, err := h.service.Month(c.Request.Context(), dto.CalendarMonthRequest{
		Reference: reference,
		Artist:    artistFilterFromQuery(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	respondWithMeta(c, month, cacheHit)
}

// Day godoc
// @Summary Shows of a single day
// @Tags Calendar
// @Produce json
// @Param date query string false "Date (YYYY-MM-DD), defaults to today"
// @Param artist_id query string false "Only shows of this artist id"
// @Param artist query string false "Only shows of this artist name"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /calendar/day [get]
func (h *CalendarHandler) Day(c *gin.Context) {
	date, err := parseDateQuery(c.Query("date"), "date")
	if err != nil {
		response.Error(c, err)
		return
	}
	day, cacheHit, err := h.service.Day(c.Request.Context(), dto.CalendarDayRequest{
		Date:   date,
		Artist: artistFilterFromQuery(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	respondWithMeta(c, day, cacheHit)
}

// Navigate godoc
// @Summary Shift the reference date by one month
// @Tags Calendar
// @Produce json
// @Param date query string false "Current reference date (YYYY-MM-DD), defaults to today"
// @Param direction query string true "prev or next"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /calendar/navigate [get]
func (h *CalendarHandler) Navigate(c *gin.Context) {
	reference, err := parseDateQuery(c.Query("date"), "date")
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.service.Navigate(reference, c.Query("direction"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

func respondWithMeta(c *gin.Context, data interface{}, cacheHit bool) {
	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, data, nil, middleware.CollectMeta(c))
}
