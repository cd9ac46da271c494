package dto

import (
	"github.com/noah-isme/gig-scheduler-api/internal/models"
	"github.com/noah-isme/gig-scheduler-api/pkg/calendar"
)

// CalendarMonthRequest selects the month grid to render.
type CalendarMonthRequest struct {
	Reference *calendar.Date
	Artist    calendar.ArtistFilter
}

// CalendarDayRequest selects the day detail to render.
type CalendarDayRequest struct {
	Date   *calendar.Date
	Artist calendar.ArtistFilter
}

// CalendarCell is one grid cell with the shows booked on it.
type CalendarCell struct {
	Date           calendar.Date `json:"date"`
	Day            int           `json:"day"`
	Weekday        int           `json:"weekday"`
	IsCurrentMonth bool          `json:"is_current_month"`
	IsToday        bool          `json:"is_today"`
	Shows          []models.Show `json:"shows"`
}

// CalendarTotals summarises the shows of the displayed month.
type CalendarTotals struct {
	Shows       int     `json:"shows"`
	TicketsSold int     `json:"tickets_sold"`
	Capacity    int     `json:"capacity"`
	GrossValue  float64 `json:"gross_value"`
}

// CalendarMonthResponse is the 6x7 month view.
type CalendarMonthResponse struct {
	Reference calendar.Date  `json:"reference_date"`
	Year      int            `json:"year"`
	Month     int            `json:"month"`
	MonthName string         `json:"month_name"`
	Previous  calendar.Date  `json:"previous_reference"`
	Next      calendar.Date  `json:"next_reference"`
	Weekdays  []string       `json:"weekdays"`
	Cells     []CalendarCell `json:"cells"`
	Totals    CalendarTotals `json:"totals"`
}

// CalendarDayResponse lists the shows of one date.
type CalendarDayResponse struct {
	Date    calendar.Date  `json:"date"`
	Weekday string         `json:"weekday"`
	IsToday bool           `json:"is_today"`
	Shows   []models.Show  `json:"shows"`
	Totals  CalendarTotals `json:"totals"`
}

// CalendarNavigateResponse is the reference date after a month shift.
type CalendarNavigateResponse struct {
	From      calendar.Date `json:"from"`
	Direction string        `json:"direction"`
	Reference calendar.Date `json:"reference_date"`
	Year      int           `json:"year"`
	Month     int           `json:"month"`
}
