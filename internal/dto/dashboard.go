package dto

import (
	"github.com/noah-isme/gig-scheduler-api/internal/models"
	"github.com/noah-isme/gig-scheduler-api/pkg/calendar"
)

// DashboardMonthStats compares the current month with the previous one.
type DashboardMonthStats struct {
	Month            CalendarTotals `json:"month"`
	PreviousMonth    CalendarTotals `json:"previous_month"`
	ShowsChange      int            `json:"shows_change"`
	RevenueChangePct *float64       `json:"revenue_change_pct,omitempty"`
	OccupancyRate    float64        `json:"occupancy_rate"`
}

// DashboardResponse is the home screen summary.
type DashboardResponse struct {
	Today         calendar.Date       `json:"today"`
	Stats         DashboardMonthStats `json:"stats"`
	ActiveArtists int                 `json:"active_artists"`
	Upcoming      []models.Show       `json:"upcoming"`
	UpcomingTotal int                 `json:"upcoming_total"`
}
