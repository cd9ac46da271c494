package models

import (
	"time"

	"github.com/noah-isme/gig-scheduler-api/pkg/calendar"
)

// ShowStatus tracks the booking state of a show.
type ShowStatus string

const (
	ShowStatusConfirmed ShowStatus = "confirmed"
	ShowStatusPending   ShowStatus = "pending"
	ShowStatusCancelled ShowStatus = "cancelled"
)

// Valid reports whether the status is one of the known booking states.
func (s ShowStatus) Valid() bool {
	switch s {
	case ShowStatusConfirmed, ShowStatusPending, ShowStatusCancelled:
		return true
	default:
		return false
	}
}

// Show is a booked performance of an artist on a single date.
type Show struct {
	ID         string        `db:"id" json:"id"`
	Title      string        `db:"title" json:"title"`
	ArtistID   string        `db:"artist_id" json:"artist_id"`
	ArtistName string        `db:"artist_name" json:"artist_name"`
	Date       calendar.Date `db:"show_date" json:"date"`
	StartTime  *string       `db:"start_time" json:"start_time,omitempty"`
	Venue      string        `db:"venue" json:"venue"`
	City       string        `db:"city" json:"city"`
	Status     ShowStatus    `db:"status" json:"status"`
	Price      float64       `db:"price" json:"price"`
	Capacity   int           `db:"capacity" json:"capacity"`
	Sold       int           `db:"sold" json:"sold"`
	Notes      *string       `db:"notes" json:"notes,omitempty"`
	CreatedAt  time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time     `db:"updated_at" json:"updated_at"`
}

// ScheduledOn implements calendar.Schedulable.
func (s Show) ScheduledOn() calendar.Date {
	return s.Date
}

// Artist implements calendar.Schedulable.
func (s Show) Artist() (string, string) {
	return s.ArtistID, s.ArtistName
}

// ShowFilter narrows show listings.
type ShowFilter struct {
	Search   string
	Status   *ShowStatus
	ArtistID string
	DateFrom *calendar.Date
	DateTo   *calendar.Date
	// ExcludeCancelled drops cancelled shows when Status is not set.
	ExcludeCancelled bool
	Page             int
	PageSize         int
	SortBy           string
	SortOrder        string
}
