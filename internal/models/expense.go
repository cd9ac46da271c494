package models

import (
	"time"

	"github.com/noah-isme/gig-scheduler-api/pkg/calendar"
)

// ExpenseType classifies travel costs registered against a show.
type ExpenseType string

const (
	ExpenseFuel   ExpenseType = "fuel"
	ExpenseMeal   ExpenseType = "meal"
	ExpenseSnack  ExpenseType = "snack"
	ExpenseToll   ExpenseType = "toll"
	ExpenseRepair ExpenseType = "repair"
	ExpenseOther  ExpenseType = "other"
)

// ExpenseTypes lists every type in reporting order.
var ExpenseTypes = []ExpenseType{ExpenseFuel, ExpenseMeal, ExpenseSnack, ExpenseToll, ExpenseRepair, ExpenseOther}

// Expense is a single cost incurred for a show.
type Expense struct {
	ID          string        `db:"id" json:"id"`
	ShowID      string        `db:"show_id" json:"show_id"`
	Type        ExpenseType   `db:"type" json:"type"`
	Amount      float64       `db:"amount" json:"amount"`
	Date        calendar.Date `db:"expense_date" json:"date"`
	Description *string       `db:"description" json:"description,omitempty"`
	ReceiptURL  *string       `db:"receipt_url" json:"receipt_url,omitempty"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
}

// ExpenseTypeTotal aggregates expenses of one type.
type ExpenseTypeTotal struct {
	Type       ExpenseType `json:"type"`
	Total      float64     `json:"total"`
	Count      int         `json:"count"`
	Percentage float64     `json:"percentage"`
}

// ExpenseSummary aggregates expenses over a date range.
type ExpenseSummary struct {
	From   *calendar.Date     `json:"from,omitempty"`
	To     *calendar.Date     `json:"to,omitempty"`
	Total  float64            `json:"total"`
	Count  int                `json:"count"`
	ByType []ExpenseTypeTotal `json:"by_type"`
}

// FuelEstimate is the cost of driving a distance.
type FuelEstimate struct {
	DistanceKm      float64 `json:"distance_km"`
	ConsumptionKmL  float64 `json:"consumption_km_per_l"`
	PricePerLiter   float64 `json:"price_per_liter"`
	FuelNeededLiter float64 `json:"fuel_needed_l"`
	FuelCost        float64 `json:"fuel_cost"`
	TotalCost       float64 `json:"total_cost"`
}

// ArtistFinance weighs one artist's ticket revenue against travel costs.
type ArtistFinance struct {
	ArtistID   string  `json:"artist_id"`
	ArtistName string  `json:"artist_name"`
	Shows      int     `json:"shows"`
	Revenue    float64 `json:"revenue"`
	Expenses   float64 `json:"expenses"`
	Net        float64 `json:"net"`
}

// FinanceSummary is revenue minus expenses over a date range. Revenue counts
// non-cancelled shows dated in the range; expenses count by expense date.
type FinanceSummary struct {
	From     *calendar.Date     `json:"from,omitempty"`
	To       *calendar.Date     `json:"to,omitempty"`
	Shows    int                `json:"shows"`
	Revenue  float64            `json:"revenue"`
	Expenses float64            `json:"expenses"`
	Net      float64            `json:"net"`
	ByArtist []ArtistFinance    `json:"by_artist"`
	ByType   []ExpenseTypeTotal `json:"by_type"`
}
