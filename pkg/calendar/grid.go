// Package calendar builds month grids and indexes shows by calendar date.
//
// Weeks start on Sunday. Every function in this package is pure: it allocates
// its result and never retains the caller's data.
package calendar

import "time"

const (
	// DaysPerWeek is the number of columns in a grid.
	DaysPerWeek = 7
	// WeeksPerGrid is the number of rows in a grid.
	WeeksPerGrid = 6
	// GridSize is the fixed number of cells in a month grid.
	GridSize = DaysPerWeek * WeeksPerGrid
)

// Day is one cell of a month grid.
type Day struct {
	Date           Date `json:"date"`
	IsCurrentMonth bool `json:"is_current_month"`
	IsToday        bool `json:"is_today"`
}

// Grid is a week-aligned 6x7 layout of a month, padded with filler days from
// the adjacent months.
type Grid struct {
	Year  int           `json:"year"`
	Month time.Month    `json:"month"`
	Days  [GridSize]Day `json:"days"`
}

// BuildGrid lays out the month containing reference. The cell equal to today,
// if visible, is flagged IsToday.
func BuildGrid(reference, today Date) Grid {
	first := reference.FirstOfMonth()
	leading := int(first.Weekday())
	start := first.AddDays(-leading)

	grid := Grid{Year: first.Year, Month: first.Month}
	for i := 0; i < GridSize; i++ {
		date := start.AddDays(i)
		grid.Days[i] = Day{
			Date:           date,
			IsCurrentMonth: date.Year == first.Year && date.Month == first.Month,
			IsToday:        date.Equal(today),
		}
	}
	return grid
}

// First returns the earliest visible date.
func (g Grid) First() Date {
	return g.Days[0].Date
}

// Last returns the latest visible date.
func (g Grid) Last() Date {
	return g.Days[GridSize-1].Date
}

// Weeks splits the grid into rows, Sunday first.
func (g Grid) Weeks() [WeeksPerGrid][DaysPerWeek]Day {
	var weeks [WeeksPerGrid][DaysPerWeek]Day
	for i, day := range g.Days {
		weeks[i/DaysPerWeek][i%DaysPerWeek] = day
	}
	return weeks
}

// CurrentMonth returns the contiguous run of the month's own days.
func (g Grid) CurrentMonth() []Day {
	start, end := -1, -1
	for i, day := range g.Days {
		if !day.IsCurrentMonth {
			continue
		}
		if start < 0 {
			start = i
		}
		end = i
	}
	if start < 0 {
		return nil
	}
	out := make([]Day, end-start+1)
	copy(out, g.Days[start:end+1])
	return out
}

// Builder evaluates "today" when the grid is built.
type Builder struct {
	Now      func() time.Time
	Location *time.Location
}

// NewBuilder returns a builder reading the wall clock in loc.
func NewBuilder(loc *time.Location) *Builder {
	if loc == nil {
		loc = time.UTC
	}
	return &Builder{Now: time.Now, Location: loc}
}

// Today returns the builder's current date.
func (b *Builder) Today() Date {
	now := time.Now
	loc := time.UTC
	if b != nil {
		if b.Now != nil {
			now = b.Now
		}
		if b.Location != nil {
			loc = b.Location
		}
	}
	return FromTime(now().In(loc))
}

// Build lays out the month containing reference.
func (b *Builder) Build(reference Date) Grid {
	return BuildGrid(reference, b.Today())
}
