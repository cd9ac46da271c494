package calendar

import (
	"sort"
	"strings"
)

// Schedulable is anything booked on a single calendar date.
type Schedulable interface {
	ScheduledOn() Date
	Artist() (id, name string)
}

// ArtistFilter narrows shows to one artist. The zero value matches everything.
type ArtistFilter struct {
	ID   string
	Name string
}

// IsZero reports whether the filter lets every show through. The name "all"
// is the dashboard's "All Artists" choice.
func (f ArtistFilter) IsZero() bool {
	name := strings.TrimSpace(f.Name)
	return strings.TrimSpace(f.ID) == "" && (name == "" || strings.EqualFold(name, "all"))
}

// Matches reports whether a show by the given artist passes the filter.
func (f ArtistFilter) Matches(id, name string) bool {
	if f.IsZero() {
		return true
	}
	if wantID := strings.TrimSpace(f.ID); wantID != "" && wantID == id {
		return true
	}
	wantName := strings.TrimSpace(f.Name)
	return wantName != "" && !strings.EqualFold(wantName, "all") && strings.EqualFold(wantName, strings.TrimSpace(name))
}

// ShowsOn returns the shows scheduled on date, in input order.
func ShowsOn[T Schedulable](shows []T, date Date, filter ArtistFilter) []T {
	out := make([]T, 0)
	for _, show := range shows {
		if !show.ScheduledOn().Equal(date) {
			continue
		}
		if !filter.Matches(show.Artist()) {
			continue
		}
		out = append(out, show)
	}
	return out
}

// Index groups shows by date once so a whole grid can be filled without
// rescanning the list per cell.
type Index[T Schedulable] struct {
	byDate map[Date][]T
}

// NewIndex groups shows by date, preserving input order within a date.
func NewIndex[T Schedulable](shows []T) *Index[T] {
	idx := &Index[T]{byDate: make(map[Date][]T)}
	for _, show := range shows {
		date := show.ScheduledOn()
		idx.byDate[date] = append(idx.byDate[date], show)
	}
	return idx
}

// On returns the same result as ShowsOn for the indexed shows.
func (idx *Index[T]) On(date Date, filter ArtistFilter) []T {
	out := make([]T, 0)
	if idx == nil {
		return out
	}
	for _, show := range idx.byDate[date] {
		if filter.Matches(show.Artist()) {
			out = append(out, show)
		}
	}
	return out
}

// Dates returns every date holding at least one show, ascending.
func (idx *Index[T]) Dates() []Date {
	if idx == nil {
		return nil
	}
	dates := make([]Date, 0, len(idx.byDate))
	for date := range idx.byDate {
		dates = append(dates, date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// Len returns the number of indexed shows.
func (idx *Index[T]) Len() int {
	if idx == nil {
		return 0
	}
	total := 0
	for _, shows := range idx.byDate {
		total += len(shows)
	}
	return total
}
