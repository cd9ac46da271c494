package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildGridAlwaysHas42ContiguousDays(t *testing.T) {
	for year := 2023; year <= 2025; year++ {
		for month := time.January; month <= time.December; month++ {
			ref := NewDate(year, month, 15)
			grid := BuildGrid(ref, Date{})

			require.Len(t, grid.Days, GridSize)
			for i := 1; i < GridSize; i++ {
				assert.True(t, grid.Days[i-1].Date.AddDays(1).Equal(grid.Days[i].Date), "gap at %s index %d", ref, i)
			}

			current := grid.CurrentMonth()
			require.Len(t, current, ref.DaysInMonth(), "month %s", ref)
			assert.Equal(t, 1, current[0].Date.Day)
			assert.Equal(t, ref.DaysInMonth(), current[len(current)-1].Date.Day)

			marked := 0
			for _, day := range grid.Days {
				if day.IsCurrentMonth {
					marked++
				}
			}
			assert.Equal(t, len(current), marked, "current-month run must be contiguous")
			assert.Equal(t, time.Sunday, grid.First().Weekday())
		}
	}
}

func TestBuildGridLeapFebruary(t *testing.T) {
	grid := BuildGrid(NewDate(2024, time.February, 1), Date{})

	assert.Equal(t, NewDate(2024, time.January, 28), grid.Days[0].Date)
	assert.False(t, grid.Days[3].IsCurrentMonth)
	assert.Equal(t, NewDate(2024, time.February, 1), grid.Days[4].Date)
	for i := 4; i <= 32; i++ {
		assert.True(t, grid.Days[i].IsCurrentMonth, "index %d", i)
	}
	assert.Equal(t, NewDate(2024, time.February, 29), grid.Days[32].Date)
	assert.False(t, grid.Days[33].IsCurrentMonth)
	assert.Equal(t, NewDate(2024, time.March, 9), grid.Last())
}

func TestBuildGridMonthStartingOnSunday(t *testing.T) {
	// September 2024 starts on a Sunday.
	grid := BuildGrid(NewDate(2024, time.September, 20), Date{})

	assert.Equal(t, NewDate(2024, time.September, 1), grid.First())
	assert.True(t, grid.Days[0].IsCurrentMonth)
	assert.Equal(t, NewDate(2024, time.October, 12), grid.Last())
}

func TestBuildGridShortFebruaryStillPadded(t *testing.T) {
	// February 2026 starts on Sunday and fills exactly four rows.
	grid := BuildGrid(NewDate(2026, time.February, 1), Date{})

	assert.Equal(t, NewDate(2026, time.February, 1), grid.First())
	assert.Len(t, grid.CurrentMonth(), 28)
	assert.Equal(t, NewDate(2026, time.March, 14), grid.Last())
	assert.False(t, grid.Days[GridSize-1].IsCurrentMonth)
}

func TestBuildGridYearBoundaries(t *testing.T) {
	jan := BuildGrid(NewDate(2025, time.January, 1), Date{})
	assert.Equal(t, NewDate(2024, time.December, 29), jan.First())

	dec := BuildGrid(NewDate(2024, time.December, 31), Date{})
	assert.Equal(t, 2024, dec.Year)
	assert.Equal(t, time.December, dec.Month)
	assert.Equal(t, NewDate(2025, time.January, 11), dec.Last())
}

func TestBuildGridMarksToday(t *testing.T) {
	today := NewDate(2024, time.March, 1)
	grid := BuildGrid(NewDate(2024, time.February, 10), today)

	flagged := 0
	for _, day := range grid.Days {
		if day.IsToday {
			flagged++
			assert.Equal(t, today, day.Date)
			assert.False(t, day.IsCurrentMonth)
		}
	}
	assert.Equal(t, 1, flagged)
}

func TestGridWeeks(t *testing.T) {
	grid := BuildGrid(NewDate(2024, time.February, 1), Date{})
	weeks := grid.Weeks()

	require.Len(t, weeks, WeeksPerGrid)
	for _, week := range weeks {
		assert.Equal(t, time.Sunday, week[0].Date.Weekday())
		assert.Equal(t, time.Saturday, week[DaysPerWeek-1].Date.Weekday())
	}
	assert.Equal(t, grid.Days[7], weeks[1][0])
}

func TestBuilderUsesClockAndLocation(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	builder := &Builder{
		Now:      func() time.Time { return time.Date(2024, time.May, 1, 1, 0, 0, 0, time.UTC) },
		Location: loc,
	}

	assert.Equal(t, NewDate(2024, time.April, 30), builder.Today())

	grid := builder.Build(NewDate(2024, time.April, 1))
	assert.True(t, grid.Days[int(NewDate(2024, time.April, 1).Weekday())+29].IsToday)
}
