package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/gig-scheduler-api/internal/dto"
	"github.com/noah-isme/gig-scheduler-api/internal/models"
	"github.com/noah-isme/gig-scheduler-api/pkg/calendar"
	appErrors "github.com/noah-isme/gig-scheduler-api/pkg/errors"
)

// CalendarCachePattern matches every cached calendar range.
const CalendarCachePattern = "calendar:*"

var weekdayLabels = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

type showRangeReader interface {
	ListByDateRange(ctx context.Context, from, to calendar.Date, artistID string) ([]models.Show, error)
}

// CalendarService renders month grids and day details from booked shows.
type CalendarService struct {
	repo    showRangeReader
	builder *calendar.Builder
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger
}

// NewCalendarService constructs the service. cache and metrics may be nil.
func NewCalendarService(repo showRangeReader, builder *calendar.Builder, cache *CacheService, metrics *MetricsService, logger *zap.Logger) *CalendarService {
	if builder == nil {
		builder = calendar.NewBuilder(time.UTC)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CalendarService{repo: repo, builder: builder, cache: cache, metrics: metrics, logger: logger}
}

// Today returns the current date in the calendar timezone.
func (s *CalendarService) Today() calendar.Date {
	return s.builder.Today()
}

// Month returns the 42-cell grid for the reference month. The boolean
// indicates whether the show rows came from cache.
func (s *CalendarService) Month(ctx context.Context, req dto.CalendarMonthRequest) (*dto.CalendarMonthResponse, bool, error) {
	reference := s.builder.Today()
	if req.Reference != nil {
		reference = *req.Reference
	}

	grid := s.builder.Build(reference)
	shows, hit, err := s.showsInRange(ctx, grid.First(), grid.Last(), req.Artist)
	if err != nil {
		return nil, false, err
	}
	index := calendar.NewIndex(shows)

	resp := &dto.CalendarMonthResponse{
		Reference: reference,
		Year:      grid.Year,
		Month:     int(grid.Month),
		MonthName: grid.Month.String(),
		Previous:  calendar.ShiftMonth(reference, calendar.Backward),
		Next:      calendar.ShiftMonth(reference, calendar.Forward),
		Weekdays:  weekdayLabels,
		Cells:     make([]dto.CalendarCell, 0, calendar.GridSize),
	}
	for _, day := range grid.Days {
		cellShows := index.On(day.Date, req.Artist)
		resp.Cells = append(resp.Cells, dto.CalendarCell{
			Date:           day.Date,
			Day:            day.Date.Day,
			Weekday:        int(day.Date.Weekday()),
			IsCurrentMonth: day.IsCurrentMonth,
			IsToday:        day.IsToday,
			Shows:          cellShows,
		})
		if day.IsCurrentMonth {
			addTotals(&resp.Totals, cellShows)
		}
	}
	return resp, hit, nil
}

// Day returns the shows booked on a single date.
func (s *CalendarService) Day(ctx context.Context, req dto.CalendarDayRequest) (*dto.CalendarDayResponse, bool, error) {
	today := s.builder.Today()
	date := today
	if req.Date != nil {
		date = *req.Date
	}

	shows, hit, err := s.showsInRange(ctx, date, date, req.Artist)
	if err != nil {
		return nil, false, err
	}

	resp := &dto.CalendarDayResponse{
		Date:    date,
		Weekday: date.Weekday().String(),
		IsToday: date.Equal(today),
		Shows:   calendar.ShowsOn(shows, date, req.Artist),
	}
	addTotals(&resp.Totals, resp.Shows)
	return resp, hit, nil
}

// Navigate moves the reference date one month in the given direction.
func (s *CalendarService) Navigate(reference *calendar.Date, direction string) (*dto.CalendarNavigateResponse, error) {
	dir, err := calendar.ParseDirection(direction)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "direction must be prev or next")
	}
	from := s.builder.Today()
	if reference != nil {
		from = *reference
	}
	target := calendar.ShiftMonth(from, dir)
	return &dto.CalendarNavigateResponse{
		From:      from,
		Direction: dir.String(),
		Reference: target,
		Year:      target.Year,
		Month:     int(target.Month),
	}, nil
}

// Invalidate drops every cached calendar range.
func (s *CalendarService) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Invalidate(ctx, CalendarCachePattern)
}

func (s *CalendarService) showsInRange(ctx context.Context, from, to calendar.Date, filter calendar.ArtistFilter) ([]models.Show, bool, error) {
	// Name matches are resolved in memory, so only a pure id filter narrows the query.
	artistID := ""
	if !filter.IsZero() && strings.TrimSpace(filter.Name) == "" {
		artistID = strings.TrimSpace(filter.ID)
	}
	cacheKey := calendarCacheKey(from, to, artistID)

	var cached []models.Show
	if s.cache != nil {
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err != nil {
			s.logger.Warn("calendar cache read failed", zap.String("key", cacheKey), zap.Error(err))
		} else if hit {
			return cached, true, nil
		}
	}

	start := time.Now()
	shows, err := s.repo.ListByDateRange(ctx, from, to, artistID)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load calendar shows")
	}
	s.metrics.ObserveDBQuery("calendar_shows_range", time.Since(start))

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, shows, 0); err != nil {
			s.logger.Warn("cache calendar shows", zap.Error(err))
		}
	}
	return shows, false, nil
}

func calendarCacheKey(from, to calendar.Date, artistID string) string {
	if artistID == "" {
		artistID = "all"
	}
	return fmt.Sprintf("calendar:shows:%s:%s:%s", from, to, artistID)
}

func addTotals(totals *dto.CalendarTotals, shows []models.Show) {
	for _, show := range shows {
		if show.Status == models.ShowStatusCancelled {
			continue
		}
		totals.Shows++
		totals.TicketsSold += show.Sold
		totals.Capacity += show.Capacity
		totals.GrossValue = round2(totals.GrossValue + show.Price*float64(show.Sold))
	}
}
