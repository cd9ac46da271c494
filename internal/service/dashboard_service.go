package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/gig-scheduler-api/internal/dto"
	"github.com/noah-isme/gig-scheduler-api/internal/models"
	"github.com/noah-isme/gig-scheduler-api/pkg/calendar"
	appErrors "github.com/noah-isme/gig-scheduler-api/pkg/errors"
)

const (
	defaultUpcomingLimit = 5
	maxUpcomingLimit     = 20
)

type dashboardShowReader interface {
	List(ctx context.Context, filter models.ShowFilter) ([]models.Show, int, error)
	ListByDateRange(ctx context.Context, from, to calendar.Date, artistID string) ([]models.Show, error)
}

type artistCounter interface {
	List(ctx context.Context, filter models.ArtistFilter) ([]models.Artist, int, error)
}

// DashboardServiceParams groups constructor dependencies.
type DashboardServiceParams struct {
	Shows   dashboardShowReader
	Artists artistCounter
	Builder *calendar.Builder
	Metrics *MetricsService
	Logger  *zap.Logger
}

// DashboardService composes the home screen: month stats and the next shows.
type DashboardService struct {
	shows   dashboardShowReader
	artists artistCounter
	builder *calendar.Builder
	metrics *MetricsService
	logger  *zap.Logger
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(params DashboardServiceParams) *DashboardService {
	builder := params.Builder
	if builder == nil {
		builder = calendar.NewBuilder(time.UTC)
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		shows:   params.Shows,
		artists: params.Artists,
		builder: builder,
		metrics: params.Metrics,
		logger:  logger,
	}
}

// NormalizeUpcomingLimit clamps the number of upcoming shows to return.
func NormalizeUpcomingLimit(limit int) int {
	if limit <= 0 {
		return defaultUpcomingLimit
	}
	if limit > maxUpcomingLimit {
		return maxUpcomingLimit
	}
	return limit
}

// Home returns this month against last month, the active roster size and the
// next non-cancelled shows from today on.
func (s *DashboardService) Home(ctx context.Context, limit int) (*dto.DashboardResponse, error) {
	today := s.builder.Today()
	limit = NormalizeUpcomingLimit(limit)

	start := time.Now()
	upcoming, total, err := s.shows.List(ctx, models.ShowFilter{
		DateFrom:         &today,
		ExcludeCancelled: true,
		SortBy:           "date",
		SortOrder:        "asc",
		Page:             1,
		PageSize:         limit,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list upcoming shows")
	}
	s.metrics.ObserveDBQuery("dashboard_upcoming", time.Since(start))
	if upcoming == nil {
		upcoming = []models.Show{}
	}

	current, err := s.monthTotals(ctx, today)
	if err != nil {
		return nil, err
	}
	previous, err := s.monthTotals(ctx, calendar.ShiftMonth(today, calendar.Backward))
	if err != nil {
		return nil, err
	}

	active := true
	_, activeArtists, err := s.artists.List(ctx, models.ArtistFilter{Active: &active, Page: 1, PageSize: 1})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count artists")
	}

	stats := dto.DashboardMonthStats{
		Month:         current,
		PreviousMonth: previous,
		ShowsChange:   current.Shows - previous.Shows,
	}
	if previous.GrossValue > 0 {
		change := round2((current.GrossValue - previous.GrossValue) / previous.GrossValue * 100)
		stats.RevenueChangePct = &change
	}
	if current.Capacity > 0 {
		stats.OccupancyRate = round2(float64(current.TicketsSold) / float64(current.Capacity) * 100)
	}

	return &dto.DashboardResponse{
		Today:         today,
		Stats:         stats,
		ActiveArtists: activeArtists,
		Upcoming:      upcoming,
		UpcomingTotal: total,
	}, nil
}

func (s *DashboardService) monthTotals(ctx context.Context, reference calendar.Date) (dto.CalendarTotals, error) {
	var totals dto.CalendarTotals
	shows, err := s.shows.ListByDateRange(ctx, reference.FirstOfMonth(), reference.LastOfMonth(), "")
	if err != nil {
		return totals, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load month shows")
	}
	addTotals(&totals, shows)
	return totals, nil
}
