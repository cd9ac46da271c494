package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/gig-scheduler-api/internal/models"
	"github.com/noah-isme/gig-scheduler-api/pkg/calendar"
	appErrors "github.com/noah-isme/gig-scheduler-api/pkg/errors"
)

type showRepository interface {
	List(ctx context.Context, filter models.ShowFilter) ([]models.Show, int, error)
	FindByID(ctx context.Context, id string) (*models.Show, error)
	Create(ctx context.Context, show *models.Show) error
	Update(ctx context.Context, show *models.Show) error
	Delete(ctx context.Context, id string) error
}

type artistLookup interface {
	FindByID(ctx context.Context, id string) (*models.Artist, error)
}

// ScheduleChange describes a mutation that affects the calendar.
type ScheduleChange struct {
	Action   string          `json:"action"`
	ShowID   string          `json:"show_id"`
	ArtistID string          `json:"artist_id"`
	Dates    []calendar.Date `json:"dates"`
}

// Schedule change actions.
const (
	ScheduleActionCreated = "show.created"
	ScheduleActionUpdated = "show.updated"
	ScheduleActionDeleted = "show.deleted"
	// ScheduleActionArtistRenamed carries no show id; every show of ArtistID changed.
	ScheduleActionArtistRenamed = "artist.renamed"
)

// ScheduleNotifier is told about every show mutation after it is persisted.
type ScheduleNotifier interface {
	NotifyScheduleChanged(ctx context.Context, change ScheduleChange) error
}

// CreateShowRequest represents payload for booking a show.
type CreateShowRequest struct {
	Title     string  `json:"title" validate:"required,max=200"`
	ArtistID  string  `json:"artist_id" validate:"required"`
	Date      string  `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime *string `json:"start_time" validate:"omitempty,datetime=15:04"`
	Venue     string  `json:"venue" validate:"required,max=200"`
	City      string  `json:"city" validate:"required,max=120"`
	Status    string  `json:"status" validate:"omitempty,oneof=confirmed pending cancelled"`
	Price     float64 `json:"price" validate:"gte=0"`
	Capacity  int     `json:"capacity" validate:"required,gt=0"`
	Sold      int     `json:"sold" validate:"gte=0"`
	Notes     *string `json:"notes" validate:"omitempty,max=2000"`
}

// UpdateShowRequest represents payload for rescheduling or editing a show.
type UpdateShowRequest CreateShowRequest

// ShowService orchestrates show bookings.
type ShowService struct {
	repo      showRepository
	artists   artistLookup
	notifier  ScheduleNotifier
	validator *validator.Validate
	logger    *zap.Logger
}

// NewShowService constructs a ShowService. The notifier is optional.
func NewShowService(repo showRepository, artists artistLookup, notifier ScheduleNotifier, validate *validator.Validate, logger *zap.Logger) *ShowService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ShowService{repo: repo, artists: artists, notifier: notifier, validator: validate, logger: logger}
}

// List returns shows plus pagination data.
func (s *ShowService) List(ctx context.Context, filter models.ShowFilter) ([]models.Show, *models.Pagination, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "unknown show status")
	}
	if filter.DateFrom != nil && filter.DateTo != nil && filter.DateTo.Before(*filter.DateFrom) {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "date_to must not be before date_from")
	}
	shows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list shows")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return shows, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns a show by id.
func (s *ShowService) Get(ctx context.Context, id string) (*models.Show, error) {
	show, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "show not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load show")
	}
	return show, nil
}

// Create books a new show.
func (s *ShowService) Create(ctx context.Context, req CreateShowRequest) (*models.Show, error) {
	show := &models.Show{}
	if err := s.apply(ctx, show, req); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, show); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create show")
	}
	s.notify(ctx, ScheduleChange{Action: ScheduleActionCreated, ShowID: show.ID, ArtistID: show.ArtistID, Dates: []calendar.Date{show.Date}})
	return show, nil
}

// Update modifies an existing show. Moving a show reports both the old and
// the new date.
func (s *ShowService) Update(ctx context.Context, id string, req UpdateShowRequest) (*models.Show, error) {
	show, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := show.Date
	if err := s.apply(ctx, show, CreateShowRequest(req)); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, show); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update show")
	}
	dates := []calendar.Date{show.Date}
	if !previous.Equal(show.Date) {
		dates = []calendar.Date{previous, show.Date}
	}
	s.notify(ctx, ScheduleChange{Action: ScheduleActionUpdated, ShowID: show.ID, ArtistID: show.ArtistID, Dates: dates})
	return show, nil
}

// Delete cancels a booking permanently.
func (s *ShowService) Delete(ctx context.Context, id string) error {
	show, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete show")
	}
	s.notify(ctx, ScheduleChange{Action: ScheduleActionDeleted, ShowID: show.ID, ArtistID: show.ArtistID, Dates: []calendar.Date{show.Date}})
	return nil
}

func (s *ShowService) apply(ctx context.Context, show *models.Show, req CreateShowRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid show payload")
	}
	if req.Sold > req.Capacity {
		return appErrors.Clone(appErrors.ErrValidation, "sold tickets exceed capacity")
	}
	date, err := parseRequestDate(req.Date, "date")
	if err != nil {
		return err
	}

	artist, err := s.artists.FindByID(ctx, req.ArtistID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrValidation, "artist not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load artist")
	}

	status := models.ShowStatus(req.Status)
	if status == "" {
		status = models.ShowStatusPending
	}

	show.Title = strings.TrimSpace(req.Title)
	show.ArtistID = artist.ID
	show.ArtistName = artist.Name
	show.Date = date
	show.StartTime = normalizeOptional(req.StartTime)
	show.Venue = strings.TrimSpace(req.Venue)
	show.City = strings.TrimSpace(req.City)
	show.Status = status
	show.Price = round2(req.Price)
	show.Capacity = req.Capacity
	show.Sold = req.Sold
	show.Notes = normalizeOptional(req.Notes)
	return nil
}

func (s *ShowService) notify(ctx context.Context, change ScheduleChange) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyScheduleChanged(ctx, change); err != nil {
		s.logger.Warn("schedule change not dispatched", zap.String("show_id", change.ShowID), zap.String("action", change.Action), zap.Error(err))
	}
}
