package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/noah-isme/gig-scheduler-api/internal/models"
	appErrors "github.com/noah-isme/gig-scheduler-api/pkg/errors"
)

const defaultArtistColor = "#6366F1"

// foreignKeyViolation is the Postgres SQLSTATE raised by ON DELETE RESTRICT.
const foreignKeyViolation = "23503"

type artistRepository interface {
	List(ctx context.Context, filter models.ArtistFilter) ([]models.Artist, int, error)
	FindByID(ctx context.Context, id string) (*models.Artist, error)
	ExistsByName(ctx context.Context, name, excludeID string) (bool, error)
	Create(ctx context.Context, artist *models.Artist) error
	Update(ctx context.Context, artist *models.Artist) error
	CountShows(ctx context.Context, artistID string) (int, error)
	Delete(ctx context.Context, id string) error
}

// CreateArtistRequest represents payload for registering an artist.
type CreateArtistRequest struct {
	Name  string  `json:"name" validate:"required,max=150"`
	Genre *string `json:"genre" validate:"omitempty,max=80"`
	Color string  `json:"color" validate:"omitempty,hexcolor"`
	Email *string `json:"email" validate:"omitempty,email"`
	Phone *string `json:"phone" validate:"omitempty,max=50"`
}

// UpdateArtistRequest represents payload for editing an artist.
type UpdateArtistRequest struct {
	Name   string  `json:"name" validate:"required,max=150"`
	Genre  *string `json:"genre" validate:"omitempty,max=80"`
	Color  string  `json:"color" validate:"omitempty,hexcolor"`
	Email  *string `json:"email" validate:"omitempty,email"`
	Phone  *string `json:"phone" validate:"omitempty,max=50"`
	Active *bool   `json:"active"`
}

// ArtistService manages the artist roster.
type ArtistService struct {
	repo      artistRepository
	notifier  ScheduleNotifier
	validator *validator.Validate
	logger    *zap.Logger
}

// NewArtistService constructs an ArtistService. notifier may be nil.
func NewArtistService(repo artistRepository, notifier ScheduleNotifier, validate *validator.Validate, logger *zap.Logger) *ArtistService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ArtistService{repo: repo, notifier: notifier, validator: validate, logger: logger}
}

// List returns artists plus pagination data.
func (s *ArtistService) List(ctx context.Context, filter models.ArtistFilter) ([]models.Artist, *models.Pagination, error) {
	artists, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list artists")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 50
	}
	return artists, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns an artist by id.
func (s *ArtistService) Get(ctx context.Context, id string) (*models.Artist, error) {
	artist, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "artist not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load artist")
	}
	return artist, nil
}

// Create registers a new artist.
func (s *ArtistService) Create(ctx context.Context, req CreateArtistRequest) (*models.Artist, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid artist payload")
	}
	name := strings.TrimSpace(req.Name)
	if err := s.ensureUniqueName(ctx, name, ""); err != nil {
		return nil, err
	}

	artist := &models.Artist{
		Name:   name,
		Genre:  normalizeOptional(req.Genre),
		Color:  normalizeColor(req.Color),
		Email:  normalizeOptional(req.Email),
		Phone:  normalizeOptional(req.Phone),
		Active: true,
	}
	if err := s.repo.Create(ctx, artist); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create artist")
	}
	return artist, nil
}

// Update modifies an existing artist.
func (s *ArtistService) Update(ctx context.Context, id string, req UpdateArtistRequest) (*models.Artist, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid artist payload")
	}
	artist, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if err := s.ensureUniqueName(ctx, name, id); err != nil {
		return nil, err
	}

	renamed := artist.Name != name
	artist.Name = name
	artist.Genre = normalizeOptional(req.Genre)
	artist.Color = normalizeColor(req.Color)
	artist.Email = normalizeOptional(req.Email)
	artist.Phone = normalizeOptional(req.Phone)
	if req.Active != nil {
		artist.Active = *req.Active
	}
	if err := s.repo.Update(ctx, artist); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update artist")
	}
	if renamed {
		s.notifyRename(ctx, artist.ID)
	}
	return artist, nil
}

// Delete removes an artist that has no booked shows.
func (s *ArtistService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	booked, err := s.repo.CountShows(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count artist shows")
	}
	if booked > 0 {
		return appErrors.Clone(appErrors.ErrConflict, "artist has booked shows")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		// A show booked between the count and the delete trips the foreign key.
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation {
			return appErrors.Clone(appErrors.ErrConflict, "artist has booked shows")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete artist")
	}
	return nil
}

func (s *ArtistService) notifyRename(ctx context.Context, artistID string) {
	if s.notifier == nil {
		return
	}
	change := ScheduleChange{Action: ScheduleActionArtistRenamed, ArtistID: artistID}
	if err := s.notifier.NotifyScheduleChanged(ctx, change); err != nil {
		s.logger.Warn("artist rename not dispatched", zap.String("artist_id", artistID), zap.Error(err))
	}
}

func (s *ArtistService) ensureUniqueName(ctx context.Context, name, excludeID string) error {
	exists, err := s.repo.ExistsByName(ctx, name, excludeID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check artist name")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, "artist name already used")
	}
	return nil
}

func normalizeColor(color string) string {
	color = strings.TrimSpace(color)
	if color == "" {
		return defaultArtistColor
	}
	return strings.ToUpper(color)
}
