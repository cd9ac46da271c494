package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/gig-scheduler-api/internal/models"
	"github.com/noah-isme/gig-scheduler-api/pkg/calendar"
)

const showColumns = "id, title, artist_id, artist_name, show_date, start_time, venue, city, status, price, capacity, sold, notes, created_at, updated_at"

// ShowRepository persists booked shows.
type ShowRepository struct {
	db *sqlx.DB
}

// NewShowRepository constructs a ShowRepository.
func NewShowRepository(db *sqlx.DB) *ShowRepository {
	return &ShowRepository{db: db}
}

// List returns shows matching filters along with total count.
func (r *ShowRepository) List(ctx context.Context, filter models.ShowFilter) ([]models.Show, int, error) {
	base := "FROM shows WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Search != "" {
		search := "%" + strings.ToLower(filter.Search) + "%"
		n := len(args) + 1
		conditions = append(conditions, fmt.Sprintf("(LOWER(title) LIKE $%d OR LOWER(artist_name) LIKE $%d OR LOWER(venue) LIKE $%d OR LOWER(city) LIKE $%d)", n, n, n, n))
		args = append(args, search)
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, string(*filter.Status))
	} else if filter.ExcludeCancelled {
		conditions = append(conditions, "status <> 'cancelled'")
	}
	if filter.ArtistID != "" {
		conditions = append(conditions, fmt.Sprintf("artist_id = $%d", len(args)+1))
		args = append(args, filter.ArtistID)
	}
	if filter.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("show_date >= $%d", len(args)+1))
		args = append(args, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("show_date <= $%d", len(args)+1))
		args = append(args, *filter.DateTo)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	allowedSorts := map[string]string{
		"date":       "show_date",
		"artist":     "artist_name",
		"venue":      "venue",
		"city":       "city",
		"price":      "price",
		"created_at": "created_at",
	}
	column, ok := allowedSorts[filter.SortBy]
	if !ok {
		column = "show_date"
	}

	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s, created_at ASC LIMIT %d OFFSET %d", showColumns, base, column, order, size, offset)
	var shows []models.Show
	if err := r.db.SelectContext(ctx, &shows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list shows: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count shows: %w", err)
	}

	return shows, total, nil
}

// ListByDateRange returns every show between from and to inclusive, ordered
// by date, start time and insertion.
func (r *ShowRepository) ListByDateRange(ctx context.Context, from, to calendar.Date, artistID string) ([]models.Show, error) {
	query := fmt.Sprintf("SELECT %s FROM shows WHERE show_date >= $1 AND show_date <= $2", showColumns)
	args := []interface{}{from, to}
	if artistID != "" {
		query += " AND artist_id = $3"
		args = append(args, artistID)
	}
	query += " ORDER BY show_date ASC, start_time ASC NULLS FIRST, created_at ASC"

	var shows []models.Show
	if err := r.db.SelectContext(ctx, &shows, query, args...); err != nil {
		return nil, fmt.Errorf("list shows by range: %w", err)
	}
	return shows, nil
}

// FindByID fetches a show by ID.
func (r *ShowRepository) FindByID(ctx context.Context, id string) (*models.Show, error) {
	query := fmt.Sprintf("SELECT %s FROM shows WHERE id = $1", showColumns)
	var show models.Show
	if err := r.db.GetContext(ctx, &show, query, id); err != nil {
		return nil, err
	}
	return &show, nil
}

// Create inserts a show.
func (r *ShowRepository) Create(ctx context.Context, show *models.Show) error {
	if show.ID == "" {
		show.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if show.CreatedAt.IsZero() {
		show.CreatedAt = now
	}
	show.UpdatedAt = now
	const query = `INSERT INTO shows (id, title, artist_id, artist_name, show_date, start_time, venue, city, status, price, capacity, sold, notes, created_at, updated_at)
VALUES (:id, :title, :artist_id, :artist_name, :show_date, :start_time, :venue, :city, :status, :price, :capacity, :sold, :notes, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, show); err != nil {
		return fmt.Errorf("create show: %w", err)
	}
	return nil
}

// Update modifies a show.
func (r *ShowRepository) Update(ctx context.Context, show *models.Show) error {
	show.UpdatedAt = time.Now().UTC()
	const query = `UPDATE shows SET title = :title, artist_id = :artist_id, artist_name = :artist_name, show_date = :show_date, start_time = :start_time,
venue = :venue, city = :city, status = :status, price = :price, capacity = :capacity, sold = :sold, notes = :notes, updated_at = :updated_at
WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, show); err != nil {
		return fmt.Errorf("update show: %w", err)
	}
	return nil
}

// Delete removes a show.
func (r *ShowRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM shows WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete show: %w", err)
	}
	return nil
}
