package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/gig-scheduler-api/internal/models"
)

// ArtistRepository persists represented artists.
type ArtistRepository struct {
	db *sqlx.DB
}

// NewArtistRepository constructs an ArtistRepository.
func NewArtistRepository(db *sqlx.DB) *ArtistRepository {
	return &ArtistRepository{db: db}
}

// List returns artists ordered by name.
func (r *ArtistRepository) List(ctx context.Context, filter models.ArtistFilter) ([]models.Artist, int, error) {
	base := "FROM artists WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("active = $%d", len(args)+1))
		args = append(args, *filter.Active)
	}
	if filter.Search != "" {
		n := len(args) + 1
		conditions = append(conditions, fmt.Sprintf("(LOWER(name) LIKE $%d OR LOWER(COALESCE(genre, '')) LIKE $%d)", n, n))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 50
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT id, name, genre, color, email, phone, active, created_at, updated_at %s ORDER BY name ASC LIMIT %d OFFSET %d", base, size, offset)
	var artists []models.Artist
	if err := r.db.SelectContext(ctx, &artists, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list artists: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) %s", base), args...); err != nil {
		return nil, 0, fmt.Errorf("count artists: %w", err)
	}
	return artists, total, nil
}

// FindByID fetches an artist by ID.
func (r *ArtistRepository) FindByID(ctx context.Context, id string) (*models.Artist, error) {
	const query = `SELECT id, name, genre, color, email, phone, active, created_at, updated_at FROM artists WHERE id = $1`
	var artist models.Artist
	if err := r.db.GetContext(ctx, &artist, query, id); err != nil {
		return nil, err
	}
	return &artist, nil
}

// ExistsByName checks for another artist with the same name.
func (r *ArtistRepository) ExistsByName(ctx context.Context, name, excludeID string) (bool, error) {
	query := "SELECT 1 FROM artists WHERE LOWER(name) = LOWER($1)"
	args := []interface{}{name}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	query += " LIMIT 1"

	var exists int
	if err := r.db.GetContext(ctx, &exists, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check artist name: %w", err)
	}
	return true, nil
}

// Create inserts an artist.
func (r *ArtistRepository) Create(ctx context.Context, artist *models.Artist) error {
	if artist.ID == "" {
		artist.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	artist.CreatedAt = now
	artist.UpdatedAt = now
	const query = `INSERT INTO artists (id, name, genre, color, email, phone, active, created_at, updated_at)
VALUES (:id, :name, :genre, :color, :email, :phone, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, artist); err != nil {
		return fmt.Errorf("create artist: %w", err)
	}
	return nil
}

// Update modifies an artist and rewrites the artist name stored on its shows
// in the same transaction.
func (r *ArtistRepository) Update(ctx context.Context, artist *models.Artist) (err error) {
	artist.UpdatedAt = time.Now().UTC()
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin artist update: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const query = `UPDATE artists SET name = :name, genre = :genre, color = :color, email = :email, phone = :phone, active = :active, updated_at = :updated_at WHERE id = :id`
	if _, err = tx.NamedExecContext(ctx, query, artist); err != nil {
		return fmt.Errorf("update artist: %w", err)
	}
	const showsQuery = `UPDATE shows SET artist_name = $1, updated_at = $2 WHERE artist_id = $3 AND artist_name <> $1`
	if _, err = tx.ExecContext(ctx, showsQuery, artist.Name, artist.UpdatedAt, artist.ID); err != nil {
		return fmt.Errorf("rename artist shows: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit artist update: %w", err)
	}
	return nil
}

// CountShows returns how many shows reference the artist.
func (r *ArtistRepository) CountShows(ctx context.Context, artistID string) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM shows WHERE artist_id = $1", artistID); err != nil {
		return 0, fmt.Errorf("count artist shows: %w", err)
	}
	return total, nil
}

// Delete removes an artist.
func (r *ArtistRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM artists WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete artist: %w", err)
	}
	return nil
}
