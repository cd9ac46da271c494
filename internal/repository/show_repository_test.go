package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gig-scheduler-api/internal/models"
	"github.com/noah-isme/gig-scheduler-api/pkg/calendar"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

var showRowColumns = []string{"id", "title", "artist_id", "artist_name", "show_date", "start_time", "venue", "city", "status", "price", "capacity", "sold", "notes", "created_at", "updated_at"}

func TestShowRepositoryListDefaults(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewShowRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(showRowColumns).
		AddRow("s1", "Festival", "a1", "Banda Azul", time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC), "21:00", "Arena", "Recife", "confirmed", 150.0, 500, 120, nil, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + showColumns + " FROM shows WHERE 1=1 ORDER BY show_date ASC, created_at ASC LIMIT 20 OFFSET 0")).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM shows WHERE 1=1")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	list, total, err := repo.List(context.Background(), models.ShowFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, calendar.NewDate(2024, time.March, 9), list[0].Date)
	require.NotNil(t, list[0].StartTime)
	assert.Equal(t, "21:00", *list[0].StartTime)
	assert.Equal(t, models.ShowStatusConfirmed, list[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShowRepositoryListFilters(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewShowRepository(db)

	status := models.ShowStatusPending
	from := calendar.NewDate(2024, time.May, 1)
	to := calendar.NewDate(2024, time.May, 31)
	where := "FROM shows WHERE 1=1 AND (LOWER(title) LIKE $1 OR LOWER(artist_name) LIKE $1 OR LOWER(venue) LIKE $1 OR LOWER(city) LIKE $1) AND status = $2 AND artist_id = $3 AND show_date >= $4 AND show_date <= $5"

	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + showColumns + " " + where + " ORDER BY price DESC, created_at ASC LIMIT 10 OFFSET 10")).
		WithArgs("%arena%", "pending", "a1", from.Time(), to.Time()).
		WillReturnRows(sqlmock.NewRows(showRowColumns))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) " + where)).
		WithArgs("%arena%", "pending", "a1", from.Time(), to.Time()).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	list, total, err := repo.List(context.Background(), models.ShowFilter{
		Search:    "Arena",
		Status:    &status,
		ArtistID:  "a1",
		DateFrom:  &from,
		DateTo:    &to,
		Page:      2,
		PageSize:  10,
		SortBy:    "price",
		SortOrder: "desc",
	})
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Equal(t, 0, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShowRepositoryListUpcoming(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewShowRepository(db)

	from := calendar.NewDate(2024, time.January, 10)
	where := "FROM shows WHERE 1=1 AND status <> 'cancelled' AND show_date >= $1"
	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + showColumns + " " + where + " ORDER BY show_date ASC, created_at ASC LIMIT 5 OFFSET 0")).
		WithArgs(from.Time()).
		WillReturnRows(sqlmock.NewRows(showRowColumns))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) " + where)).
		WithArgs(from.Time()).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	_, total, err := repo.List(context.Background(), models.ShowFilter{DateFrom: &from, ExcludeCancelled: true, PageSize: 5, SortBy: "date"})
	require.NoError(t, err)
	assert.Equal(t, 7, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShowRepositoryListRejectsUnknownSort(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewShowRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY show_date ASC, created_at ASC LIMIT 20 OFFSET 0")).
		WillReturnRows(sqlmock.NewRows(showRowColumns))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM shows WHERE 1=1")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	_, _, err := repo.List(context.Background(), models.ShowFilter{SortBy: "id; DROP TABLE shows", SortOrder: "sideways", PageSize: 500})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShowRepositoryListByDateRange(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewShowRepository(db)

	from := calendar.NewDate(2024, time.January, 28)
	to := calendar.NewDate(2024, time.March, 9)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + showColumns + " FROM shows WHERE show_date >= $1 AND show_date <= $2 AND artist_id = $3 ORDER BY show_date ASC, start_time ASC NULLS FIRST, created_at ASC")).
		WithArgs(from.Time(), to.Time(), "a1").
		WillReturnRows(sqlmock.NewRows(showRowColumns).
			AddRow("s1", "Matinee", "a1", "Banda Azul", "2024-02-10", nil, "Teatro", "Olinda", "pending", 80.0, 200, 0, nil, now, now).
			AddRow("s2", "Night", "a1", "Banda Azul", "2024-02-10", "22:00", "Bar", "Olinda", "confirmed", 60.0, 100, 90, "bring amps", now, now))

	shows, err := repo.ListByDateRange(context.Background(), from, to, "a1")
	require.NoError(t, err)
	require.Len(t, shows, 2)
	assert.Equal(t, "s1", shows[0].ID)
	assert.Nil(t, shows[0].StartTime)
	assert.Equal(t, calendar.NewDate(2024, time.February, 10), shows[1].Date)
	require.NotNil(t, shows[1].Notes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShowRepositoryListByDateRangeAllArtists(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewShowRepository(db)

	from := calendar.NewDate(2024, time.August, 25)
	to := calendar.NewDate(2024, time.October, 5)
	mock.ExpectQuery(regexp.QuoteMeta("FROM shows WHERE show_date >= $1 AND show_date <= $2 ORDER BY")).
		WithArgs(from.Time(), to.Time()).
		WillReturnRows(sqlmock.NewRows(showRowColumns))

	shows, err := repo.ListByDateRange(context.Background(), from, to, "")
	require.NoError(t, err)
	assert.Empty(t, shows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShowRepositoryFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewShowRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM shows WHERE id = $1")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShowRepositoryCreateUpdateDelete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewShowRepository(db)

	show := &models.Show{
		Title:      "Festival",
		ArtistID:   "a1",
		ArtistName: "Banda Azul",
		Date:       calendar.NewDate(2024, time.June, 15),
		Venue:      "Arena",
		City:       "Recife",
		Status:     models.ShowStatusConfirmed,
		Price:      120,
		Capacity:   300,
	}

	mock.ExpectExec("INSERT INTO shows").
		WithArgs(sqlmock.AnyArg(), "Festival", "a1", "Banda Azul", show.Date.Time(), nil, "Arena", "Recife", "confirmed", 120.0, 300, 0, nil, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	require.NoError(t, repo.Create(context.Background(), show))
	assert.NotEmpty(t, show.ID)
	assert.False(t, show.CreatedAt.IsZero())

	show.Sold = 40
	mock.ExpectExec("UPDATE shows SET title = ").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Update(context.Background(), show))

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM shows WHERE id = $1")).
		WithArgs(show.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(context.Background(), show.ID))

	assert.NoError(t, mock.ExpectationsWereMet())
}
