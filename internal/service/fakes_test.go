package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/noah-isme/gig-scheduler-api/internal/models"
	"github.com/noah-isme/gig-scheduler-api/pkg/calendar"
	appErrors "github.com/noah-isme/gig-scheduler-api/pkg/errors"
	"github.com/noah-isme/gig-scheduler-api/pkg/events"
)

type fakeShowRepo struct {
	mu         sync.Mutex
	items      map[string]models.Show
	order      []string
	rangeCalls int
	lastArtist string
	rangeErr   error
	lastFilter models.ShowFilter
	nextID     int
}

func newFakeShowRepo(shows ...models.Show) *fakeShowRepo {
	repo := &fakeShowRepo{items: map[string]models.Show{}}
	for _, show := range shows {
		repo.items[show.ID] = show
		repo.order = append(repo.order, show.ID)
	}
	return repo
}

func (m *fakeShowRepo) List(ctx context.Context, filter models.ShowFilter) ([]models.Show, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastFilter = filter
	out := make([]models.Show, 0, len(m.order))
	for _, id := range m.order {
		show := m.items[id]
		switch {
		case filter.Status != nil && show.Status != *filter.Status:
			continue
		case filter.Status == nil && filter.ExcludeCancelled && show.Status == models.ShowStatusCancelled:
			continue
		case filter.ArtistID != "" && show.ArtistID != filter.ArtistID:
			continue
		case filter.DateFrom != nil && show.Date.Before(*filter.DateFrom):
			continue
		case filter.DateTo != nil && show.Date.After(*filter.DateTo):
			continue
		}
		out = append(out, show)
	}
	if filter.SortBy == "date" {
		sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	}
	total := len(out)
	if filter.PageSize > 0 && len(out) > filter.PageSize {
		out = out[:filter.PageSize]
	}
	return out, total, nil
}

func (m *fakeShowRepo) ListByDateRange(ctx context.Context, from, to calendar.Date, artistID string) ([]models.Show, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rangeCalls++
	m.lastArtist = artistID
	if m.rangeErr != nil {
		return nil, m.rangeErr
	}
	out := make([]models.Show, 0)
	for _, id := range m.order {
		show := m.items[id]
		if show.Date.Before(from) || show.Date.After(to) {
			continue
		}
		if artistID != "" && show.ArtistID != artistID {
			continue
		}
		out = append(out, show)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (m *fakeShowRepo) FindByID(ctx context.Context, id string) (*models.Show, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if show, ok := m.items[id]; ok {
		return &show, nil
	}
	return nil, sql.ErrNoRows
}

func (m *fakeShowRepo) Create(ctx context.Context, show *models.Show) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if show.ID == "" {
		m.nextID++
		show.ID = "show-" + strconv.Itoa(m.nextID)
	}
	show.CreatedAt = time.Now()
	show.UpdatedAt = show.CreatedAt
	m.items[show.ID] = *show
	m.order = append(m.order, show.ID)
	return nil
}

func (m *fakeShowRepo) Update(ctx context.Context, show *models.Show) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[show.ID] = *show
	return nil
}

func (m *fakeShowRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *fakeShowRepo) renameArtist(artistID, name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, show := range m.items {
		if show.ArtistID == artistID {
			show.ArtistName = name
			m.items[id] = show
		}
	}
}

func (m *fakeShowRepo) countArtist(artistID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, show := range m.items {
		if show.ArtistID == artistID {
			total++
		}
	}
	return total
}

type fakeArtistRepo struct {
	items     map[string]*models.Artist
	deleted   []string
	shows     *fakeShowRepo
	deleteErr error
}

func (m *fakeArtistRepo) List(ctx context.Context, filter models.ArtistFilter) ([]models.Artist, int, error) {
	out := make([]models.Artist, 0, len(m.items))
	for _, artist := range m.items {
		out = append(out, *artist)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, len(out), nil
}

func (m *fakeArtistRepo) FindByID(ctx context.Context, id string) (*models.Artist, error) {
	if artist, ok := m.items[id]; ok {
		cp := *artist
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *fakeArtistRepo) ExistsByName(ctx context.Context, name, excludeID string) (bool, error) {
	for id, artist := range m.items {
		if strings.EqualFold(artist.Name, name) && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *fakeArtistRepo) Create(ctx context.Context, artist *models.Artist) error {
	if m.items == nil {
		m.items = map[string]*models.Artist{}
	}
	if artist.ID == "" {
		artist.ID = "artist-" + strings.ToLower(strings.ReplaceAll(artist.Name, " ", "-"))
	}
	cp := *artist
	m.items[artist.ID] = &cp
	return nil
}

func (m *fakeArtistRepo) Update(ctx context.Context, artist *models.Artist) error {
	cp := *artist
	m.items[artist.ID] = &cp
	if m.shows != nil {
		m.shows.renameArtist(artist.ID, artist.Name)
	}
	return nil
}

func (m *fakeArtistRepo) CountShows(ctx context.Context, artistID string) (int, error) {
	if m.shows == nil {
		return 0, nil
	}
	return m.shows.countArtist(artistID), nil
}

func (m *fakeArtistRepo) Delete(ctx context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.items, id)
	m.deleted = append(m.deleted, id)
	return nil
}

type fakeExpenseRepo struct {
	items []models.Expense
}

func (m *fakeExpenseRepo) ListByShow(ctx context.Context, showID string) ([]models.Expense, error) {
	var out []models.Expense
	for _, expense := range m.items {
		if expense.ShowID == showID {
			out = append(out, expense)
		}
	}
	return out, nil
}

func (m *fakeExpenseRepo) ListByRange(ctx context.Context, from, to *calendar.Date) ([]models.Expense, error) {
	var out []models.Expense
	for _, expense := range m.items {
		if from != nil && expense.Date.Before(*from) {
			continue
		}
		if to != nil && expense.Date.After(*to) {
			continue
		}
		out = append(out, expense)
	}
	return out, nil
}

func (m *fakeExpenseRepo) Create(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = "expense"
	}
	m.items = append(m.items, *expense)
	return nil
}

func (m *fakeExpenseRepo) Delete(ctx context.Context, id string) error {
	for i, expense := range m.items {
		if expense.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

type fakeCacheRepo struct {
	mu      sync.Mutex
	entries map[string][]byte
	deletes []string
}

func newFakeCacheRepo() *fakeCacheRepo {
	return &fakeCacheRepo{entries: map[string][]byte{}}
}

func (m *fakeCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *fakeCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	return nil
}

func (m *fakeCacheRepo) DeleteByPattern(ctx context.Context, pattern string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes = append(m.deletes, pattern)
	prefix := strings.TrimSuffix(pattern, "*")
	removed := 0
	for key := range m.entries {
		if strings.HasPrefix(key, prefix) {
			delete(m.entries, key)
			removed++
		}
	}
	return removed, nil
}

func (m *fakeCacheRepo) keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.entries))
	for key := range m.entries {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

type recordingNotifier struct {
	changes []ScheduleChange
	err     error
}

func (r *recordingNotifier) NotifyScheduleChanged(ctx context.Context, change ScheduleChange) error {
	r.changes = append(r.changes, change)
	return r.err
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (r *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, event)
	return nil
}

func (r *recordingPublisher) published() []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]events.Event(nil), r.events...)
}

func strPtr(v string) *string {
	return &v
}

func date(y int, m time.Month, d int) calendar.Date {
	return calendar.NewDate(y, m, d)
}

func fixedBuilder(y int, m time.Month, d int) *calendar.Builder {
	return &calendar.Builder{
		Now:      func() time.Time { return time.Date(y, m, d, 15, 0, 0, 0, time.UTC) },
		Location: time.UTC,
	}
}
