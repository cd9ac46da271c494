package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/gig-scheduler-api/internal/models"
	"github.com/noah-isme/gig-scheduler-api/pkg/calendar"
	appErrors "github.com/noah-isme/gig-scheduler-api/pkg/errors"
)

type expenseRepository interface {
	ListByShow(ctx context.Context, showID string) ([]models.Expense, error)
	ListByRange(ctx context.Context, from, to *calendar.Date) ([]models.Expense, error)
	Create(ctx context.Context, expense *models.Expense) error
	Delete(ctx context.Context, id string) error
}

type showLookup interface {
	FindByID(ctx context.Context, id string) (*models.Show, error)
	ListByDateRange(ctx context.Context, from, to calendar.Date, artistID string) ([]models.Show, error)
}

// Open finance ranges are clamped to these dates when loading shows.
var (
	financeFloor   = calendar.NewDate(1900, time.January, 1)
	financeCeiling = calendar.NewDate(9999, time.December, 31)
)

// CreateExpenseRequest represents payload for registering a travel cost.
type CreateExpenseRequest struct {
	Type        string  `json:"type" validate:"required,oneof=fuel meal snack toll repair other"`
	Amount      float64 `json:"amount" validate:"gt=0"`
	Date        string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	ReceiptURL  *string `json:"receipt_url" validate:"omitempty,url"`
}

// FuelEstimateRequest represents the inputs of a fuel cost estimate.
type FuelEstimateRequest struct {
	DistanceKm     float64 `json:"distance_km" validate:"gt=0"`
	ConsumptionKmL float64 `json:"consumption_km_per_l" validate:"gt=0"`
	PricePerLiter  float64 `json:"price_per_liter" validate:"gt=0"`
}

// ExpenseService manages per-show travel expenses.
type ExpenseService struct {
	repo      expenseRepository
	shows     showLookup
	validator *validator.Validate
	logger    *zap.Logger
}

// NewExpenseService constructs an ExpenseService.
func NewExpenseService(repo expenseRepository, shows showLookup, validate *validator.Validate, logger *zap.Logger) *ExpenseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExpenseService{repo: repo, shows: shows, validator: validate, logger: logger}
}

// ListByShow returns the expenses of a show.
func (s *ExpenseService) ListByShow(ctx context.Context, showID string) ([]models.Expense, error) {
	if _, err := s.loadShow(ctx, showID); err != nil {
		return nil, err
	}
	expenses, err := s.repo.ListByShow(ctx, showID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list expenses")
	}
	if expenses == nil {
		expenses = []models.Expense{}
	}
	return expenses, nil
}

// Create registers an expense against a show. A missing date defaults to the
// show date.
func (s *ExpenseService) Create(ctx context.Context, showID string, req CreateExpenseRequest) (*models.Expense, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid expense payload")
	}
	show, err := s.loadShow(ctx, showID)
	if err != nil {
		return nil, err
	}

	date := show.Date
	if req.Date != "" {
		if date, err = parseRequestDate(req.Date, "date"); err != nil {
			return nil, err
		}
	}

	expense := &models.Expense{
		ShowID:      show.ID,
		Type:        models.ExpenseType(req.Type),
		Amount:      round2(req.Amount),
		Date:        date,
		Description: normalizeOptional(req.Description),
		ReceiptURL:  normalizeOptional(req.ReceiptURL),
	}
	if err := s.repo.Create(ctx, expense); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create expense")
	}
	return expense, nil
}

// Delete removes an expense.
func (s *ExpenseService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "expense not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete expense")
	}
	return nil
}

// Summary groups expenses dated inside the optional range by type. Types are
// reported in ExpenseTypes order and empty types are omitted.
func (s *ExpenseService) Summary(ctx context.Context, from, to *calendar.Date) (*models.ExpenseSummary, error) {
	if from != nil && to != nil && to.Before(*from) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "to must not be before from")
	}
	expenses, err := s.repo.ListByRange(ctx, from, to)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to summarise expenses")
	}
	return summarizeExpenses(expenses, from, to), nil
}

// Finance returns ticket revenue against expenses for the optional range,
// broken down per artist. Expenses are attributed to the artist of their show.
func (s *ExpenseService) Finance(ctx context.Context, from, to *calendar.Date) (*models.FinanceSummary, error) {
	if from != nil && to != nil && to.Before(*from) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "to must not be before from")
	}
	lo, hi := financeFloor, financeCeiling
	if from != nil {
		lo = *from
	}
	if to != nil {
		hi = *to
	}

	shows, err := s.shows.ListByDateRange(ctx, lo, hi, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load shows")
	}
	expenses, err := s.repo.ListByRange(ctx, from, to)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load expenses")
	}

	summary := &models.FinanceSummary{From: from, To: to, ByArtist: []models.ArtistFinance{}}
	artists := map[string]*models.ArtistFinance{}
	bucket := func(show *models.Show) *models.ArtistFinance {
		entry, ok := artists[show.ArtistID]
		if !ok {
			entry = &models.ArtistFinance{ArtistID: show.ArtistID, ArtistName: show.ArtistName}
			artists[show.ArtistID] = entry
		}
		return entry
	}

	known := make(map[string]*models.Show, len(shows))
	for i := range shows {
		show := &shows[i]
		known[show.ID] = show
		if show.Status == models.ShowStatusCancelled {
			continue
		}
		revenue := show.Price * float64(show.Sold)
		entry := bucket(show)
		entry.Shows++
		entry.Revenue += revenue
		summary.Shows++
		summary.Revenue += revenue
	}

	for _, expense := range expenses {
		show, ok := known[expense.ShowID]
		if !ok {
			show, err = s.shows.FindByID(ctx, expense.ShowID)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					s.logger.Warn("expense without show", zap.String("expense_id", expense.ID), zap.String("show_id", expense.ShowID))
					summary.Expenses += expense.Amount
					continue
				}
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load show")
			}
			known[show.ID] = show
		}
		bucket(show).Expenses += expense.Amount
		summary.Expenses += expense.Amount
	}

	for _, entry := range artists {
		entry.Revenue = round2(entry.Revenue)
		entry.Expenses = round2(entry.Expenses)
		entry.Net = round2(entry.Revenue - entry.Expenses)
		summary.ByArtist = append(summary.ByArtist, *entry)
	}
	sort.Slice(summary.ByArtist, func(i, j int) bool {
		a, b := summary.ByArtist[i], summary.ByArtist[j]
		if a.Expenses != b.Expenses {
			return a.Expenses > b.Expenses
		}
		return a.ArtistName < b.ArtistName
	})

	summary.Revenue = round2(summary.Revenue)
	summary.Expenses = round2(summary.Expenses)
	summary.Net = round2(summary.Revenue - summary.Expenses)
	summary.ByType = summarizeExpenses(expenses, from, to).ByType
	return summary, nil
}

// EstimateFuel computes the fuel needed to drive a distance and its cost.
func (s *ExpenseService) EstimateFuel(req FuelEstimateRequest) (*models.FuelEstimate, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "distance, consumption and price must be positive")
	}
	liters := req.DistanceKm / req.ConsumptionKmL
	cost := liters * req.PricePerLiter
	return &models.FuelEstimate{
		DistanceKm:      req.DistanceKm,
		ConsumptionKmL:  req.ConsumptionKmL,
		PricePerLiter:   req.PricePerLiter,
		FuelNeededLiter: round2(liters),
		FuelCost:        round2(cost),
		TotalCost:       round2(cost),
	}, nil
}

func (s *ExpenseService) loadShow(ctx context.Context, id string) (*models.Show, error) {
	show, err := s.shows.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "show not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load show")
	}
	return show, nil
}

func summarizeExpenses(expenses []models.Expense, from, to *calendar.Date) *models.ExpenseSummary {
	summary := &models.ExpenseSummary{From: from, To: to, ByType: []models.ExpenseTypeTotal{}}
	totals := make(map[models.ExpenseType]*models.ExpenseTypeTotal, len(models.ExpenseTypes))
	for _, expense := range expenses {
		bucket, ok := totals[expense.Type]
		if !ok {
			bucket = &models.ExpenseTypeTotal{Type: expense.Type}
			totals[expense.Type] = bucket
		}
		bucket.Total += expense.Amount
		bucket.Count++
		summary.Total += expense.Amount
		summary.Count++
	}

	for _, expenseType := range models.ExpenseTypes {
		bucket, ok := totals[expenseType]
		if !ok {
			continue
		}
		if summary.Total > 0 {
			bucket.Percentage = round2(bucket.Total / summary.Total * 100)
		}
		bucket.Total = round2(bucket.Total)
		summary.ByType = append(summary.ByType, *bucket)
	}
	summary.Total = round2(summary.Total)
	return summary
}
