package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gig-scheduler-api/internal/models"
	appErrors "github.com/noah-isme/gig-scheduler-api/pkg/errors"
)

func newExpenseFixture() (*ExpenseService, *fakeExpenseRepo) {
	shows := newFakeShowRepo(models.Show{ID: "s1", Date: date(2024, time.March, 9)})
	repo := &fakeExpenseRepo{}
	return NewExpenseService(repo, shows, nil, nil), repo
}

func TestExpenseServiceCreateDefaultsToShowDate(t *testing.T) {
	svc, repo := newExpenseFixture()

	expense, err := svc.Create(context.Background(), "s1", CreateExpenseRequest{Type: "fuel", Amount: 210.499})
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.March, 9), expense.Date)
	assert.Equal(t, 210.5, expense.Amount)
	assert.Len(t, repo.items, 1)

	withDate, err := svc.Create(context.Background(), "s1", CreateExpenseRequest{Type: "toll", Amount: 12, Date: "2024-03-08"})
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.March, 8), withDate.Date)
}

func TestExpenseServiceCreateValidation(t *testing.T) {
	svc, _ := newExpenseFixture()

	_, err := svc.Create(context.Background(), "s1", CreateExpenseRequest{Type: "hotel", Amount: 10})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.Create(context.Background(), "s1", CreateExpenseRequest{Type: "meal", Amount: 0})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.Create(context.Background(), "missing", CreateExpenseRequest{Type: "meal", Amount: 5})
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestExpenseServiceListByShow(t *testing.T) {
	svc, repo := newExpenseFixture()

	expenses, err := svc.ListByShow(context.Background(), "s1")
	require.NoError(t, err)
	assert.NotNil(t, expenses)
	assert.Empty(t, expenses)

	repo.items = append(repo.items, models.Expense{ID: "e1", ShowID: "s1", Type: models.ExpenseMeal, Amount: 40})
	expenses, err = svc.ListByShow(context.Background(), "s1")
	require.NoError(t, err)
	assert.Len(t, expenses, 1)

	require.NoError(t, svc.Delete(context.Background(), "e1"))
	assert.Empty(t, repo.items)
}

func TestExpenseServiceDeleteUnknown(t *testing.T) {
	svc, repo := newExpenseFixture()
	repo.items = []models.Expense{{ID: "e1", ShowID: "s1", Type: models.ExpenseMeal, Amount: 40}}

	err := svc.Delete(context.Background(), "ghost")
	appErr := appErrors.FromError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
	assert.Equal(t, "expense not found", appErr.Message)
	assert.Len(t, repo.items, 1)
}

func TestExpenseServiceSummary(t *testing.T) {
	svc, repo := newExpenseFixture()
	repo.items = []models.Expense{
		{Type: models.ExpenseMeal, Amount: 50, Date: date(2024, time.March, 8)},
		{Type: models.ExpenseFuel, Amount: 100, Date: date(2024, time.March, 8)},
		{Type: models.ExpenseMeal, Amount: 25, Date: date(2024, time.March, 9)},
		{Type: models.ExpenseRepair, Amount: 75, Date: date(2024, time.April, 1)},
	}

	summary, err := svc.Summary(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 250.0, summary.Total)
	assert.Equal(t, 4, summary.Count)
	require.Len(t, summary.ByType, 3)
	assert.Equal(t, models.ExpenseTypeTotal{Type: models.ExpenseFuel, Total: 100, Count: 1, Percentage: 40}, summary.ByType[0])
	assert.Equal(t, models.ExpenseTypeTotal{Type: models.ExpenseMeal, Total: 75, Count: 2, Percentage: 30}, summary.ByType[1])
	assert.Equal(t, models.ExpenseRepair, summary.ByType[2].Type)

	from, to := date(2024, time.March, 1), date(2024, time.March, 31)
	march, err := svc.Summary(context.Background(), &from, &to)
	require.NoError(t, err)
	assert.Equal(t, 175.0, march.Total)
	assert.Len(t, march.ByType, 2)

	_, err = svc.Summary(context.Background(), &to, &from)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestExpenseServiceSummaryEmpty(t *testing.T) {
	svc, _ := newExpenseFixture()
	summary, err := svc.Summary(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Zero(t, summary.Total)
	assert.NotNil(t, summary.ByType)
	assert.Empty(t, summary.ByType)
}

func TestExpenseServiceEstimateFuel(t *testing.T) {
	svc, _ := newExpenseFixture()

	estimate, err := svc.EstimateFuel(FuelEstimateRequest{DistanceKm: 350, ConsumptionKmL: 3.5, PricePerLiter: 5.5})
	require.NoError(t, err)
	assert.Equal(t, 100.0, estimate.FuelNeededLiter)
	assert.Equal(t, 550.0, estimate.FuelCost)
	assert.Equal(t, 550.0, estimate.TotalCost)

	rounded, err := svc.EstimateFuel(FuelEstimateRequest{DistanceKm: 100, ConsumptionKmL: 3, PricePerLiter: 5.79})
	require.NoError(t, err)
	assert.Equal(t, 33.33, rounded.FuelNeededLiter)
	assert.Equal(t, 193.0, rounded.FuelCost)

	for _, req := range []FuelEstimateRequest{
		{DistanceKm: 0, ConsumptionKmL: 3, PricePerLiter: 5},
		{DistanceKm: 10, ConsumptionKmL: -1, PricePerLiter: 5},
		{DistanceKm: 10, ConsumptionKmL: 3, PricePerLiter: 0},
	} {
		_, err := svc.EstimateFuel(req)
		assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	}
}

func TestExpenseServiceFinanceByArtist(t *testing.T) {
	shows := newFakeShowRepo(
		models.Show{ID: "s1", ArtistID: "a1", ArtistName: "Banda Azul", Date: date(2024, time.March, 9), Status: models.ShowStatusConfirmed, Price: 50, Sold: 100},
		models.Show{ID: "s2", ArtistID: "a2", ArtistName: "Trio Norte", Date: date(2024, time.March, 15), Status: models.ShowStatusPending, Price: 30, Sold: 10},
		models.Show{ID: "s3", ArtistID: "a1", ArtistName: "Banda Azul", Date: date(2024, time.March, 20), Status: models.ShowStatusCancelled, Price: 40, Sold: 50},
		models.Show{ID: "s4", ArtistID: "a2", ArtistName: "Trio Norte", Date: date(2024, time.February, 25), Status: models.ShowStatusConfirmed, Price: 10, Sold: 10},
	)
	repo := &fakeExpenseRepo{items: []models.Expense{
		{ID: "e1", ShowID: "s1", Type: models.ExpenseFuel, Amount: 200, Date: date(2024, time.March, 8)},
		{ID: "e2", ShowID: "s1", Type: models.ExpenseMeal, Amount: 50.5, Date: date(2024, time.March, 9)},
		{ID: "e3", ShowID: "s3", Type: models.ExpenseToll, Amount: 80, Date: date(2024, time.March, 19)},
		{ID: "e4", ShowID: "s4", Type: models.ExpenseFuel, Amount: 60, Date: date(2024, time.March, 1)},
		{ID: "e5", ShowID: "s2", Type: models.ExpenseMeal, Amount: 20, Date: date(2024, time.April, 1)},
		{ID: "e6", ShowID: "ghost", Type: models.ExpenseOther, Amount: 10, Date: date(2024, time.March, 2)},
	}}
	svc := NewExpenseService(repo, shows, nil, nil)

	from, to := date(2024, time.March, 1), date(2024, time.March, 31)
	summary, err := svc.Finance(context.Background(), &from, &to)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Shows)
	assert.Equal(t, 5300.0, summary.Revenue)
	assert.Equal(t, 400.5, summary.Expenses)
	assert.Equal(t, 4899.5, summary.Net)
	assert.Equal(t, []models.ArtistFinance{
		{ArtistID: "a1", ArtistName: "Banda Azul", Shows: 1, Revenue: 5000, Expenses: 330.5, Net: 4669.5},
		{ArtistID: "a2", ArtistName: "Trio Norte", Shows: 1, Revenue: 300, Expenses: 60, Net: 240},
	}, summary.ByArtist)

	types := make([]models.ExpenseType, 0, len(summary.ByType))
	for _, bucket := range summary.ByType {
		types = append(types, bucket.Type)
	}
	assert.Equal(t, []models.ExpenseType{models.ExpenseFuel, models.ExpenseMeal, models.ExpenseToll, models.ExpenseOther}, types)
}

func TestExpenseServiceFinanceOpenRange(t *testing.T) {
	shows := newFakeShowRepo(
		models.Show{ID: "s1", ArtistID: "a1", ArtistName: "Banda Azul", Date: date(2023, time.December, 31), Status: models.ShowStatusConfirmed, Price: 20, Sold: 5},
		models.Show{ID: "s2", ArtistID: "a1", ArtistName: "Banda Azul", Date: date(2024, time.June, 1), Status: models.ShowStatusConfirmed, Price: 20, Sold: 5},
	)
	repo := &fakeExpenseRepo{items: []models.Expense{{ID: "e1", ShowID: "s2", Type: models.ExpenseFuel, Amount: 250, Date: date(2024, time.June, 1)}}}
	svc := NewExpenseService(repo, shows, nil, nil)

	summary, err := svc.Finance(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Shows)
	assert.Equal(t, 200.0, summary.Revenue)
	assert.Equal(t, -50.0, summary.Net)
	require.Len(t, summary.ByArtist, 1)
	assert.Equal(t, -50.0, summary.ByArtist[0].Net)

	from, to := date(2024, time.May, 2), date(2024, time.May, 1)
	_, err = svc.Finance(context.Background(), &from, &to)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	shows.rangeErr = errors.New("db down")
	_, err = svc.Finance(context.Background(), nil, nil)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
}
