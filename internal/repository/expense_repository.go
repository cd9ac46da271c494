package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/gig-scheduler-api/internal/models"
	"github.com/noah-isme/gig-scheduler-api/pkg/calendar"
)

const expenseColumns = "id, show_id, type, amount, expense_date, description, receipt_url, created_at"

// ExpenseRepository persists travel expenses attached to shows.
type ExpenseRepository struct {
	db *sqlx.DB
}

// NewExpenseRepository constructs an ExpenseRepository.
func NewExpenseRepository(db *sqlx.DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

// ListByShow returns the expenses registered for a show, oldest first.
func (r *ExpenseRepository) ListByShow(ctx context.Context, showID string) ([]models.Expense, error) {
	query := fmt.Sprintf("SELECT %s FROM expenses WHERE show_id = $1 ORDER BY expense_date ASC, created_at ASC", expenseColumns)
	var expenses []models.Expense
	if err := r.db.SelectContext(ctx, &expenses, query, showID); err != nil {
		return nil, fmt.Errorf("list expenses by show: %w", err)
	}
	return expenses, nil
}

// ListByRange returns expenses dated inside the optional bounds.
func (r *ExpenseRepository) ListByRange(ctx context.Context, from, to *calendar.Date) ([]models.Expense, error) {
	var conditions []string
	var args []interface{}
	if from != nil {
		conditions = append(conditions, fmt.Sprintf("expense_date >= $%d", len(args)+1))
		args = append(args, *from)
	}
	if to != nil {
		conditions = append(conditions, fmt.Sprintf("expense_date <= $%d", len(args)+1))
		args = append(args, *to)
	}

	query := fmt.Sprintf("SELECT %s FROM expenses", expenseColumns)
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY expense_date ASC, created_at ASC"

	var expenses []models.Expense
	if err := r.db.SelectContext(ctx, &expenses, query, args...); err != nil {
		return nil, fmt.Errorf("list expenses by range: %w", err)
	}
	return expenses, nil
}

// Create inserts an expense.
func (r *ExpenseRepository) Create(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.NewString()
	}
	expense.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO expenses (id, show_id, type, amount, expense_date, description, receipt_url, created_at)
VALUES (:id, :show_id, :type, :amount, :expense_date, :description, :receipt_url, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, expense); err != nil {
		return fmt.Errorf("create expense: %w", err)
	}
	return nil
}

// Delete removes an expense. sql.ErrNoRows is returned when nothing matched.
func (r *ExpenseRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete expense rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
