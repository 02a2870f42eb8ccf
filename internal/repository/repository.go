package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dan9191/cashflow-service/internal/models"
	"github.com/lib/pq"
)

// undefinedTable is the PostgreSQL error code for a missing relation
const undefinedTable = "42P01"

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// ListRecurringItems returns the active recurring items of a user in
// creation order
func (r *Repository) ListRecurringItems(ctx context.Context, userID int64) ([]models.RecurringItem, error) {
	query := `
		SELECT id, user_id, name, amount, currency, type, cadence, next_due_date, is_active, created_at, updated_at
		FROM cashflow.recurring_items
		WHERE user_id = $1 AND is_active
		ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, wrap("failed to list recurring items", err)
	}
	defer rows.Close()

	var items []models.RecurringItem
	for rows.Next() {
		var (
			item models.RecurringItem
			next sql.NullTime
		)
		if err := rows.Scan(&item.ID, &item.UserID, &item.Name, &item.Amount, &item.Currency, &item.Type,
			&item.Cadence, &next, &item.IsActive, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan recurring item: %w", err)
		}
		if next.Valid {
			item.NextDueDate = &next.Time
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read recurring items: %w", err)
	}
	return items, nil
}

// ListDebts returns a user's debts whose status is one of statuses
func (r *Repository) ListDebts(ctx context.Context, userID int64, statuses ...string) ([]models.Debt, error) {
	query := `
		SELECT id, user_id, name, creditor, debt_type, original_amount, remaining_amount,
		       installment_amount, cadence, next_due_date, status, created_at, updated_at
		FROM cashflow.debts
		WHERE user_id = $1 AND status = ANY($2)
		ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query, userID, pq.Array(statuses))
	if err != nil {
		return nil, wrap("failed to list debts", err)
	}
	defer rows.Close()

	var debts []models.Debt
	for rows.Next() {
		var (
			d    models.Debt
			next sql.NullTime
		)
		if err := rows.Scan(&d.ID, &d.UserID, &d.Name, &d.Creditor, &d.DebtType, &d.OriginalAmount, &d.RemainingAmount,
			&d.InstallmentAmount, &d.Cadence, &next, &d.Status, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan debt: %w", err)
		}
		if next.Valid {
			d.NextDueDate = &next.Time
		}
		debts = append(debts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read debts: %w", err)
	}
	return debts, nil
}

// AccountBalance sums the balances of all accounts of a user
func (r *Repository) AccountBalance(ctx context.Context, userID int64) (float64, error) {
	query := `SELECT COALESCE(SUM(balance), 0) FROM cashflow.accounts WHERE user_id = $1`
	var balance float64
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&balance); err != nil {
		return 0, wrap("failed to get account balance", err)
	}
	return balance, nil
}

// MonthNet returns income minus spend booked since the given instant
func (r *Repository) MonthNet(ctx context.Context, userID int64, since time.Time) (float64, error) {
	query := `
		SELECT COALESCE(SUM(CASE WHEN t.type = 'income' THEN t.amount ELSE -t.amount END), 0)
		FROM cashflow.transactions t
		JOIN cashflow.accounts a ON a.id = t.account_id
		WHERE a.user_id = $1 AND t.occurred_at >= $2`
	var net float64
	if err := r.db.QueryRowContext(ctx, query, userID, since).Scan(&net); err != nil {
		return 0, wrap("failed to get month net", err)
	}
	return net, nil
}

// ListReminderUsers returns every user who opted into reminders
func (r *Repository) ListReminderUsers(ctx context.Context) ([]models.User, error) {
	query := `
		SELECT id, username, email, reminders_enabled, created_at
		FROM cashflow.users
		WHERE reminders_enabled AND email <> ''
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, wrap("failed to list reminder users", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.RemindersEnabled, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read users: %w", err)
	}
	return users, nil
}

func wrap(msg string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == undefinedTable {
		return fmt.Errorf("%s: schema not migrated (%s): %w", msg, pqErr.Message, err)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
