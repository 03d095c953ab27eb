package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"expense_tracker/internal/models"

	"github.com/google/uuid"
)

type ExpenseSQLite struct {
	db *sql.DB
}

func NewExpenseSQLite(db *sql.DB) *ExpenseSQLite {
	return &ExpenseSQLite{db: db}
}

var _ ExpenseRepo = (*ExpenseSQLite)(nil)

const (
	insertExpenseSQL = `
		INSERT INTO expenses (id, user_id, title, amount, category, date, reason, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	selectExpenseColumns = `SELECT id, user_id, title, amount, category, date, reason, created_at, updated_at FROM expenses`

	selectExpenseByIDSQL = selectExpenseColumns + ` WHERE id = ?`

	// insertion order, so category groups keep first-occurrence order
	selectExpensesByUserSQL = selectExpenseColumns + ` WHERE user_id = ? ORDER BY created_at ASC, id ASC`

	updateExpenseSQL = `
		UPDATE expenses
		SET title = ?, amount = ?, category = ?, date = ?, reason = ?, updated_at = ?
		WHERE id = ?
	`

	deleteExpenseSQL = `DELETE FROM expenses WHERE id = ?`
)

// Create inserts e, filling ID, Date and timestamps when unset.
func (r *ExpenseSQLite) Create(ctx context.Context, e *models.Expense) error {
	now := time.Now().UTC()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	if e.Date.IsZero() {
		e.Date = e.CreatedAt
	}
	e.UpdatedAt = e.CreatedAt

	_, err := r.db.ExecContext(ctx, insertExpenseSQL,
		e.ID,
		e.UserID,
		e.Title,
		e.Amount,
		e.Category,
		e.Date.UTC(),
		e.Reason,
		e.CreatedAt.UTC(),
		e.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	return nil
}

// GetByID fetches one expense. Returns (nil, nil) if not found.
func (r *ExpenseSQLite) GetByID(ctx context.Context, id string) (*models.Expense, error) {
	row := r.db.QueryRowContext(ctx, selectExpenseByIDSQL, id)
	e, err := scanExpense(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select expense %q: %w", id, err)
	}
	return &e, nil
}

// ListByUser returns every expense owned by userID in insertion order.
func (r *ExpenseSQLite) ListByUser(ctx context.Context, userID string) ([]models.Expense, error) {
	rows, err := r.db.QueryContext(ctx, selectExpensesByUserSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("list expenses for %q: %w", userID, err)
	}
	defer rows.Close()

	out := make([]models.Expense, 0, 32)
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update overwrites the mutable fields of e. Owner and CreatedAt never change.
func (r *ExpenseSQLite) Update(ctx context.Context, e *models.Expense) error {
	e.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, updateExpenseSQL,
		e.Title,
		e.Amount,
		e.Category,
		e.Date.UTC(),
		e.Reason,
		e.UpdatedAt,
		e.ID,
	)
	if err != nil {
		return fmt.Errorf("update expense %q: %w", e.ID, err)
	}
	return expectOneRow(res, e.ID)
}

// Delete removes the expense with the given id.
func (r *ExpenseSQLite) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, deleteExpenseSQL, id)
	if err != nil {
		return fmt.Errorf("delete expense %q: %w", id, err)
	}
	return expectOneRow(res, id)
}

func expectOneRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for expense %q: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("expense %q: %w", id, ErrNotFound)
	}
	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(s rowScanner) (models.Expense, error) {
	var e models.Expense
	if err := s.Scan(
		&e.ID,
		&e.UserID,
		&e.Title,
		&e.Amount,
		&e.Category,
		&e.Date,
		&e.Reason,
		&e.CreatedAt,
		&e.UpdatedAt,
	); err != nil {
		return models.Expense{}, err
	}
	e.Date = e.Date.UTC()
	e.CreatedAt = e.CreatedAt.UTC()
	e.UpdatedAt = e.UpdatedAt.UTC()
	return e, nil
}
