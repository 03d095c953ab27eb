package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"expense_tracker/internal/models"
)

var (
	// ErrDuplicate reports a unique constraint violation (e.g. email taken).
	ErrDuplicate = errors.New("duplicate key")
	// ErrNotFound reports that an update/delete matched no row.
	ErrNotFound = errors.New("record not found")
)

// Authorization is the credential store.
type Authorization interface {
	Create(ctx context.Context, u *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// ExpenseRepo stores expenses. Lookups return (nil, nil) when nothing matches.
type ExpenseRepo interface {
	Create(ctx context.Context, e *models.Expense) error
	GetByID(ctx context.Context, id string) (*models.Expense, error)
	ListByUser(ctx context.Context, userID string) ([]models.Expense, error)
	Update(ctx context.Context, e *models.Expense) error
	Delete(ctx context.Context, id string) error
}

// EventRepo is the append-only expense audit log.
type EventRepo interface {
	Append(ctx context.Context, e models.ExpenseEvent) error
	List(ctx context.Context, userID string, from, to time.Time, typ string) ([]models.ExpenseEvent, error)
}

type Repository struct {
	Auth     Authorization
	Expenses ExpenseRepo
	Events   EventRepo
}

// NewRepository wires the SQLite implementations.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Auth:     NewUserRepository(db),
		Expenses: NewExpenseSQLite(db),
		Events:   NewEventSQLite(db),
	}
}

// isUniqueConstraintError recognises unique violations from sqlite and postgres.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "UNIQUE constraint failed") ||
		strings.Contains(s, "duplicate key") ||
		strings.Contains(s, "unique constraint")
}
