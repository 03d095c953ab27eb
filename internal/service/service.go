package service

import (
	"context"
	"time"

	"expense_tracker/internal/analytics"
	"expense_tracker/internal/events"
	"expense_tracker/internal/logger"
	"expense_tracker/internal/models"
	"expense_tracker/internal/repository"
)

type Authorization interface {
	SignUp(ctx context.Context, name, email, password string) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	ResolveUser(ctx context.Context, accessToken string) (*models.User, error)
}

// Expenses exposes per-user CRUD with ownership checks.
type Expenses interface {
	List(ctx context.Context, userID string) ([]models.Expense, error)
	Create(ctx context.Context, userID string, in ExpenseInput) (*models.Expense, error)
	Update(ctx context.Context, userID, id string, p ExpensePatch) (*models.Expense, error)
	Delete(ctx context.Context, userID, id string) error
}

// Analytics exposes read-only aggregate views.
type Analytics interface {
	Dashboard(ctx context.Context, userID string, f analytics.MonthFilter, page, size int) (analytics.Dashboard, error)
	Calendar(ctx context.Context, userID string, day time.Time) (analytics.DayBreakdown, error)
	Location() *time.Location
}

// EventLog exposes the append-only audit log with filtering access.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.ExpenseEvent, error)
}

// Service aggregates all sub-services. Expenses and EventLog both have
// List, so callers go through the field name.
type Service struct {
	Authorization
	Expenses
	Analytics
	EventLog
}

// Deps are the collaborators NewService wires into the sub-services.
type Deps struct {
	Tokens    *TokenService
	Publisher events.Publisher
	Location  *time.Location
	PageSize  int
	Log       *logger.Logger
}

// NewService wires repository layer into concrete services.
func NewService(repos *repository.Repository, d Deps) *Service {
	return &Service{
		Authorization: NewAuthService(repos.Auth, d.Tokens),
		Expenses:      NewExpenseService(repos.Expenses, repos.Events, d.Publisher, d.Log),
		Analytics:     NewAnalyticsService(repos.Expenses, d.Location, d.PageSize),
		EventLog:      NewEventLogService(repos.Events),
	}
}
