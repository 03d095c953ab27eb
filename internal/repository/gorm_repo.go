package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"expense_tracker/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Row types for the Postgres store. Column names match the SQLite migrations.

type userRow struct {
	ID           string `gorm:"primaryKey;size:36"`
	Name         string `gorm:"not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (userRow) TableName() string { return "users" }

type expenseRow struct {
	ID        string    `gorm:"primaryKey;size:36"`
	UserID    string    `gorm:"index;size:36;not null"`
	Title     string    `gorm:"not null"`
	Amount    float64   `gorm:"not null"`
	Category  string    `gorm:"not null"`
	Date      time.Time `gorm:"not null"`
	Reason    string    `gorm:"type:text;not null;default:''"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (expenseRow) TableName() string { return "expenses" }

type eventRow struct {
	ID         string    `gorm:"primaryKey;size:36"`
	OccurredAt time.Time `gorm:"index:idx_expense_events_user_time,priority:2;not null"`
	Type       string    `gorm:"size:16;not null"`
	UserID     string    `gorm:"index:idx_expense_events_user_time,priority:1;size:36;not null"`
	ExpenseID  string    `gorm:"size:36;not null"`
	Message    string    `gorm:"not null"`
	Meta       *string   `gorm:"type:text"`
}

func (eventRow) TableName() string { return "expense_events" }

// MigrateGorm creates or updates the Postgres schema.
func MigrateGorm(gdb *gorm.DB) error {
	for _, m := range []any{&userRow{}, &expenseRow{}, &eventRow{}} {
		if err := gdb.AutoMigrate(m); err != nil {
			return fmt.Errorf("auto-migrate %T: %w", m, err)
		}
	}
	return nil
}

// NewGormRepository wires the gorm implementations.
func NewGormRepository(gdb *gorm.DB) *Repository {
	return &Repository{
		Auth:     &GormUsers{db: gdb},
		Expenses: &GormExpenses{db: gdb},
		Events:   &GormEvents{db: gdb},
	}
}

type GormUsers struct{ db *gorm.DB }

var _ Authorization = (*GormUsers)(nil)

func (r *GormUsers) Create(ctx context.Context, u *models.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	u.UpdatedAt = u.CreatedAt

	row := userRow{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueConstraintError(err) {
			return fmt.Errorf("insert user %q: %w", u.Email, ErrDuplicate)
		}
		return fmt.Errorf("insert user %q: %w", u.Email, err)
	}
	return nil
}

func (r *GormUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *GormUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *GormUsers) first(ctx context.Context, cond string, arg any) (*models.User, error) {
	var row userRow
	err := r.db.WithContext(ctx).Where(cond, arg).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select user: %w", err)
	}
	return &models.User{
		ID:           row.ID,
		Name:         row.Name,
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
		CreatedAt:    row.CreatedAt.UTC(),
		UpdatedAt:    row.UpdatedAt.UTC(),
	}, nil
}

type GormExpenses struct{ db *gorm.DB }

var _ ExpenseRepo = (*GormExpenses)(nil)

func toExpenseRow(e *models.Expense) expenseRow {
	return expenseRow{
		ID:        e.ID,
		UserID:    e.UserID,
		Title:     e.Title,
		Amount:    e.Amount,
		Category:  e.Category,
		Date:      e.Date.UTC(),
		Reason:    e.Reason,
		CreatedAt: e.CreatedAt.UTC(),
		UpdatedAt: e.UpdatedAt.UTC(),
	}
}

func (row expenseRow) model() models.Expense {
	return models.Expense{
		ID:        row.ID,
		UserID:    row.UserID,
		Title:     row.Title,
		Amount:    row.Amount,
		Category:  row.Category,
		Date:      row.Date.UTC(),
		Reason:    row.Reason,
		CreatedAt: row.CreatedAt.UTC(),
		UpdatedAt: row.UpdatedAt.UTC(),
	}
}

func (r *GormExpenses) Create(ctx context.Context, e *models.Expense) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	if e.Date.IsZero() {
		e.Date = e.CreatedAt
	}
	e.UpdatedAt = e.CreatedAt

	row := toExpenseRow(e)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	return nil
}

func (r *GormExpenses) GetByID(ctx context.Context, id string) (*models.Expense, error) {
	var row expenseRow
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select expense %q: %w", id, err)
	}
	e := row.model()
	return &e, nil
}

func (r *GormExpenses) ListByUser(ctx context.Context, userID string) ([]models.Expense, error) {
	var rows []expenseRow
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list expenses for %q: %w", userID, err)
	}
	out := make([]models.Expense, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.model())
	}
	return out, nil
}

func (r *GormExpenses) Update(ctx context.Context, e *models.Expense) error {
	e.UpdatedAt = time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&expenseRow{}).
		Where("id = ?", e.ID).
		Updates(map[string]any{
			"title":      e.Title,
			"amount":     e.Amount,
			"category":   e.Category,
			"date":       e.Date.UTC(),
			"reason":     e.Reason,
			"updated_at": e.UpdatedAt,
		})
	if res.Error != nil {
		return fmt.Errorf("update expense %q: %w", e.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("expense %q: %w", e.ID, ErrNotFound)
	}
	return nil
}

func (r *GormExpenses) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&expenseRow{})
	if res.Error != nil {
		return fmt.Errorf("delete expense %q: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("expense %q: %w", id, ErrNotFound)
	}
	return nil
}

type GormEvents struct{ db *gorm.DB }

var _ EventRepo = (*GormEvents)(nil)

func (r *GormEvents) Append(ctx context.Context, e models.ExpenseEvent) error {
	e = normalizeEvent(e)
	meta, err := marshalMetadata(e.Metadata)
	if err != nil {
		return err
	}
	row := eventRow{
		ID:         e.EventID,
		OccurredAt: e.OccurredAt,
		Type:       e.Type,
		UserID:     e.UserID,
		ExpenseID:  e.ExpenseID,
		Message:    e.Description,
		Meta:       meta,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("append %s event for expense %q: %w", e.Type, e.ExpenseID, err)
	}
	return nil
}

func (r *GormEvents) List(ctx context.Context, userID string, from, to time.Time, typ string) ([]models.ExpenseEvent, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if !from.IsZero() {
		q = q.Where("occurred_at >= ?", from.UTC())
	}
	if !to.IsZero() {
		q = q.Where("occurred_at <= ?", to.UTC())
	}
	if typ = strings.ToUpper(strings.TrimSpace(typ)); typ != "" {
		q = q.Where("type = ?", typ)
	}

	var rows []eventRow
	if err := q.Order("occurred_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]models.ExpenseEvent, 0, len(rows))
	for _, row := range rows {
		ev := models.ExpenseEvent{
			EventID:     row.ID,
			OccurredAt:  row.OccurredAt.UTC(),
			Type:        row.Type,
			UserID:      row.UserID,
			ExpenseID:   row.ExpenseID,
			Description: row.Message,
		}
		if row.Meta != nil {
			ev.Metadata = unmarshalMetadata(sqlNull(*row.Meta))
		}
		out = append(out, ev)
	}
	return out, nil
}
