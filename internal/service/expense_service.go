package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"expense_tracker/internal/events"
	"expense_tracker/internal/logger"
	"expense_tracker/internal/models"
	"expense_tracker/internal/repository"

	"github.com/google/uuid"
)

// ExpenseService owns expense CRUD and the ownership check on update and
// delete. Every successful mutation is recorded in the audit log and handed
// to the publisher.
type ExpenseService struct {
	repo      repository.ExpenseRepo
	eventRepo repository.EventRepo
	publisher events.Publisher
	log       *logger.Logger
}

func NewExpenseService(repo repository.ExpenseRepo, eventRepo repository.EventRepo, publisher events.Publisher, log *logger.Logger) *ExpenseService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &ExpenseService{repo: repo, eventRepo: eventRepo, publisher: publisher, log: log}
}

// List returns only the caller's expenses.
func (s *ExpenseService) List(ctx context.Context, userID string) ([]models.Expense, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Create stores a new expense owned by userID.
func (s *ExpenseService) Create(ctx context.Context, userID string, in ExpenseInput) (*models.Expense, error) {
	e := &models.Expense{
		UserID:   userID,
		Title:    strings.TrimSpace(in.Title),
		Category: strings.TrimSpace(in.Category),
		Date:     in.Date,
		Reason:   in.Reason,
	}
	if in.Amount != nil {
		e.Amount = *in.Amount
	}
	if err := validateExpense(e, in.Amount != nil); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}

	s.record(ctx, models.EventCreate, e, fmt.Sprintf("created %q", e.Title), map[string]any{
		"amount":   e.Amount,
		"category": e.Category,
	})
	return e, nil
}

// Update applies p to the expense if userID owns it and returns the result.
func (s *ExpenseService) Update(ctx context.Context, userID, id string, p ExpensePatch) (*models.Expense, error) {
	e, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if p.empty() {
		return e, nil
	}

	changed := make([]string, 0, 5)
	if p.Title != nil {
		e.Title = strings.TrimSpace(*p.Title)
		changed = append(changed, "title")
	}
	if p.Amount != nil {
		e.Amount = *p.Amount
		changed = append(changed, "amount")
	}
	if p.Category != nil {
		e.Category = strings.TrimSpace(*p.Category)
		changed = append(changed, "category")
	}
	if p.Date != nil && !p.Date.IsZero() {
		e.Date = *p.Date
		changed = append(changed, "date")
	}
	if p.Reason != nil {
		e.Reason = *p.Reason
		changed = append(changed, "reason")
	}
	if err := validateExpense(e, true); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, e); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExpenseNotFound
		}
		return nil, err
	}

	s.record(ctx, models.EventUpdate, e, fmt.Sprintf("updated %q", e.Title), map[string]any{
		"changed": changed,
		"amount":  e.Amount,
	})
	return e, nil
}

// Delete removes the expense if userID owns it.
func (s *ExpenseService) Delete(ctx context.Context, userID, id string) error {
	e, err := s.owned(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrExpenseNotFound
		}
		return err
	}

	s.record(ctx, models.EventDelete, e, fmt.Sprintf("deleted %q", e.Title), map[string]any{
		"amount": e.Amount,
	})
	return nil
}

// owned loads id and checks that userID is its owner.
func (s *ExpenseService) owned(ctx context.Context, userID, id string) (*models.Expense, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, ErrExpenseNotFound
	}
	if e.UserID != userID {
		return nil, ErrNotAuthorized
	}
	return e, nil
}

func validateExpense(e *models.Expense, hasAmount bool) error {
	switch {
	case e.Title == "":
		return fmt.Errorf("%w: title is required", ErrValidation)
	case !hasAmount:
		return fmt.Errorf("%w: amount is required", ErrValidation)
	case e.Category == "":
		return fmt.Errorf("%w: category is required", ErrValidation)
	}
	return nil
}

// record appends and publishes an audit event. Failures are logged only.
func (s *ExpenseService) record(ctx context.Context, typ string, e *models.Expense, desc string, meta map[string]any) {
	ev := models.ExpenseEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  time.Now().UTC(),
		Type:        typ,
		UserID:      e.UserID,
		ExpenseID:   e.ID,
		Description: desc,
		Metadata:    meta,
	}

	if s.eventRepo != nil {
		if err := s.eventRepo.Append(ctx, ev); err != nil && s.log != nil {
			s.log.Errorw("expense_event_append_failed", "type", typ, "expense_id", e.ID, "err", err)
		}
	}
	if err := s.publisher.Publish(ctx, ev); err != nil && s.log != nil {
		s.log.Warnw("expense_event_publish_failed", "type", typ, "expense_id", e.ID, "err", err)
	}
}
