package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"expense_tracker/internal/models"
	"expense_tracker/internal/repository"
)

type EventLogService struct {
	eventRepo repository.EventRepo
}

func NewEventLogService(eventRepo repository.EventRepo) *EventLogService {
	return &EventLogService{eventRepo: eventRepo}
}

var (
	errInvalidTimeRange = fmt.Errorf("%w: invalid time range: from must be <= to", ErrValidation)
	errInvalidEventType = fmt.Errorf("%w: type must be CREATE, UPDATE or DELETE", ErrValidation)
)

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

// normalizeEventType trims spaces and uppercases the event type filter.
func normalizeEventType(s string) string {
	return strings.TrimSpace(strings.ToUpper(s))
}

// normalizeAndValidateFilter prepares query parameters and validates the time range.
func normalizeAndValidateFilter(f LogFilter) (time.Time, time.Time, string, error) {
	from := normalizeToUTC(f.From)
	to := normalizeToUTC(f.To)

	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return time.Time{}, time.Time{}, "", errInvalidTimeRange
	}

	eventType := normalizeEventType(f.Type)
	switch eventType {
	case "", models.EventCreate, models.EventUpdate, models.EventDelete:
	default:
		return time.Time{}, time.Time{}, "", errInvalidEventType
	}
	return from, to, eventType, nil
}

// List returns the owner's audit events, oldest first.
func (s *EventLogService) List(ctx context.Context, f LogFilter) ([]models.ExpenseEvent, error) {
	from, to, typ, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	return s.eventRepo.List(ctx, f.UserID, from, to, typ)
}
