package service

import (
	"context"
	"fmt"
	"time"

	"expense_tracker/internal/analytics"
	"expense_tracker/internal/repository"
)

// AnalyticsService builds dashboard views from a fresh snapshot of the
// caller's expenses on every call.
type AnalyticsService struct {
	repo     repository.ExpenseRepo
	loc      *time.Location
	pageSize int
}

func NewAnalyticsService(repo repository.ExpenseRepo, loc *time.Location, pageSize int) *AnalyticsService {
	if loc == nil {
		loc = time.UTC
	}
	if pageSize < 1 {
		pageSize = analytics.DefaultPageSize
	}
	return &AnalyticsService{repo: repo, loc: loc, pageSize: pageSize}
}

// Location is the zone used to resolve calendar months and days.
func (s *AnalyticsService) Location() *time.Location { return s.loc }

func (s *AnalyticsService) snapshot(ctx context.Context, userID string) (analytics.Snapshot, error) {
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return analytics.Snapshot{}, err
	}
	return analytics.NewSnapshot(items, s.loc), nil
}

// Dashboard returns every aggregate for userID. A zero Month selects the
// current month; size < 1 uses the configured page size.
func (s *AnalyticsService) Dashboard(ctx context.Context, userID string, f analytics.MonthFilter, page, size int) (analytics.Dashboard, error) {
	if f.Month == 0 {
		f.Month = int(time.Now().In(s.loc).Month())
	}
	if !f.Valid() {
		return analytics.Dashboard{}, fmt.Errorf("%w: month must be 1..12", ErrValidation)
	}
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = s.pageSize
	}

	snap, err := s.snapshot(ctx, userID)
	if err != nil {
		return analytics.Dashboard{}, err
	}
	return snap.Dashboard(f, page, size), nil
}

// Calendar returns the breakdown of one local day.
func (s *AnalyticsService) Calendar(ctx context.Context, userID string, day time.Time) (analytics.DayBreakdown, error) {
	snap, err := s.snapshot(ctx, userID)
	if err != nil {
		return analytics.DayBreakdown{}, err
	}
	return snap.Day(day), nil
}
