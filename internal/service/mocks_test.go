package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"expense_tracker/internal/models"
	"expense_tracker/internal/repository"
)

// fakeEventRepo is a minimal stub that satisfies the repository.EventRepo interface.
type fakeEventRepo struct {
	// captured inputs
	gotCtx    context.Context
	gotUserID string
	gotFrom   time.Time
	gotTo     time.Time
	gotType   string
	appended  []models.ExpenseEvent

	// configured outputs
	events    []models.ExpenseEvent
	err       error
	appendErr error

	calls int
}

func (f *fakeEventRepo) List(ctx context.Context, userID string, from, to time.Time, typ string) ([]models.ExpenseEvent, error) {
	f.calls++
	f.gotCtx = ctx
	f.gotUserID = userID
	f.gotFrom = from
	f.gotTo = to
	f.gotType = typ
	return f.events, f.err
}

func (f *fakeEventRepo) Append(ctx context.Context, e models.ExpenseEvent) error {
	f.appended = append(f.appended, e)
	return f.appendErr
}

// memExpenseRepo is an in-memory repository.ExpenseRepo.
type memExpenseRepo struct {
	mu     sync.Mutex
	items  []models.Expense
	seq    int
	getErr error
}

var _ repository.ExpenseRepo = (*memExpenseRepo)(nil)

func (m *memExpenseRepo) Create(_ context.Context, e *models.Expense) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	e.ID = fmt.Sprintf("e%d", m.seq)
	if e.Date.IsZero() {
		e.Date = time.Now().UTC()
	}
	m.items = append(m.items, *e)
	return nil
}

func (m *memExpenseRepo) GetByID(_ context.Context, id string) (*models.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, e := range m.items {
		if e.ID == id {
			cp := e
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memExpenseRepo) ListByUser(_ context.Context, userID string) ([]models.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Expense{}
	for _, e := range m.items {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memExpenseRepo) Update(_ context.Context, e *models.Expense) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID == e.ID {
			m.items[i] = *e
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memExpenseRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

// mockAuthRepo is a lightweight in-test mock for repository.Authorization.
type mockAuthRepo struct {
	CreateFn     func(u *models.User) error
	GetByEmailFn func(email string) (*models.User, error)
	GetByIDFn    func(id string) (*models.User, error)

	created  []models.User
	getCalls []string
}

func (m *mockAuthRepo) Create(_ context.Context, u *models.User) error {
	if m.CreateFn != nil {
		if err := m.CreateFn(u); err != nil {
			return err
		}
	}
	if u.ID == "" {
		u.ID = "u-new"
	}
	m.created = append(m.created, *u)
	return nil
}

func (m *mockAuthRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	m.getCalls = append(m.getCalls, email)
	if m.GetByEmailFn == nil {
		return nil, nil
	}
	return m.GetByEmailFn(email)
}

func (m *mockAuthRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	if m.GetByIDFn == nil {
		return nil, errors.New("GetByID not configured")
	}
	return m.GetByIDFn(id)
}

// recordingPublisher captures published events.
type recordingPublisher struct {
	got []models.ExpenseEvent
	err error
}

func (p *recordingPublisher) Publish(_ context.Context, ev models.ExpenseEvent) error {
	p.got = append(p.got, ev)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }
