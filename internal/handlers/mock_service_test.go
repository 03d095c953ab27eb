package handlers

import (
	"context"
	"net/http"
	"time"

	"expense_tracker/internal/analytics"
	"expense_tracker/internal/models"
	"expense_tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	user      *models.User
	token     string
	signUpErr error
	loginErr  error
	parseErr  error

	lastSignUpName  string
	lastSignUpEmail string
	lastLoginEmail  string
	lastParseToken  string
	resolveCalls    int
}

func (m *mockAuth) SignUp(_ context.Context, name, email, password string) (*models.User, string, error) {
	m.lastSignUpName = name
	m.lastSignUpEmail = email
	return m.user, m.token, m.signUpErr
}

func (m *mockAuth) Login(_ context.Context, email, password string) (*models.User, string, error) {
	m.lastLoginEmail = email
	return m.user, m.token, m.loginErr
}

func (m *mockAuth) ResolveUser(_ context.Context, token string) (*models.User, error) {
	m.resolveCalls++
	m.lastParseToken = token
	if m.parseErr != nil {
		return nil, m.parseErr
	}
	return m.user, nil
}

type mockExpenses struct {
	list      []models.Expense
	created   *models.Expense
	updated   *models.Expense
	err       error
	lastUser  string
	lastID    string
	lastInput service.ExpenseInput
	lastPatch service.ExpensePatch
}

func (m *mockExpenses) List(_ context.Context, userID string) ([]models.Expense, error) {
	m.lastUser = userID
	return m.list, m.err
}

func (m *mockExpenses) Create(_ context.Context, userID string, in service.ExpenseInput) (*models.Expense, error) {
	m.lastUser = userID
	m.lastInput = in
	return m.created, m.err
}

func (m *mockExpenses) Update(_ context.Context, userID, id string, p service.ExpensePatch) (*models.Expense, error) {
	m.lastUser, m.lastID, m.lastPatch = userID, id, p
	return m.updated, m.err
}

func (m *mockExpenses) Delete(_ context.Context, userID, id string) error {
	m.lastUser, m.lastID = userID, id
	return m.err
}

type mockAnalytics struct {
	dash       analytics.Dashboard
	day        analytics.DayBreakdown
	err        error
	lastFilter analytics.MonthFilter
	lastPage   int
	lastSize   int
	lastDay    time.Time
	calls      int
}

func (m *mockAnalytics) Dashboard(_ context.Context, _ string, f analytics.MonthFilter, page, size int) (analytics.Dashboard, error) {
	m.calls++
	m.lastFilter, m.lastPage, m.lastSize = f, page, size
	return m.dash, m.err
}

func (m *mockAnalytics) Calendar(_ context.Context, _ string, day time.Time) (analytics.DayBreakdown, error) {
	m.lastDay = day
	return m.day, m.err
}

func (m *mockAnalytics) Location() *time.Location { return time.UTC }

type mockEventLog struct {
	resp     []models.ExpenseEvent
	err      error
	lastUser string
	lastFrom time.Time
	lastTo   time.Time
	lastType string
}

func (m *mockEventLog) List(_ context.Context, f service.LogFilter) ([]models.ExpenseEvent, error) {
	m.lastUser = f.UserID
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

var testUser = &models.User{ID: "u1", Name: "Ann", Email: "ann@example.com"}

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

func withAuth(req *http.Request) *http.Request {
	for k, vv := range authHeader("valid") {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	return req
}
