package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"expense_tracker/internal/analytics"
	"expense_tracker/internal/service"
)

func newAnalyticsRouter(a *mockAnalytics) http.Handler {
	return newTestRouter(&service.Service{
		Authorization: &mockAuth{user: testUser},
		Analytics:     a,
	})
}

func TestDashboardHandler_PassesQuery(t *testing.T) {
	a := &mockAnalytics{dash: analytics.Dashboard{
		YearlyTotal: 350,
		Summary:     analytics.Stats{Total: 350, Count: 3},
	}}
	r := newAnalyticsRouter(a)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, withAuth(httptest.NewRequest(http.MethodGet, "/api/expenses/dashboard?month=2&year=2025&page=3&page_size=5", nil)))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}
	if a.lastFilter != (analytics.MonthFilter{Month: 2, Year: 2025}) || a.lastPage != 3 || a.lastSize != 5 {
		t.Fatalf("unexpected call: filter=%+v page=%d size=%d", a.lastFilter, a.lastPage, a.lastSize)
	}

	var out analytics.Dashboard
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if out.YearlyTotal != 350 || out.Summary.Count != 3 {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestDashboardHandler_Defaults(t *testing.T) {
	a := &mockAnalytics{}
	r := newAnalyticsRouter(a)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, withAuth(httptest.NewRequest(http.MethodGet, "/api/expenses/dashboard", nil)))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if a.lastFilter != (analytics.MonthFilter{}) || a.lastPage != 0 || a.lastSize != 0 {
		t.Fatalf("defaults are resolved by the service, got filter=%+v page=%d size=%d", a.lastFilter, a.lastPage, a.lastSize)
	}
}

func TestDashboardHandler_Errors(t *testing.T) {
	cases := []struct {
		name     string
		query    string
		svcErr   error
		wantCode int
	}{
		{"month not a number", "?month=feb", nil, http.StatusBadRequest},
		{"page not a number", "?page=two", nil, http.StatusBadRequest},
		{"size not a number", "?page_size=x", nil, http.StatusBadRequest},
		{"service validation", "?month=13", service.ErrValidation, http.StatusBadRequest},
		{"store failure", "", errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := &mockAnalytics{err: tc.svcErr}
			r := newAnalyticsRouter(a)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, withAuth(httptest.NewRequest(http.MethodGet, "/api/expenses/dashboard"+tc.query, nil)))
			if w.Code != tc.wantCode {
				t.Fatalf("status=%d, want %d (body=%s)", w.Code, tc.wantCode, w.Body.String())
			}
			if tc.svcErr == nil && a.calls != 0 {
				t.Fatal("service must not be called on a bad query")
			}
		})
	}
}

func TestCalendarHandler(t *testing.T) {
	a := &mockAnalytics{day: analytics.DayBreakdown{Total: 42, Count: 2}}
	r := newAnalyticsRouter(a)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, withAuth(httptest.NewRequest(http.MethodGet, "/api/expenses/calendar?date=2025-08-27", nil)))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}
	if !a.lastDay.Equal(time.Date(2025, 8, 27, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected day: %v", a.lastDay)
	}
	var out analytics.DayBreakdown
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if out.Total != 42 || out.Count != 2 {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}

	for _, q := range []string{"", "?date=27-08-2025"} {
		w = httptest.NewRecorder()
		r.ServeHTTP(w, withAuth(httptest.NewRequest(http.MethodGet, "/api/expenses/calendar"+q, nil)))
		if w.Code != http.StatusBadRequest {
			t.Fatalf("calendar%s: status=%d", q, w.Code)
		}
	}
}
