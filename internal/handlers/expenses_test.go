package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"expense_tracker/internal/models"
	"expense_tracker/internal/service"
)

func newExpenseRouter(exp *mockExpenses) http.Handler {
	return newTestRouter(&service.Service{
		Authorization: &mockAuth{user: testUser},
		Expenses:      exp,
	})
}

func TestExpenses_RequireAuth(t *testing.T) {
	r := newExpenseRouter(&mockExpenses{})

	for _, rt := range []struct{ method, path string }{
		{http.MethodGet, "/api/expenses"},
		{http.MethodPost, "/api/expenses"},
		{http.MethodPut, "/api/expenses/e1"},
		{http.MethodDelete, "/api/expenses/e1"},
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(rt.method, rt.path, nil))
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s without auth: got %d", rt.method, rt.path, w.Code)
		}
	}
}

func TestExpenses_List(t *testing.T) {
	exp := &mockExpenses{list: []models.Expense{{ID: "e1", UserID: "u1", Title: "Lunch", Amount: 10}}}
	r := newExpenseRouter(exp)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, withAuth(httptest.NewRequest(http.MethodGet, "/api/expenses", nil)))
	if w.Code != http.StatusOK {
		t.Fatalf("list status=%d, body=%s", w.Code, w.Body.String())
	}
	var out []models.Expense
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if len(out) != 1 || out[0].ID != "e1" {
		t.Fatalf("unexpected list: %+v", out)
	}
	if exp.lastUser != "u1" {
		t.Fatalf("list must be scoped to caller, got %q", exp.lastUser)
	}
}

func TestExpenses_Create(t *testing.T) {
	created := &models.Expense{ID: "e9", UserID: "u1", Title: "Taxi", Amount: 20, Category: "Travel"}
	exp := &mockExpenses{created: created}
	r := newExpenseRouter(exp)

	body := `{"title":"Taxi","amount":20,"category":"Travel","date":"2025-08-27","reason":"airport","user_id":"someone-else"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/expenses", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, withAuth(req))

	if w.Code != http.StatusCreated {
		t.Fatalf("create status=%d, body=%s", w.Code, w.Body.String())
	}
	if exp.lastUser != "u1" {
		t.Fatalf("owner must come from the token, got %q", exp.lastUser)
	}
	in := exp.lastInput
	if in.Title != "Taxi" || in.Amount == nil || *in.Amount != 20 || in.Reason != "airport" {
		t.Fatalf("unexpected input: %+v", in)
	}
	if !in.Date.Equal(time.Date(2025, 8, 27, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected date: %v", in.Date)
	}
}

func TestExpenses_Create_BadInput(t *testing.T) {
	cases := []struct {
		name string
		body string
		err  error
	}{
		{name: "bad date", body: `{"title":"x","amount":1,"category":"Food","date":"27/08/2025"}`},
		{name: "amount not a number", body: `{"title":"x","amount":"ten","category":"Food"}`},
		{name: "service validation", body: `{"amount":1,"category":"Food"}`, err: fmt.Errorf("%w: title is required", service.ErrValidation)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			exp := &mockExpenses{err: tc.err}
			r := newExpenseRouter(exp)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/expenses", bytes.NewBufferString(tc.body))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, withAuth(req))
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
			}
		})
	}
}

func TestExpenses_UpdateAndDelete_ErrorMapping(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{name: "ok", wantCode: http.StatusOK},
		{name: "not owner", err: service.ErrNotAuthorized, wantCode: http.StatusUnauthorized, wantMsg: "User not authorized"},
		{name: "missing", err: service.ErrExpenseNotFound, wantCode: http.StatusNotFound, wantMsg: "Expense not found"},
		{name: "store down", err: errors.New("db down"), wantCode: http.StatusInternalServerError, wantMsg: "internal server error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			exp := &mockExpenses{err: tc.err, updated: &models.Expense{ID: "e1", Amount: 5}}
			r := newExpenseRouter(exp)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPut, "/api/expenses/e1", bytes.NewBufferString(`{"amount":5}`))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, withAuth(req))
			checkStatusAndMessage(t, w, tc.wantCode, tc.wantMsg)
			if exp.lastID != "e1" || exp.lastPatch.Amount == nil || *exp.lastPatch.Amount != 5 || exp.lastPatch.Title != nil {
				t.Fatalf("unexpected update call: id=%q patch=%+v", exp.lastID, exp.lastPatch)
			}

			w = httptest.NewRecorder()
			r.ServeHTTP(w, withAuth(httptest.NewRequest(http.MethodDelete, "/api/expenses/e1", nil)))
			checkStatusAndMessage(t, w, tc.wantCode, tc.wantMsg)
			if tc.err == nil {
				var out map[string]string
				_ = json.Unmarshal(w.Body.Bytes(), &out)
				if out["id"] != "e1" {
					t.Fatalf("delete body: %v", out)
				}
			}
		})
	}
}

func TestExpenses_Update_ParsesDate(t *testing.T) {
	exp := &mockExpenses{updated: &models.Expense{ID: "e1"}}
	r := newExpenseRouter(exp)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/expenses/e1", bytes.NewBufferString(`{"date":"2025-01-02T10:00:00Z"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, withAuth(req))

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}
	if exp.lastPatch.Date == nil || !exp.lastPatch.Date.Equal(time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected patch date: %v", exp.lastPatch.Date)
	}
}

func checkStatusAndMessage(t *testing.T, w *httptest.ResponseRecorder, code int, msg string) {
	t.Helper()
	if w.Code != code {
		t.Fatalf("status: got %d, want %d (body=%s)", w.Code, code, w.Body.String())
	}
	if msg == "" {
		return
	}
	var out errorResponse
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if out.Message != msg {
		t.Fatalf("message: got %q, want %q", out.Message, msg)
	}
}
