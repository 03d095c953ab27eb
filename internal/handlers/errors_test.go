package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"expense_tracker/internal/service"

	"github.com/gin-gonic/gin"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err      error
		wantCode int
		wantMsg  string
	}{
		{fmt.Errorf("%w: title is required", service.ErrValidation), http.StatusBadRequest, "title is required"},
		{service.ErrEmailTaken, http.StatusBadRequest, msgUserExists},
		{service.ErrInvalidCredentials, http.StatusUnauthorized, msgInvalidLogin},
		{fmt.Errorf("%w: expired", service.ErrTokenInvalid), http.StatusUnauthorized, msgTokenFailed},
		{service.ErrNotAuthorized, http.StatusUnauthorized, msgNotOwner},
		{fmt.Errorf("update: %w", service.ErrExpenseNotFound), http.StatusNotFound, msgExpenseNotFound},
		{errors.New("boom"), http.StatusInternalServerError, msgInternalError},
	}
	for _, tc := range cases {
		code, msg := statusFor(tc.err)
		if code != tc.wantCode || msg != tc.wantMsg {
			t.Fatalf("statusFor(%v) = %d %q, want %d %q", tc.err, code, msg, tc.wantCode, tc.wantMsg)
		}
	}
}

func TestFail_TraceOnlyOutsideProduction(t *testing.T) {
	gin.SetMode(gin.TestMode)

	for _, prod := range []bool{false, true} {
		h := NewHandler(&service.Service{}, nil, WithProduction(prod))
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

		h.fail(c, fmt.Errorf("load: %w", errors.New("disk gone")), "test_failed")

		var out errorResponse
		_ = json.Unmarshal(w.Body.Bytes(), &out)
		if out.Message != msgInternalError {
			t.Fatalf("message: %q", out.Message)
		}
		if prod && out.Trace != "" {
			t.Fatalf("production must not leak trace, got %q", out.Trace)
		}
		if !prod && out.Trace != "load: disk gone" {
			t.Fatalf("expected trace, got %q", out.Trace)
		}
	}
}

func TestRecovery_ReturnsJSON500(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHandler(&service.Service{}, nil)
	r := h.InitRoutes()
	r.GET("/panic", func(c *gin.Context) { panic("kaboom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d", w.Code)
	}
	var out errorResponse
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if out.Message != msgInternalError || out.Trace != "kaboom" {
		t.Fatalf("unexpected body: %+v", out)
	}
}
