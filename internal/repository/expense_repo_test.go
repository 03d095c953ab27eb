package repository

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"expense_tracker/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
)

var expenseColumns = []string{"id", "user_id", "title", "amount", "category", "date", "reason", "created_at", "updated_at"}

func TestExpenseSQLite_Create_DefaultsDate(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(insertExpenseSQL)).
		WithArgs(sqlmock.AnyArg(), "u1", "Lunch", 12.5, models.CategoryLunch,
			sqlmock.AnyArg(), "", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	e := &models.Expense{UserID: "u1", Title: "Lunch", Amount: 12.5, Category: models.CategoryLunch}
	if err := NewExpenseSQLite(db).Create(ctx(t), e); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if e.ID == "" {
		t.Fatalf("expected generated id")
	}
	if !e.Date.Equal(e.CreatedAt) {
		t.Fatalf("date should default to created_at: %v vs %v", e.Date, e.CreatedAt)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestExpenseSQLite_GetByID(t *testing.T) {
	t.Parallel()

	day := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		rows    *sqlmock.Rows
		qErr    error
		wantNil bool
		wantErr bool
	}{
		{
			name: "found",
			rows: sqlmock.NewRows(expenseColumns).
				AddRow("e1", "u1", "Taxi", 20.0, models.CategoryTravel, day, "airport", day, day),
		},
		{name: "not found", rows: sqlmock.NewRows(expenseColumns), wantNil: true},
		{name: "db error", qErr: errors.New("boom"), wantNil: true, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			db, mock, err := sqlmock.New()
			if err != nil {
				t.Fatalf("sqlmock new: %v", err)
			}
			defer db.Close()

			q := mock.ExpectQuery(regexp.QuoteMeta(selectExpenseByIDSQL)).WithArgs("e1")
			if tt.qErr != nil {
				q.WillReturnError(tt.qErr)
			} else {
				q.WillReturnRows(tt.rows)
			}

			got, err := NewExpenseSQLite(db).GetByID(ctx(t), "e1")
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if (got == nil) != tt.wantNil {
				t.Fatalf("got = %+v, wantNil %v", got, tt.wantNil)
			}
			if got != nil && (got.Reason != "airport" || got.Amount != 20 || !got.Date.Equal(day)) {
				t.Fatalf("unexpected expense: %+v", got)
			}
		})
	}
}

func TestExpenseSQLite_ListByUser_KeepsOrder(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	t0 := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(selectExpensesByUserSQL)).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(expenseColumns).
			AddRow("a", "u1", "Breakfast", 5.0, models.CategoryBreakfast, t0, "", t0, t0).
			AddRow("b", "u1", "Bus", 2.0, models.CategoryTravel, t0, "", t0.Add(time.Minute), t0.Add(time.Minute)))

	got, err := NewExpenseSQLite(db).ListByUser(ctx(t), "u1")
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "b" {
		t.Fatalf("unexpected list: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestExpenseSQLite_Update(t *testing.T) {
	t.Parallel()

	day := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		rowsAffected int64
		wantNotFound bool
	}{
		{name: "updated", rowsAffected: 1},
		{name: "missing row", rowsAffected: 0, wantNotFound: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			db, mock, err := sqlmock.New()
			if err != nil {
				t.Fatalf("sqlmock new: %v", err)
			}
			defer db.Close()

			mock.ExpectExec(regexp.QuoteMeta(updateExpenseSQL)).
				WithArgs("Dinner", 30.0, models.CategoryDinner, day, "", sqlmock.AnyArg(), "e1").
				WillReturnResult(sqlmock.NewResult(0, tt.rowsAffected))

			e := &models.Expense{ID: "e1", UserID: "u1", Title: "Dinner", Amount: 30, Category: models.CategoryDinner, Date: day}
			err = NewExpenseSQLite(db).Update(ctx(t), e)
			if errors.Is(err, ErrNotFound) != tt.wantNotFound {
				t.Fatalf("err = %v, wantNotFound %v", err, tt.wantNotFound)
			}
			if !tt.wantNotFound && err != nil {
				t.Fatalf("Update: %v", err)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Fatalf("mock expectations: %v", err)
			}
		})
	}
}

func TestExpenseSQLite_Delete(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(deleteExpenseSQL)).
		WithArgs("e1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(deleteExpenseSQL)).
		WithArgs("e1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewExpenseSQLite(db)
	if err := repo.Delete(ctx(t), "e1"); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := repo.Delete(ctx(t), "e1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: want ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}
