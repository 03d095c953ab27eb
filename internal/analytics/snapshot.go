// Package analytics computes dashboard views over an immutable snapshot of
// a user's expenses. Nothing here touches storage; callers build a fresh
// Snapshot whenever the underlying data changes.
package analytics

import (
	"sort"
	"time"

	"expense_tracker/internal/models"

	"github.com/shopspring/decimal"
)

// DefaultPageSize is used when Paginate receives a size below 1.
const DefaultPageSize = 10

// Snapshot is a read-only copy of a set of expenses plus the location used
// to resolve calendar months and days.
type Snapshot struct {
	items []models.Expense
	loc   *time.Location
}

// NewSnapshot copies items so later changes to the slice do not leak in.
// A nil loc means UTC.
func NewSnapshot(items []models.Expense, loc *time.Location) Snapshot {
	if loc == nil {
		loc = time.UTC
	}
	cp := make([]models.Expense, len(items))
	copy(cp, items)
	return Snapshot{items: cp, loc: loc}
}

func (s Snapshot) Len() int { return len(s.items) }

// Items returns a copy of the expenses in snapshot order.
func (s Snapshot) Items() []models.Expense {
	cp := make([]models.Expense, len(s.items))
	copy(cp, s.items)
	return cp
}

func (s Snapshot) Location() *time.Location { return s.loc }

func (s Snapshot) local(t time.Time) time.Time { return t.In(s.loc) }

// MonthFilter selects one calendar month. Year 0 matches any year.
type MonthFilter struct {
	Month int `json:"month"`
	Year  int `json:"year,omitempty"`
}

// Valid reports whether Month is 1..12 and Year is 0 or positive.
func (f MonthFilter) Valid() bool {
	return f.Month >= 1 && f.Month <= 12 && f.Year >= 0
}

// FilterByMonth keeps the expenses whose local date falls in f and returns
// them ordered by date, most recent first. Equal dates keep snapshot order.
func (s Snapshot) FilterByMonth(f MonthFilter) Snapshot {
	out := make([]models.Expense, 0, len(s.items))
	for _, e := range s.items {
		d := s.local(e.Date)
		if int(d.Month()) != f.Month {
			continue
		}
		if f.Year != 0 && d.Year() != f.Year {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return Snapshot{items: out, loc: s.loc}
}

// Page is one slice of a filtered sequence.
type Page struct {
	Items     []models.Expense `json:"items"`
	Page      int              `json:"page"`
	PageSize  int              `json:"page_size"`
	PageCount int              `json:"page_count"`
	Total     int              `json:"total"`
}

// Paginate returns the 1-based page of the snapshot. Pages outside
// 1..PageCount come back with no items.
func (s Snapshot) Paginate(page, size int) Page {
	if size < 1 {
		size = DefaultPageSize
	}
	n := len(s.items)
	p := Page{
		Items:     []models.Expense{},
		Page:      page,
		PageSize:  size,
		Total:     n,
	}
	if n > 0 {
		p.PageCount = (n-1)/size + 1
	}
	if page < 1 || page > p.PageCount {
		return p
	}
	start := (page - 1) * size
	end := n
	if size < n-start {
		end = start + size
	}
	p.Items = append(p.Items, s.items[start:end]...)
	return p
}

func (s Snapshot) sum() decimal.Decimal {
	total := decimal.Zero
	for _, e := range s.items {
		total = total.Add(decimal.NewFromFloat(e.Amount))
	}
	return total
}

// Total is the plain sum of every amount in the snapshot.
func (s Snapshot) Total() float64 {
	return s.sum().InexactFloat64()
}
