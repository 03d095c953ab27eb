package service

import "time"

// ExpenseInput carries the fields accepted on create. Amount is a pointer so
// a missing amount can be told apart from zero.
type ExpenseInput struct {
	Title    string
	Amount   *float64
	Category string
	Date     time.Time // zero means "now"
	Reason   string
}

// ExpensePatch is a partial update; nil fields are left unchanged.
type ExpensePatch struct {
	Title    *string
	Amount   *float64
	Category *string
	Date     *time.Time
	Reason   *string
}

func (p ExpensePatch) empty() bool {
	return p.Title == nil && p.Amount == nil && p.Category == nil && p.Date == nil && p.Reason == nil
}

// LogFilter supports history filtering by owner, time range and type.
type LogFilter struct {
	UserID string
	From   time.Time // inclusive; zero means no lower bound
	To     time.Time // inclusive; zero means no upper bound
	Type   string    // "", "CREATE", "UPDATE", "DELETE"
}
