package models

import "time"

// Conventional categories offered by the dashboard. Category is free-form;
// these only drive the meal grouping of the calendar view.
const (
	CategoryBreakfast     = "Breakfast"
	CategoryLunch         = "Lunch"
	CategoryDinner        = "Dinner"
	CategoryTravel        = "Travel"
	CategoryShopping      = "Shopping"
	CategoryMiscellaneous = "Miscellaneous"
)

// Expense is a single spending record owned by exactly one user.
type Expense struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"` // owner, immutable after creation
	Title     string    `json:"title"`
	Amount    float64   `json:"amount"`
	Category  string    `json:"category"`
	Date      time.Time `json:"date"`
	Reason    string    `json:"reason,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
