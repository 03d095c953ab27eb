package models

import "time"

const (
	EventCreate = "CREATE"
	EventUpdate = "UPDATE"
	EventDelete = "DELETE"
)

// ExpenseEvent is a single audit log entry.
type ExpenseEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"` // CREATE | UPDATE | DELETE
	UserID      string    `json:"user_id"`
	ExpenseID   string    `json:"expense_id"`
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}
