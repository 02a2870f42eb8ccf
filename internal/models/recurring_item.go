package models

import "time"

// RecurringItem represents a recurring income or expense
type RecurringItem struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"user_id"`
	Name        string     `json:"name"`
	Amount      float64    `json:"amount"`
	Currency    string     `json:"currency"`
	Type        string     `json:"type"`    // "income" or "expense"
	Cadence     string     `json:"cadence"` // daily, weekly, biweekly, monthly, quarterly, yearly
	NextDueDate *time.Time `json:"next_due_date"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
