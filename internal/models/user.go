package models

// User represents a user who receives forecast reminders
type User struct {
	ID               int64  `json:"id"`
	Email            string `json:"email"`
	Username         string `json:"username"`
	RemindersEnabled bool   `json:"reminders_enabled"`
	CreatedAt        string `json:"created_at"`
}
