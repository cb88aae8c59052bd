package models

import "time"

// PlanSubscription enables scheduled daily plan delivery for a user. ChatID is
// the delivery channel identifier understood by the configured notifier.
type PlanSubscription struct {
	UserID      int64     `json:"user_id" db:"user_id"`
	ChatID      int64     `json:"chat_id" db:"chat_id"`
	NotifyHour  int       `json:"notify_hour" db:"notify_hour"`
	PlanMinutes int       `json:"plan_minutes" db:"plan_minutes"`
	Active      bool      `json:"active" db:"active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
