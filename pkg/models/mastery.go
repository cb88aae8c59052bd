package models

import "time"

// MasteryRecord tracks a user's proficiency for a single topic.
// Score is always within [0.0, 1.0]. A nil LastReviewedAt means the topic has
// never been studied. Version increases monotonically on every save and is used
// for optimistic concurrency at the store boundary.
type MasteryRecord struct {
	ID             int64      `json:"id" db:"id"`
	UserID         int64      `json:"user_id" db:"user_id"`
	TopicID        int64      `json:"topic_id" db:"topic_id"`
	Score          float64    `json:"mastery_score" db:"mastery_score"`
	LastReviewedAt *time.Time `json:"last_reviewed_at,omitempty" db:"last_reviewed_at"`
	ReviewCount    int        `json:"review_count" db:"review_count"`
	Version        int64      `json:"version" db:"version"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}
