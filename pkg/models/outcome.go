package models

import "time"

// AnswerOutcome is the result of a single quiz answer, supplied by the quiz
// intake. It is the cause of a MasteryRecord mutation and is never persisted by
// the engine itself.
type AnswerOutcome struct {
	UserID      int64     `json:"user_id"`
	TopicID     int64     `json:"topic_id"`
	Correct     bool      `json:"correct"`
	SubmittedAt time.Time `json:"submitted_at"`
}
