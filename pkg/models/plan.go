package models

import "time"

// PriorityTier is the urgency classification of a topic, recomputed on every
// plan request from the current MasteryRecord. It is derived, never stored.
type PriorityTier string

const (
	PriorityHigh   PriorityTier = "high"
	PriorityMedium PriorityTier = "medium"
	PriorityLow    PriorityTier = "low"
)

// Rank returns the sort rank of the tier: HIGH sorts before MEDIUM before LOW.
func (p PriorityTier) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}

// StudyBlock is a single time-boxed, topic-scoped unit within a study plan.
// ContentMinutes and QuizMinutes always sum exactly to Minutes.
type StudyBlock struct {
	TopicID        int64        `json:"topic_id"`
	TopicName      string       `json:"topic"`
	Priority       PriorityTier `json:"priority"`
	Minutes        int          `json:"duration_minutes"`
	ContentMinutes int          `json:"content_minutes"`
	QuizMinutes    int          `json:"quiz_minutes"`
	CurrentScore   float64      `json:"current_mastery"`
	Reason         string       `json:"reason"`
}

// StudyPlan is an ordered sequence of study blocks generated for one user.
// AllocatedMinutes never exceeds RequestedMinutes. The plan is a pure value;
// persistence for audit/history is delegated to the plan log.
type StudyPlan struct {
	ID               string       `json:"id"`
	UserID           int64        `json:"user_id"`
	Blocks           []StudyBlock `json:"blocks"`
	RequestedMinutes int          `json:"requested_minutes"`
	AllocatedMinutes int          `json:"allocated_minutes"`
	AverageScore     float64      `json:"average_current_mastery"`
	FocusAreas       []string     `json:"focus_areas"`
	GeneratedAt      time.Time    `json:"generated_at"`
}
