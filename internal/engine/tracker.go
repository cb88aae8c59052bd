package engine

import (
	"fmt"
	"time"

	"github.com/mehran-shabani/Adaptive-Medical-Learning-System/pkg/models"
)

// UpdateMastery computes the mastery record that results from applying one quiz
// answer outcome. It is pure: the caller owns persistence, and the store write
// must be conditioned on the version of the record that was read.
//
// A nil current record stands for "never studied" and is synthesized with a zero
// score. Correct answers approach 1.0 asymptotically: the gain is a fixed share
// of the remaining headroom, so the score can never overshoot. Incorrect answers
// subtract a flat penalty, clamped at zero.
func UpdateMastery(current *models.MasteryRecord, outcome models.AnswerOutcome, cfg Config) (models.MasteryRecord, error) {
	var rec models.MasteryRecord
	if current != nil {
		rec = *current
	} else {
		rec = models.MasteryRecord{
			UserID:  outcome.UserID,
			TopicID: outcome.TopicID,
			Score:   0.0,
		}
	}

	if rec.LastReviewedAt != nil && outcome.SubmittedAt.Before(*rec.LastReviewedAt) {
		return models.MasteryRecord{}, fmt.Errorf("%w: submitted %s, last reviewed %s",
			ErrInvalidOutcome, outcome.SubmittedAt.Format(time.RFC3339), rec.LastReviewedAt.Format(time.RFC3339))
	}

	if outcome.Correct {
		rec.Score += cfg.CorrectIncrement * (1.0 - rec.Score)
	} else {
		rec.Score -= cfg.IncorrectDecrement
	}
	rec.Score = clampScore(rec.Score)

	reviewed := outcome.SubmittedAt
	rec.LastReviewedAt = &reviewed
	rec.ReviewCount++

	return rec, nil
}

func clampScore(s float64) float64 {
	if s < 0.0 {
		return 0.0
	}
	if s > 1.0 {
		return 1.0
	}
	return s
}
