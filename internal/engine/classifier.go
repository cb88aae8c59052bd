package engine

import (
	"time"

	"github.com/mehran-shabani/Adaptive-Medical-Learning-System/pkg/models"
)

// Classify maps a mastery score and review recency to a priority tier.
//
// The policy is an ordered rule list; the first matching rule wins, which keeps
// the overlapping score bands deterministic:
//
//  1. never studied                             -> HIGH
//  2. score below the weak threshold            -> HIGH
//  3. below target and stale beyond 2 days      -> HIGH
//  4. below strong and stale beyond 7 days      -> MEDIUM
//  5. below target (reviewed recently)          -> MEDIUM
//  6. otherwise                                 -> LOW
//
// LOW topics are only surfaced when the plan still has unfilled budget after
// HIGH and MEDIUM topics are placed.
func Classify(score float64, lastReviewedAt *time.Time, now time.Time, cfg Config) models.PriorityTier {
	if lastReviewedAt == nil {
		return models.PriorityHigh
	}
	if score < cfg.WeakScore {
		return models.PriorityHigh
	}

	days := daysSince(*lastReviewedAt, now)
	if score < cfg.TargetScore && days > cfg.HighReviewDays {
		return models.PriorityHigh
	}
	if score < cfg.StrongScore && days > cfg.MediumReviewDays {
		return models.PriorityMedium
	}
	if score < cfg.TargetScore {
		return models.PriorityMedium
	}
	return models.PriorityLow
}

// daysSince truncates the elapsed time to whole 24h days, so a review exactly
// 2.0 days old counts as 2, not 3. Negative elapsed time truncates toward zero.
func daysSince(t, now time.Time) int {
	return int(now.Sub(t) / (24 * time.Hour))
}
