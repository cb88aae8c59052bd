package engine

import (
	"fmt"

	"github.com/mehran-shabani/Adaptive-Medical-Learning-System/pkg/models"
)

// Config holds every tunable constant of the recommendation engine. Values are
// validated once at construction and never re-parsed per call.
type Config struct {
	// Mastery update rule.
	CorrectIncrement   float64 // gain factor applied to the remaining headroom
	IncorrectDecrement float64 // flat penalty, clamped at zero

	// Classifier thresholds.
	WeakScore        float64 // below this a topic is always HIGH
	TargetScore      float64 // below this a topic is at best MEDIUM
	StrongScore      float64 // at or above this a topic is LOW
	HighReviewDays   int     // staleness that escalates a sub-target topic to HIGH
	MediumReviewDays int     // staleness that keeps a sub-strong topic at MEDIUM

	// Allocator.
	TierWeights        map[models.PriorityTier]int
	MinMinutesPerTopic int
	ContentRatio       float64 // content share of each block, within [0.4, 0.6]
}

// DefaultConfig returns the engine configuration with documented defaults.
func DefaultConfig() Config {
	return Config{
		CorrectIncrement:   0.15,
		IncorrectDecrement: 0.10,
		WeakScore:          0.5,
		TargetScore:        0.7,
		StrongScore:        0.85,
		HighReviewDays:     2,
		MediumReviewDays:   7,
		TierWeights: map[models.PriorityTier]int{
			models.PriorityHigh:   3,
			models.PriorityMedium: 2,
			models.PriorityLow:    1,
		},
		MinMinutesPerTopic: 20,
		ContentRatio:       0.5,
	}
}

// Validate checks the configuration invariants. A Config that fails validation
// must not be used: a bad increment or weight would let scores or allocations
// drift outside their documented bounds.
func (c Config) Validate() error {
	if c.CorrectIncrement <= 0 || c.CorrectIncrement > 1 {
		return fmt.Errorf("correct increment %.3f outside (0, 1]", c.CorrectIncrement)
	}
	if c.IncorrectDecrement <= 0 || c.IncorrectDecrement > 1 {
		return fmt.Errorf("incorrect decrement %.3f outside (0, 1]", c.IncorrectDecrement)
	}
	if c.WeakScore < 0 || c.WeakScore > c.TargetScore || c.TargetScore > c.StrongScore || c.StrongScore > 1 {
		return fmt.Errorf("score thresholds must satisfy 0 <= weak (%.2f) <= target (%.2f) <= strong (%.2f) <= 1",
			c.WeakScore, c.TargetScore, c.StrongScore)
	}
	if c.HighReviewDays < 0 || c.MediumReviewDays < c.HighReviewDays {
		return fmt.Errorf("review day thresholds must satisfy 0 <= high (%d) <= medium (%d)",
			c.HighReviewDays, c.MediumReviewDays)
	}
	for _, tier := range []models.PriorityTier{models.PriorityHigh, models.PriorityMedium, models.PriorityLow} {
		if c.TierWeights[tier] <= 0 {
			return fmt.Errorf("tier weight for %s must be positive", tier)
		}
	}
	if c.MinMinutesPerTopic <= 0 {
		return fmt.Errorf("minimum minutes per topic must be positive")
	}
	if c.ContentRatio < 0.4 || c.ContentRatio > 0.6 {
		return fmt.Errorf("content ratio %.2f outside [0.4, 0.6]", c.ContentRatio)
	}
	return nil
}
