package engine

import (
	"math"
	"sort"

	"github.com/mehran-shabani/Adaptive-Medical-Learning-System/pkg/models"
)

// Candidate is a classified topic competing for a share of the study budget.
type Candidate struct {
	Topic models.Topic
	Tier  models.PriorityTier
	Score float64
}

// Allocate distributes budgetMinutes across the candidates as ordered study
// blocks. This is a weighted minimum-floor packing, not a plain proportional
// split: proportional shares alone can hand a low-priority topic a
// sub-actionable sliver of time.
//
// Candidates are sorted by tier rank, then ascending score (weaker mastery
// first within a tier), then topic id as the final tie-break, so identical
// inputs always produce identical plans. The walk is greedy: each candidate
// gets floor(remaining * weight / remainingWeightSum) minutes, raised to the
// per-topic floor; a candidate that no longer fits the remaining budget stops
// the walk and the tail is dropped from this plan. Remaining budget and weight
// sum are recomputed after every acceptance so the floor-raising of early picks
// is absorbed by later ones instead of silently lost.
//
// Guarantees: the block minutes never sum above budgetMinutes, and at least one
// block is produced whenever the budget covers the per-topic floor and a
// candidate exists. A budget too small for the floor yields an empty, valid
// result; only a non-positive budget is an error.
func Allocate(candidates []Candidate, budgetMinutes int, cfg Config) ([]models.StudyBlock, error) {
	if budgetMinutes <= 0 {
		return nil, ErrInvalidBudget
	}

	sorted := make([]Candidate, len(candidates))
	copy(sorted, candidates)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Tier.Rank() != sorted[j].Tier.Rank() {
			return sorted[i].Tier.Rank() < sorted[j].Tier.Rank()
		}
		if sorted[i].Score != sorted[j].Score {
			return sorted[i].Score < sorted[j].Score
		}
		return sorted[i].Topic.ID < sorted[j].Topic.ID
	})

	weightSum := 0
	for _, c := range sorted {
		weightSum += cfg.TierWeights[c.Tier]
	}

	blocks := make([]models.StudyBlock, 0, len(sorted))
	remaining := budgetMinutes

	for _, c := range sorted {
		if remaining <= 0 || weightSum <= 0 {
			break
		}

		weight := cfg.TierWeights[c.Tier]
		share := remaining * weight / weightSum
		if share < cfg.MinMinutesPerTopic {
			share = cfg.MinMinutesPerTopic
		}
		if share > remaining {
			break
		}

		content, quiz := splitBlock(share, cfg.ContentRatio)
		blocks = append(blocks, models.StudyBlock{
			TopicID:        c.Topic.ID,
			TopicName:      c.Topic.Name,
			Priority:       c.Tier,
			Minutes:        share,
			ContentMinutes: content,
			QuizMinutes:    quiz,
			CurrentScore:   c.Score,
		})

		remaining -= share
		weightSum -= weight
	}

	return blocks, nil
}

// splitBlock divides a block's minutes between content review and quiz
// practice. The two parts are rounded so they sum exactly to total.
func splitBlock(total int, contentRatio float64) (content, quiz int) {
	content = int(math.Round(float64(total) * contentRatio))
	if content > total {
		content = total
	}
	return content, total - content
}
