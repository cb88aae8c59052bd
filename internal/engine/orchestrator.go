package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mehran-shabani/Adaptive-Medical-Learning-System/pkg/models"
)

// MasteryStore is the durable per-(user, topic) record store. Get returns nil
// when no record exists. Save must fail with ErrVersionConflict when the stored
// version no longer matches expectedVersion.
type MasteryStore interface {
	Get(ctx context.Context, userID, topicID int64) (*models.MasteryRecord, error)
	GetAll(ctx context.Context, userID int64) ([]models.MasteryRecord, error)
	Save(ctx context.Context, record *models.MasteryRecord, expectedVersion int64) error
}

// TopicCatalog lists every topic a user could study, owned by content management.
type TopicCatalog interface {
	ListTopics(ctx context.Context) ([]models.Topic, error)
}

// PlanLog persists generated plans for audit and history. Appends are
// fire-and-forget from the engine's perspective.
type PlanLog interface {
	Append(ctx context.Context, plan *models.StudyPlan) error
}

// PlanOptions carries the optional knobs of a plan request.
type PlanOptions struct {
	// FocusTopics restricts the plan to the given topic ids when non-empty.
	FocusTopics []int64
	// Now overrides the classification reference time; zero means time.Now.
	Now time.Time
}

// Engine composes the tracker, classifier and allocator over a user's topics.
type Engine struct {
	store   MasteryStore
	catalog TopicCatalog
	planLog PlanLog
	cfg     Config
	log     *zap.SugaredLogger
}

// maxSaveRetries bounds the re-read loop on version conflicts.
const maxSaveRetries = 3

// New creates an engine. The configuration is validated here, once.
func New(store MasteryStore, catalog TopicCatalog, planLog PlanLog, cfg Config, log *zap.SugaredLogger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine config: %w", err)
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Engine{
		store:   store,
		catalog: catalog,
		planLog: planLog,
		cfg:     cfg,
		log:     log,
	}, nil
}

// SubmitAnswer applies one quiz answer outcome to the user's mastery record and
// persists the result. The write is conditioned on the version that was read;
// on a conflict the record is re-read and the update recomputed, which is safe
// because UpdateMastery is pure.
func (e *Engine) SubmitAnswer(ctx context.Context, outcome models.AnswerOutcome) (*models.MasteryRecord, error) {
	var lastErr error
	for attempt := 0; attempt < maxSaveRetries; attempt++ {
		current, err := e.store.Get(ctx, outcome.UserID, outcome.TopicID)
		if err != nil {
			return nil, fmt.Errorf("read mastery record: %w", err)
		}

		updated, err := UpdateMastery(current, outcome, e.cfg)
		if err != nil {
			return nil, err
		}

		var expected int64
		if current != nil {
			expected = current.Version
		}
		if err := e.store.Save(ctx, &updated, expected); err != nil {
			if isVersionConflict(err) {
				lastErr = err
				e.log.Debugw("mastery save conflict, retrying",
					"user_id", outcome.UserID, "topic_id", outcome.TopicID, "attempt", attempt+1)
				continue
			}
			return nil, fmt.Errorf("save mastery record: %w", err)
		}

		e.log.Infow("mastery updated",
			"user_id", outcome.UserID,
			"topic_id", outcome.TopicID,
			"correct", outcome.Correct,
			"score", updated.Score,
			"review_count", updated.ReviewCount)
		return &updated, nil
	}
	return nil, fmt.Errorf("save mastery record after %d attempts: %w", maxSaveRetries, lastErr)
}

// BuildPlan generates a time-boxed study plan for the user. Every topic in the
// catalog is a candidate, including never-studied ones, which classify at
// maximal priority. Plan logging is best-effort: a log failure never invalidates
// the plan already built.
func (e *Engine) BuildPlan(ctx context.Context, userID int64, budgetMinutes int, opts PlanOptions) (*models.StudyPlan, error) {
	if budgetMinutes <= 0 {
		return nil, ErrInvalidBudget
	}

	now := opts.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	topics, err := e.catalog.ListTopics(ctx)
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	topics = filterTopics(topics, opts.FocusTopics)
	if len(topics) == 0 {
		return nil, ErrNoEligibleTopics
	}

	records, err := e.store.GetAll(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load mastery records: %w", err)
	}
	byTopic := make(map[int64]*models.MasteryRecord, len(records))
	for i := range records {
		byTopic[records[i].TopicID] = &records[i]
	}

	candidates := make([]Candidate, 0, len(topics))
	for _, topic := range topics {
		score := 0.0
		var lastReviewed *time.Time
		if rec, ok := byTopic[topic.ID]; ok {
			score = rec.Score
			lastReviewed = rec.LastReviewedAt
		}
		candidates = append(candidates, Candidate{
			Topic: topic,
			Tier:  Classify(score, lastReviewed, now, e.cfg),
			Score: score,
		})
	}

	blocks, err := Allocate(candidates, budgetMinutes, e.cfg)
	if err != nil {
		return nil, err
	}

	allocated := 0
	scoreSum := 0.0
	for i := range blocks {
		rec := byTopic[blocks[i].TopicID]
		blocks[i].Reason = blockReason(blocks[i].CurrentScore, lastReviewedOf(rec), now, e.cfg)
		allocated += blocks[i].Minutes
		scoreSum += blocks[i].CurrentScore
	}

	plan := &models.StudyPlan{
		ID:               uuid.NewString(),
		UserID:           userID,
		Blocks:           blocks,
		RequestedMinutes: budgetMinutes,
		AllocatedMinutes: allocated,
		FocusAreas:       focusAreas(blocks),
		GeneratedAt:      now,
	}
	if len(blocks) > 0 {
		plan.AverageScore = scoreSum / float64(len(blocks))
	}

	if e.planLog != nil {
		if err := e.planLog.Append(ctx, plan); err != nil {
			e.log.Warnw("failed to log study plan", "user_id", userID, "plan_id", plan.ID, "error", err)
		}
	}

	e.log.Infow("study plan generated",
		"user_id", userID,
		"plan_id", plan.ID,
		"requested_minutes", budgetMinutes,
		"allocated_minutes", allocated,
		"blocks", len(blocks))
	return plan, nil
}

// blockReason explains a block's inclusion from the same facts the classifier
// used: score band and days since last review. It never invents content.
func blockReason(score float64, lastReviewedAt *time.Time, now time.Time, cfg Config) string {
	var reasons []string

	if score < cfg.WeakScore {
		reasons = append(reasons, "Low mastery - needs foundational review")
	} else if score < cfg.TargetScore {
		reasons = append(reasons, "Below target mastery")
	}

	if lastReviewedAt == nil {
		reasons = append(reasons, "Never reviewed - new topic")
	} else if days := daysSince(*lastReviewedAt, now); days > cfg.HighReviewDays {
		reasons = append(reasons, fmt.Sprintf("Not reviewed for %d days - spaced repetition", days))
	}

	if len(reasons) == 0 {
		return "Recommended for review"
	}
	return strings.Join(reasons, " | ")
}

// focusAreas returns the names of the first few blocks, the session's headline.
func focusAreas(blocks []models.StudyBlock) []string {
	areas := make([]string, 0, 3)
	for _, b := range blocks {
		if len(areas) == 3 {
			break
		}
		areas = append(areas, b.TopicName)
	}
	return areas
}

func filterTopics(topics []models.Topic, focus []int64) []models.Topic {
	if len(focus) == 0 {
		return topics
	}
	wanted := make(map[int64]bool, len(focus))
	for _, id := range focus {
		wanted[id] = true
	}
	filtered := topics[:0:0]
	for _, t := range topics {
		if wanted[t.ID] {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

func lastReviewedOf(rec *models.MasteryRecord) *time.Time {
	if rec == nil {
		return nil
	}
	return rec.LastReviewedAt
}

func isVersionConflict(err error) bool {
	return errors.Is(err, ErrVersionConflict)
}
