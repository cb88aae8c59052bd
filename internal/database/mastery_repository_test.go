package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mehran-shabani/Adaptive-Medical-Learning-System/internal/engine"
	"github.com/mehran-shabani/Adaptive-Medical-Learning-System/pkg/models"
)

func setupTestDB(t *testing.T) {
	t.Helper()
	require.NoError(t, Connect(Config{Driver: "sqlite3", DSN: ":memory:"}))
	t.Cleanup(func() {
		require.NoError(t, Close())
		DB = nil
	})
}

func TestMasteryRepositoryGetMissingRecord(t *testing.T) {
	setupTestDB(t)
	repo := NewMasteryRepository()

	rec, err := repo.Get(context.Background(), 1, 99)
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestMasteryRepositorySaveAndGet(t *testing.T) {
	setupTestDB(t)
	repo := NewMasteryRepository()
	ctx := context.Background()

	reviewed := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	rec := &models.MasteryRecord{
		UserID:         1,
		TopicID:        7,
		Score:          0.15,
		LastReviewedAt: &reviewed,
		ReviewCount:    1,
	}
	require.NoError(t, repo.Save(ctx, rec, 0))
	assert.Equal(t, int64(1), rec.Version)

	stored, err := repo.Get(ctx, 1, 7)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.InDelta(t, 0.15, stored.Score, 1e-9)
	assert.Equal(t, 1, stored.ReviewCount)
	assert.Equal(t, int64(1), stored.Version)
	require.NotNil(t, stored.LastReviewedAt)
	assert.True(t, stored.LastReviewedAt.Equal(reviewed))
}

func TestMasteryRepositoryInsertConflict(t *testing.T) {
	setupTestDB(t)
	repo := NewMasteryRepository()
	ctx := context.Background()

	rec := &models.MasteryRecord{UserID: 1, TopicID: 7, Score: 0.15, ReviewCount: 1}
	require.NoError(t, repo.Save(ctx, rec, 0))

	// A second writer that also read "absent" must conflict, not overwrite.
	dup := &models.MasteryRecord{UserID: 1, TopicID: 7, Score: 0.10, ReviewCount: 1}
	err := repo.Save(ctx, dup, 0)
	assert.True(t, errors.Is(err, engine.ErrVersionConflict))
}

func TestMasteryRepositoryUpdateWithStaleVersion(t *testing.T) {
	setupTestDB(t)
	repo := NewMasteryRepository()
	ctx := context.Background()

	rec := &models.MasteryRecord{UserID: 1, TopicID: 7, Score: 0.15, ReviewCount: 1}
	require.NoError(t, repo.Save(ctx, rec, 0))

	rec.Score = 0.2775
	rec.ReviewCount = 2
	require.NoError(t, repo.Save(ctx, rec, 1))
	assert.Equal(t, int64(2), rec.Version)

	// Saving against the version that has already moved on must conflict.
	stale := &models.MasteryRecord{UserID: 1, TopicID: 7, Score: 0.05, ReviewCount: 2}
	err := repo.Save(ctx, stale, 1)
	assert.True(t, errors.Is(err, engine.ErrVersionConflict))

	stored, err := repo.Get(ctx, 1, 7)
	require.NoError(t, err)
	assert.InDelta(t, 0.2775, stored.Score, 1e-9)
}

func TestMasteryRepositoryGetAll(t *testing.T) {
	setupTestDB(t)
	repo := NewMasteryRepository()
	ctx := context.Background()

	for topicID := int64(1); topicID <= 3; topicID++ {
		rec := &models.MasteryRecord{UserID: 1, TopicID: topicID, Score: 0.1 * float64(topicID), ReviewCount: 1}
		require.NoError(t, repo.Save(ctx, rec, 0))
	}
	other := &models.MasteryRecord{UserID: 2, TopicID: 1, Score: 0.9, ReviewCount: 5}
	require.NoError(t, repo.Save(ctx, other, 0))

	records, err := repo.GetAll(ctx, 1)
	require.NoError(t, err)
	require.Len(t, records, 3)
	for i, rec := range records {
		assert.Equal(t, int64(i+1), rec.TopicID)
	}
}

func TestTopicRepositoryCreateAndList(t *testing.T) {
	setupTestDB(t)
	repo := NewTopicRepository()
	ctx := context.Background()

	parent := &models.Topic{Name: "Endocrine System", SystemName: "Endocrine"}
	require.NoError(t, repo.Create(ctx, parent))
	require.NotZero(t, parent.ID)

	child := &models.Topic{
		ParentID:    &parent.ID,
		Name:        "Diabetic Ketoacidosis",
		SystemName:  "Endocrine",
		Description: "DKA pathophysiology and management",
	}
	require.NoError(t, repo.Create(ctx, child))

	topics, err := repo.ListTopics(ctx)
	require.NoError(t, err)
	require.Len(t, topics, 2)
	// Ordered by name.
	assert.Equal(t, "Diabetic Ketoacidosis", topics[0].Name)
	require.NotNil(t, topics[0].ParentID)
	assert.Equal(t, parent.ID, *topics[0].ParentID)

	found, err := repo.GetByName(ctx, "Endocrine System")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, parent.ID, found.ID)

	missing, err := repo.GetByID(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestPlanLogRepositoryAppendAndGetRecent(t *testing.T) {
	setupTestDB(t)
	repo := NewPlanLogRepository()
	ctx := context.Background()

	base := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		plan := &models.StudyPlan{
			ID:               "plan-" + string(rune('a'+i)),
			UserID:           1,
			RequestedMinutes: 120,
			AllocatedMinutes: 100,
			GeneratedAt:      base.Add(time.Duration(i) * time.Hour),
			Blocks: []models.StudyBlock{
				{TopicID: 1, TopicName: "Sepsis", Priority: models.PriorityHigh, Minutes: 100},
			},
		}
		require.NoError(t, repo.Append(ctx, plan))
	}

	plans, err := repo.GetRecent(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, "plan-c", plans[0].ID)
	assert.Equal(t, "plan-b", plans[1].ID)
	require.Len(t, plans[0].Blocks, 1)
	assert.Equal(t, "Sepsis", plans[0].Blocks[0].TopicName)
}

func TestSubscriptionRepository(t *testing.T) {
	setupTestDB(t)
	repo := NewSubscriptionRepository()
	ctx := context.Background()

	sub := &models.PlanSubscription{UserID: 1, ChatID: 555, NotifyHour: 9, PlanMinutes: 90, Active: true}
	require.NoError(t, repo.Upsert(ctx, sub))

	due, err := repo.GetDueForHour(ctx, 9)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, int64(555), due[0].ChatID)
	assert.Equal(t, 90, due[0].PlanMinutes)

	// Re-upsert moves the hour.
	sub.NotifyHour = 20
	require.NoError(t, repo.Upsert(ctx, sub))
	due, err = repo.GetDueForHour(ctx, 9)
	require.NoError(t, err)
	assert.Empty(t, due)
	due, err = repo.GetDueForHour(ctx, 20)
	require.NoError(t, err)
	assert.Len(t, due, 1)

	require.NoError(t, repo.Deactivate(ctx, 1))
	due, err = repo.GetDueForHour(ctx, 20)
	require.NoError(t, err)
	assert.Empty(t, due)
}
