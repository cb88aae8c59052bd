package database

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/mehran-shabani/Adaptive-Medical-Learning-System/internal/engine"
	"github.com/mehran-shabani/Adaptive-Medical-Learning-System/pkg/models"
)

// MasteryRepository persists per-(user, topic) mastery records. It implements
// engine.MasteryStore with optimistic concurrency: every save is conditioned on
// the version the caller read, so concurrent answer submissions can never
// silently overwrite each other's score change.
type MasteryRepository struct{}

// NewMasteryRepository creates a new repository instance.
func NewMasteryRepository() *MasteryRepository {
	return &MasteryRepository{}
}

// Get returns the mastery record for a user and topic, or nil when the topic
// has never been studied.
func (r *MasteryRepository) Get(ctx context.Context, userID, topicID int64) (*models.MasteryRecord, error) {
	var rec models.MasteryRecord
	query := DB.Rebind(`
		SELECT id, user_id, topic_id, mastery_score, last_reviewed_at,
		       review_count, version, created_at, updated_at
		FROM masteries
		WHERE user_id = ? AND topic_id = ?
	`)
	err := DB.GetContext(ctx, &rec, query, userID, topicID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "get mastery record")
	}
	return &rec, nil
}

// GetAll returns every mastery record for a user.
func (r *MasteryRepository) GetAll(ctx context.Context, userID int64) ([]models.MasteryRecord, error) {
	var records []models.MasteryRecord
	query := DB.Rebind(`
		SELECT id, user_id, topic_id, mastery_score, last_reviewed_at,
		       review_count, version, created_at, updated_at
		FROM masteries
		WHERE user_id = ?
		ORDER BY topic_id
	`)
	if err := DB.SelectContext(ctx, &records, query, userID); err != nil {
		return nil, errors.Wrap(err, "get mastery records")
	}
	return records, nil
}

// Save writes the record if its stored version still matches expectedVersion.
// expectedVersion zero means "no record existed when read" and inserts; a row
// that appeared in the meantime, or a version that moved on, fails with
// engine.ErrVersionConflict so the caller can re-read and recompute.
func (r *MasteryRepository) Save(ctx context.Context, record *models.MasteryRecord, expectedVersion int64) error {
	if expectedVersion == 0 {
		query := DB.Rebind(`
			INSERT INTO masteries (
				user_id, topic_id, mastery_score, last_reviewed_at,
				review_count, version, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, 1, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
			ON CONFLICT (user_id, topic_id) DO NOTHING
		`)
		result, err := DB.ExecContext(ctx, query,
			record.UserID,
			record.TopicID,
			record.Score,
			record.LastReviewedAt,
			record.ReviewCount,
		)
		if err != nil {
			return errors.Wrap(err, "insert mastery record")
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return errors.Wrap(err, "insert mastery record")
		}
		if affected == 0 {
			// Another writer created the record first.
			return engine.ErrVersionConflict
		}
		record.Version = 1
		return nil
	}

	query := DB.Rebind(`
		UPDATE masteries SET
			mastery_score = ?,
			last_reviewed_at = ?,
			review_count = ?,
			version = version + 1,
			updated_at = CURRENT_TIMESTAMP
		WHERE user_id = ? AND topic_id = ? AND version = ?
	`)
	result, err := DB.ExecContext(ctx, query,
		record.Score,
		record.LastReviewedAt,
		record.ReviewCount,
		record.UserID,
		record.TopicID,
		expectedVersion,
	)
	if err != nil {
		return errors.Wrap(err, "update mastery record")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "update mastery record")
	}
	if affected == 0 {
		return engine.ErrVersionConflict
	}
	record.Version = expectedVersion + 1
	return nil
}
