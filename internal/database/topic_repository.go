package database

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/mehran-shabani/Adaptive-Medical-Learning-System/pkg/models"
)

// TopicRepository handles database operations for the topic catalog. It
// implements engine.TopicCatalog.
type TopicRepository struct{}

// NewTopicRepository creates a new repository instance.
func NewTopicRepository() *TopicRepository {
	return &TopicRepository{}
}

// ListTopics returns every topic in the catalog, ordered by name.
func (r *TopicRepository) ListTopics(ctx context.Context) ([]models.Topic, error) {
	var topics []models.Topic
	query := `
		SELECT id, parent_id, name, system_name, description, created_at
		FROM topics
		ORDER BY name
	`
	if err := DB.SelectContext(ctx, &topics, query); err != nil {
		return nil, errors.Wrap(err, "list topics")
	}
	return topics, nil
}

// GetByID returns a topic by id, or nil when it does not exist.
func (r *TopicRepository) GetByID(ctx context.Context, topicID int64) (*models.Topic, error) {
	var topic models.Topic
	query := DB.Rebind(`
		SELECT id, parent_id, name, system_name, description, created_at
		FROM topics
		WHERE id = ?
	`)
	err := DB.GetContext(ctx, &topic, query, topicID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "get topic")
	}
	return &topic, nil
}

// GetByName returns a topic by exact name, or nil when it does not exist.
func (r *TopicRepository) GetByName(ctx context.Context, name string) (*models.Topic, error) {
	var topic models.Topic
	query := DB.Rebind(`
		SELECT id, parent_id, name, system_name, description, created_at
		FROM topics
		WHERE name = ?
	`)
	err := DB.GetContext(ctx, &topic, query, name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "get topic by name")
	}
	return &topic, nil
}

// Create inserts a new topic and fills in its generated id.
func (r *TopicRepository) Create(ctx context.Context, topic *models.Topic) error {
	if DB.DriverName() == "postgres" {
		query := `
			INSERT INTO topics (parent_id, name, system_name, description)
			VALUES ($1, $2, $3, $4)
			RETURNING id, created_at
		`
		err := DB.QueryRowContext(ctx, query,
			topic.ParentID, topic.Name, topic.SystemName, topic.Description,
		).Scan(&topic.ID, &topic.CreatedAt)
		return errors.Wrap(err, "create topic")
	}

	result, err := DB.ExecContext(ctx,
		`INSERT INTO topics (parent_id, name, system_name, description) VALUES (?, ?, ?, ?)`,
		topic.ParentID, topic.Name, topic.SystemName, topic.Description,
	)
	if err != nil {
		return errors.Wrap(err, "create topic")
	}
	id, err := result.LastInsertId()
	if err != nil {
		return errors.Wrap(err, "create topic")
	}
	topic.ID = id
	return nil
}
