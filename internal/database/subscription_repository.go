package database

import (
	"context"

	"github.com/pkg/errors"

	"github.com/mehran-shabani/Adaptive-Medical-Learning-System/pkg/models"
)

// SubscriptionRepository manages daily plan delivery subscriptions.
type SubscriptionRepository struct{}

// NewSubscriptionRepository creates a new repository instance.
func NewSubscriptionRepository() *SubscriptionRepository {
	return &SubscriptionRepository{}
}

// GetDueForHour returns the active subscriptions whose notify hour matches.
func (r *SubscriptionRepository) GetDueForHour(ctx context.Context, hour int) ([]models.PlanSubscription, error) {
	var subs []models.PlanSubscription
	query := DB.Rebind(`
		SELECT user_id, chat_id, notify_hour, plan_minutes, active, created_at, updated_at
		FROM plan_subscriptions
		WHERE active = ? AND notify_hour = ?
		ORDER BY user_id
	`)
	if err := DB.SelectContext(ctx, &subs, query, true, hour); err != nil {
		return nil, errors.Wrap(err, "get due subscriptions")
	}
	return subs, nil
}

// Upsert creates or replaces a user's subscription.
func (r *SubscriptionRepository) Upsert(ctx context.Context, sub *models.PlanSubscription) error {
	query := DB.Rebind(`
		INSERT INTO plan_subscriptions (user_id, chat_id, notify_hour, plan_minutes, active)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			chat_id = EXCLUDED.chat_id,
			notify_hour = EXCLUDED.notify_hour,
			plan_minutes = EXCLUDED.plan_minutes,
			active = EXCLUDED.active,
			updated_at = CURRENT_TIMESTAMP
	`)
	_, err := DB.ExecContext(ctx, query,
		sub.UserID, sub.ChatID, sub.NotifyHour, sub.PlanMinutes, sub.Active,
	)
	return errors.Wrap(err, "upsert plan subscription")
}

// Deactivate turns off delivery for a user without losing their settings.
func (r *SubscriptionRepository) Deactivate(ctx context.Context, userID int64) error {
	query := DB.Rebind(`
		UPDATE plan_subscriptions
		SET active = ?, updated_at = CURRENT_TIMESTAMP
		WHERE user_id = ?
	`)
	_, err := DB.ExecContext(ctx, query, false, userID)
	return errors.Wrap(err, "deactivate plan subscription")
}
