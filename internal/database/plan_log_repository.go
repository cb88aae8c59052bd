package database

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/mehran-shabani/Adaptive-Medical-Learning-System/pkg/models"
)

// PlanLogRepository stores generated study plans for audit and history. It
// implements engine.PlanLog.
type PlanLogRepository struct{}

// NewPlanLogRepository creates a new repository instance.
func NewPlanLogRepository() *PlanLogRepository {
	return &PlanLogRepository{}
}

// Append records a generated plan. The engine treats this as fire-and-forget;
// a failure here never invalidates the plan already returned to the caller.
func (r *PlanLogRepository) Append(ctx context.Context, plan *models.StudyPlan) error {
	payload, err := json.Marshal(plan)
	if err != nil {
		return errors.Wrap(err, "marshal study plan")
	}

	query := DB.Rebind(`
		INSERT INTO study_plan_logs (
			plan_id, user_id, plan_json, requested_minutes, allocated_minutes, generated_at
		) VALUES (?, ?, ?, ?, ?, ?)
	`)
	_, err = DB.ExecContext(ctx, query,
		plan.ID,
		plan.UserID,
		string(payload),
		plan.RequestedMinutes,
		plan.AllocatedMinutes,
		plan.GeneratedAt,
	)
	return errors.Wrap(err, "append study plan log")
}

// GetRecent returns the user's latest plans, newest first.
func (r *PlanLogRepository) GetRecent(ctx context.Context, userID int64, limit int) ([]models.StudyPlan, error) {
	var payloads []string
	query := DB.Rebind(`
		SELECT plan_json FROM study_plan_logs
		WHERE user_id = ?
		ORDER BY generated_at DESC
		LIMIT ?
	`)
	if err := DB.SelectContext(ctx, &payloads, query, userID, limit); err != nil {
		return nil, errors.Wrap(err, "get recent study plans")
	}

	plans := make([]models.StudyPlan, 0, len(payloads))
	for _, payload := range payloads {
		var plan models.StudyPlan
		if err := json.Unmarshal([]byte(payload), &plan); err != nil {
			return nil, errors.Wrap(err, "unmarshal study plan")
		}
		plans = append(plans, plan)
	}
	return plans, nil
}
