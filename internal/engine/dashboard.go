package engine

import (
	"context"
	"fmt"
	"sort"

	"github.com/mehran-shabani/Adaptive-Medical-Learning-System/pkg/models"
)

// TopicMastery is one dashboard row: a mastery record joined with its topic.
type TopicMastery struct {
	TopicID        int64   `json:"topic_id"`
	TopicName      string  `json:"topic_name"`
	SystemName     string  `json:"system_name"`
	Score          float64 `json:"mastery_score"`
	ReviewCount    int     `json:"review_count"`
	LastReviewedAt string  `json:"last_reviewed_at,omitempty"`
}

// SystemSummary aggregates mastery per body system.
type SystemSummary struct {
	Count          int     `json:"count"`
	AverageMastery float64 `json:"average_mastery"`
}

// Dashboard is a read-only summary of a user's mastery across all topics.
type Dashboard struct {
	UserID         int64                    `json:"user_id"`
	OverallMastery float64                  `json:"overall_mastery"`
	TotalTopics    int                      `json:"total_topics"`
	StrongTopics   []TopicMastery           `json:"strong_topics"`
	WeakTopics     []TopicMastery           `json:"weak_topics"`
	RecentActivity []TopicMastery           `json:"recent_activity"`
	BySystem       map[string]SystemSummary `json:"by_system"`
}

const dashboardTopN = 10

// BuildDashboard summarizes the user's mastery: overall average, strong and
// weak topics split at the target threshold, latest activity, and per-system
// averages. It is a pure composition over the store and catalog snapshots.
func (e *Engine) BuildDashboard(ctx context.Context, userID int64) (*Dashboard, error) {
	records, err := e.store.GetAll(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load mastery records: %w", err)
	}

	dash := &Dashboard{
		UserID:         userID,
		StrongTopics:   []TopicMastery{},
		WeakTopics:     []TopicMastery{},
		RecentActivity: []TopicMastery{},
		BySystem:       map[string]SystemSummary{},
	}
	if len(records) == 0 {
		return dash, nil
	}

	topics, err := e.catalog.ListTopics(ctx)
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	topicByID := make(map[int64]models.Topic, len(topics))
	for _, t := range topics {
		topicByID[t.ID] = t
	}

	rows := make([]TopicMastery, 0, len(records))
	scoreSum := 0.0
	for _, rec := range records {
		topic, ok := topicByID[rec.TopicID]
		if !ok {
			// Record for a topic no longer in the catalog; skip it.
			continue
		}
		row := TopicMastery{
			TopicID:     rec.TopicID,
			TopicName:   topic.Name,
			SystemName:  topic.SystemName,
			Score:       rec.Score,
			ReviewCount: rec.ReviewCount,
		}
		if rec.LastReviewedAt != nil {
			row.LastReviewedAt = rec.LastReviewedAt.UTC().Format("2006-01-02T15:04:05Z")
		}
		rows = append(rows, row)
		scoreSum += rec.Score
	}
	if len(rows) == 0 {
		return dash, nil
	}

	dash.TotalTopics = len(rows)
	dash.OverallMastery = scoreSum / float64(len(rows))

	for _, row := range rows {
		if row.Score >= e.cfg.TargetScore {
			dash.StrongTopics = append(dash.StrongTopics, row)
		} else {
			dash.WeakTopics = append(dash.WeakTopics, row)
		}

		system := row.SystemName
		if system == "" {
			system = "General"
		}
		summary := dash.BySystem[system]
		summary.AverageMastery = (summary.AverageMastery*float64(summary.Count) + row.Score) / float64(summary.Count+1)
		summary.Count++
		dash.BySystem[system] = summary
	}

	// Strongest first; weakest first; most recent first.
	sort.Slice(dash.StrongTopics, func(i, j int) bool {
		return dash.StrongTopics[i].Score > dash.StrongTopics[j].Score
	})
	sort.Slice(dash.WeakTopics, func(i, j int) bool {
		return dash.WeakTopics[i].Score < dash.WeakTopics[j].Score
	})

	for _, row := range rows {
		if row.LastReviewedAt != "" {
			dash.RecentActivity = append(dash.RecentActivity, row)
		}
	}
	sort.Slice(dash.RecentActivity, func(i, j int) bool {
		return dash.RecentActivity[i].LastReviewedAt > dash.RecentActivity[j].LastReviewedAt
	})

	dash.StrongTopics = truncateRows(dash.StrongTopics, dashboardTopN)
	dash.WeakTopics = truncateRows(dash.WeakTopics, dashboardTopN)
	dash.RecentActivity = truncateRows(dash.RecentActivity, dashboardTopN)
	return dash, nil
}

func truncateRows(rows []TopicMastery, n int) []TopicMastery {
	if len(rows) > n {
		return rows[:n]
	}
	return rows
}
