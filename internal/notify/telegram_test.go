package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mehran-shabani/Adaptive-Medical-Learning-System/pkg/models"
)

func TestFormatPlan(t *testing.T) {
	plan := &models.StudyPlan{
		AllocatedMinutes: 90,
		FocusAreas:       []string{"Sepsis", "Asthma"},
		Blocks: []models.StudyBlock{
			{
				TopicName:      "Sepsis",
				Priority:       models.PriorityHigh,
				Minutes:        60,
				ContentMinutes: 30,
				QuizMinutes:    30,
				Reason:         "Low mastery - needs foundational review",
			},
			{
				TopicName:      "Asthma",
				Priority:       models.PriorityMedium,
				Minutes:        30,
				ContentMinutes: 15,
				QuizMinutes:    15,
				Reason:         "Below target mastery",
			},
		},
	}

	text := FormatPlan(plan)
	assert.Contains(t, text, "Your study plan for today (90 min):")
	assert.Contains(t, text, "1. Sepsis: 60 min (30 content / 30 quiz, high priority)")
	assert.Contains(t, text, "2. Asthma: 30 min")
	assert.Contains(t, text, "Focus areas: Sepsis, Asthma")
}
