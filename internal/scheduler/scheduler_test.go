package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mehran-shabani/Adaptive-Medical-Learning-System/internal/engine"
	"github.com/mehran-shabani/Adaptive-Medical-Learning-System/pkg/models"
)

type fakePlanner struct {
	plans   map[int64]*models.StudyPlan
	errs    map[int64]error
	calls   []int64
	budgets []int
}

func (p *fakePlanner) BuildPlan(_ context.Context, userID int64, budgetMinutes int, _ engine.PlanOptions) (*models.StudyPlan, error) {
	p.calls = append(p.calls, userID)
	p.budgets = append(p.budgets, budgetMinutes)
	if err, ok := p.errs[userID]; ok {
		return nil, err
	}
	return p.plans[userID], nil
}

type fakeSubs struct {
	subs []models.PlanSubscription
	err  error
}

func (s *fakeSubs) GetDueForHour(context.Context, int) ([]models.PlanSubscription, error) {
	return s.subs, s.err
}

type fakeNotifier struct {
	sent []int64
	err  error
}

func (n *fakeNotifier) SendPlan(chatID int64, _ *models.StudyPlan) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, chatID)
	return nil
}

func planWithBlocks(n int) *models.StudyPlan {
	plan := &models.StudyPlan{ID: "p1"}
	for i := 0; i < n; i++ {
		plan.Blocks = append(plan.Blocks, models.StudyBlock{TopicID: int64(i + 1), Minutes: 30})
	}
	return plan
}

func TestDeliverDuePlansSendsToEachSubscriber(t *testing.T) {
	planner := &fakePlanner{plans: map[int64]*models.StudyPlan{
		1: planWithBlocks(2),
		2: planWithBlocks(1),
	}}
	subs := &fakeSubs{subs: []models.PlanSubscription{
		{UserID: 1, ChatID: 100, PlanMinutes: 120},
		{UserID: 2, ChatID: 200, PlanMinutes: 60},
	}}
	notifier := &fakeNotifier{}

	s := New(planner, subs, notifier, 120, nil)
	s.DeliverDuePlans(context.Background(), 9)

	assert.Equal(t, []int64{1, 2}, planner.calls)
	assert.Equal(t, []int64{100, 200}, notifier.sent)
}

func TestDeliverDuePlansFallsBackToDefaultBudget(t *testing.T) {
	planner := &fakePlanner{plans: map[int64]*models.StudyPlan{1: planWithBlocks(1)}}
	subs := &fakeSubs{subs: []models.PlanSubscription{{UserID: 1, ChatID: 100, PlanMinutes: 0}}}
	notifier := &fakeNotifier{}

	s := New(planner, subs, notifier, 120, nil)
	s.DeliverDuePlans(context.Background(), 9)

	assert.Equal(t, []int{120}, planner.budgets)
}

func TestDeliverDuePlansSkipsEmptyPlans(t *testing.T) {
	planner := &fakePlanner{plans: map[int64]*models.StudyPlan{1: planWithBlocks(0)}}
	subs := &fakeSubs{subs: []models.PlanSubscription{{UserID: 1, ChatID: 100, PlanMinutes: 5}}}
	notifier := &fakeNotifier{}

	s := New(planner, subs, notifier, 120, nil)
	s.DeliverDuePlans(context.Background(), 9)

	require.Len(t, planner.calls, 1)
	assert.Empty(t, notifier.sent)
}

func TestDeliverDuePlansFailureDoesNotBlockOthers(t *testing.T) {
	planner := &fakePlanner{
		plans: map[int64]*models.StudyPlan{2: planWithBlocks(1)},
		errs:  map[int64]error{1: errors.New("store down")},
	}
	subs := &fakeSubs{subs: []models.PlanSubscription{
		{UserID: 1, ChatID: 100, PlanMinutes: 120},
		{UserID: 2, ChatID: 200, PlanMinutes: 60},
	}}
	notifier := &fakeNotifier{}

	s := New(planner, subs, notifier, 120, nil)
	s.DeliverDuePlans(context.Background(), 9)

	assert.Equal(t, []int64{200}, notifier.sent)
}

func TestDeliverDuePlansSubscriptionLoadFailure(t *testing.T) {
	planner := &fakePlanner{}
	subs := &fakeSubs{err: errors.New("db down")}
	notifier := &fakeNotifier{}

	s := New(planner, subs, notifier, 120, nil)
	s.DeliverDuePlans(context.Background(), 9)

	assert.Empty(t, planner.calls)
	assert.Empty(t, notifier.sent)
}
