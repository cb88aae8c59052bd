package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/mehran-shabani/Adaptive-Medical-Learning-System/internal/engine"
	"github.com/mehran-shabani/Adaptive-Medical-Learning-System/pkg/models"
)

// PlanBuilder produces a study plan for one user. Satisfied by *engine.Engine.
type PlanBuilder interface {
	BuildPlan(ctx context.Context, userID int64, budgetMinutes int, opts engine.PlanOptions) (*models.StudyPlan, error)
}

// SubscriptionSource lists the subscriptions due for delivery at a given hour.
type SubscriptionSource interface {
	GetDueForHour(ctx context.Context, hour int) ([]models.PlanSubscription, error)
}

// Notifier delivers a generated plan to a subscriber's channel.
type Notifier interface {
	SendPlan(chatID int64, plan *models.StudyPlan) error
}

// Scheduler drives the daily plan delivery: an hourly tick builds a fresh plan
// for every subscription whose notify hour has arrived.
type Scheduler struct {
	scheduler      *gocron.Scheduler
	planner        PlanBuilder
	subs           SubscriptionSource
	notifier       Notifier
	defaultMinutes int
	log            *zap.SugaredLogger
}

// New creates a scheduler instance. defaultMinutes is the plan budget used for
// subscriptions that don't carry their own.
func New(planner PlanBuilder, subs SubscriptionSource, notifier Notifier, defaultMinutes int, log *zap.SugaredLogger) *Scheduler {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Scheduler{
		scheduler:      gocron.NewScheduler(time.UTC),
		planner:        planner,
		subs:           subs,
		notifier:       notifier,
		defaultMinutes: defaultMinutes,
		log:            log,
	}
}

// Start begins running the hourly delivery check in the background.
func (s *Scheduler) Start() {
	s.scheduler.Every(1).Hour().Do(func() {
		s.DeliverDuePlans(context.Background(), time.Now().UTC().Hour())
	})
	s.scheduler.StartAsync()
}

// Stop terminates all scheduled tasks.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// DeliverDuePlans builds and sends a plan for every subscription due at the
// given hour. A failure for one subscriber never blocks the others.
func (s *Scheduler) DeliverDuePlans(ctx context.Context, hour int) {
	subs, err := s.subs.GetDueForHour(ctx, hour)
	if err != nil {
		s.log.Errorw("failed to load due subscriptions", "hour", hour, "error", err)
		return
	}

	for _, sub := range subs {
		if err := s.deliver(ctx, sub); err != nil {
			s.log.Errorw("failed to deliver daily plan",
				"user_id", sub.UserID, "chat_id", sub.ChatID, "error", err)
		}
	}
}

func (s *Scheduler) deliver(ctx context.Context, sub models.PlanSubscription) error {
	minutes := sub.PlanMinutes
	if minutes <= 0 {
		minutes = s.defaultMinutes
	}
	plan, err := s.planner.BuildPlan(ctx, sub.UserID, minutes, engine.PlanOptions{})
	if err != nil {
		return err
	}
	if len(plan.Blocks) == 0 {
		// Nothing actionable today; stay quiet rather than sending an empty plan.
		s.log.Infow("skipping empty daily plan", "user_id", sub.UserID)
		return nil
	}
	if err := s.notifier.SendPlan(sub.ChatID, plan); err != nil {
		return err
	}
	s.log.Infow("daily plan delivered",
		"user_id", sub.UserID, "plan_id", plan.ID, "blocks", len(plan.Blocks))
	return nil
}
