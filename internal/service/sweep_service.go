package service

import (
	"context"
	"time"

	"tapcard-be/internal/entity"
	"tapcard-be/internal/pkg/logger"
	"tapcard-be/internal/repository/unitofwork"
	"tapcard-be/pkg/entitlement/idempotency"
	"tapcard-be/pkg/entitlement/lifecycle"

	"github.com/google/uuid"
)

const (
	actionTrialReminder = "trial_reminder"
	actionGraceExpire   = "grace_expire"
)

// ISweepService runs the periodic lifecycle jobs: trial-ending reminders and
// grace-window expiry. Each affected user is handled in its own transaction
// so one bad row never stalls the rest of the batch.
type ISweepService interface {
	SweepTrialReminders(ctx context.Context) (int, error)
	SweepGraceExpired(ctx context.Context) (int, error)
	Run(ctx context.Context, interval time.Duration)
}

type sweepService struct {
	uowFactory   unitofwork.RepositoryFactory
	entitlement  IEntitlementService
	guard        *idempotency.Guard
	publisher    eventsPublisher
	logger       logger.ILogger
	reminderDays int
	now          func() time.Time
}

// eventsPublisher is the subset of the bus publisher the sweeps need.
type eventsPublisher interface {
	PublishTrialEndingSoon(ctx context.Context, userId uuid.UUID, email string, daysRemaining int)
	PublishGraceExpired(ctx context.Context, userId uuid.UUID, email string)
}

func NewSweepService(
	uowFactory unitofwork.RepositoryFactory,
	entitlementService IEntitlementService,
	guard *idempotency.Guard,
	publisher eventsPublisher,
	log logger.ILogger,
	reminderDays int,
) ISweepService {
	return &sweepService{
		uowFactory:   uowFactory,
		entitlement:  entitlementService,
		guard:        guard,
		publisher:    publisher,
		logger:       log,
		reminderDays: reminderDays,
		now:          time.Now,
	}
}

// Run drives both sweeps on a fixed interval until the context ends.
func (s *sweepService) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.sweepOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweepOnce(ctx)
		}
	}
}

func (s *sweepService) sweepOnce(ctx context.Context) {
	if n, err := s.SweepTrialReminders(ctx); err != nil {
		s.logger.Error("SWEEP", "Trial reminder sweep failed", map[string]interface{}{"error": err.Error()})
	} else if n > 0 {
		s.logger.Info("SWEEP", "Trial reminders sent", map[string]interface{}{"count": n})
	}
	if n, err := s.SweepGraceExpired(ctx); err != nil {
		s.logger.Error("SWEEP", "Grace expiry sweep failed", map[string]interface{}{"error": err.Error()})
	} else if n > 0 {
		s.logger.Info("SWEEP", "Grace windows expired", map[string]interface{}{"count": n})
	}
}

// SweepTrialReminders notifies users whose trial ends within the configured
// reminder window. The guard keeps one reminder per user per window even
// when sweeps overlap.
func (s *sweepService) SweepTrialReminders(ctx context.Context) (int, error) {
	now := s.now()
	uow := s.uowFactory.NewUnitOfWork(ctx)

	users, err := uow.UserRepository().FindTrialEndingBetween(ctx, now, now.AddDate(0, 0, s.reminderDays))
	if err != nil {
		return 0, entity.WrapDomainError(entity.ErrKindUpstreamUnavailable, "query ending trials", err)
	}

	sent := 0
	for _, user := range users {
		if user.TrialEndsAt == nil {
			continue
		}
		key := idempotency.Key(user.Id, actionTrialReminder)
		if _, found := s.guard.Check(key); found {
			continue
		}
		days := int(user.TrialEndsAt.Sub(now).Hours()/24) + 1
		s.publisher.PublishTrialEndingSoon(ctx, user.Id, user.Email, days)
		s.guard.Record(key, actionTrialReminder, now)
		sent++
	}
	return sent, nil
}

// SweepGraceExpired demotes users whose grace window has fully elapsed. Each
// user gets its own transaction; a failure is logged and the sweep moves on.
func (s *sweepService) SweepGraceExpired(ctx context.Context) (int, error) {
	now := s.now()
	cutoff := now.AddDate(0, 0, -lifecycle.GracePeriodDays)

	listUow := s.uowFactory.NewUnitOfWork(ctx)
	users, err := listUow.UserRepository().FindGraceExpired(ctx, cutoff)
	if err != nil {
		return 0, entity.WrapDomainError(entity.ErrKindUpstreamUnavailable, "query expired grace windows", err)
	}

	expired := 0
	for _, user := range users {
		if err := s.expireOne(ctx, user); err != nil {
			s.logger.Error("SWEEP", "Failed to expire grace window", map[string]interface{}{
				"user_id": user.Id.String(), "error": err.Error(),
			})
			continue
		}
		expired++
	}
	return expired, nil
}

func (s *sweepService) expireOne(ctx context.Context, user *entity.User) error {
	key := idempotency.Key(user.Id, actionGraceExpire)
	if _, found := s.guard.Check(key); found {
		return nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = uow.Rollback()
		}
	}()

	if err := uow.UserRepository().UpdateSubscriptionStatus(ctx, user.Id, entity.UserSubscriptionGraceExpired); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}
	committed = true

	s.guard.Record(key, string(entity.UserSubscriptionGraceExpired), s.now())
	s.entitlement.Invalidate(ctx, user.Id)
	s.publisher.PublishGraceExpired(ctx, user.Id, user.Email)
	return nil
}
