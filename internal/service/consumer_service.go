package service

import (
	"context"
	"encoding/json"
	"time"

	"tapcard-be/internal/entity"
	"tapcard-be/internal/pkg/logger"
	"tapcard-be/internal/pkg/mailer"
	"tapcard-be/internal/repository/unitofwork"
	entEvents "tapcard-be/pkg/entitlement/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// ConsumerService drains the entitlement event bus. Notification events
// become emails; integrity events become the deferred repairs the read path
// only detected. Processing failures are logged and the message is acked
// anyway, the next resolve re-detects anything still broken.
type ConsumerService struct {
	pubSub     *gochannel.GoChannel
	uowFactory unitofwork.RepositoryFactory
	mailer     mailer.IEmailService
	logger     logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	uowFactory unitofwork.RepositoryFactory,
	emailService mailer.IEmailService,
	log logger.ILogger,
) *ConsumerService {
	return &ConsumerService{
		pubSub:     pubSub,
		uowFactory: uowFactory,
		mailer:     emailService,
		logger:     log,
	}
}

// Start subscribes to the bus and processes events until the context ends.
func (s *ConsumerService) Start(ctx context.Context) error {
	messages, err := s.pubSub.Subscribe(ctx, entEvents.Topic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			s.handle(ctx, msg)
			msg.Ack()
		}
	}()

	s.logger.Info("CONSUMER", "Entitlement event consumer started", nil)
	return nil
}

func (s *ConsumerService) handle(ctx context.Context, msg *message.Message) {
	var env entEvents.Envelope
	if err := json.Unmarshal(msg.Payload, &env); err != nil {
		s.logger.Error("CONSUMER", "Malformed event payload", map[string]interface{}{"error": err.Error()})
		return
	}

	var err error
	switch env.Type {
	case entEvents.TypeCancelRequestProcessed:
		err = s.onCancelRequestProcessed(env.Data)
	case entEvents.TypeTenantReactivated:
		err = s.onTenantReactivated(env.Data)
	case entEvents.TypeTrialEndingSoon:
		err = s.onTrialEndingSoon(env.Data)
	case entEvents.TypeGraceExpired:
		err = s.onGraceExpired(env.Data)
	case entEvents.TypeIntegrityIssue:
		err = s.onIntegrityIssue(ctx, env.Data)
	case entEvents.TypeAdminTransferred:
		// Informational only, mirrored to NATS for downstream consumers.
	default:
		s.logger.Warn("CONSUMER", "Unknown event type", map[string]interface{}{"type": env.Type})
	}

	if err != nil {
		s.logger.Error("CONSUMER", "Event handling failed", map[string]interface{}{
			"type": env.Type, "error": err.Error(),
		})
	}
}

func (s *ConsumerService) onCancelRequestProcessed(data map[string]interface{}) error {
	email := stringField(data, "email")
	if email == "" {
		return nil
	}
	effective, _ := time.Parse(time.RFC3339, stringField(data, "effective_date"))
	return s.mailer.SendCancellationProcessed(email, stringField(data, "plan"), stringField(data, "status"), effective)
}

func (s *ConsumerService) onTenantReactivated(data map[string]interface{}) error {
	email := stringField(data, "admin_email")
	if email == "" {
		return nil
	}
	return s.mailer.SendTenantReactivated(email, stringField(data, "tenant_name"))
}

func (s *ConsumerService) onTrialEndingSoon(data map[string]interface{}) error {
	email := stringField(data, "email")
	if email == "" {
		return nil
	}
	days := 0
	if v, ok := data["days_remaining"].(float64); ok {
		days = int(v)
	}
	return s.mailer.SendTrialEndingReminder(email, days)
}

func (s *ConsumerService) onGraceExpired(data map[string]interface{}) error {
	email := stringField(data, "email")
	if email == "" {
		return nil
	}
	return s.mailer.SendGraceExpired(email)
}

// onIntegrityIssue persists the repair the resolver computed in memory. The
// resolver never writes, so stored state converges here instead.
func (s *ConsumerService) onIntegrityIssue(ctx context.Context, data map[string]interface{}) error {
	kind := entity.IntegrityIssueKind(stringField(data, "kind"))
	userId, err := uuid.Parse(stringField(data, "user_id"))
	if err != nil {
		return err
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

	switch kind {
	case entity.IssueDiscardedMemberPtr, entity.IssueUnrepairableOrphan, entity.IssueSuspendedInviteFound:
		// Admin side won, or the member hint points nowhere usable: drop the
		// stale member pointer.
		if err := uow.UserRepository().DetachTenant(ctx, userId); err != nil {
			return err
		}
	case entity.IssueRepairedFromInvite:
		tenantId, perr := uuid.Parse(stringField(data, "tenant_id"))
		if perr != nil {
			return perr
		}
		if err := uow.UserRepository().AttachTenant(ctx, userId, tenantId, entity.CorporateHintMember); err != nil {
			return err
		}
	case entity.IssueStrayPendingSub:
		subId, perr := uuid.Parse(stringField(data, "subscription_id"))
		if perr != nil {
			return perr
		}
		if err := uow.SubscriptionRepository().Delete(ctx, subId); err != nil {
			return err
		}
	}

	// Every issue leaves an audit row, even the purely informational ones.
	if err := uow.IntegrityRepository().CreateFlag(ctx, userId, kind, data); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}
	committed = true

	s.logger.Info("CONSUMER", "Integrity issue handled", map[string]interface{}{
		"kind": string(kind), "user_id": userId.String(),
	})
	return nil
}

func stringField(data map[string]interface{}, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	return ""
}
