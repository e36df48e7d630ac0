package events

import (
	"context"
	"encoding/json"
	"time"

	"tapcard-be/internal/entity"
	"tapcard-be/internal/pkg/logger"
	pkgEvents "tapcard-be/pkg/events"
	pkgNats "tapcard-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// Topic carries every entitlement event through the in-process bus.
const Topic = "ENTITLEMENT_EVENTS"

// Event type codes.
const (
	TypeCancelRequestProcessed = "CANCEL_REQUEST_PROCESSED"
	TypeTenantReactivated      = "TENANT_REACTIVATED"
	TypeAdminTransferred       = "ADMIN_TRANSFERRED"
	TypeIntegrityIssue         = "INTEGRITY_ISSUE"
	TypeTrialEndingSoon        = "TRIAL_ENDING_SOON"
	TypeGraceExpired           = "GRACE_EXPIRED"
)

// Envelope is the wire shape on the in-process bus.
type Envelope struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
}

// Publisher abstracts event publishing for entitlement operations.
type Publisher interface {
	PublishCancelRequestProcessed(ctx context.Context, requestId, subscriptionId, userId uuid.UUID, email, plan, status string, effectiveDate time.Time)
	PublishTenantReactivated(ctx context.Context, tenantId, actorId uuid.UUID, tenantName, adminEmail string)
	PublishAdminTransferred(ctx context.Context, tenantId, fromId, toId uuid.UUID)
	PublishIntegrityIssues(ctx context.Context, issues []entity.IntegrityIssue)
	PublishTrialEndingSoon(ctx context.Context, userId uuid.UUID, email string, daysRemaining int)
	PublishGraceExpired(ctx context.Context, userId uuid.UUID, email string)
}

// BusPublisher delivers events on the watermill in-process bus and mirrors
// them to NATS when an external publisher is configured. A nil NATS
// publisher disables mirroring; in-process delivery never depends on it.
type BusPublisher struct {
	pubSub *gochannel.GoChannel
	nats   *pkgNats.Publisher
	logger logger.ILogger
}

func NewBusPublisher(pubSub *gochannel.GoChannel, nats *pkgNats.Publisher, log logger.ILogger) *BusPublisher {
	return &BusPublisher{pubSub: pubSub, nats: nats, logger: log}
}

func (p *BusPublisher) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	env := Envelope{Type: eventType, Data: data, OccurredAt: time.Now()}

	payload, err := json.Marshal(env)
	if err != nil {
		p.logger.Error("EVENTS", "Failed to marshal event", map[string]interface{}{"type": eventType, "error": err.Error()})
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := p.pubSub.Publish(Topic, msg); err != nil {
		p.logger.Error("EVENTS", "Failed to publish event on bus", map[string]interface{}{"type": eventType, "error": err.Error()})
	}

	if p.nats != nil {
		evt := pkgEvents.BaseEvent{Type: eventType, Data: data, OccurredAt: env.OccurredAt}
		if err := p.nats.Publish(ctx, evt); err != nil {
			p.logger.Error("EVENTS", "Failed to mirror event to NATS", map[string]interface{}{"type": eventType, "error": err.Error()})
		}
	}
}

func (p *BusPublisher) PublishCancelRequestProcessed(ctx context.Context, requestId, subscriptionId, userId uuid.UUID, email, plan, status string, effectiveDate time.Time) {
	p.publish(ctx, TypeCancelRequestProcessed, map[string]interface{}{
		"request_id":      requestId.String(),
		"subscription_id": subscriptionId.String(),
		"user_id":         userId.String(),
		"email":           email,
		"plan":            plan,
		"status":          status,
		"effective_date":  effectiveDate,
	})
}

func (p *BusPublisher) PublishTenantReactivated(ctx context.Context, tenantId, actorId uuid.UUID, tenantName, adminEmail string) {
	p.publish(ctx, TypeTenantReactivated, map[string]interface{}{
		"tenant_id":   tenantId.String(),
		"actor_id":    actorId.String(),
		"tenant_name": tenantName,
		"admin_email": adminEmail,
	})
}

func (p *BusPublisher) PublishAdminTransferred(ctx context.Context, tenantId, fromId, toId uuid.UUID) {
	p.publish(ctx, TypeAdminTransferred, map[string]interface{}{
		"tenant_id": tenantId.String(),
		"from_id":   fromId.String(),
		"to_id":     toId.String(),
	})
}

func (p *BusPublisher) PublishIntegrityIssues(ctx context.Context, issues []entity.IntegrityIssue) {
	for _, issue := range issues {
		p.publish(ctx, TypeIntegrityIssue, map[string]interface{}{
			"kind":            string(issue.Kind),
			"user_id":         issue.UserId.String(),
			"tenant_id":       issue.TenantId.String(),
			"subscription_id": issue.SubscriptionId.String(),
			"detail":          issue.Detail,
		})
	}
}

func (p *BusPublisher) PublishTrialEndingSoon(ctx context.Context, userId uuid.UUID, email string, daysRemaining int) {
	p.publish(ctx, TypeTrialEndingSoon, map[string]interface{}{
		"user_id":        userId.String(),
		"email":          email,
		"days_remaining": daysRemaining,
	})
}

func (p *BusPublisher) PublishGraceExpired(ctx context.Context, userId uuid.UUID, email string) {
	p.publish(ctx, TypeGraceExpired, map[string]interface{}{
		"user_id": userId.String(),
		"email":   email,
	})
}
