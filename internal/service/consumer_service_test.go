package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"tapcard-be/internal/entity"
	entEvents "tapcard-be/pkg/entitlement/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingMailer struct {
	cancellations []string
	reactivations []string
	reminders     []string
	expirations   []string
}

func (m *recordingMailer) SendCancellationProcessed(toEmail, planName, status string, effectiveDate time.Time) error {
	m.cancellations = append(m.cancellations, toEmail)
	return nil
}

func (m *recordingMailer) SendTenantReactivated(toEmail, tenantName string) error {
	m.reactivations = append(m.reactivations, toEmail)
	return nil
}

func (m *recordingMailer) SendTrialEndingReminder(toEmail string, daysRemaining int) error {
	m.reminders = append(m.reminders, toEmail)
	return nil
}

func (m *recordingMailer) SendGraceExpired(toEmail string) error {
	m.expirations = append(m.expirations, toEmail)
	return nil
}

func envelopeMessage(t *testing.T, eventType string, data map[string]interface{}) *message.Message {
	t.Helper()
	payload, err := json.Marshal(entEvents.Envelope{Type: eventType, Data: data, OccurredAt: time.Now()})
	require.NoError(t, err)
	return message.NewMessage(watermill.NewUUID(), payload)
}

func newConsumerFixture(store *fakeStore) (*ConsumerService, *recordingMailer) {
	m := &recordingMailer{}
	return NewConsumerService(nil, &fakeFactory{store: store}, m, nopLogger{}), m
}

func TestConsumerSendsCancellationMail(t *testing.T) {
	svc, m := newConsumerFixture(newFakeStore())

	svc.handle(context.Background(), envelopeMessage(t, entEvents.TypeCancelRequestProcessed, map[string]interface{}{
		"email":  "leaving@personal.example",
		"plan":   "monthly",
		"status": "approved",
	}))

	assert.Equal(t, []string{"leaving@personal.example"}, m.cancellations)
}

func TestConsumerSendsLifecycleMails(t *testing.T) {
	svc, m := newConsumerFixture(newFakeStore())
	ctx := context.Background()

	svc.handle(ctx, envelopeMessage(t, entEvents.TypeTenantReactivated, map[string]interface{}{
		"admin_email": "owner@acme.example", "tenant_name": "Acme Corp",
	}))
	svc.handle(ctx, envelopeMessage(t, entEvents.TypeTrialEndingSoon, map[string]interface{}{
		"email": "soon@personal.example", "days_remaining": float64(2),
	}))
	svc.handle(ctx, envelopeMessage(t, entEvents.TypeGraceExpired, map[string]interface{}{
		"email": "lapsed@personal.example",
	}))

	assert.Equal(t, []string{"owner@acme.example"}, m.reactivations)
	assert.Equal(t, []string{"soon@personal.example"}, m.reminders)
	assert.Equal(t, []string{"lapsed@personal.example"}, m.expirations)
}

// Cleanup for a discarded member pointer: the stale pointer is detached and
// an audit flag is written.
func TestConsumerDetachesDiscardedMemberPointer(t *testing.T) {
	store := newFakeStore()
	tenantId := uuid.New()
	hint := entity.CorporateHintMember
	user := &entity.User{Id: uuid.New(), TenantId: &tenantId, CorporateRoleHint: &hint}
	store.users[user.Id] = user

	svc, _ := newConsumerFixture(store)

	svc.handle(context.Background(), envelopeMessage(t, entEvents.TypeIntegrityIssue, map[string]interface{}{
		"kind":    string(entity.IssueDiscardedMemberPtr),
		"user_id": user.Id.String(),
	}))

	assert.Nil(t, store.users[user.Id].TenantId)
	assert.Contains(t, store.integrityFlags, entity.IssueDiscardedMemberPtr)
}

func TestConsumerPersistsInvitationRepair(t *testing.T) {
	store := newFakeStore()
	user := &entity.User{Id: uuid.New()}
	store.users[user.Id] = user
	tenantId := uuid.New()

	svc, _ := newConsumerFixture(store)

	svc.handle(context.Background(), envelopeMessage(t, entEvents.TypeIntegrityIssue, map[string]interface{}{
		"kind":      string(entity.IssueRepairedFromInvite),
		"user_id":   user.Id.String(),
		"tenant_id": tenantId.String(),
	}))

	stored := store.users[user.Id]
	require.NotNil(t, stored.TenantId)
	assert.Equal(t, tenantId, *stored.TenantId)
	require.NotNil(t, stored.CorporateRoleHint)
	assert.Equal(t, entity.CorporateHintMember, *stored.CorporateRoleHint)
}

func TestConsumerDeletesStrayPendingSubscription(t *testing.T) {
	store := newFakeStore()
	user := &entity.User{Id: uuid.New()}
	store.users[user.Id] = user
	sub := &entity.Subscription{Id: uuid.New(), OwnerId: user.Id, OwnerType: entity.OwnerTypeUser, Status: entity.SubscriptionStatusPending}
	store.subscriptions[sub.Id] = sub

	svc, _ := newConsumerFixture(store)

	svc.handle(context.Background(), envelopeMessage(t, entEvents.TypeIntegrityIssue, map[string]interface{}{
		"kind":            string(entity.IssueStrayPendingSub),
		"user_id":         user.Id.String(),
		"subscription_id": sub.Id.String(),
	}))

	_, exists := store.subscriptions[sub.Id]
	assert.False(t, exists)
	assert.Contains(t, store.integrityFlags, entity.IssueStrayPendingSub)
}

func TestConsumerIgnoresUnknownEventTypes(t *testing.T) {
	svc, m := newConsumerFixture(newFakeStore())

	svc.handle(context.Background(), envelopeMessage(t, "SOMETHING_ELSE", map[string]interface{}{}))

	assert.Empty(t, m.cancellations)
}
