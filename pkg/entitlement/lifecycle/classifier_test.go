package lifecycle

import (
	"testing"
	"time"

	"tapcard-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func trialUser(trialEnd time.Time) *entity.User {
	return &entity.User{Id: uuid.New(), SubscriptionStatus: entity.UserSubscriptionTrialing, TrialEndsAt: &trialEnd}
}

func TestClassifyPermanentOverridesSuspension(t *testing.T) {
	user := &entity.User{Id: uuid.New(), SubscriptionStatus: entity.UserSubscriptionPermanent}
	suspended := &entity.Tenant{Id: uuid.New(), AccountStatus: entity.TenantStatusSuspended}

	res := Classify(Input{User: user, OwningTenant: suspended, Now: now})

	assert.Equal(t, entity.LifecyclePermanent, res.State.Kind)
}

func TestClassifySuspendedTenant(t *testing.T) {
	user := trialUser(now.AddDate(0, 0, 10))
	suspended := &entity.Tenant{Id: uuid.New(), AccountStatus: entity.TenantStatusSuspended}

	res := Classify(Input{User: user, OwningTenant: suspended, Now: now})

	assert.Equal(t, entity.LifecycleSuspended, res.State.Kind)
}

func TestClassifyTrialing(t *testing.T) {
	res := Classify(Input{User: trialUser(now.Add(36 * time.Hour)), Now: now})

	assert.Equal(t, entity.LifecycleTrialing, res.State.Kind)
	assert.Equal(t, 2, res.State.DaysRemaining, "partial days round up")
}

func TestClassifyGraceWindow(t *testing.T) {
	res := Classify(Input{User: trialUser(now.Add(-49 * time.Hour)), Now: now})

	assert.Equal(t, entity.LifecycleGrace, res.State.Kind)
	assert.Equal(t, GracePeriodDays-2, res.State.DaysRemaining)
}

func TestClassifyGraceExpired(t *testing.T) {
	res := Classify(Input{User: trialUser(now.AddDate(0, 0, -8)), Now: now})

	assert.Equal(t, entity.LifecyclePastDue, res.State.Kind)
}

func TestClassifyNilTrialEndReadsAsPastDue(t *testing.T) {
	user := &entity.User{Id: uuid.New(), SubscriptionStatus: entity.UserSubscriptionTrialing}

	res := Classify(Input{User: user, Now: now})

	assert.Equal(t, entity.LifecyclePastDue, res.State.Kind)
}

func TestClassifyActiveSubscription(t *testing.T) {
	user := trialUser(now.AddDate(0, 0, -30))
	sub := &entity.Subscription{Id: uuid.New(), Status: entity.SubscriptionStatusActive}

	res := Classify(Input{User: user, Subscription: sub, Now: now})

	assert.Equal(t, entity.LifecycleActive, res.State.Kind)
}

func TestClassifyCanceledPendingCarriesEffectiveDate(t *testing.T) {
	periodEnd := now.AddDate(0, 0, 12)
	sub := &entity.Subscription{
		Id:                uuid.New(),
		Status:            entity.SubscriptionStatusActive,
		CancelAtPeriodEnd: true,
		CurrentPeriodEnd:  periodEnd,
	}

	res := Classify(Input{User: trialUser(now.AddDate(0, 0, -30)), Subscription: sub, Now: now})

	assert.Equal(t, entity.LifecycleCanceledPending, res.State.Kind)
	assert.Equal(t, periodEnd, res.State.EffectiveAt)
}

func TestClassifyLapsedSubscriptionStatuses(t *testing.T) {
	for _, status := range []entity.SubscriptionStatus{entity.SubscriptionStatusPastDue, entity.SubscriptionStatusCanceled} {
		sub := &entity.Subscription{Id: uuid.New(), Status: status}
		res := Classify(Input{User: trialUser(now.AddDate(0, 0, -30)), Subscription: sub, Now: now})
		assert.Equal(t, entity.LifecyclePastDue, res.State.Kind, "status %s", status)
	}
}

func TestClassifyPendingSubscriptionIsIgnoredAndFlagged(t *testing.T) {
	user := trialUser(now.AddDate(0, 0, 5))
	sub := &entity.Subscription{Id: uuid.New(), Status: entity.SubscriptionStatusPending}

	res := Classify(Input{User: user, Subscription: sub, Now: now})

	assert.Equal(t, entity.LifecycleTrialing, res.State.Kind, "trial window stays authoritative")
	if assert.Len(t, res.Issues, 1) {
		assert.Equal(t, entity.IssueStrayPendingSub, res.Issues[0].Kind)
		assert.Equal(t, sub.Id, res.Issues[0].SubscriptionId)
	}
}
